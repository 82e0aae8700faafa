package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/manifest"
)

func bootLocal(t *testing.T) *LocalRuntime {
	t.Helper()
	booter := &LocalBooter{BaseDir: t.TempDir(), Logger: logging.NewNop()}
	rt, err := booter.Boot(context.Background())
	require.NoError(t, err)
	local, ok := rt.(*LocalRuntime)
	require.True(t, ok)
	return local
}

func TestLocalMountWritesTree(t *testing.T) {
	rt := bootLocal(t)

	root := map[string]manifest.Entry{
		"package.json": {File: &manifest.FileSpec{Contents: `{"name":"app"}`}},
		"src": {Directory: &manifest.DirectorySpec{Entries: map[string]manifest.Entry{
			"main.jsx": {File: &manifest.FileSpec{Contents: "render()"}},
			"components": {Directory: &manifest.DirectorySpec{Entries: map[string]manifest.Entry{
				"Button.jsx": {File: &manifest.FileSpec{Contents: "button"}},
			}}},
		}}},
	}
	require.NoError(t, rt.Mount(context.Background(), root))

	got, err := os.ReadFile(filepath.Join(rt.WorkDir(), "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"app"}`, string(got))

	got, err = os.ReadFile(filepath.Join(rt.WorkDir(), "src", "components", "Button.jsx"))
	require.NoError(t, err)
	assert.Equal(t, "button", string(got))
}

func TestLocalMountOverwritesInPlace(t *testing.T) {
	rt := bootLocal(t)

	entry := func(contents string) map[string]manifest.Entry {
		return map[string]manifest.Entry{
			"src": {Directory: &manifest.DirectorySpec{Entries: map[string]manifest.Entry{
				"App.jsx": {File: &manifest.FileSpec{Contents: contents}},
			}}},
		}
	}

	require.NoError(t, rt.Mount(context.Background(), entry("v1")))
	require.NoError(t, rt.Mount(context.Background(), entry("v2")))

	got, err := os.ReadFile(filepath.Join(rt.WorkDir(), "src", "App.jsx"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestURLWatcherDetectsBoundAddress(t *testing.T) {
	rt := bootLocal(t)

	var gotURL string
	rt.OnServerReady(func(url string) { gotURL = url })

	w := &urlWatcher{runtime: rt}
	w.Write([]byte("  VITE v5.2.0  ready in 320 ms\n"))
	assert.Empty(t, gotURL, "no URL printed yet")

	w.Write([]byte("  > Local:   http://localhost:5173/\n"))
	assert.Equal(t, "http://localhost:5173/", gotURL)
}

func TestURLWatcherHandlesSplitWrites(t *testing.T) {
	rt := bootLocal(t)

	var gotURL string
	rt.OnServerReady(func(url string) { gotURL = url })

	w := &urlWatcher{runtime: rt}
	w.Write([]byte("Local: http://loc"))
	w.Write([]byte("alhost:3000/\n"))
	assert.Equal(t, "http://localhost:3000/", gotURL)
}

func TestURLWatcherFiresOnce(t *testing.T) {
	rt := bootLocal(t)

	var urls []string
	rt.OnServerReady(func(url string) { urls = append(urls, url) })

	w := &urlWatcher{runtime: rt}
	w.Write([]byte("http://localhost:5173/\n"))
	w.Write([]byte("http://localhost:9999/\n"))
	require.Len(t, urls, 1)
	assert.Equal(t, "http://localhost:5173/", urls[0])
}

func TestResetServerReadyDropsStaleAddressAndHooks(t *testing.T) {
	rt := bootLocal(t)

	w := &urlWatcher{runtime: rt}
	w.Write([]byte("http://localhost:4321/\n"))

	var stale []string
	rt.OnServerReady(func(url string) { stale = append(stale, url) })
	require.Equal(t, []string{"http://localhost:4321/"}, stale)

	// A new watched dev server starts: previous address and waiters are gone
	rt.resetServerReady()

	var got string
	rt.OnServerReady(func(url string) { got = url })
	assert.Empty(t, got, "hook after reset must wait for the new server")

	w2 := &urlWatcher{runtime: rt}
	w2.Write([]byte("http://localhost:9999/\n"))
	assert.Equal(t, "http://localhost:9999/", got)
	assert.Len(t, stale, 1, "hooks cleared by the reset never refire")
}

func TestOnServerReadyAfterDetectionFiresImmediately(t *testing.T) {
	rt := bootLocal(t)

	w := &urlWatcher{runtime: rt}
	w.Write([]byte("http://127.0.0.1:4000\n"))

	var gotURL string
	rt.OnServerReady(func(url string) { gotURL = url })
	assert.True(t, strings.HasPrefix(gotURL, "http://127.0.0.1:4000"))
}
