package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	presets, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, presets)

	names := make(map[string]Preset, len(presets))
	for _, p := range presets {
		names[p.Name] = p
	}

	for _, want := range []string{"react", "vue", "svelte"} {
		p, ok := names[want]
		require.True(t, ok, "catalog must contain %s", want)
		assert.NotEmpty(t, p.EntryCandidates, "%s needs entry candidates", want)
		assert.NotEmpty(t, p.DevScript, "%s needs a dev script", want)
		assert.Contains(t, p.DevDeps, "vite")
	}
}

func TestDefaultIsReact(t *testing.T) {
	p := Default()
	assert.Equal(t, "react", p.Name)
	assert.Contains(t, p.RuntimeDeps, "react")
	assert.Contains(t, p.RuntimeDeps, "react-dom")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"empty tree defaults to react", nil, "react"},
		{"plain tsx is react", []string{"src/App.tsx", "src/main.tsx"}, "react"},
		{"vue single-file component", []string{"src/App.vue", "src/main.js"}, "vue"},
		{"svelte component", []string{"src/App.svelte"}, "svelte"},
		{"vue wins over svelte", []string{"src/A.svelte", "src/B.vue"}, "vue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.paths).Name)
		})
	}
}
