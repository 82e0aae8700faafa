package scaffold

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset describes one framework's scaffold defaults
type Preset struct {
	Name             string            `yaml:"name"`
	EntryCandidates  []string          `yaml:"entry_candidates"`
	AppCandidates    []string          `yaml:"app_candidates"`
	RuntimeDeps      map[string]string `yaml:"runtime_deps"`
	DevDeps          map[string]string `yaml:"dev_deps"`
	DevScript        string            `yaml:"dev_script"`
	VitePluginImport string            `yaml:"vite_plugin_import"`
	VitePluginCall   string            `yaml:"vite_plugin_call"`
}

type catalog struct {
	Presets []Preset `yaml:"presets"`
}

var (
	loadOnce sync.Once
	loaded   []Preset
	loadErr  error
)

// Load parses the embedded preset catalog. Parsing happens once; the
// catalog is immutable afterwards.
func Load() ([]Preset, error) {
	loadOnce.Do(func() {
		var c catalog
		if err := yaml.Unmarshal(presetsYAML, &c); err != nil {
			loadErr = fmt.Errorf("failed to parse preset catalog: %w", err)
			return
		}
		loaded = c.Presets
	})
	return loaded, loadErr
}

// Default returns the react preset, the fallback when no framework is
// detected. The embedded catalog always contains it.
func Default() Preset {
	presets, err := Load()
	if err != nil || len(presets) == 0 {
		// Embedded catalog failed to parse; fall back to a hardcoded react preset
		return Preset{
			Name:            "react",
			EntryCandidates: []string{"src/main.tsx", "src/main.jsx", "main.tsx", "main.jsx"},
			AppCandidates:   []string{"App.tsx", "App.jsx"},
			RuntimeDeps:     map[string]string{"react": "latest", "react-dom": "latest"},
			DevDeps:         map[string]string{"vite": "latest", "@vitejs/plugin-react": "latest"},
			DevScript:       "vite --host",
			VitePluginImport: "import react from '@vitejs/plugin-react'",
			VitePluginCall:   "react()",
		}
	}
	for _, p := range presets {
		if p.Name == "react" {
			return p
		}
	}
	return presets[0]
}

// Detect picks the preset matching the project's file names, defaulting to
// react. Detection is name-based: a .vue file means vue, a .svelte file
// means svelte.
func Detect(paths []string) Preset {
	presets, err := Load()
	if err != nil {
		return Default()
	}

	var hasVue, hasSvelte bool
	for _, p := range paths {
		switch {
		case strings.HasSuffix(p, ".vue"):
			hasVue = true
		case strings.HasSuffix(p, ".svelte"):
			hasSvelte = true
		}
	}

	want := "react"
	if hasVue {
		want = "vue"
	} else if hasSvelte {
		want = "svelte"
	}

	for _, p := range presets {
		if p.Name == want {
			return p
		}
	}
	return Default()
}
