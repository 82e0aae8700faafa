package manifest

import (
	"fmt"
	"strings"

	"github.com/glyphpad/previewd/internal/fileset"
	"github.com/glyphpad/previewd/internal/scaffold"
)

// renderViteConfig emits the build-tool config for the active preset
func renderViteConfig(preset scaffold.Preset) string {
	return fmt.Sprintf(`import { defineConfig } from 'vite'
%s

export default defineConfig({
  plugins: [%s],
  server: {
    host: true,
    strictPort: false,
  },
})
`, preset.VitePluginImport, preset.VitePluginCall)
}

// renderIndexHTML emits the HTML entry document: every .css leaf inlined in
// a style block, then the script tag loading the entry module.
func renderIndexHTML(files []fileset.FlatFile, entryPath string) string {
	var style strings.Builder
	for _, css := range CSSLeaves(files) {
		style.WriteString(css)
		style.WriteString("\n")
	}

	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Preview</title>
    <style>
%s    </style>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/%s"></script>
  </body>
</html>
`, indent(style.String(), "      "), entryPath)
}

// renderEntryModule emits a minimal entry mounting the App component at #root
func renderEntryModule(appImport string) string {
	return fmt.Sprintf(`import React from 'react'
import ReactDOM from 'react-dom/client'
import App from '%s'

ReactDOM.createRoot(document.getElementById('root')).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
)
`, appImport)
}

func indent(s, prefix string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
