// Package scaffold holds the framework preset catalog consulted when
// synthesizing a project manifest.
//
// Each preset names the framework's runtime dependencies, build-tool dev
// dependencies, dev script, entry-module candidates, and the vite plugin
// wiring for its config file. Presets load once from an embedded YAML
// catalog; react is the default when detection finds nothing better.
package scaffold
