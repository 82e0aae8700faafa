package manifest

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"

	"github.com/glyphpad/previewd/internal/fileset"
	"github.com/glyphpad/previewd/internal/imports"
	"github.com/glyphpad/previewd/internal/scaffold"
)

// sourceRoot is the fixed directory all user files are rebuilt under
const sourceRoot = "src"

// sourceGlobs select the leaves worth scanning for imports
var sourceGlobs = []string{
	"**/*.{js,jsx,ts,tsx,mjs,cjs}",
	"**/*.{vue,svelte}",
	"*.{js,jsx,ts,tsx,mjs,cjs,vue,svelte}",
}

// Builder converts a file tree into a mountable virtual manifest
type Builder struct {
	// PinnedVersions overrides "latest" for inferred packages whose exact
	// version the CDN resolver already knows. Optional.
	PinnedVersions map[string]string
}

// PackageJSON is the subset of a package manifest the builder touches.
// Unknown fields from a user-supplied manifest are preserved via Extra.
type PackageJSON struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Version         string            `json:"version,omitempty"`
	Type            string            `json:"type,omitempty"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Build produces the manifest tree for the given file set.
// The transform never fails: malformed user manifests fall back to a
// generated default rather than aborting the mount.
func (b *Builder) Build(nodes []fileset.Node) *Tree {
	files := fileset.Flatten(nodes)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	preset := scaffold.Detect(paths)

	inferred := b.scanImports(files)
	pkg := b.buildPackageJSON(files, preset, inferred)

	root := make(map[string]Entry)

	// User files live under the source root; package.json is consumed into
	// the synthesized manifest rather than copied through.
	for _, f := range files {
		if baseOf(f.Path) == "package.json" {
			continue
		}
		insert(root, sourceRoot+"/"+stripRoot(f.Path), f.Content)
	}

	entryPath, synthesized := b.resolveEntry(files, preset)
	if synthesized != "" {
		insert(root, entryPath, synthesized)
	}

	pkgJSON, err := sonic.MarshalIndent(pkg, "", "  ")
	if err != nil {
		// PackageJSON contains only marshalable types; unreachable in practice
		pkgJSON = []byte("{}")
	}
	root["package.json"] = NewFile(string(pkgJSON))
	root["vite.config.js"] = NewFile(renderViteConfig(preset))
	root["index.html"] = NewFile(renderIndexHTML(files, entryPath))

	return &Tree{
		Root:      root,
		EntryPath: entryPath,
		Inferred:  inferred,
		Preset:    preset.Name,
	}
}

// scanImports collects external packages across every source-like text leaf
func (b *Builder) scanImports(files []fileset.FlatFile) []string {
	var sources []string
	for _, f := range files {
		if !isSourceLike(f.Path) {
			continue
		}
		// Binary payloads with a source-like name would only feed regex noise
		if mt := mimetype.Detect([]byte(f.Content)); !isTextual(mt) {
			continue
		}
		sources = append(sources, f.Content)
	}
	return imports.ScanAll(sources)
}

// buildPackageJSON augments the user's manifest, or generates a default one
// when it is missing or fails to parse.
func (b *Builder) buildPackageJSON(files []fileset.FlatFile, preset scaffold.Preset, inferred []string) *PackageJSON {
	pkg := defaultPackageJSON(preset)

	if existing, ok := fileset.FindFile(files, "package.json"); ok {
		var parsed PackageJSON
		if err := sonic.Unmarshal([]byte(existing.Content), &parsed); err == nil {
			pkg = &parsed
		}
		// On parse failure keep the generated default; the mount must not abort
	}

	if pkg.Name == "" {
		pkg.Name = "glyphpad-preview"
	}
	if pkg.Scripts == nil {
		pkg.Scripts = make(map[string]string)
	}
	if pkg.Dependencies == nil {
		pkg.Dependencies = make(map[string]string)
	}
	if pkg.DevDependencies == nil {
		pkg.DevDependencies = make(map[string]string)
	}

	for _, dep := range inferred {
		if _, declared := pkg.Dependencies[dep]; declared {
			continue
		}
		if _, declared := pkg.DevDependencies[dep]; declared {
			continue
		}
		pkg.Dependencies[dep] = b.versionFor(dep)
	}

	// Framework runtime packages and build tooling must always be present
	for dep, ver := range preset.RuntimeDeps {
		if _, ok := pkg.Dependencies[dep]; !ok {
			pkg.Dependencies[dep] = ver
		}
	}
	for dep, ver := range preset.DevDeps {
		if _, ok := pkg.DevDependencies[dep]; !ok {
			pkg.DevDependencies[dep] = ver
		}
	}
	if _, ok := pkg.Scripts["dev"]; !ok {
		pkg.Scripts["dev"] = preset.DevScript
	}

	return pkg
}

func (b *Builder) versionFor(dep string) string {
	if v, ok := b.PinnedVersions[dep]; ok && v != "" {
		return v
	}
	return "latest"
}

// resolveEntry finds the entry module among user files, or synthesizes one
// mounting an App-like component when only the component exists.
// Returns the entry path (always) and synthesized contents (empty when the
// user already has an entry).
func (b *Builder) resolveEntry(files []fileset.FlatFile, preset scaffold.Preset) (string, string) {
	for _, candidate := range preset.EntryCandidates {
		for _, f := range files {
			if stripRoot(f.Path) == stripRoot(candidate) {
				return sourceRoot + "/" + stripRoot(f.Path), ""
			}
		}
	}

	for _, candidate := range preset.AppCandidates {
		for _, f := range files {
			if baseOf(f.Path) == candidate {
				entry := sourceRoot + "/main" + entryExt(candidate)
				return entry, renderEntryModule(appImportPath(f.Path))
			}
		}
	}

	// Nothing to mount; point the document at the conventional entry so the
	// dev server reports a useful module-not-found instead of a blank page.
	return sourceRoot + "/main.jsx", ""
}

func defaultPackageJSON(preset scaffold.Preset) *PackageJSON {
	return &PackageJSON{
		Name:            "glyphpad-preview",
		Private:         true,
		Version:         "0.0.0",
		Type:            "module",
		Scripts:         map[string]string{"dev": preset.DevScript},
		Dependencies:    copyDeps(preset.RuntimeDeps),
		DevDependencies: copyDeps(preset.DevDeps),
	}
}

func copyDeps(deps map[string]string) map[string]string {
	out := make(map[string]string, len(deps))
	for k, v := range deps {
		out[k] = v
	}
	return out
}

func isSourceLike(path string) bool {
	for _, glob := range sourceGlobs {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

func isTextual(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

// stripRoot removes a leading src/ so user trees that already use the
// source root do not nest twice.
func stripRoot(path string) string {
	return strings.TrimPrefix(path, sourceRoot+"/")
}

func baseOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// entryExt picks the synthesized entry's extension from the App file's
func entryExt(appName string) string {
	switch {
	case strings.HasSuffix(appName, ".tsx"), strings.HasSuffix(appName, ".ts"):
		return ".tsx"
	default:
		return ".jsx"
	}
}

// appImportPath builds the relative import specifier for the App component,
// extension dropped the way bundlers expect.
func appImportPath(path string) string {
	rel := stripRoot(path)
	if idx := strings.LastIndexByte(rel, '.'); idx >= 0 {
		rel = rel[:idx]
	}
	return "./" + rel
}

// CSSLeaves returns every .css leaf's contents in path order
func CSSLeaves(files []fileset.FlatFile) []string {
	var css []fileset.FlatFile
	for _, f := range files {
		if strings.HasSuffix(f.Path, ".css") {
			css = append(css, f)
		}
	}
	sort.Slice(css, func(i, j int) bool { return css[i].Path < css[j].Path })

	out := make([]string, len(css))
	for i, f := range css {
		out[i] = f.Content
	}
	return out
}
