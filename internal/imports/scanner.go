package imports

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// import defaultExport from 'pkg' / import {a, b} from "pkg" / import * as ns from 'pkg'
	esImportRe = regexp.MustCompile(`import\s+(?:[\w*\s{},$]+\s+from\s+)?['"]([^'"]+)['"]`)
	// const x = require('pkg')
	requireRe = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	// import('pkg'), the dynamic form
	dynamicImportRe = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// builtins are Node-provided modules that never need installing.
// Both bare and node:-prefixed forms are excluded.
var builtins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"crypto": true, "dgram": true, "dns": true, "events": true, "fs": true,
	"http": true, "http2": true, "https": true, "net": true, "os": true,
	"path": true, "perf_hooks": true, "process": true, "querystring": true,
	"readline": true, "stream": true, "string_decoder": true, "timers": true,
	"tls": true, "tty": true, "url": true, "util": true, "v8": true,
	"vm": true, "worker_threads": true, "zlib": true,
}

// Scan extracts external package names from source text.
// Relative ('./x') and absolute ('/x') specifiers are skipped; scoped
// imports collapse to @scope/name and deep imports to their package root.
// The result is sorted and deduplicated.
func Scan(source string) []string {
	seen := make(map[string]bool)
	for _, re := range []*regexp.Regexp{esImportRe, requireRe, dynamicImportRe} {
		for _, match := range re.FindAllStringSubmatch(source, -1) {
			if pkg, ok := normalize(match[1]); ok {
				seen[pkg] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// ScanAll scans multiple sources and merges the results
func ScanAll(sources []string) []string {
	seen := make(map[string]bool)
	for _, src := range sources {
		for _, pkg := range Scan(src) {
			seen[pkg] = true
		}
	}

	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// normalize collapses a module specifier to its installable package name,
// or reports false for specifiers that are not external packages.
func normalize(spec string) (string, bool) {
	if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return "", false
	}

	// The node: scheme only resolves runtime builtins; nothing behind it
	// installs from the registry, including builtins newer than the table
	if strings.HasPrefix(spec, "node:") {
		return "", false
	}

	if strings.HasPrefix(spec, "@") {
		// @scope/pkg/deep/path -> @scope/pkg
		parts := strings.SplitN(spec, "/", 3)
		if len(parts) < 2 {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}

	// pkg/deep/path -> pkg
	root := spec
	if idx := strings.IndexByte(spec, '/'); idx >= 0 {
		root = spec[:idx]
	}
	if builtins[root] {
		return "", false
	}
	return root, true
}
