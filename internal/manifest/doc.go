// Package manifest transforms the editor's file tree into a nested virtual
// manifest ready to mount into the sandbox filesystem.
//
// The transform is pure and rebuilt fresh on every mount: entries carry no
// persisted identity. Beyond restructuring user files under the src/ root,
// the builder synthesizes the scaffold a runnable vite project needs:
//   - package.json: augmented (or generated when missing or malformed) with
//     inferred external dependencies, framework runtime packages, build-tool
//     dev dependencies, and a dev script
//   - vite.config.js for the detected framework preset
//   - index.html embedding all .css leaf contents and the entry script tag
//   - a minimal entry module, when the project has an App component but no
//     entry of its own
//
// Duplicate names at one directory level resolve last-write-wins. Building
// the same file set twice yields structurally identical manifests.
package manifest
