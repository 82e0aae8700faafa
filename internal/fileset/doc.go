// Package fileset defines the editor-owned project file tree model.
//
// The editor UI owns and mutates the tree; this backend only reads it.
// Nodes arrive as an ordered forest of files and folders, where file names
// may themselves be slash-separated paths that the manifest builder later
// splits into real directories.
//
// The package also computes the change-detection fingerprint: a cheap
// non-cryptographic digest over each file's name, length, and a content
// prefix. Collisions are acceptable; the fingerprint only answers "did
// anything change," never integrity questions.
package fileset
