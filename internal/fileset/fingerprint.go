package fileset

import (
	"hash/fnv"
	"strconv"
)

// fingerprintPrefixLen bounds how much of each file's content feeds the
// digest. Enough to catch edits near the top of a file cheaply; the length
// component catches edits past the prefix.
const fingerprintPrefixLen = 64

// Fingerprint computes a cheap rolling digest over the file set.
// Identical sets always produce identical fingerprints; any content,
// name, or length change produces a different one (modulo FNV collisions,
// which are acceptable for change detection).
func Fingerprint(nodes []Node) string {
	h := fnv.New64a()
	for _, f := range Flatten(nodes) {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(len(f.Content))))
		h.Write([]byte{0})
		prefix := f.Content
		if len(prefix) > fingerprintPrefixLen {
			prefix = prefix[:fingerprintPrefixLen]
		}
		h.Write([]byte(prefix))
		h.Write([]byte{0xff})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
