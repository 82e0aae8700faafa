package manifest

// Entry is one node of the virtual manifest: either a file with contents or
// a directory of named entries. Exactly one of File/Directory is set.
type Entry struct {
	File      *FileSpec      `json:"file,omitempty"`
	Directory *DirectorySpec `json:"directory,omitempty"`
}

// FileSpec holds a file's full contents
type FileSpec struct {
	Contents string `json:"contents"`
}

// DirectorySpec holds a directory's children by name
type DirectorySpec struct {
	Entries map[string]Entry `json:"entries"`
}

// NewFile builds a file entry
func NewFile(contents string) Entry {
	return Entry{File: &FileSpec{Contents: contents}}
}

// NewDirectory builds an empty directory entry
func NewDirectory() Entry {
	return Entry{Directory: &DirectorySpec{Entries: make(map[string]Entry)}}
}

// Tree is the root of a mountable manifest plus the metadata the
// orchestrator needs to run it.
type Tree struct {
	Root      map[string]Entry
	EntryPath string   // module the HTML document loads, e.g. "src/main.tsx"
	Inferred  []string // external packages discovered by import scanning
	Preset    string   // framework preset the scaffold used
}

// insert places a file at a slash-separated path under root, creating
// intermediate directories. An existing entry at any segment is replaced:
// last write wins.
func insert(root map[string]Entry, path, contents string) {
	segments := splitPath(path)
	cur := root
	for i, seg := range segments {
		if i == len(segments)-1 {
			cur[seg] = NewFile(contents)
			return
		}
		next, ok := cur[seg]
		if !ok || next.Directory == nil {
			next = NewDirectory()
			cur[seg] = next
		}
		cur = next.Directory.Entries
	}
}

func splitPath(path string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	return segments
}
