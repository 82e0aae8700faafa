package fileset

// NodeType distinguishes files from folders
type NodeType string

const (
	TypeFile   NodeType = "file"
	TypeFolder NodeType = "folder"
)

// Node is one entry in the editor's project tree.
// Files carry Content and never have Children; folders may have empty Children.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"` // may be a slash-separated path
	Type     NodeType `json:"type"`
	Content  string   `json:"content,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// IsFile reports whether the node is a file leaf
func (n *Node) IsFile() bool {
	return n.Type == TypeFile
}

// Flatten walks a forest depth-first and returns every file leaf with its
// path relative to the forest root. Folder names prefix their children.
func Flatten(nodes []Node) []FlatFile {
	var out []FlatFile
	flattenInto(nodes, "", &out)
	return out
}

func flattenInto(nodes []Node, prefix string, out *[]FlatFile) {
	for i := range nodes {
		n := &nodes[i]
		path := n.Name
		if prefix != "" {
			path = prefix + "/" + n.Name
		}
		if n.IsFile() {
			*out = append(*out, FlatFile{Path: path, Content: n.Content})
			continue
		}
		flattenInto(n.Children, path, out)
	}
}

// FlatFile is a file leaf with its full relative path
type FlatFile struct {
	Path    string
	Content string
}

// FindFile returns the first file whose path's base name matches name.
// Duplicate names at one level resolve to the last occurrence during
// manifest assembly; lookup here only needs any match.
func FindFile(files []FlatFile, name string) (FlatFile, bool) {
	for _, f := range files {
		if f.Path == name || baseName(f.Path) == name {
			return f, true
		}
	}
	return FlatFile{}, false
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
