package workspace

import (
	"sort"
	"strings"
)

// Node is one entry in the workspace file tree.
type Node struct {
	// Name is the path segment shown to the user
	Name string
	// Path is the full server-side path used to fetch the file
	Path string
	// IsDir reports whether the node has children
	IsDir bool
	// Children are sorted directories-first, then alphabetically
	Children []*Node
}

// DisplayPath strips the server's workspace mount prefix from a path so the
// tree shows paths relative to the session workspace.
func DisplayPath(p string) string {
	return strings.TrimPrefix(p, "/workspace/")
}

// BuildTree folds a flat list of slash-separated paths into a nested tree.
// Intermediate directories are created as needed. Siblings are ordered
// directories before files, alphabetically within each group.
func BuildTree(paths []string) []*Node {
	root := &Node{IsDir: true}
	index := map[string]*Node{"": root}

	for _, p := range paths {
		display := DisplayPath(p)
		segments := strings.Split(strings.Trim(display, "/"), "/")
		if len(segments) == 1 && segments[0] == "" {
			continue
		}

		parentKey := ""
		for i, segment := range segments {
			key := strings.Join(segments[:i+1], "/")
			node, ok := index[key]
			if !ok {
				node = &Node{
					Name:  segment,
					IsDir: i < len(segments)-1,
				}
				if !node.IsDir {
					node.Path = p
				}
				parent := index[parentKey]
				parent.Children = append(parent.Children, node)
				index[key] = node
			}
			parentKey = key
		}
	}

	sortTree(root)
	return root.Children
}

func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range n.Children {
		sortTree(child)
	}
}
