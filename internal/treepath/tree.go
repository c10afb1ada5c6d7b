package treepath

import "sort"

// Node is anything positioned in the tree by a physical path.
type Node interface {
	NodePath() Path
}

// Tree is one node of a reconstructed tree.
type Tree[T Node] struct {
	Item     T          `json:"article"`
	Children []*Tree[T] `json:"children"`
}

// SortAscending sorts nodes in pre-order: every parent precedes its
// children and siblings come in ascending id order.
func SortAscending[T Node](nodes []T) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return Compare(nodes[i].NodePath(), nodes[j].NodePath()) < 0
	})
}

// SortDescending sorts nodes in reverse pre-order.
func SortDescending[T Node](nodes []T) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return Compare(nodes[i].NodePath(), nodes[j].NodePath()) > 0
	})
}

// Build reconstructs the nested tree from a flat list of nodes of one board.
// A node whose parent is not in the list is returned as an additional root.
func Build[T Node](nodes []T) []*Tree[T] {
	sorted := make([]T, len(nodes))
	copy(sorted, nodes)
	SortAscending(sorted)

	byID := make(map[int64]*Tree[T], len(sorted))
	roots := make([]*Tree[T], 0, 1)

	for _, n := range sorted {
		t := &Tree[T]{Item: n, Children: []*Tree[T]{}}
		p := n.NodePath()
		byID[p.ID()] = t

		parentID, ok := p.ParentID()
		if parent, found := byID[parentID]; ok && found {
			parent.Children = append(parent.Children, t)
			continue
		}
		roots = append(roots, t)
	}
	return roots
}
