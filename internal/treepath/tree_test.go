package treepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	path Path
}

func (n node) NodePath() Path { return n.path }

func paths(nodes []node) []Path {
	out := make([]Path, len(nodes))
	for i, n := range nodes {
		out[i] = n.path
	}
	return out
}

func TestSortDescending_ReversePreorder(t *testing.T) {
	nodes := []node{{"/1/9"}, {"/1"}, {"/1/10"}, {"/1/9/11"}, {"/1/2"}}

	SortDescending(nodes)

	assert.Equal(t, []Path{"/1/10", "/1/9/11", "/1/9", "/1/2", "/1"}, paths(nodes))
}

func TestSortAscending_Preorder(t *testing.T) {
	nodes := []node{{"/1/10"}, {"/1/9/11"}, {"/1"}, {"/1/9"}}

	SortAscending(nodes)

	assert.Equal(t, []Path{"/1", "/1/9", "/1/9/11", "/1/10"}, paths(nodes))
}

func TestBuild(t *testing.T) {
	nodes := []node{{"/1/10"}, {"/1/9/11"}, {"/1"}, {"/1/9"}, {"/1/9/12"}}

	roots := Build(nodes)

	require.Len(t, roots, 1)
	root := roots[0]
	assert.Equal(t, Path("/1"), root.Item.path)
	require.Len(t, root.Children, 2)
	assert.Equal(t, Path("/1/9"), root.Children[0].Item.path)
	assert.Equal(t, Path("/1/10"), root.Children[1].Item.path)
	require.Len(t, root.Children[0].Children, 2)
	assert.Equal(t, Path("/1/9/11"), root.Children[0].Children[0].Item.path)
	assert.Empty(t, root.Children[1].Children)
}

func TestBuild_OrphansBecomeRoots(t *testing.T) {
	roots := Build([]node{{"/1"}, {"/1/5/6"}})

	require.Len(t, roots, 2)
	assert.Equal(t, Path("/1"), roots[0].Item.path)
	assert.Equal(t, Path("/1/5/6"), roots[1].Item.path)
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build[node](nil))
}
