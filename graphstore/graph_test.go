package graphstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
)

func mustAttr(t *testing.T, key string, v interface{}) attrset.AttrMap {
	t.Helper()
	av, err := attrset.Normalize(v)
	require.NoError(t, err)
	return attrset.AttrMap{key: av}
}

func TestAddNodeIsIdempotentAndUnions(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)

	r.NoError(g.AddNode("a", mustAttr(t, "color", "red")))
	r.NoError(g.AddNode("a", mustAttr(t, "color", "blue")))

	attrs, err := g.NodeAttrs("a")
	r.NoError(err)
	r.True(attrset.Equal(attrs["color"], attrset.NewAttrVal(attrset.String("red"), attrset.String("blue"))))
}

func TestAddEdgeRequiresExistingEndpoints(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("a", nil))
	err := g.AddEdge("a", "b", nil)
	var gerr *graphstore.GraphError
	r.ErrorAs(err, &gerr)
	r.Equal(graphstore.UnknownNode, gerr.Kind)
}

func TestUndirectedEdgeIsSymmetric(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(false)
	r.NoError(g.AddNode("a", nil))
	r.NoError(g.AddNode("b", nil))
	r.NoError(g.AddEdge("a", "b", nil))

	r.True(g.HasEdge("a", "b"))
	r.True(g.HasEdge("b", "a"))
	r.Len(g.ListEdges(), 1)

	r.NoError(g.RemoveEdge("b", "a"))
	r.False(g.HasEdge("a", "b"))
}

func TestCloneNodeMirrorsIncidentEdges(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)
	for _, id := range []string{"p", "n", "s"} {
		r.NoError(g.AddNode(id, nil))
	}
	r.NoError(g.AddEdge("p", "n", nil))
	r.NoError(g.AddEdge("n", "s", nil))

	clone, err := g.CloneNode("n", "n2")
	r.NoError(err)
	r.Equal("n2", clone)

	r.True(g.HasEdge("p", "n"))
	r.True(g.HasEdge("p", "n2"))
	r.True(g.HasEdge("n", "s"))
	r.True(g.HasEdge("n2", "s"))
}

func TestCloneNodePreservesSelfLoop(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("n", nil))
	r.NoError(g.AddEdge("n", "n", nil))

	clone, err := g.CloneNode("n", "")
	r.NoError(err)
	r.True(g.HasEdge(clone, clone))
}

func TestMergeNodesUnionsAttrsAndRedirectsEdges(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("1", mustAttr(t, "k", "a")))
	r.NoError(g.AddNode("4", mustAttr(t, "k", "b")))
	r.NoError(g.AddNode("x", nil))
	r.NoError(g.AddEdge("x", "1", nil))
	r.NoError(g.AddEdge("4", "x", nil))
	r.NoError(g.AddEdge("1", "4", nil)) // becomes a self-loop on the merged node

	merged, err := g.MergeNodes([]string{"1", "4"}, "m")
	r.NoError(err)
	r.Equal("m", merged)

	attrs, err := g.NodeAttrs("m")
	r.NoError(err)
	r.True(attrset.Equal(attrs["k"], attrset.NewAttrVal(attrset.String("a"), attrset.String("b"))))

	r.True(g.HasEdge("x", "m"))
	r.True(g.HasEdge("m", "x"))
	r.True(g.HasEdge("m", "m"))
	r.False(g.HasNode("1"))
	r.False(g.HasNode("4"))

	// Stale references in survivor x's adjacency must be gone, not just renamed.
	neighbors, err := g.Neighbors("x", graphstore.Both)
	r.NoError(err)
	r.ElementsMatch([]string{"m"}, neighbors)
}

func TestSetNodeAttrsOpsAreKeywise(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("n", mustAttr(t, "tags", "x")))

	r.NoError(g.SetNodeAttrs("n", graphstore.OpAdd, mustAttr(t, "tags", "y")))
	attrs, _ := g.NodeAttrs("n")
	r.Len(attrs["tags"], 2)

	r.NoError(g.SetNodeAttrs("n", graphstore.OpRemove, mustAttr(t, "tags", "x")))
	attrs, _ = g.NodeAttrs("n")
	r.True(attrset.Equal(attrs["tags"], attrset.NewAttrVal(attrset.String("y"))))

	r.NoError(g.SetNodeAttrs("n", graphstore.OpReplace, mustAttr(t, "tags", "z")))
	attrs, _ = g.NodeAttrs("n")
	r.True(attrset.Equal(attrs["tags"], attrset.NewAttrVal(attrset.String("z"))))
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	r := require.New(t)
	g := graphstore.NewGraph(false)
	r.NoError(g.AddNode("a", nil))
	r.NoError(g.AddNode("b", nil))
	r.NoError(g.AddEdge("a", "b", nil))
	r.NoError(g.RemoveNode("a"))
	r.False(g.HasNode("a"))
	neighbors, err := g.Neighbors("b", graphstore.Both)
	r.NoError(err)
	r.Empty(neighbors)
}
