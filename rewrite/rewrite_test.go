package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
	"github.com/katalvlaran/hierograph/rewrite"
	"github.com/katalvlaran/hierograph/rule"
)

func buildGraph(t *testing.T, nodes []string, edges [][2]string) *graphstore.Graph {
	t.Helper()
	g := graphstore.NewGraph(true)
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n, nil))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1], nil))
	}
	return g
}

// Scenario 1 — basic delete.
func TestApplyBasicDelete(t *testing.T) {
	r := require.New(t)
	nodes := []string{"1", "2", "3", "4"}
	edges := [][2]string{{"1", "2"}, {"3", "2"}, {"2", "3"}, {"4", "1"}}
	pattern := buildGraph(t, nodes, edges)

	ru := rule.Identity(pattern)
	r.NoError(ru.RemoveNode("2"))

	host := buildGraph(t, nodes, edges)
	match := hom.Identity(nodes)

	res, err := rewrite.Apply(ru, host, match)
	r.NoError(err)

	got := res.GPrime.ListNodes()
	r.ElementsMatch([]string{"1", "3", "4"}, got)
	r.True(res.GPrime.HasEdge("4", "1"))
	r.False(res.GPrime.HasEdge("1", "2"))
}

// Scenario 2 — clone then delete.
func TestApplyCloneThenDelete(t *testing.T) {
	r := require.New(t)
	nodes := []string{"1", "2", "3", "4"}
	edges := [][2]string{{"1", "2"}, {"3", "2"}, {"2", "3"}, {"4", "1"}}
	pattern := buildGraph(t, nodes, edges)

	ru, err := rule.FromTransform(pattern, []rule.Command{
		{Kind: rule.CmdClone, Node: "2", NodeName: "21"},
		{Kind: rule.CmdDeleteNode, Node: "3"},
	})
	r.NoError(err)

	host := buildGraph(t, nodes, edges)
	match := hom.Identity(nodes)

	res, err := rewrite.Apply(ru, host, match)
	r.NoError(err)

	got := res.GPrime.ListNodes()
	r.Contains(got, "2")
	r.Contains(got, "21")
	r.NotContains(got, "3")
	r.True(res.GPrime.HasEdge("1", "21"))
	r.True(res.GPrime.HasEdge("1", "2"))
}
