package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hierarchy"
	"github.com/katalvlaran/hierograph/hom"
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

// installGraph registers id with the hierarchy and loads g's nodes/edges
// directly into the backing store — the hierarchy itself exposes no
// per-node mutation surface (that belongs to rule/rewrite), so tests seed
// a graph's initial content straight through the Store.
func installGraph(t *testing.T, h *hierarchy.Hierarchy, store *graphstore.MemStore, id string, g *graphstore.Graph) {
	t.Helper()
	_, err := h.AddGraph(id, true, nil)
	require.NoError(t, err)
	for _, n := range g.ListNodes() {
		attrs, _ := g.NodeAttrs(n)
		require.NoError(t, store.AddNode(id, n, attrs))
	}
	for _, e := range g.ListEdges() {
		require.NoError(t, store.AddEdge(id, e.From, e.To, e.Attrs))
	}
}

// Scenario 3 — merge repair: a rule merges two host nodes that a successor
// typed as two distinct nodes; the successor must merge to match.
func TestRewritePropagatesMergeDownward(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)

	g := buildGraph(t, []string{"1", "2"}, nil)
	installGraph(t, h, store, "G", g)
	installGraph(t, h, store, "U", buildGraph(t, []string{"x", "y"}, nil))

	_, err := h.AddTyping("G", "U", hom.New(map[string]string{"1": "x", "2": "y"}), nil, true)
	r.NoError(err)

	ru := rule.Identity(g)
	_, err = ru.MergeNodes("1", "2", "12")
	r.NoError(err)

	res, err := h.Rewrite("G", ru, hom.Identity([]string{"1", "2"}))
	r.NoError(err)
	r.ElementsMatch([]string{"12"}, res.GPrime.ListNodes())

	uAfter, err := store.Snapshot("U")
	r.NoError(err)
	r.ElementsMatch([]string{"12"}, uAfter.ListNodes())
}

// Scenario 4 — propagation up: a predecessor typed by identity into the
// host must pick up the host's own clone/delete repair.
func TestRewritePropagatesCloneAndDeleteUpward(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)

	nodes := []string{"1", "2", "3", "4"}
	edges := [][2]string{{"1", "2"}, {"3", "2"}, {"2", "3"}, {"4", "1"}}
	g := buildGraph(t, nodes, edges)
	installGraph(t, h, store, "G", g)
	installGraph(t, h, store, "T", buildGraph(t, nodes, edges))

	_, err := h.AddTyping("T", "G", hom.Identity(nodes), nil, true)
	r.NoError(err)

	ru, err := rule.FromTransform(g, []rule.Command{
		{Kind: rule.CmdClone, Node: "2", NodeName: "21"},
		{Kind: rule.CmdDeleteNode, Node: "3"},
	})
	r.NoError(err)

	_, err = h.Rewrite("G", ru, hom.Identity(nodes))
	r.NoError(err)

	tAfter, err := store.Snapshot("T")
	r.NoError(err)
	tNodes := tAfter.ListNodes()
	r.Contains(tNodes, "2")
	r.Contains(tNodes, "2^1") // T's own copy of 2, named by repairPredecessor
	r.NotContains(tNodes, "3")
}

// Scenario 5 — propagation down: an added edge between two existing host
// nodes must appear between their (possibly coincident) successor images.
func TestRewritePropagatesAddedEdgeDownward(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)

	g := buildGraph(t, []string{"1", "2"}, nil)
	installGraph(t, h, store, "G", g)
	installGraph(t, h, store, "U", buildGraph(t, []string{"x"}, nil))

	_, err := h.AddTyping("G", "U", hom.New(map[string]string{"1": "x", "2": "x"}), nil, true)
	r.NoError(err)

	ru := rule.Identity(g)
	r.NoError(ru.AddEdge("1", "2", nil))

	_, err = h.Rewrite("G", ru, hom.Identity([]string{"1", "2"}))
	r.NoError(err)

	uAfter, err := store.Snapshot("U")
	r.NoError(err)
	r.True(uAfter.HasEdge("x", "x"))
}

// Scenario 6 — typing rejection: a direct edge that disagrees with an
// already-committed two-hop route must be rejected.
func TestAddTypingRejectsNonCommutingPath(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)

	installGraph(t, h, store, "A", buildGraph(t, []string{"a1"}, nil))
	installGraph(t, h, store, "B", buildGraph(t, []string{"b1"}, nil))
	installGraph(t, h, store, "C", buildGraph(t, []string{"c1", "c2"}, nil))

	_, err := h.AddTyping("A", "B", hom.New(map[string]string{"a1": "b1"}), nil, true)
	r.NoError(err)
	_, err = h.AddTyping("B", "C", hom.New(map[string]string{"b1": "c1"}), nil, true)
	r.NoError(err)

	_, err = h.AddTyping("A", "C", hom.New(map[string]string{"a1": "c2"}), nil, true)
	r.Error(err)
	var herr *hierarchy.HierarchyError
	r.ErrorAs(err, &herr)
	r.Equal(hierarchy.PathsDoNotCommute, herr.Kind)
}

func TestAddGraphRejectsDuplicateId(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)
	_, err := h.AddGraph("G", true, nil)
	r.NoError(err)
	_, err = h.AddGraph("G", true, nil)
	var herr *hierarchy.HierarchyError
	r.ErrorAs(err, &herr)
	r.Equal(hierarchy.DuplicateGraphId, herr.Kind)
}

func TestRemoveGraphReconnectsPredecessorsAndSuccessors(t *testing.T) {
	r := require.New(t)
	store := graphstore.NewMemStore()
	h := hierarchy.New(store)

	installGraph(t, h, store, "A", buildGraph(t, []string{"a1"}, nil))
	installGraph(t, h, store, "B", buildGraph(t, []string{"b1"}, nil))
	installGraph(t, h, store, "C", buildGraph(t, []string{"c1"}, nil))

	_, err := h.AddTyping("A", "B", hom.New(map[string]string{"a1": "b1"}), nil, true)
	r.NoError(err)
	_, err = h.AddTyping("B", "C", hom.New(map[string]string{"b1": "c1"}), nil, true)
	r.NoError(err)

	r.NoError(h.RemoveGraph("B", true))

	succ, err := h.Successors("A")
	r.NoError(err)
	r.Equal([]string{"C"}, succ)
}
