// File: graph.go
// Role: Graph value type and the primitive edits of §4.B, generalized
// from core.Graph (adjacency_list.go, methods.go, methods_clone.go) to
// attributed nodes/edges and the spec's "one edge per ordered pair" model.
//
// Concurrency: muNode guards nodes; muEdge guards edges and adjacency,
// mirroring core.Graph's muVert/muEdgeAdj split.
package graphstore

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/hierograph/attrset"
)

// Graph is a single attributed multigraph: directed or undirected (a
// per-graph flag, §3), at most one edge per ordered pair of node ids.
type Graph struct {
	muNode sync.RWMutex
	muEdge sync.RWMutex

	directed bool

	nodes map[string]*Node
	// adjOut[u][v] is the edge stored "from u to v". For undirected graphs
	// the same *Edge pointer is also reachable as adjOut[v][u]; has_edge
	// and iteration always resolve through the canonical pair so there is
	// exactly one logical edge, matching §3's "canonical ordered pair".
	adjOut map[string]map[string]*Edge
	adjIn  map[string]map[string]*Edge
}

// NewGraph returns an empty Graph with the given directedness.
func NewGraph(directed bool) *Graph {
	return &Graph{
		directed: directed,
		nodes:    make(map[string]*Node),
		adjOut:   make(map[string]map[string]*Edge),
		adjIn:    make(map[string]map[string]*Edge),
	}
}

// IsDirected reports the graph's directedness flag.
func (g *Graph) IsDirected() bool {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	return g.directed
}

func canonPair(u, v string, directed bool) (string, string) {
	if directed || u <= v {
		return u, v
	}
	return v, u
}

// AddNode inserts a node with the given attrs, or unions attrs into an
// existing node's attributes (idempotent on repeat calls, §4.B).
func (g *Graph) AddNode(id string, attrs attrset.AttrMap) error {
	if id == "" {
		return &GraphError{Kind: UnknownNode, Node: id}
	}
	g.muNode.Lock()
	defer g.muNode.Unlock()

	if attrs == nil {
		attrs = attrset.AttrMap{}
	}
	if n, ok := g.nodes[id]; ok {
		n.Attrs = attrset.MergeUnion(n.Attrs, attrs)
		return nil
	}
	g.nodes[id] = &Node{ID: id, Attrs: attrs.Clone()}
	g.muEdge.Lock()
	if _, ok := g.adjOut[id]; !ok {
		g.adjOut[id] = make(map[string]*Edge)
	}
	if _, ok := g.adjIn[id]; !ok {
		g.adjIn[id] = make(map[string]*Edge)
	}
	g.muEdge.Unlock()
	return nil
}

// HasNode reports whether id names an existing node.
func (g *Graph) HasNode(id string) bool {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// RemoveNode deletes id and every edge incident to it.
func (g *Graph) RemoveNode(id string) error {
	g.muNode.Lock()
	defer g.muNode.Unlock()
	if _, ok := g.nodes[id]; !ok {
		return &GraphError{Kind: UnknownNode, Node: id}
	}
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	for to := range g.adjOut[id] {
		g.unlinkLocked(id, to)
	}
	for from := range g.adjIn[id] {
		g.unlinkLocked(from, id)
	}
	delete(g.adjOut, id)
	delete(g.adjIn, id)
	delete(g.nodes, id)
	return nil
}

// unlinkLocked removes the edge stored at the canonical pair for (from,to);
// callers must already hold muEdge.
func (g *Graph) unlinkLocked(from, to string) {
	a, b := canonPair(from, to, g.directed)
	if _, ok := g.adjOut[a]; ok {
		delete(g.adjOut[a], b)
	}
	if _, ok := g.adjIn[b]; ok {
		delete(g.adjIn[b], a)
	}
	if !g.directed && a != b {
		if _, ok := g.adjOut[b]; ok {
			delete(g.adjOut[b], a)
		}
		if _, ok := g.adjIn[a]; ok {
			delete(g.adjIn[a], b)
		}
	}
}

// AddEdge inserts an edge between src and tgt, or unions attrs into the
// existing edge at that (canonical) pair if one is already present —
// add_edge is idempotent the same way add_node is.
func (g *Graph) AddEdge(src, tgt string, attrs attrset.AttrMap) error {
	g.muNode.RLock()
	_, srcOK := g.nodes[src]
	_, tgtOK := g.nodes[tgt]
	g.muNode.RUnlock()
	if !srcOK {
		return &GraphError{Kind: UnknownNode, Node: src}
	}
	if !tgtOK {
		return &GraphError{Kind: UnknownNode, Node: tgt}
	}

	if attrs == nil {
		attrs = attrset.AttrMap{}
	}
	a, b := canonPair(src, tgt, g.directed)

	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	if e, ok := g.adjOut[a][b]; ok {
		e.Attrs = attrset.MergeUnion(e.Attrs, attrs)
		return nil
	}
	e := &Edge{From: src, To: tgt, Attrs: attrs.Clone()}
	if g.adjOut[a] == nil {
		g.adjOut[a] = make(map[string]*Edge)
	}
	if g.adjIn[b] == nil {
		g.adjIn[b] = make(map[string]*Edge)
	}
	g.adjOut[a][b] = e
	g.adjIn[b][a] = e
	if !g.directed && a != b {
		if g.adjOut[b] == nil {
			g.adjOut[b] = make(map[string]*Edge)
		}
		if g.adjIn[a] == nil {
			g.adjIn[a] = make(map[string]*Edge)
		}
		g.adjOut[b][a] = e
		g.adjIn[a][b] = e
	}
	return nil
}

// RemoveEdge deletes the edge between src and tgt, if any.
func (g *Graph) RemoveEdge(src, tgt string) error {
	a, b := canonPair(src, tgt, g.directed)
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	if _, ok := g.adjOut[a][b]; !ok {
		return &GraphError{Kind: UnknownEdge, From: src, To: tgt}
	}
	g.unlinkLocked(src, tgt)
	return nil
}

// HasEdge reports whether an edge exists between src and tgt (respecting
// directedness: for undirected graphs either order matches).
func (g *Graph) HasEdge(src, tgt string) bool {
	a, b := canonPair(src, tgt, g.directed)
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	_, ok := g.adjOut[a][b]
	return ok
}

// CloneNode duplicates id's attributes and every incident edge into a
// fresh node newID (auto-generated via uuid when newID is ""). The
// contract (§4.B): every predecessor/successor edge of id gains a mirror
// edge to/from the clone with equal attributes.
func (g *Graph) CloneNode(id, newID string) (string, error) {
	g.muNode.Lock()
	n, ok := g.nodes[id]
	if !ok {
		g.muNode.Unlock()
		return "", &GraphError{Kind: UnknownNode, Node: id}
	}
	if newID == "" {
		newID = id + "_" + uuid.NewString()[:8]
	}
	if _, exists := g.nodes[newID]; exists {
		g.muNode.Unlock()
		return "", &GraphError{Kind: Duplicate, Node: newID}
	}
	g.nodes[newID] = &Node{ID: newID, Attrs: n.Attrs.Clone()}
	if _, ok := g.adjOut[newID]; !ok {
		g.adjOut[newID] = make(map[string]*Edge)
	}
	if _, ok := g.adjIn[newID]; !ok {
		g.adjIn[newID] = make(map[string]*Edge)
	}
	g.muNode.Unlock()

	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	for to, e := range snapshotEdges(g.adjOut[id]) {
		g.linkLocked(newID, to, e.Attrs.Clone())
	}
	for from, e := range snapshotEdges(g.adjIn[id]) {
		// A self-loop makes id its own predecessor, so this also installs
		// id->newID (adjOut above installed newID->id).
		g.linkLocked(from, newID, e.Attrs.Clone())
	}
	// Self-loop on the original node clones into a self-loop on newID too.
	if e, ok := g.adjOut[id][id]; ok {
		g.linkLocked(newID, newID, e.Attrs.Clone())
	}
	return newID, nil
}

func snapshotEdges(m map[string]*Edge) map[string]*Edge {
	out := make(map[string]*Edge, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// linkLocked installs an edge from->to with attrs, mirroring for undirected
// graphs; callers must hold muEdge (and any node-existence checks must
// already have passed).
func (g *Graph) linkLocked(from, to string, attrs attrset.AttrMap) {
	a, b := canonPair(from, to, g.directed)
	if e, ok := g.adjOut[a][b]; ok {
		e.Attrs = attrset.MergeUnion(e.Attrs, attrs)
		return
	}
	e := &Edge{From: from, To: to, Attrs: attrs}
	if g.adjOut[a] == nil {
		g.adjOut[a] = make(map[string]*Edge)
	}
	if g.adjIn[b] == nil {
		g.adjIn[b] = make(map[string]*Edge)
	}
	g.adjOut[a][b] = e
	g.adjIn[b][a] = e
	if !g.directed && a != b {
		if g.adjOut[b] == nil {
			g.adjOut[b] = make(map[string]*Edge)
		}
		if g.adjIn[a] == nil {
			g.adjIn[a] = make(map[string]*Edge)
		}
		g.adjOut[b][a] = e
		g.adjIn[a][b] = e
	}
}

// MergeNodes identifies ids into one node carrying the union of their
// attributes and the union of their incidences (§4.B). A self-loop arises
// on the merged node if any two members were connected to each other.
func (g *Graph) MergeNodes(ids []string, newID string) (string, error) {
	if len(ids) == 0 {
		return "", &GraphError{Kind: UnknownNode}
	}
	g.muNode.Lock()
	merged := make(map[string]struct{}, len(ids))
	attrs := attrset.AttrMap{}
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok {
			g.muNode.Unlock()
			return "", &GraphError{Kind: UnknownNode, Node: id}
		}
		attrs = attrset.MergeUnion(attrs, n.Attrs)
		merged[id] = struct{}{}
	}
	if newID == "" {
		newID = strings.Join(ids, "_")
	}
	if _, exists := g.nodes[newID]; exists {
		if _, wasMember := merged[newID]; !wasMember {
			g.muNode.Unlock()
			return "", &GraphError{Kind: Duplicate, Node: newID}
		}
	}
	for _, id := range ids {
		delete(g.nodes, id)
	}
	g.nodes[newID] = &Node{ID: newID, Attrs: attrs}
	if _, ok := g.adjOut[newID]; !ok {
		g.adjOut[newID] = make(map[string]*Edge)
	}
	if _, ok := g.adjIn[newID]; !ok {
		g.adjIn[newID] = make(map[string]*Edge)
	}
	g.muNode.Unlock()

	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	redirect := func(id string) string {
		if _, ok := merged[id]; ok {
			return newID
		}
		return id
	}
	type pending struct {
		from, to string
		attrs    attrset.AttrMap
	}
	var toAdd []pending
	for _, id := range ids {
		for to, e := range snapshotEdges(g.adjOut[id]) {
			toAdd = append(toAdd, pending{redirect(id), redirect(to), e.Attrs.Clone()})
		}
		for from, e := range snapshotEdges(g.adjIn[id]) {
			if _, ok := merged[from]; ok {
				continue // already covered via adjOut of that member
			}
			toAdd = append(toAdd, pending{redirect(from), redirect(id), e.Attrs.Clone()})
		}
	}
	// Unlink every edge incident to a member first: unlinkLocked also
	// cleans the reverse pointer living inside a non-member neighbor's
	// adjacency maps, which a bare delete(g.adjOut, id) would miss.
	for _, id := range ids {
		for to := range snapshotEdges(g.adjOut[id]) {
			g.unlinkLocked(id, to)
		}
		for from := range snapshotEdges(g.adjIn[id]) {
			g.unlinkLocked(from, id)
		}
		delete(g.adjOut, id)
		delete(g.adjIn, id)
	}
	for _, p := range toAdd {
		g.linkLocked(p.from, p.to, p.attrs)
	}
	return newID, nil
}

// SetNodeAttrs applies op to nodeID's attribute map using attrs.
func (g *Graph) SetNodeAttrs(nodeID string, op AttrOp, attrs attrset.AttrMap) error {
	g.muNode.Lock()
	defer g.muNode.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return &GraphError{Kind: UnknownNode, Node: nodeID}
	}
	n.Attrs = applyAttrOp(n.Attrs, op, attrs)
	return nil
}

// SetEdgeAttrs applies op to the edge between src and tgt using attrs.
func (g *Graph) SetEdgeAttrs(src, tgt string, op AttrOp, attrs attrset.AttrMap) error {
	a, b := canonPair(src, tgt, g.directed)
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	e, ok := g.adjOut[a][b]
	if !ok {
		return &GraphError{Kind: UnknownEdge, From: src, To: tgt}
	}
	e.Attrs = applyAttrOp(e.Attrs, op, attrs)
	return nil
}

func applyAttrOp(current attrset.AttrMap, op AttrOp, attrs attrset.AttrMap) attrset.AttrMap {
	out := current.Clone()
	switch op {
	case OpAdd:
		for k, v := range attrs {
			if existing, ok := out[k]; ok {
				out[k] = attrset.Union(existing, v)
			} else {
				out[k] = v.Clone()
			}
		}
	case OpRemove:
		for k, v := range attrs {
			if existing, ok := out[k]; ok {
				out[k] = attrset.Difference(existing, v)
			}
		}
	case OpReplace:
		for k, v := range attrs {
			out[k] = v.Clone()
		}
	}
	return out
}

// Neighbors returns the node ids adjacent to id in the given Direction.
func (g *Graph) Neighbors(id string, dir Direction) ([]string, error) {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	if _, ok := g.adjOut[id]; !ok {
		if _, ok := g.adjIn[id]; !ok {
			return nil, &GraphError{Kind: UnknownNode, Node: id}
		}
	}
	seen := map[string]struct{}{}
	var out []string
	add := func(m map[string]*Edge) {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	switch dir {
	case Out:
		add(g.adjOut[id])
	case In:
		add(g.adjIn[id])
	case Both:
		add(g.adjOut[id])
		add(g.adjIn[id])
	}
	sort.Strings(out)
	return out, nil
}

// NodeAttrs returns a copy of id's attribute map.
func (g *Graph) NodeAttrs(id string) (attrset.AttrMap, error) {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, &GraphError{Kind: UnknownNode, Node: id}
	}
	return n.Attrs.Clone(), nil
}

// EdgeAttrs returns a copy of the (src,tgt) edge's attribute map.
func (g *Graph) EdgeAttrs(src, tgt string) (attrset.AttrMap, error) {
	a, b := canonPair(src, tgt, g.directed)
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	e, ok := g.adjOut[a][b]
	if !ok {
		return nil, &GraphError{Kind: UnknownEdge, From: src, To: tgt}
	}
	return e.Attrs.Clone(), nil
}

// ListNodes returns every node id, sorted.
func (g *Graph) ListNodes() []string {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ListEdges returns every edge, sorted by (From, To).
func (g *Graph) ListEdges() []Edge {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	var out []Edge
	for from, m := range g.adjOut {
		for to, e := range m {
			// Undirected graphs mirror every edge at both (a,b) and (b,a);
			// canonPair guarantees a<=b, so emitting only that order dedups.
			if !g.directed && from > to {
				continue
			}
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := NewGraph(g.IsDirected())
	for _, id := range g.ListNodes() {
		attrs, _ := g.NodeAttrs(id)
		out.AddNode(id, attrs)
	}
	for _, e := range g.ListEdges() {
		out.AddEdge(e.From, e.To, e.Attrs)
	}
	return out
}
