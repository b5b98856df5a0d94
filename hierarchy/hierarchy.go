// Package hierarchy implements the graph hierarchy (§4.F): a finite DAG of
// graphs connected by typing homomorphisms, with the invariant that every
// pair of directed paths between the same two graphs composes to the same
// homomorphism. It owns the single coarse write lock of §5's concurrency
// model and the propagation that keeps typing edges valid across a rewrite.
//
// Internally the hierarchy is an arena of integer handles (GraphHandle,
// TypingHandle) rather than a web of cross-pointers between graphs, per
// design note "Handle-based hierarchy storage" — every typing edge refers
// to its endpoints by handle, and the only string identifiers that leave
// this package are the caller-chosen graph ids passed to AddGraph.
package hierarchy

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
)

// GraphHandle identifies a graph within a Hierarchy's arena.
type GraphHandle uint64

// TypingHandle identifies a typing edge within a Hierarchy's arena.
type TypingHandle uint64

// typingEdge is a directed edge src -> tgt carrying a homomorphism from
// src's current content to tgt's current content.
type typingEdge struct {
	src, tgt GraphHandle
	hom      *hom.Hom
	attrs    attrset.AttrMap
}

// Hierarchy is a DAG of graphs (§3's H), backed by a Store that actually
// holds each graph's content under a hierarchy-chosen store id.
type Hierarchy struct {
	mu sync.Mutex // single coarse writer lock (§5); reads take it too for
	// simplicity — MemStore's own locking already lets Store reads proceed
	// concurrently with each other, and this package's own bookkeeping
	// (arena maps, typing indices) is small enough that serializing reads
	// through it costs nothing a caller would notice.

	store graphstore.Store

	nextGraph  uint64
	graphID    map[GraphHandle]string
	idToHandle map[string]GraphHandle
	graphAttrs map[GraphHandle]attrset.AttrMap

	nextTyping uint64
	typings    map[TypingHandle]*typingEdge
	outEdges   map[GraphHandle][]TypingHandle // src -> edges
	inEdges    map[GraphHandle][]TypingHandle // tgt -> edges

	pathCache *lru.Cache[string, *hom.Hom]
}

// New returns an empty Hierarchy backed by store.
func New(store graphstore.Store) *Hierarchy {
	cache, _ := lru.New[string, *hom.Hom](256)
	return &Hierarchy{
		store:      store,
		graphID:    map[GraphHandle]string{},
		idToHandle: map[string]GraphHandle{},
		graphAttrs: map[GraphHandle]attrset.AttrMap{},
		typings:    map[TypingHandle]*typingEdge{},
		outEdges:   map[GraphHandle][]TypingHandle{},
		inEdges:    map[GraphHandle][]TypingHandle{},
		pathCache:  cache,
	}
}

// AddGraph installs a brand new, empty graph under id (§4.F add_graph).
func (h *Hierarchy) AddGraph(id string, directed bool, attrs attrset.AttrMap) (GraphHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.idToHandle[id]; exists {
		return 0, &HierarchyError{Kind: DuplicateGraphId, GraphID: id}
	}
	if err := h.store.CreateGraph(id, directed); err != nil {
		return 0, err
	}
	h.nextGraph++
	handle := GraphHandle(h.nextGraph)
	h.graphID[handle] = id
	h.idToHandle[id] = handle
	if attrs == nil {
		attrs = attrset.AttrMap{}
	}
	h.graphAttrs[handle] = attrs
	return handle, nil
}

// RemoveGraph deletes id from the hierarchy. When reconnect is true, every
// predecessor/successor pair (T, U) of id is joined by a composed typing
// T -> U so removing id does not disconnect the hierarchy; per the spec's
// resolved Open Question 1, a composition that conflicts with an existing
// T -> U path fails the whole removal rather than silently dropping one side.
func (h *Hierarchy) RemoveGraph(id string, reconnect bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.idToHandle[id]
	if !ok {
		return &HierarchyError{Kind: UnknownGraphId, GraphID: id}
	}

	preds := h.inEdges[handle]
	succs := h.outEdges[handle]

	var newEdges []*typingEdge
	if reconnect {
		for _, pte := range preds {
			p := h.typings[pte]
			for _, ste := range succs {
				s := h.typings[ste]
				composed, err := hom.Compose(p.hom, s.hom)
				if err != nil {
					return &HierarchyError{Kind: PathsDoNotCommute, GraphID: id, Detail: "predecessor/successor composition is not total"}
				}
				if existing := h.directEdge(p.src, s.tgt); existing != nil {
					if !homEqual(existing.hom, composed) {
						return &HierarchyError{Kind: PathsDoNotCommute, GraphID: id, Detail: fmt.Sprintf("%s->%s already has a path disagreeing with the reconnection", h.graphID[p.src], h.graphID[s.tgt])}
					}
					continue
				}
				newEdges = append(newEdges, &typingEdge{src: p.src, tgt: s.tgt, hom: composed, attrs: attrset.AttrMap{}})
			}
		}
	}

	// Every candidate composition commutes (or is new); commit.
	for _, te := range newEdges {
		h.nextTyping++
		th := TypingHandle(h.nextTyping)
		h.typings[th] = te
		h.outEdges[te.src] = append(h.outEdges[te.src], th)
		h.inEdges[te.tgt] = append(h.inEdges[te.tgt], th)
	}

	for _, th := range append(append([]TypingHandle{}, preds...), succs...) {
		h.removeTypingEdge(th)
	}
	delete(h.outEdges, handle)
	delete(h.inEdges, handle)

	if err := h.store.DropGraph(id); err != nil {
		return err
	}
	delete(h.graphID, handle)
	delete(h.idToHandle, id)
	delete(h.graphAttrs, handle)
	h.pathCache.Purge()
	return nil
}

func (h *Hierarchy) removeTypingEdge(th TypingHandle) {
	te, ok := h.typings[th]
	if !ok {
		return
	}
	h.outEdges[te.src] = removeHandle(h.outEdges[te.src], th)
	h.inEdges[te.tgt] = removeHandle(h.inEdges[te.tgt], th)
	delete(h.typings, th)
}

func removeHandle(list []TypingHandle, target TypingHandle) []TypingHandle {
	out := list[:0]
	for _, th := range list {
		if th != target {
			out = append(out, th)
		}
	}
	return out
}

func (h *Hierarchy) directEdge(src, tgt GraphHandle) *typingEdge {
	for _, th := range h.outEdges[src] {
		te := h.typings[th]
		if te.tgt == tgt {
			return te
		}
	}
	return nil
}

// AddTyping installs a typing edge src -> tgt carrying mapping (§4.F
// add_typing). When check is true, mapping is validated as a genuine
// homomorphism and checked for commutation by checkCommutation (direct
// edges and two-hop routes only; see there); a tentative edge is rolled
// back on any failure.
func (h *Hierarchy) AddTyping(src, tgt string, mapping *hom.Hom, attrs attrset.AttrMap, check bool) (TypingHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	srcHandle, ok := h.idToHandle[src]
	if !ok {
		return 0, &HierarchyError{Kind: UnknownGraphId, GraphID: src}
	}
	tgtHandle, ok := h.idToHandle[tgt]
	if !ok {
		return 0, &HierarchyError{Kind: UnknownGraphId, GraphID: tgt}
	}

	if h.reachable(tgtHandle, srcHandle) {
		return 0, &HierarchyError{Kind: CycleIntroduced, GraphID: src + "->" + tgt}
	}

	if check {
		srcG, err := h.store.Snapshot(src)
		if err != nil {
			return 0, err
		}
		tgtG, err := h.store.Snapshot(tgt)
		if err != nil {
			return 0, err
		}
		if err := hom.Check(mapping, srcG, tgtG); err != nil {
			return 0, err
		}
	}

	if attrs == nil {
		attrs = attrset.AttrMap{}
	}
	h.nextTyping++
	th := TypingHandle(h.nextTyping)
	te := &typingEdge{src: srcHandle, tgt: tgtHandle, hom: mapping, attrs: attrs}
	h.typings[th] = te
	h.outEdges[srcHandle] = append(h.outEdges[srcHandle], th)
	h.inEdges[tgtHandle] = append(h.inEdges[tgtHandle], th)

	if check {
		if err := h.checkCommutation(srcHandle, tgtHandle); err != nil {
			h.removeTypingEdge(th)
			return 0, err
		}
	}
	h.pathCache.Purge()
	return th, nil
}

// checkCommutation verifies the new edge src -> tgt against three shapes:
// a direct predecessor P -> src extended by the new edge is compared with a
// direct edge P -> tgt; the new edge extended by a direct successor
// tgt -> S is compared with a direct edge src -> S; and a two-hop route
// src -> mid -> tgt is compared with the new edge. Longer paths are not
// composed, so a disagreement that only shows up along a path of three or
// more edges is not detected.
func (h *Hierarchy) checkCommutation(src, tgt GraphHandle) error {
	newEdge := h.directEdge(src, tgt)
	if newEdge == nil {
		return nil
	}
	for _, pte := range h.inEdges[src] {
		p := h.typings[pte]
		composed, err := hom.Compose(p.hom, newEdge.hom)
		if err != nil {
			return &HierarchyError{Kind: PathsDoNotCommute, Detail: "predecessor composition is not total"}
		}
		if existing := h.directEdge(p.src, tgt); existing != nil && existing != newEdge {
			if !homEqual(existing.hom, composed) {
				return &HierarchyError{Kind: PathsDoNotCommute, GraphID: h.graphID[p.src] + "->" + h.graphID[tgt]}
			}
		}
	}
	for _, ste := range h.outEdges[tgt] {
		s := h.typings[ste]
		composed, err := hom.Compose(newEdge.hom, s.hom)
		if err != nil {
			return &HierarchyError{Kind: PathsDoNotCommute, Detail: "successor composition is not total"}
		}
		if existing := h.directEdge(src, s.tgt); existing != nil && existing != newEdge {
			if !homEqual(existing.hom, composed) {
				return &HierarchyError{Kind: PathsDoNotCommute, GraphID: h.graphID[src] + "->" + h.graphID[s.tgt]}
			}
		}
	}
	// A two-hop alternate route src -> mid -> tgt must also agree with the
	// new direct edge — this is the common shape a redundant typing edge
	// takes (scenario: src already reaches tgt via some mid).
	for _, ste := range h.outEdges[src] {
		mid := h.typings[ste]
		if mid.tgt == tgt {
			continue
		}
		viaMid := h.directEdge(mid.tgt, tgt)
		if viaMid == nil {
			continue
		}
		composed, err := hom.Compose(mid.hom, viaMid.hom)
		if err != nil {
			return &HierarchyError{Kind: PathsDoNotCommute, Detail: "alternate-route composition is not total"}
		}
		if !homEqual(newEdge.hom, composed) {
			return &HierarchyError{Kind: PathsDoNotCommute, GraphID: h.graphID[src] + "->" + h.graphID[tgt]}
		}
	}
	return nil
}

// reachable reports whether target can be reached from from via outgoing
// typing edges (trivially true when from == target). AddTyping calls it as
// reachable(tgt, src) to reject a typing edge that would close a cycle
// (acyclicity, §3).
func (h *Hierarchy) reachable(from, target GraphHandle) bool {
	if from == target {
		return true
	}
	seen := map[GraphHandle]struct{}{from: {}}
	queue := []GraphHandle{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, th := range h.outEdges[cur] {
			next := h.typings[th].tgt
			if next == target {
				return true
			}
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return false
}

// CheckTyping re-validates the direct typing edge src -> tgt against the
// graphs' current content.
func (h *Hierarchy) CheckTyping(src, tgt string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	srcHandle, ok := h.idToHandle[src]
	if !ok {
		return &HierarchyError{Kind: UnknownGraphId, GraphID: src}
	}
	tgtHandle, ok := h.idToHandle[tgt]
	if !ok {
		return &HierarchyError{Kind: UnknownGraphId, GraphID: tgt}
	}
	te := h.directEdge(srcHandle, tgtHandle)
	if te == nil {
		return &HierarchyError{Kind: UnknownGraphId, GraphID: src + "->" + tgt, Detail: "no direct typing edge"}
	}
	srcG, err := h.store.Snapshot(src)
	if err != nil {
		return err
	}
	tgtG, err := h.store.Snapshot(tgt)
	if err != nil {
		return err
	}
	return hom.Check(te.hom, srcG, tgtG)
}

// Successors returns the graph ids directly typed-into-by id (edges id -> U).
func (h *Hierarchy) Successors(id string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.idToHandle[id]
	if !ok {
		return nil, &HierarchyError{Kind: UnknownGraphId, GraphID: id}
	}
	var out []string
	for _, th := range h.outEdges[handle] {
		out = append(out, h.graphID[h.typings[th].tgt])
	}
	sort.Strings(out)
	return out, nil
}

// Predecessors returns the graph ids that directly type into id (edges T -> id).
func (h *Hierarchy) Predecessors(id string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.idToHandle[id]
	if !ok {
		return nil, &HierarchyError{Kind: UnknownGraphId, GraphID: id}
	}
	var out []string
	for _, th := range h.inEdges[handle] {
		out = append(out, h.graphID[h.typings[th].src])
	}
	sort.Strings(out)
	return out, nil
}

// composeCached composes f: a -> b with g: b -> c, memoizing by the
// (aHandle, bHandle) pair the caller passes; propagateDown passes the
// composite's own endpoints (host, successor), so a propagation pass that
// reaches the same successor repeatedly (common in a diamond-shaped
// hierarchy) doesn't recompute the same composed homomorphism. Callers purge the cache whenever a typing
// edge's homomorphism changes (AddTyping, RemoveGraph, Rewrite).
func (h *Hierarchy) composeCached(aHandle, bHandle GraphHandle, f, g *hom.Hom) (*hom.Hom, error) {
	key := fmt.Sprintf("%d\x00%d", aHandle, bHandle)
	if cached, ok := h.pathCache.Get(key); ok {
		return cached, nil
	}
	composed, err := hom.Compose(f, g)
	if err != nil {
		return nil, err
	}
	h.pathCache.Add(key, composed)
	return composed, nil
}

func homEqual(a, b *hom.Hom) bool {
	if len(a.NodeMap) != len(b.NodeMap) {
		return false
	}
	for k, v := range a.NodeMap {
		if bv, ok := b.NodeMap[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
