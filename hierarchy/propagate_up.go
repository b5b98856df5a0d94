package hierarchy

import (
	"fmt"

	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
)

// repairPredecessor rebuilds dom (typed into codomainOld by domH) given
// codomainImages, the per-codomainOld-node list of surviving images in
// codomainNew (empty = deleted, one = kept or relabeled, several = cloned).
// This mirrors hom.PullbackComplement's own clone/prune construction: build
// the result from scratch rather than mutating dom in place, so edge
// survival is exactly "does this specific pair of images have an edge in
// codomainNew", computed once instead of threaded through CloneNode's
// mirror-then-prune side effects.
//
// It returns the rebuilt graph, the new typing homomorphism dom' ->
// codomainNew, and domImages — the same per-node survivor-list shape,
// expressed over dom's own (old) node ids, for the caller to recurse with
// against dom's own predecessors.
func repairPredecessor(dom *graphstore.Graph, domH *hom.Hom, codomainImages map[string][]string, codomainNew *graphstore.Graph) (*graphstore.Graph, *hom.Hom, map[string][]string) {
	newDom := graphstore.NewGraph(dom.IsDirected())
	newDomH := &hom.Hom{NodeMap: map[string]string{}}
	domImages := map[string][]string{}

	for _, n := range dom.ListNodes() {
		g, _ := domH.Image(n)
		images := codomainImages[g]
		if len(images) == 0 {
			domImages[n] = nil
			continue
		}
		attrs, _ := dom.NodeAttrs(n)
		copies := make([]string, 0, len(images))
		for i, gi := range images {
			id := n
			if i > 0 {
				id = fmt.Sprintf("%s^%d", n, i)
			}
			_ = newDom.AddNode(id, attrs)
			newDomH.NodeMap[id] = gi
			copies = append(copies, id)
		}
		domImages[n] = copies
	}

	for _, e := range dom.ListEdges() {
		gu, _ := domH.Image(e.From)
		gv, _ := domH.Image(e.To)
		imagesU := codomainImages[gu]
		imagesV := codomainImages[gv]
		if len(imagesU) == 0 || len(imagesV) == 0 {
			continue
		}
		copiesU := domImages[e.From]
		copiesV := domImages[e.To]
		for i, cu := range copiesU {
			for j, cv := range copiesV {
				if codomainNew.HasEdge(imagesU[i], imagesV[j]) {
					_ = newDom.AddEdge(cu, cv, e.Attrs)
				}
			}
		}
	}

	return newDom, newDomH, domImages
}

// propagateUp walks predecessors of handle using an explicit worklist
// (design note "Prefer an explicit worklist... over deep recursion"),
// repairing each one in turn and pushing its own predecessors onward. The
// combined step order — removed edges, then removed nodes, then clones —
// falls out of repairPredecessor computing all three in one pass per §5's
// authoritative ordering (which supersedes §4.F's node-before-edge listing).
//
// Diamond-shaped predecessor fan-in (a grandparent reachable through two
// different parents) is repaired once per incoming path, not deduplicated;
// each visit is idempotent in effect since repairPredecessor always rebuilds
// from the then-current stored content.
type upWorkItem struct {
	handle   GraphHandle
	newGraph *graphstore.Graph
	images   map[string][]string
}

func (h *Hierarchy) propagateUp(handle GraphHandle, newGraph *graphstore.Graph, images map[string][]string) error {
	worklist := []upWorkItem{{handle, newGraph, images}}
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]
		for _, th := range append([]TypingHandle{}, h.inEdges[item.handle]...) {
			te := h.typings[th]
			predID := h.graphID[te.src]
			oldPred, err := h.store.Snapshot(predID)
			if err != nil {
				return err
			}
			newPred, newPredH, predImages := repairPredecessor(oldPred, te.hom, item.images, item.newGraph)
			if err := h.store.PutGraph(predID, newPred); err != nil {
				return err
			}
			te.hom = newPredH
			worklist = append(worklist, upWorkItem{te.src, newPred, predImages})
		}
	}
	return nil
}
