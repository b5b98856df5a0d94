package hierarchy

import (
	"sort"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
	"github.com/katalvlaran/hierograph/rewrite"
	"github.com/katalvlaran/hierograph/rule"
)

// downChange is the set of merges/additions a rewrite introduces, expressed
// once in terms of G′'s own node ids so it can be forwarded unchanged to
// every descendant graph — the canonical "forwarded changes" reading of
// propagate_down (the spec's resolved Open Question 2).
type downChange struct {
	// mergeGroups maps a G′-node id to the original (pre-rewrite) host node
	// ids that were merged to produce it — built from the rule's own p_rhs
	// collisions, not from incidental clone/merge coincidence.
	mergeGroups map[string][]string
	// addedNodes maps a G′-node id with no host preimage (an R-node the
	// rule added outright) to its attributes.
	addedNodes map[string]attrset.AttrMap
	// addedEdges are G′-edges backed by an R-edge with no P-preimage.
	addedEdges []graphstore.Edge
}

// buildDownChange derives a downChange from a rule and the Result of
// applying it, by tracing each R-node/R-edge back through p_rhs to see
// whether it has a P-preimage (preserved) or not (added), and whether an
// R-node has more than one P-preimage (merged).
func buildDownChange(ru *rule.Rule, res *rewrite.Result) *downChange {
	dc := &downChange{
		mergeGroups: map[string][]string{},
		addedNodes:  map[string]attrset.AttrMap{},
	}

	imagedR := map[string]struct{}{}
	for _, rv := range ru.PR.NodeMap {
		imagedR[rv] = struct{}{}
	}

	for _, r := range ru.R.ListNodes() {
		pre := keysByValue(ru.PR.NodeMap, r)
		if len(pre) >= 2 {
			var hostNodes []string
			for _, p := range pre {
				gmNode, ok := res.PM.Image(p)
				if !ok {
					continue
				}
				hostNode, ok := res.MG.Image(gmNode)
				if !ok {
					continue
				}
				hostNodes = append(hostNodes, hostNode)
			}
			gPrimeNode, _ := res.RhsGPrime.Image(r)
			dc.mergeGroups[gPrimeNode] = hostNodes
			continue
		}
		if _, ok := imagedR[r]; ok {
			continue
		}
		attrs, _ := ru.R.NodeAttrs(r)
		gNode, _ := res.RhsGPrime.Image(r)
		dc.addedNodes[gNode] = attrs
	}

	backed := map[[2]string]struct{}{}
	for _, pe := range ru.P.ListEdges() {
		r1, _ := ru.PR.Image(pe.From)
		r2, _ := ru.PR.Image(pe.To)
		backed[[2]string{r1, r2}] = struct{}{}
	}
	for _, re := range ru.R.ListEdges() {
		if _, ok := backed[[2]string{re.From, re.To}]; ok {
			continue
		}
		g1, _ := res.RhsGPrime.Image(re.From)
		g2, _ := res.RhsGPrime.Image(re.To)
		dc.addedEdges = append(dc.addedEdges, graphstore.Edge{From: g1, To: g2, Attrs: re.Attrs})
	}

	return dc
}

// keysByValue mirrors rule.keysByValue (unexported there); hierarchy needs
// the same "who maps to val" query over a p_rhs node map when reading a
// rule's merge structure back out.
func keysByValue(m map[string]string, val string) []string {
	var out []string
	for k, v := range m {
		if v == val {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

type downWorkItem struct {
	curHandle    GraphHandle
	hostToCurOld *hom.Hom // nil at the root: curHandle's current content IS gPrime already
}

// propagateDown walks successors of hostHandle, whose content is now
// gPrime, repairing each one with dc's merges/additions and forwarding the
// same dc further down (§5's "forwarded changes" propagate_down variant).
// Like propagateUp, it runs off an explicit worklist rather than recursion.
func (h *Hierarchy) propagateDown(hostHandle GraphHandle, gPrime *graphstore.Graph, dc *downChange) error {
	worklist := []downWorkItem{{hostHandle, nil}}
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]

		for _, th := range append([]TypingHandle{}, h.outEdges[item.curHandle]...) {
			te := h.typings[th]
			nextHandle := te.tgt
			nextID := h.graphID[nextHandle]
			nextOld, err := h.store.Snapshot(nextID)
			if err != nil {
				return err
			}

			var hostToNextOld *hom.Hom
			if item.hostToCurOld == nil {
				hostToNextOld = te.hom
			} else {
				hostToNextOld, err = h.composeCached(hostHandle, nextHandle, item.hostToCurOld, te.hom)
				if err != nil {
					return err
				}
			}

			newNext := nextOld.Clone()
			for gTarget, hostNodes := range dc.mergeGroups {
				var images []string
				seen := map[string]struct{}{}
				for _, hn := range hostNodes {
					img, ok := hostToNextOld.Image(hn)
					if !ok || !newNext.HasNode(img) {
						// Absent when an earlier path to this successor
						// (diamond fan-in) already merged it.
						continue
					}
					if _, dup := seen[img]; !dup {
						seen[img] = struct{}{}
						images = append(images, img)
					}
				}
				if len(images) == 0 {
					continue
				}
				if _, err := newNext.MergeNodes(images, gTarget); err != nil {
					return err
				}
			}
			for gNode, attrs := range dc.addedNodes {
				if !newNext.HasNode(gNode) {
					if err := newNext.AddNode(gNode, attrs); err != nil {
						return err
					}
				}
			}
			resolve := func(gid string) (string, bool) {
				if _, ok := dc.addedNodes[gid]; ok {
					return gid, true
				}
				if _, ok := dc.mergeGroups[gid]; ok {
					return gid, true
				}
				return hostToNextOld.Image(gid)
			}
			for _, e := range dc.addedEdges {
				fromID, ok1 := resolve(e.From)
				toID, ok2 := resolve(e.To)
				if ok1 && ok2 && newNext.HasNode(fromID) && newNext.HasNode(toID) {
					if err := newNext.AddEdge(fromID, toID, e.Attrs); err != nil {
						return err
					}
				}
			}

			if err := h.store.PutGraph(nextID, newNext); err != nil {
				return err
			}

			newTeHom := hom.New(te.hom.NodeMap)
			for gNode := range dc.addedNodes {
				newTeHom.NodeMap[gNode] = gNode
			}
			for gTarget, hostNodes := range dc.mergeGroups {
				if len(hostNodes) > 0 {
					newTeHom.NodeMap[gTarget] = gTarget
				}
			}
			te.hom = newTeHom

			worklist = append(worklist, downWorkItem{nextHandle, hostToNextOld})
		}
	}
	return nil
}
