package hom

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/hierograph/graphstore"
)

type copyPair struct {
	pNode string
	gmID  string
}

// PullbackComplement computes the pullback complement of pL: P→L (the
// rule's interface-to-left-pattern leg) along lG: L→G (the match), giving a
// graph Gm together with p_m: P→Gm and m_g: Gm→G such that the square
// commutes and is a pullback (§4.C, SqPO left half).
//
// lG is required to be injective: a match identifying two distinct L-nodes
// with the same G-node has no well-defined clone/delete bookkeeping below.
//
// Per L-node l with preimages P_l = pL⁻¹(l):
//   - |P_l| == 0: l's image in G is deleted (with its incident edges).
//   - |P_l| == 1: the image survives unchanged.
//   - |P_l| >= 2: the image is cloned once per preimage; edges between two
//     cloned groups are kept only for the specific clone pairs backed by an
//     actual P-edge between their preimages — an edge of G that isn't the
//     image of any L-edge is outside the rule's control and is mirrored to
//     every clone combination unchanged.
func PullbackComplement(pL, lG *Hom, p, l, gGraph *graphstore.Graph) (gm *graphstore.Graph, pM, mG *Hom, err error) {
	if l.IsDirected() != gGraph.IsDirected() {
		return nil, nil, nil, ErrDirectednessMismatch
	}
	if err := Check(pL, p, l); err != nil {
		return nil, nil, nil, err
	}
	if err := Check(lG, l, gGraph); err != nil {
		return nil, nil, nil, err
	}
	seenImage := map[string]string{}
	for _, ln := range l.ListNodes() {
		gn, _ := lG.Image(ln)
		if other, ok := seenImage[gn]; ok && other != ln {
			return nil, nil, nil, ErrNonInjectiveMatch
		}
		seenImage[gn] = ln
	}

	preimages := map[string][]string{}
	for _, pn := range p.ListNodes() {
		ln, _ := pL.Image(pn)
		preimages[ln] = append(preimages[ln], pn)
	}
	for ln := range preimages {
		sort.Strings(preimages[ln])
	}

	invL := map[string]string{} // original G-node id -> its L-node, for matched nodes
	copies := map[string][]copyPair{}
	pMMap := map[string]string{}

	gm = graphstore.NewGraph(gGraph.IsDirected())

	for _, ln := range l.ListNodes() {
		gn, _ := lG.Image(ln)
		invL[gn] = ln
		attrs, _ := gGraph.NodeAttrs(gn)
		pre := preimages[ln]
		switch len(pre) {
		case 0:
			// deleted: no copy, no gm node.
		case 1:
			if err := gm.AddNode(gn, attrs); err != nil {
				return nil, nil, nil, err
			}
			copies[ln] = []copyPair{{pNode: pre[0], gmID: gn}}
			pMMap[pre[0]] = gn
		default:
			var group []copyPair
			for i, pn := range pre {
				id := gn
				if i > 0 {
					id = fmt.Sprintf("%s^%d", gn, i)
				}
				if err := gm.AddNode(id, attrs); err != nil {
					return nil, nil, nil, err
				}
				group = append(group, copyPair{pNode: pn, gmID: id})
				pMMap[pn] = id
			}
			copies[ln] = group
		}
	}
	for _, gn := range gGraph.ListNodes() {
		if _, matched := invL[gn]; matched {
			continue
		}
		attrs, _ := gGraph.NodeAttrs(gn)
		if err := gm.AddNode(gn, attrs); err != nil {
			return nil, nil, nil, err
		}
	}

	lEdgeSet := map[[2]string]struct{}{}
	for _, e := range l.ListEdges() {
		lEdgeSet[[2]string{e.From, e.To}] = struct{}{}
	}
	pEdgeImages := map[[2]string]map[[2]string]struct{}{}
	for _, e := range p.ListEdges() {
		lu, _ := pL.Image(e.From)
		lv, _ := pL.Image(e.To)
		key := [2]string{lu, lv}
		if pEdgeImages[key] == nil {
			pEdgeImages[key] = map[[2]string]struct{}{}
		}
		pEdgeImages[key][[2]string{e.From, e.To}] = struct{}{}
	}

	groupOrSelf := func(gn string) []copyPair {
		if ln, ok := invL[gn]; ok {
			return copies[ln]
		}
		return []copyPair{{gmID: gn}}
	}

	for _, e := range gGraph.ListEdges() {
		lu, okU := invL[e.From]
		lv, okV := invL[e.To]
		copiesU := groupOrSelf(e.From)
		copiesV := groupOrSelf(e.To)
		if len(copiesU) == 0 || len(copiesV) == 0 {
			continue // an endpoint's L-node had zero preimages: deleted.
		}
		constrained := okU && okV && isLEdge(lEdgeSet, lu, lv)
		for _, cu := range copiesU {
			for _, cv := range copiesV {
				if constrained {
					key := [2]string{lu, lv}
					combo := [2]string{cu.pNode, cv.pNode}
					if _, ok := pEdgeImages[key][combo]; !ok {
						continue
					}
				}
				if err := gm.AddEdge(cu.gmID, cv.gmID, e.Attrs); err != nil {
					return nil, nil, nil, err
				}
			}
		}
	}

	mGMap := map[string]string{}
	for _, ln := range l.ListNodes() {
		gn, _ := lG.Image(ln)
		for _, cp := range copies[ln] {
			mGMap[cp.gmID] = gn
		}
	}
	for _, gn := range gGraph.ListNodes() {
		if _, matched := invL[gn]; !matched {
			mGMap[gn] = gn
		}
	}

	return gm, New(pMMap), New(mGMap), nil
}

func isLEdge(set map[[2]string]struct{}, u, v string) bool {
	_, ok := set[[2]string{u, v}]
	return ok
}
