package hom

import (
	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
)

// pairID builds a deterministic composite id for a pullback/pushout node.
func pairID(a, b string) string {
	return a + "\x00" + b
}

// Pullback computes the pullback of h: B→D and k: C→D (§4.C): the graph B×_D C
// whose nodes are pairs (b,c) with h(b)=k(c), together with the two
// projections. Node and edge attributes are the pointwise intersection;
// a key present on only one side of a pair is dropped rather than treated
// as present-but-empty, since an intersection with an absent key is itself
// absent.
func Pullback(h, k *Hom, b, c, d *graphstore.Graph) (p *graphstore.Graph, pB, pC *Hom, err error) {
	if b.IsDirected() != c.IsDirected() || b.IsDirected() != d.IsDirected() {
		return nil, nil, nil, ErrDirectednessMismatch
	}
	if err := Check(h, b, d); err != nil {
		return nil, nil, nil, err
	}
	if err := Check(k, c, d); err != nil {
		return nil, nil, nil, err
	}

	p = graphstore.NewGraph(b.IsDirected())
	toB := map[string]string{}
	toC := map[string]string{}

	// byImage groups C-nodes by their image in D so node construction is
	// O(|B| + |C|) amortized instead of O(|B|*|C|).
	byImage := map[string][]string{}
	for _, cn := range c.ListNodes() {
		img, _ := k.Image(cn)
		byImage[img] = append(byImage[img], cn)
	}

	for _, bn := range b.ListNodes() {
		imgB, _ := h.Image(bn)
		for _, cn := range byImage[imgB] {
			id := pairID(bn, cn)
			bAttrs, _ := b.NodeAttrs(bn)
			cAttrs, _ := c.NodeAttrs(cn)
			attrs := intersectAttrMap(bAttrs, cAttrs)
			if err := p.AddNode(id, attrs); err != nil {
				return nil, nil, nil, err
			}
			toB[id] = bn
			toC[id] = cn
		}
	}

	for _, be := range b.ListEdges() {
		for _, ce := range c.ListEdges() {
			hFrom, _ := h.Image(be.From)
			hTo, _ := h.Image(be.To)
			kFrom, _ := k.Image(ce.From)
			kTo, _ := k.Image(ce.To)
			if hFrom != kFrom || hTo != kTo {
				continue
			}
			from := pairID(be.From, ce.From)
			to := pairID(be.To, ce.To)
			if !p.HasNode(from) || !p.HasNode(to) {
				continue
			}
			attrs := intersectAttrMap(be.Attrs, ce.Attrs)
			if err := p.AddEdge(from, to, attrs); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	return p, New(toB), New(toC), nil
}

func intersectAttrMap(a, b attrset.AttrMap) attrset.AttrMap {
	out := attrset.AttrMap{}
	for key, av := range a {
		if bv, ok := b[key]; ok {
			out[key] = attrset.Intersect(av, bv)
		}
	}
	return out
}
