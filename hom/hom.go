// Package hom implements the category-theoretic kernel (§4.C): checking,
// composing, and constructing homomorphisms between attributed graphs, plus
// the three constructions the rewriter and hierarchy build on — pullback,
// pushout, and pullback-complement.
//
// Every construction here operates on *graphstore.Graph values, not on a
// live Store: the kernel is deliberately backend-agnostic (design note
// "Duck-typed graph backends") and never mutates its inputs.
package hom

import (
	"sort"

	"github.com/katalvlaran/hierograph/graphstore"
)

// Hom is a homomorphism: a total node map from a domain graph to a
// codomain graph. Homomorphisms are plain values (§3 Ownership) — nothing
// here holds a reference to the graphs it was checked against.
type Hom struct {
	NodeMap map[string]string
}

// New wraps a raw node map as a Hom.
func New(nodeMap map[string]string) *Hom {
	m := make(map[string]string, len(nodeMap))
	for k, v := range nodeMap {
		m[k] = v
	}
	return &Hom{NodeMap: m}
}

// Image returns h(n) and whether n is in h's domain.
func (h *Hom) Image(n string) (string, bool) {
	v, ok := h.NodeMap[n]
	return v, ok
}

// Identity returns the identity homomorphism on the given node ids.
func Identity(ids []string) *Hom {
	m := make(map[string]string, len(ids))
	for _, id := range ids {
		m[id] = id
	}
	return &Hom{NodeMap: m}
}

// Restrict returns h restricted to the given subset of its domain.
func Restrict(h *Hom, domain []string) *Hom {
	out := make(map[string]string, len(domain))
	for _, id := range domain {
		if img, ok := h.NodeMap[id]; ok {
			out[id] = img
		}
	}
	return &Hom{NodeMap: out}
}

// Compose returns g∘f: A→C given f: A→B and g: B→C.
func Compose(f, g *Hom) (*Hom, error) {
	out := make(map[string]string, len(f.NodeMap))
	for a, b := range f.NodeMap {
		c, ok := g.NodeMap[b]
		if !ok {
			return nil, ErrCodomainMismatch
		}
		out[a] = c
	}
	return &Hom{NodeMap: out}, nil
}

// Check verifies that h: domain → codomain is a valid homomorphism (§3):
// total on N(domain), every edge maps to an edge, and attribute sets are
// pointwise subsets on both nodes and edges.
func Check(h *Hom, domain, codomain *graphstore.Graph) error {
	for _, n := range domain.ListNodes() {
		img, ok := h.Image(n)
		if !ok {
			return &InvalidHomomorphism{Kind: NotTotal, Where: n}
		}
		if !codomain.HasNode(img) {
			return &InvalidHomomorphism{Kind: NotTotal, Where: n}
		}
		nAttrs, _ := domain.NodeAttrs(n)
		imgAttrs, _ := codomain.NodeAttrs(img)
		if !nAttrs.Subset(imgAttrs) {
			return &InvalidHomomorphism{Kind: NodeAttrNotSubset, Where: n}
		}
	}
	for _, e := range domain.ListEdges() {
		hu, _ := h.Image(e.From)
		hv, _ := h.Image(e.To)
		if !codomain.HasEdge(hu, hv) {
			return &InvalidHomomorphism{Kind: MissingEdgeImage, Where: e.From + "->" + e.To}
		}
		eAttrs := e.Attrs
		imgAttrs, _ := codomain.EdgeAttrs(hu, hv)
		if !eAttrs.Subset(imgAttrs) {
			return &InvalidHomomorphism{Kind: EdgeAttrNotSubset, Where: e.From + "->" + e.To}
		}
	}
	return nil
}

// sortedKeys is a small helper used by the pullback/pushout constructions
// below to make iteration order (and therefore error messages / generated
// composite ids) deterministic.
func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
