package hom

import (
	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
)

// unionFind is a small disjoint-set helper scoped to the Pushout
// construction: it tracks equivalence classes over the disjoint tagged
// union of B's and C's node ids.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[string]string{}}
}

func (u *unionFind) find(x string) string {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

// union merges the classes of a and b, keeping whichever of the two roots
// the caller-supplied preferred function returns, so callers can bias which
// side's (B- or C-tagged) ids survive as class representatives.
func (u *unionFind) union(a, b string, preferred func(a, b string) string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	rep := preferred(ra, rb)
	if rep == ra {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// bTag / cTag disambiguate B-ids from C-ids inside the union-find, since the
// two input graphs may share raw node id strings.
func bTag(id string) string { return "B:" + id }
func cTag(id string) string { return "C:" + id }

// Pushout computes the pushout of h: A→B and k: A→C (§4.C): the quotient of
// B ⊔ C identifying h(a) with k(a) for every A-node a, together with the two
// injections g_B: B→G′ and g_C: C→G′.
//
// Node-identity policy: when a class contains both B-tagged and C-tagged
// members, the representative is taken from the B side. rewrite.Apply calls
// Pushout(ru.PR, pM, ru.P, ru.R, gm), passing ru.R as b and gm (G_m) as c, so
// this is what makes the SqPO rewrite step's guarantee hold — "G′ restricted
// to the image of g_c(G_m) equals R wherever R and G_m disagree on a name" —
// since R plays the role of B here, and its node ids win.
func Pushout(h, k *Hom, a, b, c *graphstore.Graph) (g *graphstore.Graph, gB, gC *Hom, err error) {
	if b.IsDirected() != c.IsDirected() {
		return nil, nil, nil, ErrDirectednessMismatch
	}
	if err := Check(h, a, b); err != nil {
		return nil, nil, nil, err
	}
	if err := Check(k, a, c); err != nil {
		return nil, nil, nil, err
	}

	uf := newUnionFind()
	for _, id := range b.ListNodes() {
		uf.find(bTag(id))
	}
	for _, id := range c.ListNodes() {
		uf.find(cTag(id))
	}
	preferB := func(x, y string) string {
		if len(x) > 1 && x[0] == 'B' {
			return x
		}
		if len(y) > 1 && y[0] == 'B' {
			return y
		}
		return x
	}
	for _, an := range a.ListNodes() {
		hb, _ := h.Image(an)
		kc, _ := k.Image(an)
		uf.union(bTag(hb), cTag(kc), preferB)
	}

	// repOf maps a tagged id to its final, untagged output node id: the
	// tagged representative with the tag stripped.
	classRep := map[string]string{}
	repOf := func(tagged string) string {
		root := uf.find(tagged)
		if rep, ok := classRep[root]; ok {
			return rep
		}
		rep := root[2:]
		classRep[root] = rep
		return rep
	}

	g = graphstore.NewGraph(b.IsDirected())
	toB := map[string]string{}
	toC := map[string]string{}

	for _, id := range b.ListNodes() {
		rep := repOf(uf.find(bTag(id)))
		attrs, _ := b.NodeAttrs(id)
		if existing, err := g.NodeAttrs(rep); err == nil {
			attrs = attrset.MergeUnion(existing, attrs)
		}
		if err := g.AddNode(rep, attrs); err != nil {
			return nil, nil, nil, err
		}
		toB[id] = rep
	}
	for _, id := range c.ListNodes() {
		rep := repOf(uf.find(cTag(id)))
		attrs, _ := c.NodeAttrs(id)
		if existing, err := g.NodeAttrs(rep); err == nil {
			attrs = attrset.MergeUnion(existing, attrs)
		}
		if err := g.AddNode(rep, attrs); err != nil {
			return nil, nil, nil, err
		}
		toC[id] = rep
	}

	for _, e := range b.ListEdges() {
		if err := g.AddEdge(toB[e.From], toB[e.To], e.Attrs); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, e := range c.ListEdges() {
		if err := g.AddEdge(toC[e.From], toC[e.To], e.Attrs); err != nil {
			return nil, nil, nil, err
		}
	}

	return g, New(toB), New(toC), nil
}
