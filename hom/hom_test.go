package hom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
)

func attrOf(t *testing.T, s string) attrset.AttrMap {
	t.Helper()
	av, err := attrset.Normalize(s)
	require.NoError(t, err)
	return attrset.AttrMap{"label": av}
}

func TestCheckRejectsPartialMap(t *testing.T) {
	r := require.New(t)
	a := graphstore.NewGraph(true)
	r.NoError(a.AddNode("x", nil))
	b := graphstore.NewGraph(true)
	r.NoError(b.AddNode("y", nil))

	h := hom.New(map[string]string{})
	err := hom.Check(h, a, b)
	var ih *hom.InvalidHomomorphism
	r.ErrorAs(err, &ih)
	r.Equal(hom.NotTotal, ih.Kind)
}

func TestCheckRejectsMissingEdgeImage(t *testing.T) {
	r := require.New(t)
	a := graphstore.NewGraph(true)
	r.NoError(a.AddNode("x", nil))
	r.NoError(a.AddNode("y", nil))
	r.NoError(a.AddEdge("x", "y", nil))
	b := graphstore.NewGraph(true)
	r.NoError(b.AddNode("x", nil))
	r.NoError(b.AddNode("y", nil))

	h := hom.New(map[string]string{"x": "x", "y": "y"})
	err := hom.Check(h, a, b)
	var ih *hom.InvalidHomomorphism
	r.ErrorAs(err, &ih)
	r.Equal(hom.MissingEdgeImage, ih.Kind)
}

func TestCheckAcceptsValidHom(t *testing.T) {
	r := require.New(t)
	a := graphstore.NewGraph(true)
	r.NoError(a.AddNode("x", attrOf(t, "v")))
	b := graphstore.NewGraph(true)
	r.NoError(b.AddNode("y", attrOf(t, "v")))

	h := hom.New(map[string]string{"x": "y"})
	r.NoError(hom.Check(h, a, b))
}

func TestComposeAndIdentity(t *testing.T) {
	r := require.New(t)
	f := hom.New(map[string]string{"a": "b"})
	g := hom.New(map[string]string{"b": "c"})
	fg, err := hom.Compose(f, g)
	r.NoError(err)
	img, ok := fg.Image("a")
	r.True(ok)
	r.Equal("c", img)

	id := hom.Identity([]string{"a", "b"})
	img, ok = id.Image("a")
	r.True(ok)
	r.Equal("a", img)
}

func TestPullbackProducesFiberProduct(t *testing.T) {
	r := require.New(t)
	d := graphstore.NewGraph(true)
	r.NoError(d.AddNode("t", nil))

	b := graphstore.NewGraph(true)
	r.NoError(b.AddNode("b1", nil))
	r.NoError(b.AddNode("b2", nil))

	c := graphstore.NewGraph(true)
	r.NoError(c.AddNode("c1", nil))

	h := hom.New(map[string]string{"b1": "t", "b2": "t"})
	k := hom.New(map[string]string{"c1": "t"})

	p, pB, pC, err := hom.Pullback(h, k, b, c, d)
	r.NoError(err)
	r.Len(p.ListNodes(), 2) // (b1,c1) and (b2,c1)
	for _, n := range p.ListNodes() {
		bImg, _ := pB.Image(n)
		cImg, _ := pC.Image(n)
		r.Equal("c1", cImg)
		r.Contains([]string{"b1", "b2"}, bImg)
	}
}

func TestPushoutIdentifiesSharedPreimage(t *testing.T) {
	r := require.New(t)
	a := graphstore.NewGraph(true)
	r.NoError(a.AddNode("a1", nil))

	b := graphstore.NewGraph(true)
	r.NoError(b.AddNode("b1", nil))
	r.NoError(b.AddNode("b2", nil))

	c := graphstore.NewGraph(true)
	r.NoError(c.AddNode("c1", nil))
	r.NoError(c.AddNode("c2", nil))

	h := hom.New(map[string]string{"a1": "b1"})
	k := hom.New(map[string]string{"a1": "c1"})

	g, gB, gC, err := hom.Pushout(h, k, a, b, c)
	r.NoError(err)
	r.Len(g.ListNodes(), 3) // b1~c1 merged, b2, c2 remain distinct

	b1Img, _ := gB.Image("b1")
	c1Img, _ := gC.Image("c1")
	r.Equal(b1Img, c1Img)

	b2Img, _ := gB.Image("b2")
	c2Img, _ := gC.Image("c2")
	r.NotEqual(b2Img, c2Img)
}

func TestPullbackComplementDeletesUnmatchedNode(t *testing.T) {
	r := require.New(t)
	l := graphstore.NewGraph(true)
	r.NoError(l.AddNode("ln", nil))
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("gn", nil))
	r.NoError(g.AddNode("other", nil))
	r.NoError(g.AddEdge("gn", "other", nil))

	p := graphstore.NewGraph(true) // empty interface: ln has zero preimages
	pL := hom.New(map[string]string{})
	lG := hom.New(map[string]string{"ln": "gn"})

	gm, _, mG, err := hom.PullbackComplement(pL, lG, p, l, g)
	r.NoError(err)
	r.False(gm.HasNode("gn"))
	r.True(gm.HasNode("other"))
	img, ok := mG.Image("other")
	r.True(ok)
	r.Equal("other", img)
}

func TestPullbackComplementClonesOnMultiplePreimages(t *testing.T) {
	r := require.New(t)
	l := graphstore.NewGraph(true)
	r.NoError(l.AddNode("ln", nil))
	g := graphstore.NewGraph(true)
	r.NoError(g.AddNode("gn", nil))
	r.NoError(g.AddNode("nbr", nil))
	r.NoError(g.AddEdge("gn", "nbr", nil))

	p := graphstore.NewGraph(true)
	r.NoError(p.AddNode("p1", nil))
	r.NoError(p.AddNode("p2", nil))
	pL := hom.New(map[string]string{"p1": "ln", "p2": "ln"})
	lG := hom.New(map[string]string{"ln": "gn"})

	gm, pM, _, err := hom.PullbackComplement(pL, lG, p, l, g)
	r.NoError(err)
	r.Len(gm.ListNodes(), 3) // two clones of gn + nbr

	id1, _ := pM.Image("p1")
	id2, _ := pM.Image("p2")
	r.NotEqual(id1, id2)
	// the unconstrained edge to nbr (not an L-edge image) mirrors to both clones.
	r.True(gm.HasEdge(id1, "nbr"))
	r.True(gm.HasEdge(id2, "nbr"))
}
