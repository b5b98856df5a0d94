package attrset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/attrset"
)

func TestNormalizeLiftsScalarsAndSlices(t *testing.T) {
	r := require.New(t)

	v, err := attrset.Normalize(true)
	r.NoError(err)
	r.True(attrset.Equal(v, attrset.NewAttrVal(attrset.Bool(true))))

	v, err = attrset.Normalize(42)
	r.NoError(err)
	r.True(attrset.Equal(v, attrset.NewAttrVal(attrset.Int(42))))

	v, err = attrset.Normalize("red")
	r.NoError(err)
	r.True(attrset.Equal(v, attrset.NewAttrVal(attrset.String("red"))))

	v, err = attrset.Normalize([]attrset.Scalar{attrset.Int(1), attrset.Int(2)})
	r.NoError(err)
	r.Len(v, 2)

	_, err = attrset.Normalize(3.14)
	r.ErrorIs(err, attrset.ErrUnsupportedScalar)
}

func TestSetAlgebra(t *testing.T) {
	r := require.New(t)

	a := attrset.NewAttrVal(attrset.Int(1), attrset.Int(2), attrset.Int(3))
	b := attrset.NewAttrVal(attrset.Int(2), attrset.Int(3), attrset.Int(4))

	r.True(attrset.Equal(attrset.Union(a, b), attrset.NewAttrVal(
		attrset.Int(1), attrset.Int(2), attrset.Int(3), attrset.Int(4))))
	r.True(attrset.Equal(attrset.Intersect(a, b), attrset.NewAttrVal(attrset.Int(2), attrset.Int(3))))
	r.True(attrset.Equal(attrset.Difference(a, b), attrset.NewAttrVal(attrset.Int(1))))
	r.True(attrset.Subset(attrset.NewAttrVal(attrset.Int(2)), a))
	r.False(attrset.Subset(a, attrset.NewAttrVal(attrset.Int(2))))
}

func TestEmptySetDistinctFromMissingKey(t *testing.T) {
	r := require.New(t)

	m := attrset.AttrMap{"tags": {}}
	_, hasTags := m["tags"]
	_, hasColor := m["color"]
	r.True(hasTags)
	r.False(hasColor)
	r.Empty(m["tags"])
}

func TestAttrMapSubsetPointwise(t *testing.T) {
	r := require.New(t)

	a := attrset.AttrMap{"color": attrset.NewAttrVal(attrset.String("red"))}
	b := attrset.AttrMap{"color": attrset.NewAttrVal(attrset.String("red"), attrset.String("blue"))}
	r.True(a.Subset(b))
	r.False(b.Subset(a))

	// A key absent from the candidate with a non-empty value in m fails.
	c := attrset.AttrMap{"shape": attrset.NewAttrVal(attrset.String("circle"))}
	r.False(c.Subset(attrset.AttrMap{}))
}

func TestMergeUnionIsIdempotent(t *testing.T) {
	r := require.New(t)

	a := attrset.AttrMap{"tags": attrset.NewAttrVal(attrset.String("x"))}
	once := attrset.MergeUnion(a, a)
	twice := attrset.MergeUnion(once, a)
	r.True(attrset.Equal(once["tags"], twice["tags"]))
}
