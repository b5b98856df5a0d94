package graphstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/graphstore"
)

func TestMemStoreLifecycle(t *testing.T) {
	r := require.New(t)
	s := graphstore.NewMemStore()

	r.NoError(s.CreateGraph("g1", true))
	r.ErrorIs(s.CreateGraph("g1", true), graphstore.ErrDuplicate)
	r.True(s.HasGraph("g1"))

	r.NoError(s.AddNode("g1", "a", nil))
	r.NoError(s.AddNode("g1", "b", nil))
	r.NoError(s.AddEdge("g1", "a", "b", nil))

	snap, err := s.Snapshot("g1")
	r.NoError(err)
	r.Len(snap.ListNodes(), 2)

	r.NoError(snap.AddNode("c", nil))
	r.NoError(s.PutGraph("g1", snap))
	nodes, err := s.ListNodes("g1")
	r.NoError(err)
	r.ElementsMatch([]string{"a", "b", "c"}, nodes)

	r.NoError(s.DropGraph("g1"))
	r.False(s.HasGraph("g1"))
}

func TestMemStoreUnknownGraph(t *testing.T) {
	r := require.New(t)
	s := graphstore.NewMemStore()
	_, err := s.ListNodes("nope")
	r.ErrorIs(err, graphstore.ErrUnknownGraph)
}

func TestMemStoreTx(t *testing.T) {
	r := require.New(t)
	s := graphstore.NewMemStore()
	tx, err := s.BeginTx()
	r.NoError(err)
	r.NoError(s.CreateGraph("g", false))
	r.NoError(s.AddNode("g", "a", nil))
	r.NoError(tx.Commit())
	r.True(s.HasGraph("g"))
}
