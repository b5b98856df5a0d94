// File: memstore.go
// Role: MemStore, the native in-memory Store backend (§6), a map of
// graphID → *Graph guarded by one RWMutex, mirroring the Graph/Store split
// the teacher draws between core.Graph and its surrounding packages.
package graphstore

import (
	"sync"

	"github.com/katalvlaran/hierograph/attrset"
)

// MemStore is the in-memory Store implementation shipped with this module.
type MemStore struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{graphs: make(map[string]*Graph)}
}

func (s *MemStore) get(graphID string) (*Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[graphID]
	if !ok {
		return nil, ErrUnknownGraph
	}
	return g, nil
}

func (s *MemStore) CreateGraph(graphID string, directed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[graphID]; ok {
		return &GraphError{Kind: Duplicate, GraphID: graphID}
	}
	s.graphs[graphID] = NewGraph(directed)
	return nil
}

func (s *MemStore) DropGraph(graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[graphID]; !ok {
		return ErrUnknownGraph
	}
	delete(s.graphs, graphID)
	return nil
}

func (s *MemStore) HasGraph(graphID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.graphs[graphID]
	return ok
}

func (s *MemStore) AddNode(graphID, nodeID string, attrs attrset.AttrMap) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.AddNode(nodeID, attrs)
}

func (s *MemStore) RemoveNode(graphID, nodeID string) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.RemoveNode(nodeID)
}

func (s *MemStore) AddEdge(graphID, src, tgt string, attrs attrset.AttrMap) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.AddEdge(src, tgt, attrs)
}

func (s *MemStore) RemoveEdge(graphID, src, tgt string) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.RemoveEdge(src, tgt)
}

func (s *MemStore) CloneNode(graphID, nodeID, newID string) (string, error) {
	g, err := s.get(graphID)
	if err != nil {
		return "", err
	}
	return g.CloneNode(nodeID, newID)
}

func (s *MemStore) MergeNodes(graphID string, nodeIDs []string, newID string) (string, error) {
	g, err := s.get(graphID)
	if err != nil {
		return "", err
	}
	return g.MergeNodes(nodeIDs, newID)
}

func (s *MemStore) SetNodeAttrs(graphID, nodeID string, op AttrOp, attrs attrset.AttrMap) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.SetNodeAttrs(nodeID, op, attrs)
}

func (s *MemStore) SetEdgeAttrs(graphID, src, tgt string, op AttrOp, attrs attrset.AttrMap) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	return g.SetEdgeAttrs(src, tgt, op, attrs)
}

func (s *MemStore) Neighbors(graphID, nodeID string, dir Direction) ([]string, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.Neighbors(nodeID, dir)
}

func (s *MemStore) HasEdge(graphID, src, tgt string) (bool, error) {
	g, err := s.get(graphID)
	if err != nil {
		return false, err
	}
	return g.HasEdge(src, tgt), nil
}

func (s *MemStore) ListNodes(graphID string) ([]string, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.ListNodes(), nil
}

func (s *MemStore) ListEdges(graphID string) ([]Edge, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.ListEdges(), nil
}

func (s *MemStore) NodeAttrs(graphID, nodeID string) (attrset.AttrMap, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.NodeAttrs(nodeID)
}

func (s *MemStore) EdgeAttrs(graphID, src, tgt string) (attrset.AttrMap, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.EdgeAttrs(src, tgt)
}

func (s *MemStore) IsDirected(graphID string) (bool, error) {
	g, err := s.get(graphID)
	if err != nil {
		return false, err
	}
	return g.IsDirected(), nil
}

func (s *MemStore) Snapshot(graphID string) (*Graph, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (s *MemStore) PutGraph(graphID string, g *Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[graphID]; !ok {
		return ErrUnknownGraph
	}
	s.graphs[graphID] = g
	return nil
}

// BeginTx returns a no-op Tx (§6): MemStore's primitives above each take
// their own short-lived lock and are already atomic per call, so there is
// no separate write lock for a Tx to hold. BeginTx exists so callers that
// batch primitive calls across backends (hierarchy.Hierarchy.Rewrite) have
// a uniform begin/commit/rollback surface; a query-emitting remote backend
// is where a Tx would buffer statements and gain real atomicity.
func (s *MemStore) BeginTx() (Tx, error) {
	return &memTx{}, nil
}

// memTx is a no-op marker: MemStore's primitives are already atomic per
// call, so a transaction here only documents the intended batch boundary.
// A query-emitting remote backend would instead buffer statements in Commit.
type memTx struct{ done bool }

func (t *memTx) Commit() error {
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

var _ TxStore = (*MemStore)(nil)
