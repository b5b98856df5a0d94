// Package graphstore defines the attributed-multigraph primitives (§4.B,
// §6 of the spec this module implements) and ships one concrete backend,
// MemStore, an in-memory implementation of Store.
//
// The category kernel (package hom) and the rewriting engine never talk
// to a backend directly; they operate on *Graph snapshots. Store is the
// seam a remote or query-emitting backend plugs into: anything that can
// satisfy Store can stand in for MemStore without the rest of the module
// noticing, exactly as design note "Duck-typed graph backends" requires.
package graphstore

import "github.com/katalvlaran/hierograph/attrset"

// Direction selects which incident edges Neighbors returns.
type Direction uint8

const (
	Out Direction = iota
	In
	Both
)

// AttrOp selects how SetNodeAttrs/SetEdgeAttrs combine new values with the
// existing attribute set for a key.
type AttrOp uint8

const (
	// OpAdd unions the new values into the existing set (§4.A Union).
	OpAdd AttrOp = iota
	// OpRemove subtracts the new values from the existing set (§4.A Difference).
	// The key itself is kept, possibly mapped to the empty set, since
	// "no attribute" and "empty set" are distinguishable states (§3).
	OpRemove
	// OpReplace overwrites the key's value outright.
	OpReplace
)

// Node is a vertex of an attributed graph: an ID plus its attribute map.
type Node struct {
	ID    string
	Attrs attrset.AttrMap
}

// Edge is a directed connection between two node IDs plus its attribute
// map. For an undirected Graph, an Edge is still stored once, under the
// canonical (lexicographically smaller, larger) pair (§3).
type Edge struct {
	From, To string
	Attrs    attrset.AttrMap
}

// Store is the external interface the core requires of any graph backend
// (§6). Every method is parameterized by graphID so a single Store can
// host the many graphs a Hierarchy owns.
type Store interface {
	CreateGraph(graphID string, directed bool) error
	DropGraph(graphID string) error
	HasGraph(graphID string) bool

	AddNode(graphID, nodeID string, attrs attrset.AttrMap) error
	RemoveNode(graphID, nodeID string) error
	AddEdge(graphID, src, tgt string, attrs attrset.AttrMap) error
	RemoveEdge(graphID, src, tgt string) error

	// CloneNode duplicates nodeID's attributes and incident edges into a
	// fresh node. If newID is "", a fresh id is generated.
	CloneNode(graphID, nodeID, newID string) (string, error)
	// MergeNodes identifies nodeIDs into a single node carrying the union
	// of their attributes and incident edges. If newID is "", one is
	// derived deterministically from nodeIDs.
	MergeNodes(graphID string, nodeIDs []string, newID string) (string, error)

	SetNodeAttrs(graphID, nodeID string, op AttrOp, attrs attrset.AttrMap) error
	SetEdgeAttrs(graphID, src, tgt string, op AttrOp, attrs attrset.AttrMap) error

	Neighbors(graphID, nodeID string, dir Direction) ([]string, error)
	HasEdge(graphID, src, tgt string) (bool, error)
	ListNodes(graphID string) ([]string, error)
	ListEdges(graphID string) ([]Edge, error)
	NodeAttrs(graphID, nodeID string) (attrset.AttrMap, error)
	EdgeAttrs(graphID, src, tgt string) (attrset.AttrMap, error)
	IsDirected(graphID string) (bool, error)

	// Snapshot materializes the whole graph as a value the hom/rule/rewrite
	// packages can compute over without further backend round-trips.
	Snapshot(graphID string) (*Graph, error)
	// PutGraph installs g as the complete content of graphID, replacing
	// whatever was there. Used after a pushout/pullback-complement
	// produces a brand-new graph value.
	PutGraph(graphID string, g *Graph) error
}

// TxStore is implemented by backends that can batch primitive calls into
// one transaction (§6: "begin_tx()/commit_tx() (optional...)").
type TxStore interface {
	Store
	BeginTx() (Tx, error)
}

// Tx is a handle for a batch of primitive calls against a TxStore.
type Tx interface {
	Commit() error
	Rollback() error
}
