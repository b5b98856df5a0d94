package rule

import (
	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
)

// This file is the rhs-only edit surface (Open Question 3): operations
// named *RHS touch R directly, keyed by R-node ids, and only reach into P
// when a P-preimage already exists for the R-node being touched. They are
// exposed distinctly from the L-keyed surface in rule.go rather than folded
// into it, since an R-node id and an L-node id are different namespaces
// once a rule has cloned or merged anything.

// AddNodeRHS adds a node directly to R, with no P or L involvement.
func (ru *Rule) AddNodeRHS(id string, attrs attrset.AttrMap) error {
	if ru.R.HasNode(id) {
		return &RuleError{Kind: NodeAlreadyInRHS, Node: id}
	}
	return ru.R.AddNode(id, attrs)
}

// RemoveNodeRHS removes the R-node n. Every P-node whose p_rhs image is n
// is removed from P too, keeping the span well-typed.
func (ru *Rule) RemoveNodeRHS(n string) error {
	if !ru.R.HasNode(n) {
		return &RuleError{Kind: NodeNotInRHS, Node: n}
	}
	for _, k := range keysByValue(ru.PR.NodeMap, n) {
		if ru.P.HasNode(k) {
			if err := ru.P.RemoveNode(k); err != nil {
				return err
			}
		}
		delete(ru.PR.NodeMap, k)
	}
	return ru.R.RemoveNode(n)
}

// AddEdgeRHS adds an edge directly between two R-nodes.
func (ru *Rule) AddEdgeRHS(n1, n2 string, attrs attrset.AttrMap) error {
	return ru.R.AddEdge(n1, n2, attrs)
}

// RemoveEdgeRHS removes an edge between two R-nodes. If a backing P-edge
// exists between matching preimages it is removed too; a P-edge that isn't
// there (the common case, since most rhs-only edits have no P-preimage at
// all) is silently skipped rather than treated as an error.
func (ru *Rule) RemoveEdgeRHS(n1, n2 string) error {
	if err := ru.R.RemoveEdge(n1, n2); err != nil {
		return err
	}
	for _, p1 := range keysByValue(ru.PR.NodeMap, n1) {
		for _, p2 := range keysByValue(ru.PR.NodeMap, n2) {
			if ru.P.HasEdge(p1, p2) {
				_ = ru.P.RemoveEdge(p1, p2)
			}
		}
	}
	return nil
}

// CloneRHSNode clones the R-node n. If n has no P-preimage the clone is a
// pure R-side duplicate. If it has exactly one, the matching P-node is
// cloned in lockstep so the new P-node tracks the new R-node. Cloning a
// node with more than one P-preimage — the result of a prior merge — is
// rejected: a merge collapses identity, and there is no single P-node left
// to clone.
func (ru *Rule) CloneRHSNode(n, newName string) (string, error) {
	if !ru.R.HasNode(n) {
		return "", &RuleError{Kind: NodeNotInRHS, Node: n}
	}
	keys := keysByValue(ru.PR.NodeMap, n)
	switch len(keys) {
	case 0:
		return ru.R.CloneNode(n, newName)
	case 1:
		rNew, err := ru.R.CloneNode(n, newName)
		if err != nil {
			return "", err
		}
		k := keys[0]
		pNew, err := ru.P.CloneNode(k, "")
		if err != nil {
			return "", err
		}
		ru.PR.NodeMap[pNew] = rNew
		ru.PL.NodeMap[pNew] = ru.PL.NodeMap[k]
		return rNew, nil
	default:
		return "", &RuleError{Kind: CloneOfMerge, Node: n}
	}
}

// MergeNodesRHS merges two R-nodes directly. Every P-node whose p_rhs
// pointed at either source node is redirected to the merged result.
func (ru *Rule) MergeNodesRHS(n1, n2, newName string) (string, error) {
	merged, err := ru.R.MergeNodes([]string{n1, n2}, newName)
	if err != nil {
		return "", err
	}
	for k, v := range ru.PR.NodeMap {
		if v == n1 || v == n2 {
			ru.PR.NodeMap[k] = merged
		}
	}
	return merged, nil
}

// AddNodeAttrsRHS adds attrs directly to the R-node n.
func (ru *Rule) AddNodeAttrsRHS(n string, attrs attrset.AttrMap) error {
	if !ru.R.HasNode(n) {
		return &RuleError{Kind: NodeNotInRHS, Node: n}
	}
	return ru.R.SetNodeAttrs(n, graphstore.OpAdd, attrs)
}

// RemoveNodeAttrsRHS removes attrs from the R-node n and from any
// P-preimage.
func (ru *Rule) RemoveNodeAttrsRHS(n string, attrs attrset.AttrMap) error {
	if !ru.R.HasNode(n) {
		return &RuleError{Kind: NodeNotInRHS, Node: n}
	}
	for _, k := range keysByValue(ru.PR.NodeMap, n) {
		if err := ru.P.SetNodeAttrs(k, graphstore.OpRemove, attrs); err != nil {
			return err
		}
	}
	return ru.R.SetNodeAttrs(n, graphstore.OpRemove, attrs)
}
