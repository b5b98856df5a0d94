// Package rule implements the rewriting rule span (§4.D): a preserved part
// P related to a left-hand pattern L and a right-hand replacement R by two
// homomorphisms p_lhs: P→L and p_rhs: P→R. Editing a rule mutates P, L's
// complement and R in lockstep so the span always stays well-typed.
package rule

import (
	"sort"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
)

// Rule is the span L ← P → R of §3: a preserved part P, a left-hand
// pattern L, a right-hand replacement R, and the two structure-preserving
// maps p_lhs, p_rhs. A P-node mapping to the same L-node as another is a
// clone; two P-nodes mapping to the same R-node is a merge.
type Rule struct {
	P, L, R *graphstore.Graph
	PL, PR  *hom.Hom
}

// New builds a Rule from explicit p, l, r graphs and p_lhs/p_rhs maps,
// validating both legs are well-formed homomorphisms.
func New(p, l, r *graphstore.Graph, pl, pr *hom.Hom) (*Rule, error) {
	if err := hom.Check(pl, p, l); err != nil {
		return nil, err
	}
	if err := hom.Check(pr, p, r); err != nil {
		return nil, err
	}
	return &Rule{P: p, L: l, R: r, PL: pl, PR: pr}, nil
}

// Identity builds the no-op rule over pattern: P, L and R are all copies of
// pattern and p_lhs, p_rhs are both identity — the starting point FromTransform
// refines via a command list.
func Identity(pattern *graphstore.Graph) *Rule {
	p := pattern.Clone()
	l := pattern.Clone()
	r := pattern.Clone()
	ids := pattern.ListNodes()
	return &Rule{P: p, L: l, R: r, PL: hom.Identity(ids), PR: hom.Identity(ids)}
}

// keysByValue returns the domain keys of m mapping to val, sorted for
// deterministic iteration — the Go analogue of the teacher's keys_by_value
// helper used throughout the rule edit surface.
func keysByValue(m map[string]string, val string) []string {
	var out []string
	for k, v := range m {
		if v == val {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// --- LHS-surface edits (mutate P and R, keyed by L-node ids) ---

// AddNode introduces a brand new node into R only: it has no preimage in P
// and no counterpart in L.
func (ru *Rule) AddNode(id string, attrs attrset.AttrMap) error {
	if ru.R.HasNode(id) {
		return &RuleError{Kind: NodeAlreadyInRHS, Node: id}
	}
	if ru.L.HasNode(id) {
		return &RuleError{Kind: NodeAlreadyInRHS, Node: id}
	}
	return ru.R.AddNode(id, attrs)
}

// RemoveNode deletes the L-node n: every P-preimage of n, and its R-image,
// are removed along with it.
func (ru *Rule) RemoveNode(n string) error {
	for _, k := range keysByValue(ru.PL.NodeMap, n) {
		if ru.P.HasNode(k) {
			if err := ru.P.RemoveNode(k); err != nil {
				return err
			}
		}
		if rn, ok := ru.PR.Image(k); ok && ru.R.HasNode(rn) {
			if err := ru.R.RemoveNode(rn); err != nil {
				return err
			}
			for _, other := range keysByValue(ru.PR.NodeMap, rn) {
				delete(ru.PR.NodeMap, other)
			}
		}
		delete(ru.PL.NodeMap, k)
	}
	return nil
}

// AddEdge adds an edge between L-nodes n1, n2 by adding the corresponding
// edge between every pair of P-preimages' R-images.
func (ru *Rule) AddEdge(n1, n2 string, attrs attrset.AttrMap) error {
	k1s := keysByValue(ru.PL.NodeMap, n1)
	k2s := keysByValue(ru.PL.NodeMap, n2)
	for _, k1 := range k1s {
		if !ru.P.HasNode(k1) {
			return &RuleError{Kind: NodeNotInP, Node: k1}
		}
		for _, k2 := range k2s {
			if !ru.P.HasNode(k2) {
				return &RuleError{Kind: NodeNotInP, Node: k2}
			}
			r1, _ := ru.PR.Image(k1)
			r2, _ := ru.PR.Image(k2)
			if ru.R.HasEdge(r1, r2) {
				return &RuleError{Kind: EdgeAlreadyExists, Node: r1 + "->" + r2}
			}
			if err := ru.R.AddEdge(r1, r2, attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveEdge removes the (n1,n2) edge from both P and R, for every
// P-preimage pair of the L-nodes n1, n2.
func (ru *Rule) RemoveEdge(n1, n2 string) error {
	k1s := keysByValue(ru.PL.NodeMap, n1)
	k2s := keysByValue(ru.PL.NodeMap, n2)
	for _, k1 := range k1s {
		for _, k2 := range k2s {
			if !ru.P.HasEdge(k1, k2) {
				return &RuleError{Kind: EdgeNotInP, Node: k1 + "->" + k2}
			}
			r1, _ := ru.PR.Image(k1)
			r2, _ := ru.PR.Image(k2)
			if !ru.R.HasEdge(r1, r2) {
				return &RuleError{Kind: EdgeNotInRHS, Node: r1 + "->" + r2}
			}
			if err := ru.P.RemoveEdge(k1, k2); err != nil {
				return err
			}
			if err := ru.R.RemoveEdge(r1, r2); err != nil {
				return err
			}
		}
	}
	return nil
}

// CloneNode clones the L-node n: every P-preimage of n is duplicated in P
// and its R-image duplicated in R, producing a fresh P-node mapping to n in
// p_lhs and to the new R-node in p_rhs — this is precisely what makes two
// P-nodes share an L-image (§3's definition of "clone").
func (ru *Rule) CloneNode(n, newName string) (pNew, rNew []string, err error) {
	for _, k := range keysByValue(ru.PL.NodeMap, n) {
		pN, err := ru.P.CloneNode(k, "")
		if err != nil {
			return nil, nil, err
		}
		rImg, _ := ru.PR.Image(k)
		rN, err := ru.R.CloneNode(rImg, newName)
		if err != nil {
			return nil, nil, err
		}
		ru.PL.NodeMap[pN] = n
		ru.PR.NodeMap[pN] = rN
		pNew = append(pNew, pN)
		rNew = append(rNew, rN)
	}
	return pNew, rNew, nil
}

// MergeNodes merges the L-nodes n1, n2: every distinct R-image reachable
// from their P-preimages is merged into one R-node, and every merged
// P-preimage's p_rhs entry is redirected to it — this is §3's definition of
// "merge".
func (ru *Rule) MergeNodes(n1, n2, newName string) (string, error) {
	k1s := keysByValue(ru.PL.NodeMap, n1)
	k2s := keysByValue(ru.PL.NodeMap, n2)
	seen := map[string]struct{}{}
	var toMerge []string
	for _, k := range append(append([]string{}, k1s...), k2s...) {
		r, ok := ru.PR.Image(k)
		if !ok {
			continue
		}
		if _, dup := seen[r]; !dup {
			seen[r] = struct{}{}
			toMerge = append(toMerge, r)
		}
	}
	merged, err := ru.R.MergeNodes(toMerge, newName)
	if err != nil {
		return "", err
	}
	for _, k := range append(append([]string{}, k1s...), k2s...) {
		ru.PR.NodeMap[k] = merged
	}
	return merged, nil
}

// MergeNodeList merges nodes pairwise left-to-right, folding the running
// merge result into each subsequent pair, mirroring the original
// implementation's iterative reduction.
func (ru *Rule) MergeNodeList(nodes []string, newName string) (string, error) {
	if len(nodes) < 2 {
		return "", &RuleError{Kind: InvalidCommand, Node: "merge requires at least two nodes"}
	}
	name, err := ru.MergeNodes(nodes[0], nodes[1], newName)
	if err != nil {
		return "", err
	}
	for i := 2; i < len(nodes); i++ {
		// nodes[0]'s P-preimages already map to the running result name.
		name, err = ru.MergeNodes(nodes[0], nodes[i], name)
		if err != nil {
			return "", err
		}
	}
	return name, nil
}

// AddNodeAttrs adds attrs to every P-preimage's R-image of the L-node n.
func (ru *Rule) AddNodeAttrs(n string, attrs attrset.AttrMap) error {
	if !ru.L.HasNode(n) {
		return &RuleError{Kind: NodeNotInLHS, Node: n}
	}
	keys := keysByValue(ru.PL.NodeMap, n)
	if len(keys) == 0 {
		return &RuleError{Kind: NodeBeingRemoved, Node: n}
	}
	for _, k := range keys {
		r, _ := ru.PR.Image(k)
		if err := ru.R.SetNodeAttrs(r, graphstore.OpAdd, attrs); err != nil {
			return err
		}
	}
	return nil
}

// RemoveNodeAttrs removes attrs from n's P-preimages and their R-images.
func (ru *Rule) RemoveNodeAttrs(n string, attrs attrset.AttrMap) error {
	if !ru.L.HasNode(n) {
		return &RuleError{Kind: NodeNotInLHS, Node: n}
	}
	keys := keysByValue(ru.PL.NodeMap, n)
	if len(keys) == 0 {
		return &RuleError{Kind: NodeBeingRemoved, Node: n}
	}
	for _, k := range keys {
		if err := ru.P.SetNodeAttrs(k, graphstore.OpRemove, attrs); err != nil {
			return err
		}
		r, _ := ru.PR.Image(k)
		if err := ru.R.SetNodeAttrs(r, graphstore.OpRemove, attrs); err != nil {
			return err
		}
	}
	return nil
}

// UpdateNodeAttrs replaces n's R-image attributes outright.
func (ru *Rule) UpdateNodeAttrs(n string, attrs attrset.AttrMap) error {
	if !ru.L.HasNode(n) {
		return &RuleError{Kind: NodeNotInLHS, Node: n}
	}
	keys := keysByValue(ru.PL.NodeMap, n)
	if len(keys) == 0 {
		return &RuleError{Kind: NodeBeingRemoved, Node: n}
	}
	for _, k := range keys {
		r, _ := ru.PR.Image(k)
		if err := ru.R.SetNodeAttrs(r, graphstore.OpReplace, attrs); err != nil {
			return err
		}
	}
	return nil
}

// AddEdgeAttrs adds attrs to the (n1,n2) edge's image in R, for every
// P-preimage pair of the L-edge.
func (ru *Rule) AddEdgeAttrs(n1, n2 string, attrs attrset.AttrMap) error {
	if !ru.L.HasEdge(n1, n2) {
		return &RuleError{Kind: EdgeNotInLHS, Node: n1 + "->" + n2}
	}
	k1s, k2s := keysByValue(ru.PL.NodeMap, n1), keysByValue(ru.PL.NodeMap, n2)
	if len(k1s) == 0 {
		return &RuleError{Kind: NodeBeingRemoved, Node: n1}
	}
	if len(k2s) == 0 {
		return &RuleError{Kind: NodeBeingRemoved, Node: n2}
	}
	for _, k1 := range k1s {
		for _, k2 := range k2s {
			r1, _ := ru.PR.Image(k1)
			r2, _ := ru.PR.Image(k2)
			if err := ru.R.SetEdgeAttrs(r1, r2, graphstore.OpAdd, attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveEdgeAttrs removes attrs from the (n1,n2) edge's image in R.
func (ru *Rule) RemoveEdgeAttrs(n1, n2 string, attrs attrset.AttrMap) error {
	if !ru.L.HasEdge(n1, n2) {
		return &RuleError{Kind: EdgeNotInLHS, Node: n1 + "->" + n2}
	}
	k1s, k2s := keysByValue(ru.PL.NodeMap, n1), keysByValue(ru.PL.NodeMap, n2)
	for _, k1 := range k1s {
		for _, k2 := range k2s {
			r1, _ := ru.PR.Image(k1)
			r2, _ := ru.PR.Image(k2)
			if err := ru.R.SetEdgeAttrs(r1, r2, graphstore.OpRemove, attrs); err != nil {
				return err
			}
		}
	}
	return nil
}
