// Package rewrite implements the single-step sesqui-pushout rewriting
// procedure (§4.E): given a rule and a match of its left-hand pattern in a
// host graph, produce the rewritten graph and the homomorphisms tracking
// where the host's surviving structure and the rule's replacement landed.
package rewrite

import (
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
	"github.com/katalvlaran/hierograph/rule"
)

// Result is the outcome of a single SqPO rewrite step: the rewritten graph
// G′, plus the homomorphisms out of the pullback-complement and pushout
// squares that hierarchy propagation needs to trace how the host changed.
type Result struct {
	GPrime *graphstore.Graph
	// GmGPrime maps G_m (the post-clone/delete host) into G′.
	GmGPrime *hom.Hom
	// RhsGPrime maps R (the rule's replacement) into G′.
	RhsGPrime *hom.Hom
	// MG maps G_m back into the original host graph, identifying which
	// G-nodes survived, were cloned, or were deleted — hierarchy
	// propagation reads this to know what changed.
	MG *hom.Hom
	// PM maps P into G_m; combined with MG it lets a caller trace a
	// P-node all the way back to the original host node(s) it matched,
	// which is what hierarchy's downward merge repair needs.
	PM *hom.Hom
}

// Apply performs one SqPO rewrite of host according to ru, under a match
// lG: ru.L → host (§4.E):
//
//  1. Pullback-complement of (ru.P -ru.PL-> ru.L, ru.L -lG-> host) gives
//     G_m, p_m: P→G_m, m_g: G_m→host — the clone/delete half.
//  2. Pushout of (ru.P -ru.PR-> ru.R, ru.P -p_m-> G_m) gives G′ and the two
//     injections out of it — the merge/add half.
func Apply(ru *rule.Rule, host *graphstore.Graph, lG *hom.Hom) (*Result, error) {
	gm, pM, mG, err := hom.PullbackComplement(ru.PL, lG, ru.P, ru.L, host)
	if err != nil {
		return nil, err
	}
	gPrime, rhsGPrime, gmGPrime, err := hom.Pushout(ru.PR, pM, ru.P, ru.R, gm)
	if err != nil {
		return nil, err
	}
	return &Result{
		GPrime:    gPrime,
		GmGPrime:  gmGPrime,
		RhsGPrime: rhsGPrime,
		MG:        mG,
		PM:        pM,
	}, nil
}
