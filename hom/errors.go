package hom

import "errors"

// InvalidHomomorphismKind tags why check_homomorphism rejected a map (§7).
type InvalidHomomorphismKind uint8

const (
	NotTotal InvalidHomomorphismKind = iota
	MissingEdgeImage
	NodeAttrNotSubset
	EdgeAttrNotSubset
)

func (k InvalidHomomorphismKind) String() string {
	switch k {
	case NotTotal:
		return "NotTotal"
	case MissingEdgeImage:
		return "MissingEdgeImage"
	case NodeAttrNotSubset:
		return "NodeAttrNotSubset"
	case EdgeAttrNotSubset:
		return "EdgeAttrNotSubset"
	default:
		return "Unknown"
	}
}

// InvalidHomomorphism is the §7 InvalidHomomorphism{kind, where} error.
// Where names the offending node (or "u->v" for an edge) in the domain.
type InvalidHomomorphism struct {
	Kind  InvalidHomomorphismKind
	Where string
}

func (e *InvalidHomomorphism) Error() string {
	return "hom: invalid homomorphism (" + e.Kind.String() + ") at " + e.Where
}

func (e *InvalidHomomorphism) Is(target error) bool {
	return target == ErrInvalidHomomorphism
}

// ErrInvalidHomomorphism is the errors.Is sentinel matching any *InvalidHomomorphism.
var ErrInvalidHomomorphism = errors.New("hom: invalid homomorphism")

// ErrDirectednessMismatch is returned by Pullback/Pushout/PullbackComplement
// when the input graphs disagree on directedness; the spec's category
// constructions assume a single ambient category of (either all directed
// or all undirected) attributed graphs.
var ErrDirectednessMismatch = errors.New("hom: directedness mismatch between inputs")

// ErrNonInjectiveMatch is returned by PullbackComplement when l_G identifies
// two distinct L-nodes with the same G-node; a match is required to be
// injective (mono) for the clone/delete bookkeeping below to be well
// defined, matching the conventional "match" requirement in graph rewriting.
var ErrNonInjectiveMatch = errors.New("hom: match homomorphism is not injective")

// ErrCodomainMismatch is returned by Compose when f's codomain assumptions
// don't line up with g's domain.
var ErrCodomainMismatch = errors.New("hom: compose codomain/domain mismatch")
