package rule

import "errors"

// RuleErrorKind tags why a rule edit operation was rejected (§7 RuleError).
type RuleErrorKind uint8

const (
	NodeNotInLHS RuleErrorKind = iota
	NodeNotInRHS
	NodeNotInP
	NodeAlreadyInRHS
	NodeBeingRemoved
	EdgeAlreadyExists
	EdgeNotInP
	EdgeNotInRHS
	EdgeNotInLHS
	CloneOfMerge
	InvalidCommand
)

func (k RuleErrorKind) String() string {
	switch k {
	case NodeNotInLHS:
		return "NodeNotInLHS"
	case NodeNotInRHS:
		return "NodeNotInRHS"
	case NodeNotInP:
		return "NodeNotInP"
	case NodeAlreadyInRHS:
		return "NodeAlreadyInRHS"
	case NodeBeingRemoved:
		return "NodeBeingRemoved"
	case EdgeAlreadyExists:
		return "EdgeAlreadyExists"
	case EdgeNotInP:
		return "EdgeNotInP"
	case EdgeNotInRHS:
		return "EdgeNotInRHS"
	case EdgeNotInLHS:
		return "EdgeNotInLHS"
	case CloneOfMerge:
		return "CloneOfMerge"
	case InvalidCommand:
		return "InvalidCommand"
	default:
		return "Unknown"
	}
}

// RuleError is the §7 RuleError{kind, node} error.
type RuleError struct {
	Kind RuleErrorKind
	Node string
}

func (e *RuleError) Error() string {
	return "rule: " + e.Kind.String() + ": " + e.Node
}

func (e *RuleError) Is(target error) bool {
	return target == ErrRule
}

// ErrRule is the errors.Is sentinel matching any *RuleError.
var ErrRule = errors.New("rule: invalid edit")
