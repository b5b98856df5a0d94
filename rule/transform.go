package rule

import (
	"sort"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
)

// CommandKind enumerates the §6 transformation command language's keywords.
type CommandKind uint8

const (
	CmdClone CommandKind = iota
	CmdMerge
	CmdAddNode
	CmdDeleteNode
	CmdAddEdge
	CmdDeleteEdge
	CmdAddNodeAttrs
	CmdDeleteNodeAttrs
	CmdAddEdgeAttrs
	CmdDeleteEdgeAttrs
)

// Command is one parsed transformation command. Not every field is used by
// every Kind; rulelang's parser fills in only the fields relevant to the
// keyword it matched.
type Command struct {
	Kind     CommandKind
	Node     string
	NodeName string
	Nodes    []string
	Node1    string
	Node2    string
	Attrs    attrset.AttrMap
}

// canonicalRank implements the design note's canonical command ordering:
// clones < deletes < merges < additions < attribute edits. Commands of
// equal rank keep their relative input order (sort.SliceStable).
func canonicalRank(k CommandKind) int {
	switch k {
	case CmdClone:
		return 0
	case CmdDeleteNode, CmdDeleteEdge:
		return 1
	case CmdMerge:
		return 2
	case CmdAddNode:
		return 3
	case CmdAddEdge:
		return 4
	default: // attribute edits
		return 5
	}
}

// FromTransform builds a Rule from pattern (used as L, P and R's common
// starting point) by applying commands in canonical order. Each command is
// simplified to the matching Rule method call; an unrecognized Kind value
// cannot occur here since rulelang only produces valid Commands, but a
// stray manual Command is rejected with InvalidCommand.
func FromTransform(pattern *graphstore.Graph, commands []Command) (*Rule, error) {
	ru := Identity(pattern)

	ordered := append([]Command{}, commands...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return canonicalRank(ordered[i].Kind) < canonicalRank(ordered[j].Kind)
	})

	for _, c := range ordered {
		if err := applyCommand(ru, c); err != nil {
			return nil, err
		}
	}
	return ru, nil
}

func applyCommand(ru *Rule, c Command) error {
	switch c.Kind {
	case CmdClone:
		_, _, err := ru.CloneNode(c.Node, c.NodeName)
		return err
	case CmdMerge:
		_, err := ru.MergeNodeList(c.Nodes, c.NodeName)
		return err
	case CmdAddNode:
		return ru.AddNode(c.Node, c.Attrs)
	case CmdDeleteNode:
		return ru.RemoveNode(c.Node)
	case CmdAddEdge:
		return ru.AddEdge(c.Node1, c.Node2, c.Attrs)
	case CmdDeleteEdge:
		return ru.RemoveEdge(c.Node1, c.Node2)
	case CmdAddNodeAttrs:
		return ru.AddNodeAttrs(c.Node, c.Attrs)
	case CmdDeleteNodeAttrs:
		return ru.RemoveNodeAttrs(c.Node, c.Attrs)
	case CmdAddEdgeAttrs:
		return ru.AddEdgeAttrs(c.Node1, c.Node2, c.Attrs)
	case CmdDeleteEdgeAttrs:
		return ru.RemoveEdgeAttrs(c.Node1, c.Node2, c.Attrs)
	default:
		return &RuleError{Kind: InvalidCommand, Node: c.Node}
	}
}
