// Package rulelang tokenizes and parses the §6 rule transformation command
// language — a sequence of period-separated commands — into []rule.Command
// values that rule.FromTransform consumes. This is the one piece of surface
// the original spec.md calls out as "optional", so it lives in its own
// package rather than inside rule, keeping rule importable without ever
// pulling in a parser.
package rulelang

import (
	"encoding/json"
	"strings"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/rule"
)

// Parse splits source on '.' into individual commands and parses each one.
// Blank commands (trailing '.', blank lines) are skipped.
func Parse(source string) ([]rule.Command, error) {
	var out []rule.Command
	for _, raw := range strings.Split(source, ".") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		cmd, err := parseOne(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

func parseOne(raw string) (rule.Command, error) {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	keyword, args := tokens[0], tokens[1:]

	switch keyword {
	case "clone":
		return parseClone(raw, args)
	case "merge":
		return parseMerge(raw, args)
	case "add_node":
		return parseAddNode(raw, args)
	case "delete_node":
		if len(args) != 1 {
			return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
		}
		return rule.Command{Kind: rule.CmdDeleteNode, Node: args[0]}, nil
	case "add_edge":
		return parseEdge(raw, args, rule.CmdAddEdge, true)
	case "delete_edge":
		return parseEdge(raw, args, rule.CmdDeleteEdge, false)
	case "add_node_attrs":
		return parseNodeAttrs(raw, args, rule.CmdAddNodeAttrs)
	case "delete_node_attrs":
		return parseNodeAttrs(raw, args, rule.CmdDeleteNodeAttrs)
	case "add_edge_attrs":
		return parseEdgeAttrs(raw, args, rule.CmdAddEdgeAttrs)
	case "delete_edge_attrs":
		return parseEdgeAttrs(raw, args, rule.CmdDeleteEdgeAttrs)
	default:
		return rule.Command{}, &ParsingError{Kind: UnknownKeyword, Command: keyword}
	}
}

func parseClone(raw string, args []string) (rule.Command, error) {
	if len(args) == 0 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	cmd := rule.Command{Kind: rule.CmdClone, Node: args[0]}
	if len(args) >= 3 && args[1] == "as" {
		cmd.NodeName = args[2]
	} else if len(args) != 1 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	return cmd, nil
}

func parseMerge(raw string, args []string) (rule.Command, error) {
	if len(args) == 0 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	nodes := strings.Split(args[0], ",")
	for i := range nodes {
		nodes[i] = strings.TrimSpace(nodes[i])
	}
	cmd := rule.Command{Kind: rule.CmdMerge, Nodes: nodes}
	if len(args) >= 3 && args[1] == "as" {
		cmd.NodeName = args[2]
	} else if len(args) != 1 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	return cmd, nil
}

func parseAddNode(raw string, args []string) (rule.Command, error) {
	cmd := rule.Command{Kind: rule.CmdAddNode}
	for _, a := range args {
		if strings.HasPrefix(a, "{") {
			attrs, err := attrsFromJSON(a)
			if err != nil {
				return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
			}
			cmd.Attrs = attrs
		} else if cmd.Node == "" {
			cmd.Node = a
		} else {
			return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
		}
	}
	return cmd, nil
}

func parseEdge(raw string, args []string, kind rule.CommandKind, attrsOptional bool) (rule.Command, error) {
	if len(args) < 2 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	cmd := rule.Command{Kind: kind, Node1: args[0], Node2: args[1]}
	if len(args) == 3 && attrsOptional {
		attrs, err := attrsFromJSON(args[2])
		if err != nil {
			return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
		}
		cmd.Attrs = attrs
	} else if len(args) != 2 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	return cmd, nil
}

func parseNodeAttrs(raw string, args []string, kind rule.CommandKind) (rule.Command, error) {
	if len(args) != 2 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	attrs, err := attrsFromJSON(args[1])
	if err != nil {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	return rule.Command{Kind: kind, Node: args[0], Attrs: attrs}, nil
}

func parseEdgeAttrs(raw string, args []string, kind rule.CommandKind) (rule.Command, error) {
	if len(args) != 3 {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	attrs, err := attrsFromJSON(args[2])
	if err != nil {
		return rule.Command{}, &ParsingError{Kind: MalformedCommand, Command: raw}
	}
	return rule.Command{Kind: kind, Node1: args[0], Node2: args[1], Attrs: attrs}, nil
}

// tokenize splits on whitespace, except inside a brace-delimited attrs_json
// span, which is kept as a single token regardless of internal spaces.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '{':
			depth++
			cur.WriteRune(r)
		case r == '}':
			depth--
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func attrsFromJSON(raw string) (attrset.AttrMap, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	out := attrset.AttrMap{}
	for k, v := range decoded {
		av, err := jsonValueToAttrVal(v)
		if err != nil {
			return nil, err
		}
		out[k] = av
	}
	return out, nil
}

func jsonValueToAttrVal(v interface{}) (attrset.AttrVal, error) {
	if list, ok := v.([]interface{}); ok {
		av := attrset.AttrVal{}
		for _, elem := range list {
			s, err := scalarFromJSON(elem)
			if err != nil {
				return nil, err
			}
			av[s] = struct{}{}
		}
		return av, nil
	}
	s, err := scalarFromJSON(v)
	if err != nil {
		return nil, err
	}
	return attrset.NewAttrVal(s), nil
}

func scalarFromJSON(v interface{}) (attrset.Scalar, error) {
	switch t := v.(type) {
	case bool:
		return attrset.Bool(t), nil
	case float64:
		return attrset.Int(int64(t)), nil
	case string:
		return attrset.String(t), nil
	default:
		return attrset.Scalar{}, attrset.ErrUnsupportedScalar
	}
}
