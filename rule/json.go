package rule

import (
	"encoding/json"

	"github.com/katalvlaran/hierograph/attrset"
	"github.com/katalvlaran/hierograph/graphstore"
	"github.com/katalvlaran/hierograph/hom"
)

// graphJSON is the §6 wire form of a single attributed graph: node ids with
// attribute maps, plus an edge list. Attribute sets are encoded as sorted
// scalar slices (via attrset.AttrMap.Keys / AttrVal iteration) so the JSON
// is stable across runs, which matters for golden-file tests.
type graphJSON struct {
	Directed bool                                `json:"directed"`
	Nodes    map[string]map[string][]interface{} `json:"nodes"`
	Edges    []edgeJSON                          `json:"edges"`
}

type edgeJSON struct {
	From  string                   `json:"from"`
	To    string                   `json:"to"`
	Attrs map[string][]interface{} `json:"attrs,omitempty"`
}

// RuleJSON is the §6 Rule JSON form: the three graphs plus the two legs of
// the span, encoded as plain node-id maps.
type RuleJSON struct {
	P    graphJSON         `json:"p"`
	L    graphJSON         `json:"lhs"`
	R    graphJSON         `json:"rhs"`
	PLhs map[string]string `json:"p_lhs"`
	PRhs map[string]string `json:"p_rhs"`
}

func attrMapToJSON(m attrset.AttrMap) map[string][]interface{} {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]interface{}, len(m))
	for _, k := range m.Keys() {
		var vals []interface{}
		av := m[k]
		scalars := make([]attrset.Scalar, 0, len(av))
		for s := range av {
			scalars = append(scalars, s)
		}
		// Deterministic by raw value: sort using fmt-free comparisons on Raw().
		sortScalarsByRaw(scalars)
		for _, s := range scalars {
			vals = append(vals, s.Raw())
		}
		out[k] = vals
	}
	return out
}

func sortScalarsByRaw(s []attrset.Scalar) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0; j-- {
			if lessRaw(s[j], s[j-1]) {
				s[j], s[j-1] = s[j-1], s[j]
			} else {
				break
			}
		}
	}
}

func lessRaw(a, b attrset.Scalar) bool {
	ar, br := a.Raw(), b.Raw()
	switch av := ar.(type) {
	case bool:
		bv, _ := br.(bool)
		return !av && bv
	case int64:
		bv, _ := br.(int64)
		return av < bv
	case string:
		bv, _ := br.(string)
		return av < bv
	default:
		return false
	}
}

func attrMapFromJSON(m map[string][]interface{}) (attrset.AttrMap, error) {
	out := attrset.AttrMap{}
	for k, vals := range m {
		av := attrset.AttrVal{}
		for _, raw := range vals {
			s, err := scalarFromRaw(raw)
			if err != nil {
				return nil, err
			}
			av[s] = struct{}{}
		}
		out[k] = av
	}
	return out, nil
}

func scalarFromRaw(raw interface{}) (attrset.Scalar, error) {
	switch v := raw.(type) {
	case bool:
		return attrset.Bool(v), nil
	case float64:
		return attrset.Int(int64(v)), nil
	case string:
		return attrset.String(v), nil
	default:
		return attrset.Scalar{}, attrset.ErrUnsupportedScalar
	}
}

func graphToJSON(g *graphstore.Graph) graphJSON {
	out := graphJSON{Directed: g.IsDirected(), Nodes: map[string]map[string][]interface{}{}}
	for _, id := range g.ListNodes() {
		attrs, _ := g.NodeAttrs(id)
		out.Nodes[id] = attrMapToJSON(attrs)
	}
	for _, e := range g.ListEdges() {
		out.Edges = append(out.Edges, edgeJSON{From: e.From, To: e.To, Attrs: attrMapToJSON(e.Attrs)})
	}
	return out
}

func graphFromJSON(gj graphJSON) (*graphstore.Graph, error) {
	g := graphstore.NewGraph(gj.Directed)
	for id, attrs := range gj.Nodes {
		am, err := attrMapFromJSON(attrs)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(id, am); err != nil {
			return nil, err
		}
	}
	for _, e := range gj.Edges {
		am, err := attrMapFromJSON(e.Attrs)
		if err != nil {
			return nil, err
		}
		if err := g.AddEdge(e.From, e.To, am); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ToJSON renders the rule to its §6 wire form.
func (ru *Rule) ToJSON() RuleJSON {
	return RuleJSON{
		P:    graphToJSON(ru.P),
		L:    graphToJSON(ru.L),
		R:    graphToJSON(ru.R),
		PLhs: copyStringMap(ru.PL.NodeMap),
		PRhs: copyStringMap(ru.PR.NodeMap),
	}
}

// FromJSON reconstructs a Rule from its wire form, validating both legs.
func FromJSON(rj RuleJSON) (*Rule, error) {
	p, err := graphFromJSON(rj.P)
	if err != nil {
		return nil, err
	}
	l, err := graphFromJSON(rj.L)
	if err != nil {
		return nil, err
	}
	r, err := graphFromJSON(rj.R)
	if err != nil {
		return nil, err
	}
	return New(p, l, r, hom.New(rj.PLhs), hom.New(rj.PRhs))
}

// MarshalJSON adapts ToJSON to encoding/json directly. Rule has no
// UnmarshalJSON counterpart; decoding goes through RuleJSON and FromJSON.
func (ru *Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ru.ToJSON())
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
