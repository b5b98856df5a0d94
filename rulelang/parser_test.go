package rulelang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hierograph/rule"
	"github.com/katalvlaran/hierograph/rulelang"
)

func TestParseCloneAndDelete(t *testing.T) {
	r := require.New(t)
	cmds, err := rulelang.Parse("clone 2 as 21. delete_node 3.")
	r.NoError(err)
	r.Len(cmds, 2)
	r.Equal(rule.CmdClone, cmds[0].Kind)
	r.Equal("2", cmds[0].Node)
	r.Equal("21", cmds[0].NodeName)
	r.Equal(rule.CmdDeleteNode, cmds[1].Kind)
	r.Equal("3", cmds[1].Node)
}

func TestParseMergeWithNodeList(t *testing.T) {
	r := require.New(t)
	cmds, err := rulelang.Parse("merge 1,2,3 as 123.")
	r.NoError(err)
	r.Len(cmds, 1)
	r.Equal(rule.CmdMerge, cmds[0].Kind)
	r.Equal([]string{"1", "2", "3"}, cmds[0].Nodes)
	r.Equal("123", cmds[0].NodeName)
}

func TestParseAddEdgeWithAttrs(t *testing.T) {
	r := require.New(t)
	cmds, err := rulelang.Parse(`add_edge u v {"weight": [1, 2]}`)
	r.NoError(err)
	r.Len(cmds, 1)
	r.Equal(rule.CmdAddEdge, cmds[0].Kind)
	r.Equal("u", cmds[0].Node1)
	r.Equal("v", cmds[0].Node2)
	r.Len(cmds[0].Attrs["weight"], 2)
}

func TestParseUnknownKeyword(t *testing.T) {
	r := require.New(t)
	_, err := rulelang.Parse("frobnicate x.")
	var perr *rulelang.ParsingError
	r.ErrorAs(err, &perr)
	r.Equal(rulelang.UnknownKeyword, perr.Kind)
}

func TestParseMalformedCommand(t *testing.T) {
	r := require.New(t)
	_, err := rulelang.Parse("delete_node.")
	var perr *rulelang.ParsingError
	r.ErrorAs(err, &perr)
	r.Equal(rulelang.MalformedCommand, perr.Kind)
}
