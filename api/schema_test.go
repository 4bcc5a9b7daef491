package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "X-Files", JoinPath("", "X-Files"))
	assert.Equal(t, "X-Files/Setup", JoinPath("X-Files", "Setup"))
	assert.Equal(t, "X-Files/Setup/Act One", JoinPath("X-Files/Setup", "Act One"))
}

func sampleTree() *Node {
	return &Node{
		Name: "X-Files",
		Path: "X-Files",
		Children: []*Node{
			{
				Name: "Setup",
				Path: "X-Files/Setup",
				Children: []*Node{
					{Name: "Act One ", Path: "X-Files/Setup/Act One "},
				},
			},
			{Name: "Global", Path: "X-Files/Global"},
		},
	}
}

func TestFindNode(t *testing.T) {
	root := sampleTree()

	n, err := FindNode(root, "X-Files/Setup")
	require.NoError(t, err)
	assert.Equal(t, "Setup", n.Name)

	// Display labels carry stray padding; lookup ignores it on both sides.
	n, err = FindNode(root, "X-Files/Setup/Act One")
	require.NoError(t, err)
	assert.Equal(t, "Act One ", n.Name)

	_, err = FindNode(root, "X-Files/Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFindNodeAmbiguous(t *testing.T) {
	root := &Node{
		Name: "X-Files",
		Children: []*Node{
			{Name: "Scene"},
			{Name: "Scene "},
		},
	}
	_, err := FindNode(root, "X-Files/Scene")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestWriteTree(t *testing.T) {
	var sb strings.Builder
	sampleTree().WriteTree(&sb, 0)
	want := "> X-Files\n" +
		" > Setup\n" +
		"  > Act One \n" +
		" > Global\n"
	assert.Equal(t, want, sb.String())
}

func TestVariableRoundTrip(t *testing.T) {
	vars := []Variable{
		{Name: "Counter", Type: VarInteger, InitialValue: 3},
		{Name: "Seen", Type: VarBoolean, IsConstant: true, InitialValue: true},
		{Name: "Broken", Type: VarInteger, InitialValue: "Incorrect value: x2"},
		{Name: "Greeting", Type: VarString, InitialValue: "hello"},
	}
	raw, err := json.Marshal(vars)
	require.NoError(t, err)

	var got []Variable
	require.NoError(t, json.Unmarshal(raw, &got))
	// Integer initial values come back as int, not float64, so cache
	// records stay structurally equal to freshly parsed ones.
	assert.Equal(t, vars, got)
}

func TestNodeChildrenKey(t *testing.T) {
	raw, err := json.Marshal(&Node{Name: "n", Path: "n"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"childrens"`)
}
