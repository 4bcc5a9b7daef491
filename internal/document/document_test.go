package document

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbtools/vcxtract/api"
)

func sampleTree() *api.Node {
	return &api.Node{
		Name: "X-Files",
		Path: "X-Files",
		Children: []*api.Node{
			{
				Name: "Setup",
				Path: "X-Files/Setup",
				Variables: []api.Variable{
					{Name: "counter", Type: api.VarInteger, InitialValue: 3},
				},
				Children: []*api.Node{
					{Name: "Act One", Path: "X-Files/Setup/Act One"},
				},
			},
			{
				Name: "Global",
				Path: "X-Files/Global",
				Triggers: []api.Trigger{
					{Name: "Intro", Actions: []api.TriggerAction{{
						Name: "open", ActionType: api.ActionURL,
						Params: api.ParamURL{URL: "http://example.com"},
					}}},
				},
			},
		},
	}
}

func TestSaveLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, SaveTree(path, sampleTree()))
	got, err := LoadTree(path)
	require.NoError(t, err)
	assert.Equal(t, sampleTree(), got)
}

func TestSaveLoadAssets(t *testing.T) {
	assets := []api.Asset{{
		Name: "caption", Category: "UI", Style: api.StyleText, Type: "Text",
		Resource: api.TextResource{Left: 1, Top: 2, Right: 3, Bottom: 4, Text: "x"},
	}}
	path := filepath.Join(t.TempDir(), "assets.json")
	require.NoError(t, SaveAssets(path, assets))
	got, err := LoadAssets(path)
	require.NoError(t, err)
	assert.Equal(t, assets, got)
}

func TestVisitOrder(t *testing.T) {
	var order []string
	err := Visit(sampleTree(), func(parent, n *api.Node) error {
		p := ""
		if parent != nil {
			p = parent.Path
		}
		order = append(order, p+"->"+n.Path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"->X-Files",
		"X-Files->X-Files/Setup",
		"X-Files/Setup->X-Files/Setup/Act One",
		"X-Files->X-Files/Global",
	}, order)
}

func TestFlatten(t *testing.T) {
	flat := Flatten(sampleTree())
	require.Len(t, flat, 4)
	assert.Empty(t, flat["X-Files"].Children)
	assert.Equal(t, "Setup", flat["X-Files/Setup"].Name)
	require.Len(t, flat["X-Files/Setup"].Variables, 1)
}

func TestSQLiteExportRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tree.db")
	w, err := NewSQLiteExporter(dbPath)
	require.NoError(t, err)
	require.NoError(t, w.ExportTree(sampleTree()))
	require.NoError(t, w.ExportAssets([]api.Asset{{
		Name: "caption", Category: "UI", Style: api.StyleText, Type: "Text",
		Resource: api.TextResource{Text: "x"},
	}}))
	require.NoError(t, w.Close())

	var paths []string
	nodes := map[string]*api.Node{}
	require.NoError(t, StreamNodes(dbPath, func(path string, n *api.Node) error {
		paths = append(paths, path)
		nodes[path] = n
		return nil
	}))
	assert.Equal(t, []string{
		"X-Files",
		"X-Files/Global",
		"X-Files/Setup",
		"X-Files/Setup/Act One",
	}, paths)

	// Records are flattened: hierarchy lives in parent_path only.
	assert.Empty(t, nodes["X-Files"].Children)
	require.Len(t, nodes["X-Files/Setup"].Variables, 1)
	assert.Equal(t, 3, nodes["X-Files/Setup"].Variables[0].InitialValue)
	require.Len(t, nodes["X-Files/Global"].Triggers, 1)
	assert.Equal(t, api.ParamURL{URL: "http://example.com"},
		nodes["X-Files/Global"].Triggers[0].Actions[0].Params)
}

func TestQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, SaveTree(path, sampleTree()))

	results, err := Query(path, "$..variables[*].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"counter"}, results)

	_, err = Query(path, "$[")
	require.Error(t, err)
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]any{map[string]any{"name": "counter"}})
	assert.Contains(t, out, `"name": "counter"`)
}
