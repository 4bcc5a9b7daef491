package extract

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/cache"
	"github.com/hdbtools/vcxtract/internal/ui"
	"github.com/hdbtools/vcxtract/internal/ui/uitest"
)

const testMainWindow = "VC Authoring Tool -"

func newTestSession(t *testing.T, surface ui.Surface) *Session {
	t.Helper()
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	return NewSession(surface, c, Options{
		MainWindow: testMainWindow,
		RootLabel:  "X-Files",
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func editVariableForm(s *uitest.Surface) *uitest.Form {
	f := uitest.NewForm()
	s.Windows[formEditVariable] = f
	return f
}

func TestParseVariableFormInteger(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := editVariableForm(s)
	f.Texts["NameEdit"] = " Counter "
	f.Texts["ComboBox"] = "Integer"
	f.Texts["Initial ValueEdit"] = " 3 "
	f.Checks["ConstantCheckBox"] = ui.Checked

	v, err := parseVariableForm(s, formEditVariable)
	require.NoError(t, err)
	assert.Equal(t, api.Variable{
		Name: "Counter", Type: api.VarInteger, IsConstant: true, InitialValue: 3,
	}, v)
}

func TestParseVariableFormBadIntegerKeepsRaw(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := editVariableForm(s)
	f.Texts["NameEdit"] = "Counter"
	f.Texts["ComboBox"] = "Integer"
	f.Texts["Initial ValueEdit"] = "x2"

	v, err := parseVariableForm(s, formEditVariable)
	require.NoError(t, err)
	// Malformed upstream content is mirrored, never dropped and never fatal.
	assert.Equal(t, "Incorrect value: x2", v.InitialValue)
}

func TestParseVariableFormBoolean(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := editVariableForm(s)
	f.Texts["NameEdit"] = "Seen"
	f.Texts["ComboBox"] = "Boolean"
	f.Checks["TrueRadioButton"] = ui.Checked

	v, err := parseVariableForm(s, formEditVariable)
	require.NoError(t, err)
	assert.Equal(t, true, v.InitialValue)
}

func TestParseVariableFormString(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := editVariableForm(s)
	f.Texts["NameEdit"] = "Greeting"
	f.Texts["ComboBox"] = "String"
	f.Texts["Initial ValueEdit"] = "hello "

	v, err := parseVariableForm(s, formEditVariable)
	require.NoError(t, err)
	assert.Equal(t, "hello ", v.InitialValue)
}

func TestParseVariableFormUnknownType(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := editVariableForm(s)
	f.Texts["NameEdit"] = "Odd"
	f.Texts["ComboBox"] = "Float"
	f.Fields = []string{"NameEdit", "ComboBox", "MysteryEdit"}

	_, err := parseVariableForm(s, formEditVariable)
	var gap *SchemaGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "Float", gap.Value)
	assert.Contains(t, gap.VisibleFields, "MysteryEdit")
}

func TestParseVariablesCaches(t *testing.T) {
	s := uitest.New(testMainWindow)
	vars := s.Windows
	vars[formVariables] = uitest.NewForm()
	vars[formVariables].Lists["ListBox"] = []string{"counter"}
	f := editVariableForm(s)
	f.Texts["NameEdit"] = "counter"
	f.Texts["ComboBox"] = "Integer"
	f.Texts["Initial ValueEdit"] = "0"

	sess := newTestSession(t, s)
	got, err := sess.parseVariables("X-Files/Setup")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "counter", got[0].Name)

	clicks := len(s.Clicks)
	again, err := sess.parseVariables("X-Files/Setup")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	// The second call is answered from the cache without touching the UI.
	assert.Len(t, s.Clicks, clicks)
}
