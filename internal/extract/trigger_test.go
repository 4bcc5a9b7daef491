package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui/uitest"
)

// actionForm installs an Action dialog carrying the condition fields every
// branch reads, plus the given discriminator value.
func actionForm(s *uitest.Surface, actionType string) *uitest.Form {
	f := uitest.NewForm()
	f.Texts["Action TypeComboBox"] = actionType
	f.Texts["IfEdit"] = "counter"
	f.Texts["Evaluate ExpressionComboBox"] = "=="
	f.Texts["Evaluate ExpressionComboBox2"] = "3"
	f.Texts["ActionComboBox"] = "Game"
	s.Windows[formAction] = f
	return f
}

func TestParseTriggerActionTimer(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Timer")
	f.Texts["Action CategoryComboBox1"] = "Start"
	f.Texts["Action CategoryComboBox2"] = "clock"
	f.Texts["expires inEdit2"] = "5000"
	f.Checks["PeriodicCheckBox"] = 1

	ta, err := parseTriggerAction(s, "start clock")
	require.NoError(t, err)
	assert.Equal(t, api.TriggerAction{
		Name: "start clock", Exp1: "counter", Op: "==", Exp2: "3",
		Action: api.ActionGame, ActionType: api.ActionTimer,
		Params: api.ParamTimer{Action: "Start", Timer: "clock", ExpiresMS: 5000, IsPeriodic: true},
	}, ta)
}

func TestParseTriggerActionURL(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "URL")
	f.Texts["URLEdit"] = "http://example.com"

	ta, err := parseTriggerAction(s, "open site")
	require.NoError(t, err)
	assert.Equal(t, api.ParamURL{URL: "http://example.com"}, ta.Params)
}

func TestParseTriggerActionStatement(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Statement")
	f.Texts["Action CategoryEdit1"] = "seen"
	f.Texts["Action TypeComboBox2"] = "="
	f.Texts["Action TypeComboBox3"] = "TRUE"

	ta, err := parseTriggerAction(s, "mark seen")
	require.NoError(t, err)
	assert.Equal(t, api.ParamStatement{Exp1: "seen", Op: "=", Exp2: "TRUE"}, ta.Params)
}

func TestParseTriggerActionAssetPlaceholder(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Asset")
	f.Texts["Action CategoryComboBox1"] = "Play"
	f.Texts["Action TypeEdit3"] = assetPlaceholder

	ta, err := parseTriggerAction(s, "play nothing")
	require.NoError(t, err)
	params, ok := ta.Params.(api.ParamAsset)
	require.True(t, ok)
	require.NotNil(t, params.Action)
	assert.Equal(t, "Play", *params.Action)
	// The placeholder means no asset was assigned, not an asset by that name.
	assert.Nil(t, params.Asset)
}

func TestParseTriggerActionEnable(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Enable")
	f.Texts["Action CategoryComboBox"] = "Disable"
	f.TreeSel["TreeView"] = "Act One"

	ta, err := parseTriggerAction(s, "shut act")
	require.NoError(t, err)
	assert.Equal(t, api.ParamEnable{Action: "Disable", Path: "Act One"}, ta.Params)
}

func TestParseTriggerActionInventory(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Select Inventory")
	f.Texts["Action CategoryComboBox1"] = "badge"

	ta, err := parseTriggerAction(s, "take badge")
	require.NoError(t, err)
	assert.Equal(t, api.ParamInventory{Item: "badge"}, ta.Params)
}

func TestParseTriggerActionCppFunction(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "C++ Function")
	f.Texts["FunctionEdit2"] = "FadeOut"
	f.Lists["ParametersListBox"] = []string{"2", "", "black"}

	ta, err := parseTriggerAction(s, "fade")
	require.NoError(t, err)
	assert.Equal(t, api.ParamCppFunction{Function: "FadeOut", Parameters: []string{"2", "black"}}, ta.Params)
}

func TestParseTriggerActionSetView(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Set View")
	f.Texts["NodeComboBox"] = "Office"
	f.Texts["LocationComboBox"] = "Desk"
	f.Texts["ViewPointComboBox"] = "Front"
	f.Texts["ViewComboBox"] = "Main"

	ta, err := parseTriggerAction(s, "jump")
	require.NoError(t, err)
	assert.Equal(t, api.ParamSetView{
		Node: "Office", Location: "Desk", ViewPoint: "Front", View: "Main",
	}, ta.Params)
}

func TestParseTriggerActionUnknownType(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := actionForm(s, "Teleport")
	f.Fields = []string{"Action TypeComboBox", "WhereEdit"}

	_, err := parseTriggerAction(s, "warp")
	var gap *SchemaGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "Teleport", gap.Value)
	assert.Equal(t, formAction, gap.Form)
	assert.Contains(t, gap.VisibleFields, "WhereEdit")
}

func TestParseTriggersCachesPerActionKey(t *testing.T) {
	s := uitest.New(testMainWindow)
	s.Windows[formTriggers] = uitest.NewForm()
	s.Windows[formTriggers].Lists["ListBox"] = []string{"Intro", "Intro"}
	s.Windows[formEditTrigger] = uitest.NewForm()
	s.Windows[formEditTrigger].Lists["ListBox"] = []string{"open site"}
	f := actionForm(s, "URL")
	f.Texts["URLEdit"] = "http://example.com"

	sess := newTestSession(t, s)
	got, err := sess.parseTriggers("X-Files/Global")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])

	// Same-named triggers on one node get distinct action cache keys.
	assert.True(t, sess.cache.TriggerActions.Has("X-Files/Global_0_Intro"))
	assert.True(t, sess.cache.TriggerActions.Has("X-Files/Global_1_Intro"))

	clicks := len(s.Clicks)
	_, err = sess.parseTriggers("X-Files/Global")
	require.NoError(t, err)
	assert.Len(t, s.Clicks, clicks)
}
