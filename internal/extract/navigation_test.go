package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
	"github.com/hdbtools/vcxtract/internal/ui/uitest"
)

func TestNavigationAllowed(t *testing.T) {
	s := uitest.New(testMainWindow)
	sess := newTestSession(t, s)

	// No Navigation entry point on the surface.
	assert.False(t, sess.navigationAllowed("X-Files/Setup/Act One"))

	s.Windows[testMainWindow].Texts["Navigation"] = ""
	assert.True(t, sess.navigationAllowed("X-Files/Setup/Act One"))
	assert.True(t, sess.navigationAllowed("X-Files/Setup"))
	// Outside the setup branch the data is skipped by policy.
	assert.False(t, sess.navigationAllowed("X-Files/Global"))
	assert.False(t, sess.navigationAllowed("X-Files"))
}

func navigationWindow() *uitest.Form {
	f := uitest.NewForm()
	f.Texts["Hot SpotComboBox"] = "door"
	f.Texts["CursorComboBox"] = "hand"
	f.Texts["LeftEdit"] = "1"
	f.Texts["TopEdit"] = "2"
	f.Texts["RightEdit"] = "3"
	f.Texts["BottomEdit"] = "4"
	f.Texts["NodeComboBox"] = "Office"
	f.Texts["LocationComboBox"] = "Desk"
	f.Texts["ViewpointComboBox"] = "Front"
	f.Texts["ViewComboBox"] = "Main"
	f.Texts["EnabledComboBox"] = "TRUE"
	f.Texts["Db IDEdit"] = "9"
	return f
}

func TestParseViewNavigationCollectsAndDedups(t *testing.T) {
	s := uitest.New(testMainWindow)
	s.Windows[formNavigation] = navigationWindow()
	// The operator presents the same hotspot twice, then ends the
	// collection; the timeout below stands in for the interrupt.
	s.WaitQueue = []string{formNavigation, formNavigation}

	c := newTestSession(t, s).cache
	opts := quietOptions()
	opts.CollectionContext = func(run context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(run, 100*time.Millisecond)
	}
	sess := NewSession(s, c, opts)

	vn, err := sess.parseViewNavigation(context.Background(), "X-Files/Setup/Act One")
	require.NoError(t, err)
	require.NotNil(t, vn)
	require.Len(t, vn.Navigations, 1)
	assert.Equal(t, api.Navigation{
		HotSpot: api.HotSpot{
			Name: "door", Cursor: "hand", Left: 1, Top: 2, Right: 3, Bottom: 4,
		},
		DestinationView: api.DestinationView{
			Node: "Office", Location: "Desk", Viewpoint: "Front", View: "Main",
		},
		Enabled: "TRUE",
		DBID:    9,
	}, vn.Navigations[0])
	assert.Empty(t, vn.Explorations)
	assert.Empty(t, vn.Characters)

	// Each presented form is dismissed before the next wait.
	escapes := 0
	for _, k := range s.Keys {
		if k == ui.KeyEscape {
			escapes++
		}
	}
	assert.Equal(t, 2, escapes)

	// The committed record answers the next run without any UI traffic.
	clicks := len(s.Clicks)
	again, err := sess.parseViewNavigation(context.Background(), "X-Files/Setup/Act One")
	require.NoError(t, err)
	assert.Equal(t, vn, again)
	assert.Len(t, s.Clicks, clicks)
}

func TestParseViewNavigationExploration(t *testing.T) {
	s := uitest.New(testMainWindow)
	f := uitest.NewForm()
	f.Texts["Hot SpotComboBox"] = "crate"
	f.Texts["CursorComboBox"] = "look"
	f.Texts["LeftEdit"] = "10"
	f.Texts["TopEdit"] = "20"
	f.Texts["RightEdit"] = "30"
	f.Texts["BottomEdit"] = "40"
	f.Texts["EnabledComboBox"] = "FALSE"
	f.Texts["Db IDEdit"] = "12"
	s.Windows[formExploration] = f
	s.WaitQueue = []string{formExploration}

	c := newTestSession(t, s).cache
	opts := quietOptions()
	opts.CollectionContext = func(run context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(run, 100*time.Millisecond)
	}
	sess := NewSession(s, c, opts)

	vn, err := sess.parseViewNavigation(context.Background(), "X-Files/Setup/Hall")
	require.NoError(t, err)
	require.Len(t, vn.Explorations, 1)
	exp := vn.Explorations[0]
	assert.Equal(t, "crate", exp.HotSpot.Name)
	assert.Equal(t, "FALSE", exp.Enabled)
	assert.Equal(t, 12, exp.DBID)
	// No nested variable or trigger lists on this form.
	assert.Empty(t, exp.Variables)
	assert.Empty(t, exp.Triggers)
}
