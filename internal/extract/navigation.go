package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
)

func readHotSpot(r *formReader) api.HotSpot {
	return api.HotSpot{
		Name:   r.text("Hot SpotComboBox"),
		Cursor: r.text("CursorComboBox"),
		Left:   r.intval("LeftEdit"),
		Top:    r.intval("TopEdit"),
		Right:  r.intval("RightEdit"),
		Bottom: r.intval("BottomEdit"),
	}
}

func readDestination(r *formReader) api.DestinationView {
	return api.DestinationView{
		Node:      r.text("NodeComboBox"),
		Location:  r.text("LocationComboBox"),
		Viewpoint: r.text("ViewpointComboBox"),
		View:      r.text("ViewComboBox"),
	}
}

// tabItems selects a tab by name and reads the list it reveals. Tab order
// matters to the tool: later tabs assume earlier ones have been visited,
// so callers read tabs in the form's own order.
func (s *Session) tabItems(form, tab string) ([]string, error) {
	if err := s.ui.Click(form, tab+"Tab"); err != nil {
		return nil, err
	}
	r := newFormReader(s.ui, form)
	items := r.items("ListBox")
	return items, r.Err()
}

// nestedVariables reads the variable list hanging off a navigation
// sub-form. The records are cached with the enclosing view-navigation
// record, not separately.
func (s *Session) nestedVariables(form string) ([]api.Variable, error) {
	if !s.ui.ControlExists(form, "Variables") {
		return []api.Variable{}, nil
	}
	if err := s.ui.Click(form, "Variables"); err != nil {
		return nil, err
	}
	res, err := s.variableRows()
	if err != nil {
		return nil, err
	}
	if cerr := s.ui.Click(formVariables, "Cancel"); cerr != nil {
		return nil, cerr
	}
	return res, nil
}

// nestedTriggers reads the trigger list hanging off a navigation sub-form,
// uncached for the same reason as nestedVariables.
func (s *Session) nestedTriggers(form string) ([]api.Trigger, error) {
	if !s.ui.ControlExists(form, "Triggers") {
		return []api.Trigger{}, nil
	}
	if err := s.ui.Click(form, "Triggers"); err != nil {
		return nil, err
	}
	res, err := s.triggerRows("", false)
	if err != nil {
		return nil, err
	}
	if cerr := s.ui.Click(formTriggers, "Cancel"); cerr != nil {
		return nil, cerr
	}
	return res, nil
}

func (s *Session) parseNavigationForm() (api.Navigation, error) {
	r := newFormReader(s.ui, formNavigation)
	nav := api.Navigation{
		HotSpot:         readHotSpot(r),
		DestinationView: readDestination(r),
		Enabled:         r.text("EnabledComboBox"),
		DBID:            r.intval("Db IDEdit"),
	}
	return nav, r.Err()
}

func (s *Session) parseExplorationForm() (api.ExplorationProperties, error) {
	r := newFormReader(s.ui, formExploration)
	exp := api.ExplorationProperties{
		HotSpot: readHotSpot(r),
		Enabled: r.text("EnabledComboBox"),
		DBID:    r.intval("Db IDEdit"),
	}
	if err := r.Err(); err != nil {
		return api.ExplorationProperties{}, err
	}
	var err error
	if exp.Variables, err = s.nestedVariables(formExploration); err != nil {
		return api.ExplorationProperties{}, err
	}
	if exp.Triggers, err = s.nestedTriggers(formExploration); err != nil {
		return api.ExplorationProperties{}, err
	}
	return exp, nil
}

func (s *Session) parseConversationForm() (api.Conversation, error) {
	r := newFormReader(s.ui, formConversation)
	conv := api.Conversation{
		Name:           r.trimmed(fieldName),
		SupportHistory: r.checked("Support HistoryCheckBox"),
		Enabled:        r.text("EnabledComboBox"),
		DBID:           r.intval("Db IDEdit"),
	}
	if err := r.Err(); err != nil {
		return api.Conversation{}, err
	}
	var err error
	for _, tab := range []struct {
		name string
		dst  *[]string
	}{
		{"Dialogs", &conv.Dialogs},
		{"Questions", &conv.Questions},
		{"Replies", &conv.Replies},
		{"Atoms", &conv.Atoms},
	} {
		if *tab.dst, err = s.tabItems(formConversation, tab.name); err != nil {
			return api.Conversation{}, err
		}
	}
	if conv.Variables, err = s.nestedVariables(formConversation); err != nil {
		return api.Conversation{}, err
	}
	if conv.Triggers, err = s.nestedTriggers(formConversation); err != nil {
		return api.Conversation{}, err
	}
	return conv, nil
}

func (s *Session) parseIdeaResponseForm() (api.IdeaResponse, error) {
	r := newFormReader(s.ui, formIdeaResponse)
	idea := api.IdeaResponse{
		Name:     r.trimmed(fieldName),
		IdeaIcon: r.text("Idea IconComboBox"),
	}
	if err := r.Err(); err != nil {
		return api.IdeaResponse{}, err
	}
	var err error
	for _, tab := range []struct {
		name string
		dst  *[]string
	}{
		{"Questions", &idea.Questions},
		{"Replies", &idea.Replies},
		{"Atoms", &idea.Atoms},
	} {
		if *tab.dst, err = s.tabItems(formIdeaResponse, tab.name); err != nil {
			return api.IdeaResponse{}, err
		}
	}
	if idea.Variables, err = s.nestedVariables(formIdeaResponse); err != nil {
		return api.IdeaResponse{}, err
	}
	if idea.Triggers, err = s.nestedTriggers(formIdeaResponse); err != nil {
		return api.IdeaResponse{}, err
	}
	return idea, nil
}

// characterRows walks a list-plus-edit-button pair on the Character
// Properties form, invoking parse with the detail form open and closing it
// after.
func characterRows[T any](s *Session, list, edit, detail string, parse func() (T, error)) ([]T, error) {
	if !s.ui.ControlExists(formCharacter, list) {
		return []T{}, nil
	}
	texts, err := s.ui.ListItems(formCharacter, list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", list, err)
	}
	res := []T{}
	for i := range texts {
		if err := s.ui.SelectListItem(formCharacter, list, i); err != nil {
			return nil, err
		}
		if err := s.ui.Click(formCharacter, edit); err != nil {
			return nil, err
		}
		v, err := parse()
		if err != nil {
			return nil, err
		}
		if cerr := s.ui.Click(detail, "Cancel"); cerr != nil {
			return nil, cerr
		}
		res = append(res, v)
	}
	return res, nil
}

func (s *Session) parseCharacterForm() (api.CharacterProperties, error) {
	r := newFormReader(s.ui, formCharacter)
	ch := api.CharacterProperties{
		Character: api.Character{
			Name:        r.trimmed(fieldName),
			Description: r.text("DescriptionEdit"),
			DBID:        r.intval("Db IDEdit"),
		},
		HotSpot:          readHotSpot(r),
		Acknowledgements: r.items("AcknowledgementsListBox"),
	}
	if err := r.Err(); err != nil {
		return api.CharacterProperties{}, err
	}
	var err error
	ch.Conversations, err = characterRows(s, "ConversationsListBox", "Edit Conversation", formConversation, s.parseConversationForm)
	if err != nil {
		return api.CharacterProperties{}, err
	}
	ch.IdeaResponses, err = characterRows(s, "Idea ResponsesListBox", "Edit Idea Response", formIdeaResponse, s.parseIdeaResponseForm)
	if err != nil {
		return api.CharacterProperties{}, err
	}
	if ch.Variables, err = s.nestedVariables(formCharacter); err != nil {
		return api.CharacterProperties{}, err
	}
	if ch.Triggers, err = s.nestedTriggers(formCharacter); err != nil {
		return api.CharacterProperties{}, err
	}
	return ch, nil
}

// navigationAllowed is the extraction policy for navigation data: the
// surface must expose the Navigation entry point and the node must sit in
// the designated setup branch of the tree. Elsewhere the data is skipped
// by policy, not absence.
func (s *Session) navigationAllowed(path string) bool {
	if !s.ui.ControlExists(s.opts.MainWindow, "Navigation") {
		return false
	}
	segs := strings.Split(path, api.PathSep)
	return len(segs) >= 2 && segs[1] == s.opts.SetupBranch
}

// parseViewNavigation runs the open-ended navigation collection for one
// view node. The tool cannot report "no more items", so the loop blocks on
// an unbounded window wait and the operator signals completion with an
// interrupt, which ends only this collection. Items presented twice are
// recognized by structural equality and appended once.
func (s *Session) parseViewNavigation(ctx context.Context, path string) (*api.ViewNavigation, error) {
	if s.cache.ViewNavigations.Has(path) {
		records := s.cache.ViewNavigations.Get(path)
		if len(records) == 0 {
			return nil, nil
		}
		vn := records[0]
		return &vn, nil
	}

	if err := s.ui.Click(s.opts.MainWindow, "Navigation"); err != nil {
		return nil, err
	}
	vn := api.ViewNavigation{
		Navigations:  []api.Navigation{},
		Explorations: []api.ExplorationProperties{},
		Characters:   []api.CharacterProperties{},
	}
	cctx, cancel := s.collectionContext(ctx)
	defer cancel()
	for {
		title, err := s.ui.WaitForWindow(cctx, []string{formNavigation, formExploration, formCharacter})
		if errors.Is(err, ui.ErrCancelled) {
			break // operator: collection complete
		}
		if err != nil {
			return nil, err
		}
		switch title {
		case formNavigation:
			nav, err := s.parseNavigationForm()
			if err != nil {
				return nil, err
			}
			vn.Navigations = appendUnique(vn.Navigations, nav)
		case formExploration:
			exp, err := s.parseExplorationForm()
			if err != nil {
				return nil, err
			}
			vn.Explorations = appendUnique(vn.Explorations, exp)
		case formCharacter:
			ch, err := s.parseCharacterForm()
			if err != nil {
				return nil, err
			}
			vn.Characters = appendUnique(vn.Characters, ch)
		}
		if err := s.ui.SendKeys(ui.KeyEscape); err != nil {
			return nil, err
		}
	}
	if err := s.cache.ViewNavigations.Set(path, []api.ViewNavigation{vn}); err != nil {
		return nil, err
	}
	return &vn, nil
}
