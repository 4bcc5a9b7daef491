// Package uitest provides a scripted, in-memory Surface for parser and
// walker tests. Tests describe the fake application as a set of forms and
// hooks; the fake records every interaction so tests can assert on the
// exact sequence the engine drove.
package uitest

import (
	"context"
	"fmt"
	"time"

	"github.com/hdbtools/vcxtract/internal/ui"
)

// Node is a scripted tree position.
type Node struct {
	Label string
	Kids  []*Node
}

// Text implements ui.TreeNode.
func (n *Node) Text() string { return n.Label }

// Form is the scripted state of one window.
type Form struct {
	Texts    map[string]string
	Checks   map[string]ui.CheckState
	Lists    map[string][]string
	Columns  map[string]int
	TreeSel  map[string]string
	Disabled map[string]bool
	Fields   []string // reported by VisibleFields
}

// NewForm returns an empty form ready for scripting.
func NewForm() *Form {
	return &Form{
		Texts:    map[string]string{},
		Checks:   map[string]ui.CheckState{},
		Lists:    map[string][]string{},
		Columns:  map[string]int{},
		TreeSel:  map[string]string{},
		Disabled: map[string]bool{},
	}
}

// Surface is a scripted ui.Surface.
type Surface struct {
	Windows  map[string]*Form
	Selected *Node

	// MainWindow is the form whose name field settles after a key nudge.
	MainWindow string
	// NameField is the field updated on settle (default "NameEdit").
	NameField string
	// SettleName maps a selected node to the name the detail view will
	// report after the nudge. Nil means the node's own label.
	SettleName func(n *Node) string

	// WaitQueue feeds WaitForWindow; each call pops the next title. An
	// empty queue blocks until the context is cancelled.
	WaitQueue []string

	// Hooks, all optional.
	OnClick      func(form, field string)
	OnKeys       func(seq string)
	OnSelectList func(form, field string, i int)
	OnSelectNode func(n *Node)

	// Recorded interactions.
	Keys       []string
	Clicks     []string
	Selections []string

	closed bool
}

// New returns a Surface with an empty main window installed.
func New(mainWindow string) *Surface {
	s := &Surface{
		Windows:    map[string]*Form{mainWindow: NewForm()},
		MainWindow: mainWindow,
		NameField:  "NameEdit",
	}
	return s
}

func (s *Surface) form(name string) (*Form, error) {
	f, ok := s.Windows[name]
	if !ok {
		return nil, fmt.Errorf("uitest: no window %q", name)
	}
	return f, nil
}

// SelectTreeNode implements ui.Surface. The detail view deliberately keeps
// its previous name until a key nudge arrives, mirroring the external
// tool's lagging updates.
func (s *Surface) SelectTreeNode(node ui.TreeNode) error {
	n, ok := node.(*Node)
	if !ok {
		return fmt.Errorf("uitest: foreign tree node %T", node)
	}
	s.Selected = n
	s.Selections = append(s.Selections, n.Label)
	if s.OnSelectNode != nil {
		s.OnSelectNode(n)
	}
	return nil
}

// Children implements ui.Surface.
func (s *Surface) Children(node ui.TreeNode) ([]ui.TreeNode, error) {
	n, ok := node.(*Node)
	if !ok {
		return nil, fmt.Errorf("uitest: foreign tree node %T", node)
	}
	out := make([]ui.TreeNode, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out, nil
}

// SendKeys implements ui.Surface. A nudge sequence settles the main
// window's name field to the selected node.
func (s *Surface) SendKeys(seq string) error {
	s.Keys = append(s.Keys, seq)
	if seq == ui.KeyNudge || seq == ui.KeyNudgeFirst {
		if s.Selected != nil {
			name := s.Selected.Label
			if s.SettleName != nil {
				name = s.SettleName(s.Selected)
			}
			s.Windows[s.MainWindow].Texts[s.NameField] = name
		}
	}
	if s.OnKeys != nil {
		s.OnKeys(seq)
	}
	return nil
}

// ReadText implements ui.Surface.
func (s *Surface) ReadText(form, field string) (string, error) {
	f, err := s.form(form)
	if err != nil {
		return "", err
	}
	t, ok := f.Texts[field]
	if !ok {
		return "", fmt.Errorf("uitest: no field %q on %q", field, form)
	}
	return t, nil
}

// ReadCheck implements ui.Surface.
func (s *Surface) ReadCheck(form, field string) (ui.CheckState, error) {
	f, err := s.form(form)
	if err != nil {
		return ui.Unchecked, err
	}
	return f.Checks[field], nil
}

// Click implements ui.Surface.
func (s *Surface) Click(form, field string) error {
	if _, err := s.form(form); err != nil {
		return err
	}
	s.Clicks = append(s.Clicks, form+"/"+field)
	if s.OnClick != nil {
		s.OnClick(form, field)
	}
	return nil
}

// ListItems implements ui.Surface.
func (s *Surface) ListItems(form, field string) ([]string, error) {
	f, err := s.form(form)
	if err != nil {
		return nil, err
	}
	return f.Lists[field], nil
}

// SelectListItem implements ui.Surface.
func (s *Surface) SelectListItem(form, field string, i int) error {
	if _, err := s.form(form); err != nil {
		return err
	}
	if s.OnSelectList != nil {
		s.OnSelectList(form, field, i)
	}
	return nil
}

// ListColumns implements ui.Surface.
func (s *Surface) ListColumns(form, field string) (int, error) {
	f, err := s.form(form)
	if err != nil {
		return 0, err
	}
	if c := f.Columns[field]; c > 0 {
		return c, nil
	}
	return 1, nil
}

// WaitForWindow implements ui.Surface by popping the scripted queue.
func (s *Surface) WaitForWindow(ctx context.Context, titles []string) (string, error) {
	for {
		if len(s.WaitQueue) > 0 {
			next := s.WaitQueue[0]
			s.WaitQueue = s.WaitQueue[1:]
			for _, t := range titles {
				if t == next {
					return next, nil
				}
			}
			return "", fmt.Errorf("uitest: queued window %q not in %v", next, titles)
		}
		select {
		case <-ctx.Done():
			return "", ui.ErrCancelled
		case <-time.After(time.Millisecond):
		}
	}
}

// WindowExists implements ui.Surface.
func (s *Surface) WindowExists(title string) bool {
	_, ok := s.Windows[title]
	return ok
}

// ControlExists implements ui.Surface.
func (s *Surface) ControlExists(form, field string) bool {
	f, ok := s.Windows[form]
	if !ok {
		return false
	}
	if _, ok := f.Texts[field]; ok {
		return true
	}
	if _, ok := f.Lists[field]; ok {
		return true
	}
	_, ok = f.Checks[field]
	return ok
}

// ControlEnabled implements ui.Surface.
func (s *Surface) ControlEnabled(form, field string) bool {
	f, ok := s.Windows[form]
	if !ok {
		return false
	}
	return !f.Disabled[field]
}

// SelectedTreeText implements ui.Surface.
func (s *Surface) SelectedTreeText(form, field string) (string, error) {
	f, err := s.form(form)
	if err != nil {
		return "", err
	}
	return f.TreeSel[field], nil
}

// VisibleFields implements ui.Surface.
func (s *Surface) VisibleFields(form string) ([]string, error) {
	f, err := s.form(form)
	if err != nil {
		return nil, err
	}
	return f.Fields, nil
}

// Close implements ui.Surface.
func (s *Surface) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Surface) Closed() bool { return s.closed }

var _ ui.Surface = (*Surface)(nil)
