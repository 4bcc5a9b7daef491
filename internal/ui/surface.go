// Package ui is the boundary through which the extraction engine observes
// and drives the external authoring tool. The engine treats the tool as an
// untrusted, stateful oracle: individual operations are reliable but
// collectively unsynchronized, so callers must re-settle dependent views
// themselves (see the walker's resync nudge).
package ui

import (
	"context"
	"errors"
)

// ErrCancelled is returned by WaitForWindow when the wait's context ends
// before any of the candidate windows appears.
var ErrCancelled = errors.New("wait cancelled")

// CheckState is the tri-state of a check box or radio button.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

// Key sequences understood by SendKeys. The syntax follows the external
// automation layer's conventions; the engine only ever sends these few.
const (
	KeyEnter  = "{ENTER}"
	KeyEscape = "{ESC}"
	KeyDown   = "{VK_DOWN}"
	KeyUp     = "{VK_UP}"
	// KeyNudgeFirst settles dependent views after the very first tree
	// selection, which behaves differently from all later ones.
	KeyNudgeFirst = "{VK_DOWN}{VK_UP}"
	// KeyNudge settles dependent views after every later selection.
	KeyNudge = "{VK_UP}{VK_DOWN}"
)

// TreeNode is a position in the external content tree.
type TreeNode interface {
	// Text returns the node's display label.
	Text() string
}

// Surface is the consumed capability set of the external application.
// Form and field identifiers are the automation names of windows and
// controls ("Edit Variable", "NameEdit", ...).
type Surface interface {
	// SelectTreeNode focuses a tree position. Selecting does not guarantee
	// dependent detail views are updated by the time the next read issues.
	SelectTreeNode(node TreeNode) error

	// Children returns the direct children of a tree position, in the
	// order the external tree reports them.
	Children(node TreeNode) ([]TreeNode, error)

	// SendKeys delivers a raw key sequence to the focused window.
	SendKeys(seq string) error

	// ReadText returns the text of a control.
	ReadText(form, field string) (string, error)

	// ReadCheck returns the tri-state of a check box or radio button.
	ReadCheck(form, field string) (CheckState, error)

	// Click presses a button or activates a tab.
	Click(form, field string) error

	// ListItems returns the item texts of a list box.
	ListItems(form, field string) ([]string, error)

	// SelectListItem selects the i-th row of a list box.
	SelectListItem(form, field string, i int) error

	// ListColumns returns the column count of a multi-column list view.
	ListColumns(form, field string) (int, error)

	// WaitForWindow blocks until one of the candidate titles exists and
	// returns the matched title. It polls on a short fixed interval; a nil
	// deadline on ctx makes the wait unbounded, which is the documented
	// mechanism for operator-terminated collection loops.
	WaitForWindow(ctx context.Context, titles []string) (string, error)

	// WindowExists reports whether a window with the title currently exists.
	WindowExists(title string) bool

	// ControlExists reports whether a control currently exists on a form.
	ControlExists(form, field string) bool

	// ControlEnabled reports whether an existing control accepts input.
	ControlEnabled(form, field string) bool

	// SelectedTreeText returns the label of the selected item of an
	// embedded tree control (used by the Enable action form).
	SelectedTreeText(form, field string) (string, error)

	// VisibleFields returns the identifiers of every control currently
	// visible on a form. Used only for schema-gap diagnostics.
	VisibleFields(form string) ([]string, error)

	// Close releases the external session. Safe to call more than once.
	Close() error
}
