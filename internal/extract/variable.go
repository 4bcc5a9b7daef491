package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// parseVariableForm reads one Edit Variable dialog. The declared variable
// type is the discriminator for the initial value's representation:
// Boolean comes from the True radio button, Character and String from the
// value edit, Integer from the value edit parsed as a number. An Integer
// that does not parse is preserved as a placeholder string carrying the
// raw text: malformed upstream content is mirrored, never dropped.
func parseVariableForm(s ui.Surface, form string) (api.Variable, error) {
	r := newFormReader(s, form)
	name := r.trimmed(fieldName)
	vtype := api.VariableType(r.text("ComboBox"))
	isConstant := r.checked("ConstantCheckBox")
	if err := r.Err(); err != nil {
		return api.Variable{}, err
	}

	var initial any
	switch vtype {
	case api.VarBoolean:
		initial = r.checked("TrueRadioButton")
	case api.VarCharacter, api.VarString:
		initial = r.text("Initial ValueEdit")
	case api.VarInteger:
		raw := r.text("Initial ValueEdit")
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			initial = "Incorrect value: " + raw
		} else {
			initial = n
		}
	default:
		return api.Variable{}, schemaGap(s, form, "variable type", string(vtype))
	}
	if err := r.Err(); err != nil {
		return api.Variable{}, err
	}
	return api.Variable{
		Name:         name,
		Type:         vtype,
		IsConstant:   isConstant,
		InitialValue: initial,
	}, nil
}

// variableRows walks an already-open Variables dialog row by row, opening
// the Edit Variable dialog for each and cancelling back out. The dialog
// itself is left open; the caller dismisses it.
func (s *Session) variableRows() ([]api.Variable, error) {
	items, err := s.ui.ListItems(formVariables, "ListBox")
	if err != nil {
		return nil, fmt.Errorf("variable list: %w", err)
	}
	res := []api.Variable{}
	for i := range items {
		if err := s.ui.SelectListItem(formVariables, "ListBox", i); err != nil {
			return nil, err
		}
		if err := s.ui.Click(formVariables, "Edit"); err != nil {
			return nil, err
		}
		v, err := parseVariableForm(s.ui, formEditVariable)
		if err != nil {
			return nil, err
		}
		if cerr := s.ui.Click(formEditVariable, "Cancel"); cerr != nil {
			return nil, cerr
		}
		res = append(res, v)
	}
	return res, nil
}

// parseVariables extracts the variables visible at path, consulting the
// cache first.
func (s *Session) parseVariables(path string) ([]api.Variable, error) {
	if s.cache.Variables.Has(path) {
		return s.cache.Variables.Get(path), nil
	}
	if err := s.ui.Click(s.opts.MainWindow, "Variables"); err != nil {
		return nil, err
	}
	res, err := s.variableRows()
	if err != nil {
		return nil, err
	}
	if cerr := s.ui.Click(formVariables, "Cancel"); cerr != nil {
		return nil, cerr
	}
	if err := s.cache.Variables.Set(path, res); err != nil {
		return nil, err
	}
	return res, nil
}
