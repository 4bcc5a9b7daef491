package extract

import (
	"fmt"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// The Asset action's asset edit shows this placeholder until an asset has
// been dragged in; it decodes to an absent asset, not a name.
const assetPlaceholder = "drag asset from asset list"

// parseTriggerAction reads one open Action dialog. The action type combo
// is the discriminator selecting exactly one of the field-extraction
// branches below; an unrecognized value is a schema gap, fatal by policy.
func parseTriggerAction(s ui.Surface, name string) (api.TriggerAction, error) {
	r := newFormReader(s, formAction)
	actionType := api.ActionType(r.text("Action TypeComboBox"))
	if err := r.Err(); err != nil {
		return api.TriggerAction{}, err
	}

	var params api.ActionParams
	switch actionType {
	case api.ActionEnable:
		selected, err := s.SelectedTreeText(formAction, "TreeView")
		if err != nil {
			return api.TriggerAction{}, fmt.Errorf("enable target: %w", err)
		}
		params = api.ParamEnable{
			Action: r.text("Action CategoryComboBox"),
			Path:   selected,
		}
	case api.ActionCppFunction:
		params = api.ParamCppFunction{
			Function:   r.text("FunctionEdit2"),
			Parameters: r.items("ParametersListBox"),
		}
	case api.Action3DSound:
		params = api.Param3DSound{
			Action: r.optText("Action CategoryComboBox1"),
			Asset:  r.optText("Action TypeEdit3"),
			Coordinates: api.Coordinates{
				X: r.intval("XEdit"),
				Y: r.intval("YEdit"),
			},
		}
	case api.ActionStatement:
		params = api.ParamStatement{
			Exp1: r.text("Action CategoryEdit1"),
			Op:   api.Operator(r.text("Action TypeComboBox2")),
			Exp2: r.text("Action TypeComboBox3"),
		}
	case api.ActionAsset:
		asset := r.optText("Action TypeEdit3")
		if asset != nil && *asset == assetPlaceholder {
			asset = nil
		}
		params = api.ParamAsset{
			Action: r.optText("Action CategoryComboBox1"),
			Asset:  asset,
		}
	case api.ActionURL:
		params = api.ParamURL{URL: r.text("URLEdit")}
	case api.ActionSelectInventory, api.ActionDeselectInventory:
		params = api.ParamInventory{Item: r.text("Action CategoryComboBox1")}
	case api.ActionTimer:
		params = api.ParamTimer{
			Action:     r.text("Action CategoryComboBox1"),
			Timer:      r.text("Action CategoryComboBox2"),
			ExpiresMS:  r.intval("expires inEdit2"),
			IsPeriodic: r.checked("PeriodicCheckBox"),
		}
	case api.ActionSetView:
		params = api.ParamSetView{
			Node:      r.text("NodeComboBox"),
			Location:  r.text("LocationComboBox"),
			ViewPoint: r.text("ViewPointComboBox"),
			View:      r.text("ViewComboBox"),
		}
	default:
		return api.TriggerAction{}, schemaGap(s, formAction, "action type", string(actionType))
	}

	ta := api.TriggerAction{
		Name:       name,
		Exp1:       r.text("IfEdit"),
		Op:         api.Operator(r.text("Evaluate ExpressionComboBox")),
		Exp2:       r.text("Evaluate ExpressionComboBox2"),
		Action:     api.Action(r.text("ActionComboBox")),
		ActionType: actionType,
		Params:     params,
	}
	if err := r.Err(); err != nil {
		return api.TriggerAction{}, err
	}
	return ta, nil
}

// triggerActionRows walks an open Edit Trigger dialog's action list,
// opening the Action dialog per row.
func (s *Session) triggerActionRows() ([]api.TriggerAction, error) {
	texts, err := s.ui.ListItems(formEditTrigger, "ListBox")
	if err != nil {
		return nil, fmt.Errorf("action list: %w", err)
	}
	actions := []api.TriggerAction{}
	for i, name := range texts {
		if err := s.ui.SelectListItem(formEditTrigger, "ListBox", i); err != nil {
			return nil, err
		}
		if err := s.ui.Click(formEditTrigger, "&EditButton"); err != nil {
			return nil, err
		}
		ta, err := parseTriggerAction(s.ui, name)
		if err != nil {
			return nil, err
		}
		if cerr := s.ui.Click(formAction, "Cancel"); cerr != nil {
			return nil, cerr
		}
		actions = append(actions, ta)
	}
	return actions, nil
}

// parseTrigger reads one open Edit Trigger dialog. actionKey is the
// trigger-action cache key; empty disables caching, used for triggers
// nested inside navigation forms whose records are cached with the parent.
func (s *Session) parseTrigger(name, actionKey string) (api.Trigger, error) {
	if actionKey != "" && s.cache.TriggerActions.Has(actionKey) {
		return api.Trigger{Name: name, Actions: s.cache.TriggerActions.Get(actionKey)}, nil
	}
	actions, err := s.triggerActionRows()
	if err != nil {
		return api.Trigger{}, err
	}
	if actionKey != "" {
		if err := s.cache.TriggerActions.Set(actionKey, actions); err != nil {
			return api.Trigger{}, err
		}
	}
	return api.Trigger{Name: name, Actions: actions}, nil
}

// triggerRows walks an already-open Triggers dialog row by row. keyed
// controls whether per-trigger action caching applies; basePath is the key
// prefix. The trigger-action key appends the row index and trigger name so
// two same-named triggers on one node stay distinct.
func (s *Session) triggerRows(basePath string, keyed bool) ([]api.Trigger, error) {
	texts, err := s.ui.ListItems(formTriggers, "ListBox")
	if err != nil {
		return nil, fmt.Errorf("trigger list: %w", err)
	}
	res := []api.Trigger{}
	for i, name := range texts {
		if err := s.ui.SelectListItem(formTriggers, "ListBox", i); err != nil {
			return nil, err
		}
		if err := s.ui.Click(formTriggers, "Edit"); err != nil {
			return nil, err
		}
		actionKey := ""
		if keyed {
			actionKey = fmt.Sprintf("%s_%d_%s", basePath, i, name)
		}
		tr, err := s.parseTrigger(name, actionKey)
		if err != nil {
			return nil, err
		}
		if cerr := s.ui.Click(formEditTrigger, "OK"); cerr != nil {
			return nil, cerr
		}
		res = append(res, tr)
	}
	return res, nil
}

// parseTriggers extracts the triggers visible at path, consulting the
// cache first.
func (s *Session) parseTriggers(path string) ([]api.Trigger, error) {
	if s.cache.Triggers.Has(path) {
		return s.cache.Triggers.Get(path), nil
	}
	if err := s.ui.Click(s.opts.MainWindow, "Triggers"); err != nil {
		return nil, err
	}
	res, err := s.triggerRows(path, true)
	if err != nil {
		return nil, err
	}
	if cerr := s.ui.Click(formTriggers, "Cancel"); cerr != nil {
		return nil, cerr
	}
	if err := s.cache.Triggers.Set(path, res); err != nil {
		return nil, err
	}
	return res, nil
}
