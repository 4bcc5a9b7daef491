package api

import (
	"encoding/json"
	"fmt"
)

// Action is the broad category a trigger effect belongs to.
type Action string

const (
	ActionStandard  Action = "Standard"
	ActionGame      Action = "Game"
	ActionInventory Action = "Inventory"
	ActionInterface Action = "Interface"
)

// ActionType is the fine-grained kind of a trigger effect. It is the
// discriminator for ActionParams: each value maps to exactly one variant.
type ActionType string

const (
	ActionStatement         ActionType = "Statement"
	ActionAsset             ActionType = "Asset"
	ActionTimer             ActionType = "Timer"
	ActionSelectInventory   ActionType = "Select Inventory"
	ActionDeselectInventory ActionType = "Deselect Inventory"
	ActionEnable            ActionType = "Enable"
	ActionSetView           ActionType = "Set View"
	ActionCppFunction       ActionType = "C++ Function"
	Action3DSound           ActionType = "3D Sound"
	ActionURL               ActionType = "URL"
	ActionUIInterface       ActionType = "Interface"
)

// ActionParams is the tagged union of per-action-type parameter shapes.
// Variants are only ever produced by the matching discriminator branch, so
// the invariant "params shape matches ActionType" holds by construction.
type ActionParams interface {
	actionParams()
}

// Coordinates is a 2D point used by positioned sound effects.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ParamStatement evaluates "exp1 op exp2" as the effect itself.
type ParamStatement struct {
	Exp1 string   `json:"exp1"`
	Op   Operator `json:"op"`
	Exp2 string   `json:"exp2"`
}

// ParamURL opens an external URL.
type ParamURL struct {
	URL string `json:"url"`
}

// ParamInventory selects or deselects an inventory item.
type ParamInventory struct {
	Item string `json:"item"`
}

// ParamInterface drives a named interface element.
type ParamInterface struct {
	Action    string `json:"action"`
	Interface string `json:"interface"`
}

// ParamSetView jumps the player to a specific view.
type ParamSetView struct {
	Node      string `json:"node"`
	Location  string `json:"location"`
	ViewPoint string `json:"view_point"`
	View      string `json:"view"`
}

// ParamTimer starts or stops a named timer.
type ParamTimer struct {
	Action     string `json:"action"` // "Start" or "Stop"
	Timer      string `json:"timer"`
	ExpiresMS  int    `json:"expires_ms"`
	IsPeriodic bool   `json:"is_periodic"`
}

// ParamAsset plays, preloads, stops or unloads an asset. Both fields are
// optional because the authoring tool leaves them blank on half-configured
// actions ("drag asset from asset list" placeholders).
type ParamAsset struct {
	Action *string `json:"action"`
	Asset  *string `json:"asset"`
}

// Param3DSound is a ParamAsset positioned in space.
type Param3DSound struct {
	Action      *string     `json:"action"`
	Asset       *string     `json:"asset"`
	Coordinates Coordinates `json:"coordinates"`
}

// ParamCppFunction calls a native engine function.
type ParamCppFunction struct {
	Function   string   `json:"function"`
	Parameters []string `json:"parameters"`
}

// ParamEnable enables or disables the subtree at a tree path.
type ParamEnable struct {
	Action string `json:"action"` // "Enable" or "Disable"
	Path   string `json:"path"`
}

func (ParamStatement) actionParams()   {}
func (ParamURL) actionParams()         {}
func (ParamInventory) actionParams()   {}
func (ParamInterface) actionParams()   {}
func (ParamSetView) actionParams()     {}
func (ParamTimer) actionParams()       {}
func (ParamAsset) actionParams()       {}
func (Param3DSound) actionParams()     {}
func (ParamCppFunction) actionParams() {}
func (ParamEnable) actionParams()      {}

// TriggerAction is one condition/effect pair of a trigger: the condition
// "Exp1 Op Exp2" plus the effect described by ActionType and Params.
type TriggerAction struct {
	Name       string       `json:"name"`
	Exp1       string       `json:"exp1"`
	Op         Operator     `json:"op"`
	Exp2       string       `json:"exp2"`
	Action     Action       `json:"action"`
	ActionType ActionType   `json:"action_type"`
	Params     ActionParams `json:"action_params"`
}

// UnmarshalJSON decodes Params into the variant selected by ActionType.
// An unknown ActionType is rejected rather than decoded into a loose map,
// so a cache store written by a newer schema fails loudly instead of
// silently degrading.
func (ta *TriggerAction) UnmarshalJSON(data []byte) error {
	type alias TriggerAction
	aux := struct {
		*alias
		Params json.RawMessage `json:"action_params"`
	}{alias: (*alias)(ta)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	params, err := decodeParams(ta.ActionType, aux.Params)
	if err != nil {
		return err
	}
	ta.Params = params
	return nil
}

func decodeParams(t ActionType, raw json.RawMessage) (ActionParams, error) {
	var target ActionParams
	switch t {
	case ActionStatement:
		target = &ParamStatement{}
	case ActionURL:
		target = &ParamURL{}
	case ActionSelectInventory, ActionDeselectInventory:
		target = &ParamInventory{}
	case ActionUIInterface:
		target = &ParamInterface{}
	case ActionSetView:
		target = &ParamSetView{}
	case ActionTimer:
		target = &ParamTimer{}
	case ActionAsset:
		target = &ParamAsset{}
	case Action3DSound:
		target = &Param3DSound{}
	case ActionCppFunction:
		target = &ParamCppFunction{}
	case ActionEnable:
		target = &ParamEnable{}
	default:
		return nil, fmt.Errorf("unrecognized action type %q", t)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", t, err)
	}
	return dereference(target), nil
}

// dereference unwraps the decode target so Params always holds a value,
// keeping structural-equality comparisons pointer-free.
func dereference(p ActionParams) ActionParams {
	switch v := p.(type) {
	case *ParamStatement:
		return *v
	case *ParamURL:
		return *v
	case *ParamInventory:
		return *v
	case *ParamInterface:
		return *v
	case *ParamSetView:
		return *v
	case *ParamTimer:
		return *v
	case *ParamAsset:
		return *v
	case *Param3DSound:
		return *v
	case *ParamCppFunction:
		return *v
	case *ParamEnable:
		return *v
	default:
		return p
	}
}
