package api

import (
	"encoding/json"
	"fmt"
)

// AssetStyle is the discriminator for an asset's Resource union.
type AssetStyle string

const (
	StyleFile     AssetStyle = "File"
	StyleResource AssetStyle = "Resource"
	StyleText     AssetStyle = "Text"
	StyleColor    AssetStyle = "Color"
)

// ResourceType classifies an embedded Windows resource.
type ResourceType string

// ResourceStatus marks an asset as placeholder or final content.
type ResourceStatus string

const (
	StatusPlaceholder ResourceStatus = "Placeholder"
	StatusFinal       ResourceStatus = "Final"
)

// Resource is the tagged union of per-style asset payloads. As with
// ActionParams, a variant is only produced by the matching style branch.
type Resource interface {
	assetResource()
}

// DiscFile is one of the up to ten per-medium placements of a file asset.
// Start and End are nil when the form fields are blank.
type DiscFile struct {
	Disc  string `json:"disc"`
	File  string `json:"file"`
	Start *int   `json:"start"`
	End   *int   `json:"end"`
}

// FileResource is the payload of a Style "File" asset.
type FileResource struct {
	File           string         `json:"file"`
	From           int            `json:"from"`
	To             int            `json:"to"`
	SizeType       string         `json:"size_type"` // "mS", "Seconds" or "Frames"
	FirstFrameOnly bool           `json:"first_frame_only"`
	Loop           bool           `json:"loop"`
	Hotspots       bool           `json:"hotspots"`
	Status         ResourceStatus `json:"status"`
	DiscFiles      []DiscFile     `json:"disc_files"`
}

// EmbeddedResource is the payload of a Style "Resource" asset.
type EmbeddedResource struct {
	ID     int            `json:"id"`
	Type   ResourceType   `json:"type"`
	Status ResourceStatus `json:"status"`
}

// TextResource is the payload of a Style "Text" asset: a bounding box
// plus the rendered text.
type TextResource struct {
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
	Text   string `json:"text"`
}

func (FileResource) assetResource()     {}
func (EmbeddedResource) assetResource() {}
func (TextResource) assetResource()     {}

// Asset is one row of the authoring tool's asset list.
type Asset struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Category    string     `json:"category"`
	Style       AssetStyle `json:"style"`
	Type        string     `json:"type"`
	Resource    Resource   `json:"resource"`
	DBID        int        `json:"db_id"`
}

// UnmarshalJSON decodes Resource into the variant selected by Style.
func (a *Asset) UnmarshalJSON(data []byte) error {
	type alias Asset
	aux := struct {
		*alias
		Resource json.RawMessage `json:"resource"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	res, err := decodeResource(a.Style, aux.Resource)
	if err != nil {
		return err
	}
	a.Resource = res
	return nil
}

func decodeResource(style AssetStyle, raw json.RawMessage) (Resource, error) {
	switch style {
	case StyleFile:
		var r FileResource
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode File resource: %w", err)
		}
		return r, nil
	case StyleResource:
		var r EmbeddedResource
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode Resource resource: %w", err)
		}
		return r, nil
	case StyleText:
		var r TextResource
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode Text resource: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unrecognized asset style %q", style)
	}
}
