package extract

import (
	"context"
	"fmt"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// discSlot maps a disc/medium identity to its field names on the Disc
// Files form. The start/end suffixes follow no formula: the form's naming
// is inconsistent, so the mapping is a fixed lookup.
type discSlot struct {
	disc       string
	fileField  string
	startField string
	endField   string
}

var discSlots = []discSlot{
	{"Core Install", "Core InstallEdit", "StartEdit7", "EndEdit9"},
	{"Min Install", "Min InstallEdit", "StartEdit1", "EndEdit1"},
	{"Med Install", "Med InstallEdit", "StartEdit2", "EndEdit2"},
	{"1", "1Edit", "StartEdit3", "EndEdit3"},
	{"2", "2Edit", "StartEdit4", "EndEdit4"},
	{"3", "3Edit", "StartEdit5", "EndEdit5"},
	{"4", "4Edit", "StartEdit6", "EndEdit6"},
	{"5", "5Edit", "Edit20", "Edit21"},
	{"6", "6Edit", "Edit23", "Edit24"},
	{"7", "7Edit", "Edit26", "Edit27"},
}

// parseDiscFiles reads the nested Disc Files form: up to ten fixed
// per-medium slots, blank start/end markers preserved as absent.
func parseDiscFiles(s ui.Surface) ([]api.DiscFile, error) {
	r := newFormReader(s, formDiscFiles)
	files := make([]api.DiscFile, 0, len(discSlots))
	for _, slot := range discSlots {
		files = append(files, api.DiscFile{
			Disc:  slot.disc,
			File:  r.text(slot.fileField),
			Start: r.optInt(slot.startField),
			End:   r.optInt(slot.endField),
		})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// parseAssetInfo reads one open Asset Information dialog. The style combo
// is the discriminator for the resource payload; "Color" has no known
// branch and surfaces as a schema gap.
func (s *Session) parseAssetInfo(name string) (api.Asset, error) {
	r := newFormReader(s.ui, formAssetInfo)
	description := r.optText("DescriptionEdit")
	category := r.text("CategoryCombobox")
	dbID := r.intval("Db IDEdit")
	assetType := r.text("TypeCombobox")
	style := api.AssetStyle(r.text("StyleCombobox"))
	if err := r.Err(); err != nil {
		return api.Asset{}, err
	}

	var resource api.Resource
	switch style {
	case api.StyleFile:
		if err := s.ui.Click(formAssetInfo, "Disc FileButton"); err != nil {
			return api.Asset{}, err
		}
		discFiles, err := parseDiscFiles(s.ui)
		if err != nil {
			return api.Asset{}, err
		}
		if err := s.ui.SendKeys(ui.KeyEscape); err != nil {
			return api.Asset{}, err
		}
		resource = api.FileResource{
			File:           r.text("File(s)Edit1"),
			From:           r.intval("FromEdit1"),
			To:             r.intval("ToEdit"),
			SizeType:       r.text("ToComboBox2"),
			FirstFrameOnly: r.checked("First Frame OnlyCheckBox"),
			Loop:           r.checked("LoopCheckBox"),
			Hotspots:       r.checked("HotspotsCheckBox"),
			Status:         api.ResourceStatus(r.text("StatusComboBox")),
			DiscFiles:      discFiles,
		}
	case api.StyleResource:
		resource = api.EmbeddedResource{
			ID:     r.intval("Resource IDEdit2"),
			Type:   api.ResourceType(r.text("Resource TypeComboBox0")),
			Status: api.ResourceStatus(r.text("StatusComboBox")),
		}
	case api.StyleText:
		resource = api.TextResource{
			Left:   r.intval("LeftEdit2"),
			Top:    r.intval("TopEdit2"),
			Right:  r.intval("RightEdit"),
			Bottom: r.intval("BottomEdit"),
			Text:   r.text("TextEdit2"),
		}
	default:
		return api.Asset{}, schemaGap(s.ui, formAssetInfo, "asset style", string(style))
	}
	if err := r.Err(); err != nil {
		return api.Asset{}, err
	}
	return api.Asset{
		Name:        name,
		Description: description,
		Category:    category,
		Style:       style,
		Type:        assetType,
		Resource:    resource,
		DBID:        dbID,
	}, nil
}

// ParseAssets extracts the flat asset list. The row count is known up
// front from the list header; rows are advanced one at a time by keyboard
// because the list re-sorts on header clicks and row indices are not
// addressable directly. Assets are cached by name, not path: the list is
// global, not tree-positioned.
func (s *Session) ParseAssets(ctx context.Context) ([]api.Asset, error) {
	if err := s.ui.Click(formAssetList, "Header"); err != nil {
		return nil, err
	}
	items, err := s.ui.ListItems(formAssetList, "List View")
	if err != nil {
		return nil, fmt.Errorf("asset rows: %w", err)
	}
	columns, err := s.ui.ListColumns(formAssetList, "List View")
	if err != nil {
		return nil, fmt.Errorf("asset columns: %w", err)
	}
	rows := len(items) / columns
	s.log.Info("parsing assets", "rows", rows)

	if err := s.ui.SelectListItem(formAssetList, "List View", 0); err != nil {
		return nil, err
	}
	res := []api.Asset{}
	for row := 0; row < rows; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.ui.SendKeys(ui.KeyEnter); err != nil {
			return nil, err
		}
		r := newFormReader(s.ui, formAssetInfo)
		name := r.trimmed(fieldName)
		if err := r.Err(); err != nil {
			return nil, err
		}

		var asset api.Asset
		if s.cache.Assets.Has(name) {
			asset = s.cache.Assets.Get(name)[0]
		} else {
			asset, err = s.parseAssetInfo(name)
			if err != nil {
				return nil, err
			}
			if err := s.ui.SendKeys(ui.KeyEscape); err != nil {
				return nil, err
			}
			if err := s.cache.Assets.Set(name, []api.Asset{asset}); err != nil {
				return nil, err
			}
		}
		res = append(res, asset)

		if err := s.ui.SendKeys(ui.KeyEscape); err != nil {
			return nil, err
		}
		if err := s.ui.Click(formAssetList, "Header"); err != nil {
			return nil, err
		}
		if err := s.ui.SendKeys(ui.KeyDown); err != nil {
			return nil, err
		}
	}
	return res, nil
}
