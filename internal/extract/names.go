package extract

import (
	"github.com/hdbtools/vcxtract/api"
)

// parseAssetNames extracts the asset names visible at path. The ">>"
// expander button is missing or disabled on nodes without an asset list;
// both cases yield an empty list, never an error. The picker window is
// "View Asset List" or, on floorplan nodes, "Floorplan Asset List".
func (s *Session) parseAssetNames(path string) ([]string, error) {
	if s.cache.AssetNames.Has(path) {
		records := s.cache.AssetNames.Get(path)
		names := make([]string, 0, len(records))
		for _, rec := range records {
			names = append(names, rec.Name)
		}
		return names, nil
	}

	names := []string{}
	main := s.opts.MainWindow
	if s.ui.ControlExists(main, fieldMoreAssets) && s.ui.ControlEnabled(main, fieldMoreAssets) {
		label, err := s.ui.ReadText(main, fieldMoreAssets)
		if err == nil && label == ">>" {
			if err := s.ui.Click(main, fieldMoreAssets); err != nil {
				return nil, err
			}
			picker := formViewAssets
			if !s.ui.ControlExists(picker, "Ok") {
				picker = formFloorAssets
			}
			r := newFormReader(s.ui, picker)
			names = append(names, r.items("ListBox")...)
			r.click("Ok")
			if err := r.Err(); err != nil {
				return nil, err
			}
		}
	}

	records := make([]api.AssetName, 0, len(names))
	for _, n := range names {
		records = append(records, api.AssetName{Name: n})
	}
	if err := s.cache.AssetNames.Set(path, records); err != nil {
		return nil, err
	}
	return names, nil
}
