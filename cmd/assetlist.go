package cmd

import (
	"context"
	"fmt"

	"github.com/hdbtools/vcxtract/internal/ui"
)

const assetListTitle = "Asset List"

// menuDriver is the optional menu capability of a surface. The scripted
// test surface does not have it; the live adapter does.
type menuDriver interface {
	SelectMenu(captions ...string) error
}

// openAssetList brings up the Asset List window through the View menu so
// the asset walker has rows to click. Already-open windows are reused.
func openAssetList(ctx context.Context, surface ui.Surface) error {
	if surface.WindowExists(assetListTitle) {
		return nil
	}
	m, ok := surface.(menuDriver)
	if !ok {
		return fmt.Errorf("surface cannot open the %s window", assetListTitle)
	}
	if err := m.SelectMenu("View", assetListTitle); err != nil {
		return fmt.Errorf("open %s: %w", assetListTitle, err)
	}
	if _, err := surface.WaitForWindow(ctx, []string{assetListTitle}); err != nil {
		return fmt.Errorf("%s never appeared: %w", assetListTitle, err)
	}
	return nil
}
