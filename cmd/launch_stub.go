//go:build !windows

package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hdbtools/vcxtract/internal/config"
	"github.com/hdbtools/vcxtract/internal/ui"
)

func acquireSession(_ context.Context, _ *config.Config, _ *slog.Logger) (ui.Surface, ui.TreeNode, error) {
	return nil, nil, errors.New("driving the authoring tool requires windows")
}
