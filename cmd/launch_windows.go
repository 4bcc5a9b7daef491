//go:build windows

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/hdbtools/vcxtract/internal/config"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// acquireSession launches the authoring tool against the configured
// database and drives it to the state the walker expects: startup prompt
// dismissed, screen view active, tree control populated. Returns the
// bound surface and the tree root.
func acquireSession(ctx context.Context, cfg *config.Config, log *slog.Logger) (ui.Surface, ui.TreeNode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	s := ui.NewWin32Surface(cfg.MainWindow)
	// A leftover instance would make window lookup ambiguous.
	if s.WindowExists(cfg.MainWindow) {
		return nil, nil, fmt.Errorf("an authoring tool window %q is already open; close it first", cfg.MainWindow)
	}

	log.Info("launching authoring tool", "exe", cfg.ExePath(), "hdb", cfg.HdbPath())
	tool := exec.Command(cfg.ExePath(), cfg.HdbPath())
	tool.Dir = cfg.GamePath
	if err := tool.Start(); err != nil {
		return nil, nil, fmt.Errorf("launch %s: %w", cfg.ExePath(), err)
	}
	if flagDebug {
		// Inspection runs leave the tool open after the session ends.
		_ = tool.Process.Release()
	} else {
		s.BindProcess(tool.Process)
	}
	fail := func(err error) (ui.Surface, ui.TreeNode, error) {
		_ = s.Close()
		return nil, nil, err
	}

	if _, err := s.WaitForWindow(ctx, []string{cfg.MainWindow}); err != nil {
		return fail(fmt.Errorf("wait for main window: %w", err))
	}

	// Startup shows a missing-resource complaint on stock installs.
	if err := s.DismissDialog("IgnoreButton"); err != nil {
		log.Debug("no startup dialog to dismiss", "error", err)
	}

	if err := s.SelectMenu("View", "Screen View"); err != nil {
		return fail(fmt.Errorf("switch to screen view: %w", err))
	}
	if err := s.Focus(); err != nil {
		return fail(err)
	}

	root, err := waitForTree(ctx, s)
	if err != nil {
		return fail(err)
	}
	log.Info("session ready", "root", root.Text())
	return s, root, nil
}

// waitForTree polls until the tree control has a root item. The tool
// populates it asynchronously after the database loads.
func waitForTree(ctx context.Context, s *ui.Win32Surface) (ui.TreeNode, error) {
	for {
		root, err := s.TreeRoot()
		if err == nil {
			return root, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("tree never populated: %w", err)
		case <-time.After(time.Second):
		}
	}
}
