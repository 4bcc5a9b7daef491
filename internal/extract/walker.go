package extract

import (
	"context"
	"fmt"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// Walk extracts the content tree rooted at root into a fully populated
// Node tree. Child traversal order is the order the external tree reports;
// the entity kinds per node are extracted in a fixed order (asset names,
// variables, triggers, then navigation) because later steps assume earlier
// ones left the UI settled.
func (s *Session) Walk(ctx context.Context, root ui.TreeNode) (*api.Node, error) {
	return s.walkNode(ctx, root, "", true)
}

func (s *Session) walkNode(ctx context.Context, node ui.TreeNode, parentPath string, first bool) (*api.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := node.Text()
	if err := s.ui.SelectTreeNode(node); err != nil {
		return nil, fmt.Errorf("select %q: %w", text, err)
	}
	path := api.JoinPath(parentPath, text)

	// Selecting a tree node does not reliably update the detail views, so
	// nudge the selection with a no-op key pair. The very first selection
	// needs the opposite pair from all later ones.
	nudge := ui.KeyNudge
	if first {
		nudge = ui.KeyNudgeFirst
	}
	if err := s.ui.SendKeys(nudge); err != nil {
		return nil, err
	}

	reported, err := s.ui.ReadText(s.opts.MainWindow, fieldName)
	if err != nil {
		return nil, fmt.Errorf("detail title at %q: %w", path, err)
	}
	// The root node never shows its own label in the detail view; every
	// other mismatch means the walk and the detail views are desynchronized
	// and nothing read from here on could be trusted.
	if text != s.opts.RootLabel && reported != text {
		return nil, &DesyncError{Path: path, NodeText: text, Reported: reported}
	}

	s.log.Debug("visiting node", "path", path)
	n := &api.Node{Name: text, Path: path}
	if n.AssetNames, err = s.parseAssetNames(path); err != nil {
		return nil, fmt.Errorf("asset names at %q: %w", path, err)
	}
	if n.Variables, err = s.parseVariables(path); err != nil {
		return nil, fmt.Errorf("variables at %q: %w", path, err)
	}
	if n.Triggers, err = s.parseTriggers(path); err != nil {
		return nil, fmt.Errorf("triggers at %q: %w", path, err)
	}
	if s.navigationAllowed(path) {
		if n.Navigation, err = s.parseViewNavigation(ctx, path); err != nil {
			return nil, fmt.Errorf("navigation at %q: %w", path, err)
		}
	}

	children, err := s.ui.Children(node)
	if err != nil {
		return nil, fmt.Errorf("children of %q: %w", path, err)
	}
	for _, child := range children {
		cn, err := s.walkNode(ctx, child, path, false)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}
