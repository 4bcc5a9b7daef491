// Package document writes, reads and serves the final extraction output: a
// serialized Node tree in tree mode, or a flat Asset list in asset mode.
package document

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hdbtools/vcxtract/api"
)

// SaveTree writes the assembled node tree, once, at the end of a run.
func SaveTree(path string, root *api.Node) error {
	raw, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadTree reads a previously written tree document.
func LoadTree(path string) (*api.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root api.Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &root, nil
}

// SaveAssets writes the flat asset list produced by asset-extraction mode.
func SaveAssets(path string, assets []api.Asset) error {
	raw, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Flatten indexes a tree by path, children stripped from each record.
func Flatten(root *api.Node) map[string]*api.Node {
	out := map[string]*api.Node{}
	_ = Visit(root, func(_, n *api.Node) error {
		flat := *n
		flat.Children = nil
		out[n.Path] = &flat
		return nil
	})
	return out
}

// LoadAssets reads a previously written asset document.
func LoadAssets(path string) ([]api.Asset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var assets []api.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return assets, nil
}

// Visit walks the tree depth-first in document order, parents before
// children.
func Visit(root *api.Node, fn func(parent, n *api.Node) error) error {
	return visit(nil, root, fn)
}

func visit(parent, n *api.Node, fn func(parent, n *api.Node) error) error {
	if err := fn(parent, n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := visit(n, c, fn); err != nil {
			return err
		}
	}
	return nil
}
