// Package cache memoizes parsed records per entity kind and node path so a
// resumed run never re-drives the external application for data it already
// committed. The external oracle is orders of magnitude slower than local
// storage, so every Set persists immediately: a crash loses at most the
// entity that was in flight.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/hdbtools/vcxtract/api"
)

// Store is the persisted mapping from node path to the ordered records of
// one entity kind. The whole file is rewritten on every Set; there is no
// partial-write guarantee beyond "last complete Set wins".
type Store[T any] struct {
	fs   billy.Filesystem
	file string
	data map[string][]T
}

// FileName derives a store's file identity from its entity kind name.
func FileName(kind string) string {
	return strings.ToLower(kind) + "_cache.json"
}

// OpenStore loads the store for one entity kind, eagerly reading any
// existing file. A missing file is an empty store, not an error.
func OpenStore[T any](fs billy.Filesystem, kind string) (*Store[T], error) {
	s := &Store[T]{
		fs:   fs,
		file: FileName(kind),
		data: map[string][]T{},
	}
	raw, err := util.ReadFile(fs, s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.file, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.file, err)
	}
	return s, nil
}

// Has reports whether records for path were committed earlier.
func (s *Store[T]) Has(path string) bool {
	_, ok := s.data[path]
	return ok
}

// Get returns the committed records for path, or an empty slice.
func (s *Store[T]) Get(path string) []T {
	return s.data[path]
}

// Set commits records for path and persists the whole store.
func (s *Store[T]) Set(path string, records []T) error {
	s.data[path] = records
	return s.save()
}

// Len returns the number of committed paths.
func (s *Store[T]) Len() int { return len(s.data) }

// Paths returns every committed path, in no particular order.
func (s *Store[T]) Paths() []string {
	out := make([]string, 0, len(s.data))
	for p := range s.data {
		out = append(out, p)
	}
	return out
}

func (s *Store[T]) save() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.file, err)
	}
	if err := util.WriteFile(s.fs, s.file, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.file, err)
	}
	return nil
}

// Cache aggregates the per-kind stores. The stores are independent flat
// maps; the path key silently conflates entities if the external source
// renames or reorders siblings between runs, which is a documented
// limitation with no detection.
type Cache struct {
	Variables       *Store[api.Variable]
	Triggers        *Store[api.Trigger]
	TriggerActions  *Store[api.TriggerAction]
	AssetNames      *Store[api.AssetName]
	Assets          *Store[api.Asset]
	ViewNavigations *Store[api.ViewNavigation]
}

// Open loads every per-kind store from fs.
func Open(fs billy.Filesystem) (*Cache, error) {
	variables, err := OpenStore[api.Variable](fs, "variable")
	if err != nil {
		return nil, err
	}
	triggers, err := OpenStore[api.Trigger](fs, "trigger")
	if err != nil {
		return nil, err
	}
	actions, err := OpenStore[api.TriggerAction](fs, "triggeraction")
	if err != nil {
		return nil, err
	}
	names, err := OpenStore[api.AssetName](fs, "assetname")
	if err != nil {
		return nil, err
	}
	assets, err := OpenStore[api.Asset](fs, "asset")
	if err != nil {
		return nil, err
	}
	navs, err := OpenStore[api.ViewNavigation](fs, "viewnavigation")
	if err != nil {
		return nil, err
	}
	return &Cache{
		Variables:       variables,
		Triggers:        triggers,
		TriggerActions:  actions,
		AssetNames:      names,
		Assets:          assets,
		ViewNavigations: navs,
	}, nil
}
