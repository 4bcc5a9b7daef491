// Package extract is the stateful tree-walking extraction engine. A
// Session owns the interaction surface and the per-kind cache stores and
// is passed through the walker and every entity parser; there are no
// ambient globals. The engine is strictly single-threaded: the external
// application supports exactly one focused interaction session and
// interleaving would corrupt its state.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/cache"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// Window and control identifiers of the authoring tool's forms. The odd
// casing and numeric suffixes are the tool's own; they are not derivable
// by formula.
const (
	fieldName       = "NameEdit"
	fieldMoreAssets = ">>Button"

	formVariables    = "Variables"
	formEditVariable = "Edit Variable"

	formTriggers    = "Triggers"
	formEditTrigger = "Edit Trigger"
	formAction      = "Action"

	formAssetList    = "Asset List"
	formAssetInfo    = "Asset Information"
	formDiscFiles    = "Disc Files"
	formViewAssets   = "View Asset List"
	formFloorAssets  = "Floorplan Asset List"
	formNavigation   = "Navigation"
	formExploration  = "Exploration Properties"
	formCharacter    = "Character Properties"
	formConversation = "Conversation"
	formIdeaResponse = "Idea Response"
)

// Options configures a Session.
type Options struct {
	// MainWindow is the title (prefix) of the tool's top-level window.
	MainWindow string
	// RootLabel is the display label of the content tree's root. The
	// detail-view title check is skipped for it: the root never shows its
	// own name in the name field.
	RootLabel string
	// SetupBranch names the top-level subtree in which navigation data is
	// extracted. Extraction elsewhere is skipped by policy.
	SetupBranch string
	// MaxAttempts bounds the restart loop around a full tree extraction.
	MaxAttempts int
	// CollectionContext derives the context governing one open-ended
	// collection loop. The default derives a plain child of the run
	// context; the CLI installs a variant where the first interrupt ends
	// only the current collection and a later one the whole run.
	CollectionContext func(run context.Context) (context.Context, context.CancelFunc)
	Log               *slog.Logger
}

func (o *Options) setDefaults() {
	if o.MainWindow == "" {
		o.MainWindow = "VC Authoring Tool -"
	}
	if o.RootLabel == "" {
		o.RootLabel = "X-Files"
	}
	if o.SetupBranch == "" {
		o.SetupBranch = "Setup"
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.CollectionContext == nil {
		o.CollectionContext = context.WithCancel
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
}

// collectionContext derives the context for one open-ended collection.
func (s *Session) collectionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return s.opts.CollectionContext(ctx)
}

// Session binds one interaction surface to the cache stores for the
// duration of a run.
type Session struct {
	ui    ui.Surface
	cache *cache.Cache
	opts  Options
	log   *slog.Logger
}

// NewSession returns a Session over an already-acquired surface.
func NewSession(surface ui.Surface, c *cache.Cache, opts Options) *Session {
	opts.setDefaults()
	return &Session{ui: surface, cache: c, opts: opts, log: opts.Log}
}

// Close releases the external session handle. Safe to call more than once.
func (s *Session) Close() error { return s.ui.Close() }

// AcquireFunc launches or connects to the external application and returns
// the surface plus the content tree's root position.
type AcquireFunc func() (ui.Surface, ui.TreeNode, error)

// RunTree drives a full tree extraction with a bounded restart loop:
// acquire session, walk, release. An unexpected error releases the session
// and starts over, relying on the cache to skip everything already
// committed. Acquire failures (setup errors) and operator cancellation are
// never retried.
func RunTree(ctx context.Context, acquire AcquireFunc, c *cache.Cache, opts Options) (*api.Node, error) {
	opts.setDefaults()
	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		surface, root, err := acquire()
		if err != nil {
			return nil, fmt.Errorf("acquire session: %w", err)
		}
		sess := NewSession(surface, c, opts)
		n, err := sess.Walk(ctx, root)
		closeErr := sess.Close()
		if err == nil {
			if closeErr != nil {
				return n, fmt.Errorf("release session: %w", closeErr)
			}
			return n, nil
		}
		if ctx.Err() != nil || errors.Is(err, ui.ErrCancelled) {
			return nil, err
		}
		lastErr = err
		opts.Log.Error("extraction failed, restarting from cache",
			"attempt", attempt, "max_attempts", opts.MaxAttempts, "error", err)
	}
	return nil, fmt.Errorf("extraction failed after %d attempts: %w", opts.MaxAttempts, lastErr)
}

// appendUnique appends v unless a structurally equal record is already
// present. Open-ended collection loops can present the same item twice;
// equality is field-by-field over the records, never identity.
func appendUnique[T any](list []T, v T) []T {
	for _, have := range list {
		if reflect.DeepEqual(have, v) {
			return list
		}
	}
	return append(list, v)
}
