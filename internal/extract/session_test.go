package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/cache"
	"github.com/hdbtools/vcxtract/internal/ui"
	"github.com/hdbtools/vcxtract/internal/ui/uitest"
)

func quietOptions() Options {
	return Options{
		MainWindow: testMainWindow,
		RootLabel:  "X-Files",
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunTreeSucceeds(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	attempts := 0
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		attempts++
		s, root := walkSurface()
		return s, root, nil
	}

	n, err := RunTree(context.Background(), acquire, c, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, "X-Files", n.Path)
	assert.Equal(t, 1, attempts)
}

func TestRunTreeAcquireErrorNotRetried(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	attempts := 0
	boom := errors.New("exe not found")
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		attempts++
		return nil, nil, boom
	}

	_, err = RunTree(context.Background(), acquire, c, quietOptions())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestRunTreeBoundedRestarts(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	attempts := 0
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		attempts++
		s, root := walkSurface()
		// Every attempt desyncs on the first child.
		s.SettleName = func(n *uitest.Node) string { return "wrong" }
		return s, root, nil
	}

	opts := quietOptions()
	opts.MaxAttempts = 3
	_, err = RunTree(context.Background(), acquire, c, opts)
	require.Error(t, err)
	var desync *DesyncError
	assert.ErrorAs(t, err, &desync)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, attempts)
}

func TestRunTreeCancellationNotRetried(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attempts := 0
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		attempts++
		s, root := walkSurface()
		return s, root, nil
	}

	_, err = RunTree(ctx, acquire, c, quietOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRunTreeReleasesEverySurface(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	var surfaces []*uitest.Surface
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		s, root := walkSurface()
		s.SettleName = func(n *uitest.Node) string { return "wrong" }
		surfaces = append(surfaces, s)
		return s, root, nil
	}

	opts := quietOptions()
	opts.MaxAttempts = 2
	_, err = RunTree(context.Background(), acquire, c, opts)
	require.Error(t, err)

	// A restart must not stack live instances behind the next attempt.
	require.Len(t, surfaces, 2)
	for i, s := range surfaces {
		assert.True(t, s.Closed(), "surface %d left open", i)
	}
}

func TestRunTreeReleasesSurfaceOnSuccess(t *testing.T) {
	c, err := cache.Open(memfs.New())
	require.NoError(t, err)
	var last *uitest.Surface
	acquire := func() (ui.Surface, ui.TreeNode, error) {
		s, root := walkSurface()
		last = s
		return s, root, nil
	}

	_, err = RunTree(context.Background(), acquire, c, quietOptions())
	require.NoError(t, err)
	assert.True(t, last.Closed())
}

func TestAppendUnique(t *testing.T) {
	a := api.Navigation{Enabled: "TRUE", DBID: 1}
	b := api.Navigation{Enabled: "TRUE", DBID: 2}

	list := appendUnique([]api.Navigation{}, a)
	list = appendUnique(list, b)
	list = appendUnique(list, a) // structural duplicate
	assert.Equal(t, []api.Navigation{a, b}, list)
}
