// Package cmd wires the extraction engine to its command-line surface.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/hdbtools/vcxtract/internal/cache"
	"github.com/hdbtools/vcxtract/internal/config"
	"github.com/hdbtools/vcxtract/internal/document"
	"github.com/hdbtools/vcxtract/internal/extract"
	"github.com/hdbtools/vcxtract/internal/ui"
)

// version is stamped by the release build.
var version = "dev"

var (
	flagGamePath   string
	flagExeName    string
	flagHdbName    string
	flagOutput     string
	flagCacheDir   string
	flagConfigFile string
	flagDebug      bool
	flagVerbose    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagGamePath, "game-path", "d", "", "Path of the installed game")
	pf.StringVarP(&flagExeName, "exe", "e", "", "Authoring tool executable inside the game path")
	pf.StringVar(&flagHdbName, "hdb", "", "Content database file inside the game path")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output document file")
	pf.StringVar(&flagCacheDir, "cache-dir", "", "Directory for the per-kind cache stores")
	pf.StringVarP(&flagConfigFile, "config", "c", "", "HCL config file")
	pf.BoolVar(&flagDebug, "debug", false, "Hold the session open for inspection before exiting")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// loadConfig merges the optional config file with flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfigFile != "" {
		loaded, err := config.Load(flagConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if flagGamePath != "" {
		cfg.GamePath = flagGamePath
	}
	if flagExeName != "" {
		cfg.ExeName = flagExeName
	}
	if flagHdbName != "" {
		cfg.HdbName = flagHdbName
	}
	if flagOutput != "" {
		cfg.Output = flagOutput
	}
	if flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}
	return &cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openCache(cfg *config.Config) (*cache.Cache, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return cache.Open(osfs.New(cfg.CacheDir))
}

// interruptRouter sends the first Ctrl+C to the active open-ended
// collection loop, which treats it as "collection complete". Interrupts
// with no active collection escalate toward aborting the whole run.
type interruptRouter struct {
	mu     sync.Mutex
	active context.CancelFunc
}

func (r *interruptRouter) derive(run context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(run)
	r.mu.Lock()
	r.active = cancel
	r.mu.Unlock()
	return ctx, func() {
		r.mu.Lock()
		if r.active != nil {
			r.active = nil
		}
		r.mu.Unlock()
		cancel()
	}
}

// interrupt cancels the active collection, reporting whether one consumed
// the signal.
func (r *interruptRouter) interrupt() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return false
	}
	r.active()
	r.active = nil
	return true
}

// runContext wires SIGINT: collections first, then confirm, then abort.
func runContext(router *interruptRouter) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt)
	go func() {
		confirmed := false
		for range sig {
			if router.interrupt() {
				continue
			}
			if !confirmed {
				fmt.Fprintln(os.Stderr, "interrupted: press Ctrl+C again to abort the run")
				confirmed = true
				continue
			}
			cancel()
			return
		}
	}()
	return ctx, func() {
		signal.Stop(sig)
		cancel()
	}
}

// pauseForInspection blocks on stdin so the operator can examine the tool
// before the process exits. Only active with --debug.
func pauseForInspection(msg string) {
	if !flagDebug {
		return
	}
	fmt.Fprintln(os.Stderr, msg)
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

var rootCmd = &cobra.Command{
	Use:   "vcxtract",
	Short: "Extract the authored content tree of a VC Authoring Tool database",
	Long: `vcxtract drives a live VC Authoring Tool session and mirrors the authored
content (scene tree, variables, triggers, asset references, navigation)
into a JSON document. Extraction is read-only and resumable: every parsed
entity is committed to a path-keyed cache, so an interrupted or crashed
run picks up where it left off.`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		c, err := openCache(cfg)
		if err != nil {
			return err
		}

		router := &interruptRouter{}
		ctx, stop := runContext(router)
		defer stop()

		opts := extract.Options{
			MainWindow:        cfg.MainWindow,
			RootLabel:         cfg.RootLabel,
			MaxAttempts:       cfg.MaxAttempts,
			CollectionContext: router.derive,
			Log:               log,
		}
		acquire := func() (ui.Surface, ui.TreeNode, error) {
			return acquireSession(ctx, cfg, log)
		}
		root, err := extract.RunTree(ctx, acquire, c, opts)
		if err != nil {
			log.Error("extraction failed", "error", err)
			pauseForInspection("Press enter to quit...")
			return err
		}

		var sb strings.Builder
		root.WriteTree(&sb, 0)
		fmt.Print(sb.String())
		if err := document.SaveTree(cfg.Output, root); err != nil {
			return err
		}
		log.Info("document written", "output", cfg.Output)
		pauseForInspection("Press enter to quit...")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
