package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hdbtools/vcxtract/internal/document"
	"github.com/hdbtools/vcxtract/internal/extract"
)

var flagAssetsOutput string

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Extract the global asset list instead of the content tree",
	Long: `assets walks the Asset List window row by row, opening each asset's
information form and recording its style-specific resource. Already-cached
assets are skipped on screen but still included in the output.`,
	Args: cobra.NoArgs,
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

		surface, _, err := acquireSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		if err := openAssetList(ctx, surface); err != nil {
			return err
		}
		sess := extract.NewSession(surface, c, extract.Options{
			MainWindow:        cfg.MainWindow,
			RootLabel:         cfg.RootLabel,
			MaxAttempts:       cfg.MaxAttempts,
			CollectionContext: router.derive,
			Log:               log,
		})
		defer func() { _ = sess.Close() }()

		assets, err := sess.ParseAssets(ctx)
		if err != nil {
			log.Error("asset extraction failed", "error", err)
			pauseForInspection("Press enter to quit...")
			return err
		}
		if err := document.SaveAssets(flagAssetsOutput, assets); err != nil {
			return err
		}
		log.Info("assets written", "count", len(assets), "output", flagAssetsOutput)
		pauseForInspection("Press enter to quit...")
		return nil
	},
}

func init() {
	assetsCmd.Flags().StringVarP(&flagAssetsOutput, "output", "o", "assets.json", "Output document file")
	rootCmd.AddCommand(assetsCmd)
}
