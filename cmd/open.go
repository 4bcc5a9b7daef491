package cmd

import (
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Launch the authoring tool on the configured database and leave it running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		_, root, err := acquireSession(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		// The surface is deliberately not closed; the tool stays up for
		// manual use after this command returns.
		log.Info("tool is running", "root", root.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
