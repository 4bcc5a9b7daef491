package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdbtools/vcxtract/internal/document"
)

var flagExportAssets string

var exportCmd = &cobra.Command{
	Use:   "export [document.json] [output.db]",
	Short: "Export an extracted document into a SQLite database",
	Long: `export loads a previously extracted tree document and writes one row
per node into a SQLite database, keyed by path, with the hierarchy kept in
a parent_path column. Pass --assets to also load an asset document into
the assets table.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath := args[0]
		dbPath := args[1]

		root, err := document.LoadTree(docPath)
		if err != nil {
			return err
		}
		w, err := document.NewSQLiteExporter(dbPath)
		if err != nil {
			return err
		}
		if err := w.ExportTree(root); err != nil {
			_ = w.Close()
			return err
		}
		if flagExportAssets != "" {
			assets, err := document.LoadAssets(flagExportAssets)
			if err != nil {
				_ = w.Close()
				return err
			}
			if err := w.ExportAssets(assets); err != nil {
				_ = w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
		fmt.Printf("Exported %s to %s\n", docPath, dbPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportAssets, "assets", "", "Asset document to export alongside the tree")
	rootCmd.AddCommand(exportCmd)
}
