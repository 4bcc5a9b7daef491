package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdbtools/vcxtract/internal/document"
)

var queryCmd = &cobra.Command{
	Use:   "query [document.json] [jsonpath]",
	Short: "Evaluate a JSONPath expression against an extracted document",
	Long: `query runs a JSONPath expression over a tree or asset document,
e.g.

  vcxtract query tree.json '$..triggers[?(@.name == "Intro")]'
  vcxtract query tree.json '$..variables[?(@.type == "Integer")].name'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := document.Query(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(document.FormatResults(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
