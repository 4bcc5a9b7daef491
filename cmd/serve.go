package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hdbtools/vcxtract/api"
	"github.com/hdbtools/vcxtract/internal/document"
)

var flagServeDocument string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an extracted document to MCP clients over stdio",
	Long: `serve exposes a previously extracted tree document as MCP tools so
agents can query the authored content without parsing the JSON themselves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := document.LoadTree(flagServeDocument)
		if err != nil {
			return err
		}

		s := server.NewMCPServer("vcxtract", version,
			server.WithToolCapabilities(false))

		queryTool := mcp.NewTool("query_document",
			mcp.WithDescription("Evaluate a JSONPath expression against the extracted content tree"),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("JSONPath expression, e.g. $..variables[?(@.type == 'Integer')].name"),
			),
		)
		s.AddTool(queryTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			expr, err := req.RequireString("expr")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			results, err := document.Query(flagServeDocument, expr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(document.FormatResults(results)), nil
		})

		nodeTool := mcp.NewTool("get_node",
			mcp.WithDescription("Fetch one node of the content tree by its slash-separated path"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Node path, e.g. X-Files/Setup/Act One"),
			),
		)
		s.AddTool(nodeTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path, err := req.RequireString("path")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			n, err := api.FindNode(root, path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var sb strings.Builder
			n.WriteTree(&sb, 0)
			return mcp.NewToolResultText(sb.String()), nil
		})

		if err := server.ServeStdio(s); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeDocument, "document", "tree.json", "Extracted tree document to serve")
	rootCmd.AddCommand(serveCmd)
}
