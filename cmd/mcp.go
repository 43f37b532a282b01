package cmd

import (
	"os"

	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/mcp"
	"github.com/lavigneer/cppquickfix-lsp/pkg/project"
	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Runs an MCP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		workspaceRoot, _ := cmd.Flags().GetString("workspace")
		if workspaceRoot == "" {
			cwd, _ := os.Getwd()
			root, err := config.FindWorkspaceRoot(cwd)
			if err != nil {
				root = cwd
			}
			workspaceRoot = root
		}

		cfg, err := config.NewWithDefaults(cmd.Context(), workspaceRoot)
		if err != nil {
			return err
		}
		server := mcp_golang.NewServer(stdio.NewStdioServerTransport())
		if err := mcp.New(project.New(workspaceRoot, cfg)).Register(server); err != nil {
			return err
		}

		if err := server.Serve(); err != nil {
			return err
		}
		<-cmd.Context().Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("workspace", "w", "", "Workspace root, defaults to the root found from the working directory")
}
