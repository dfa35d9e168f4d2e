package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/guttenberg/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can check
answers, inspect search terms and record verdicts.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  guttenberg mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  guttenberg mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "guttenberg": {
        "command": "/path/to/guttenberg",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	checker, err := requireChecker()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Checker:  checker,
		Feedback: feedbackService,
		Settings: settingsService,
		Site:     site,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	startWatch(cmd.Context())

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
