package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so agent frontends can submit
questions to the triage pipeline.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. In HTTP mode Prometheus
metrics are served at /metrics on the same port.

Examples:
  # Stdio mode (default)
  fieldtriage mcp serve

  # HTTP mode with metrics
  fieldtriage mcp serve --port 8080`,
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
	if services == nil {
		return errNotConfigured("services")
	}

	ports := &mcp.Ports{
		Triage:            services.Triage,
		Retrieval:         services.Retrieval,
		Policies:          services.Catalog,
		RetrievalSettings: services.Current.Retrieval,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		extra := map[string]http.Handler{}
		if services.Metrics != nil {
			extra["/metrics"] = services.Metrics
		}
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr, extra)
	}

	return server.Run(cmd.Context())
}
