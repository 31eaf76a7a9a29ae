package cli

import (
	"github.com/spf13/cobra"

	"github.com/casadesk/brochure-search/internal/adapters/driving/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API",
	Long: `Starts the HTTP API the CRM front end calls.

Endpoints:
  GET /search?q=...&top_k=N  ranked brochure passages as JSON
  GET /healthz               liveness probe

An empty or failed search returns {"query": ..., "message": "No relevant
brochures found."} rather than an error, by design.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, embedder, err := newRetrieval(cmd.Context())
	if err != nil {
		return err
	}
	defer embedder.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	server, err := api.NewServer(svc, addr)
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
