package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve practice sessions over HTTP",
	Long: `Start the HTTP API. Upload a PDF to POST /api/sessions to start a session,
then answer, submit, add questions and download the report under
/api/sessions/{id}. Sessions are kept in memory until deleted or the server
stops.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	def := server.DefaultConfig()
	serveCmd.Flags().String("addr", def.Addr, "Listen address")
	serveCmd.Flags().StringSlice("origin", def.AllowedOrigins, "Allowed CORS origins")
	serveCmd.Flags().Int64("max-upload", def.MaxUploadBytes, "Maximum upload size in bytes")
	serveCmd.Flags().Duration("session-ttl", def.SessionTTL, "Drop sessions idle for longer than this (0 keeps them)")
	serveCmd.Flags().String("extractor", "pdf", "Text extractor: pdf (built in) or pdftotext (poppler)")
	serveCmd.Flags().Bool("structured", false, "Ask the provider for schema-constrained JSON output")
	serveCmd.Flags().Bool("no-log", false, "Do not record LLM requests in the database")
}

func runServe(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("extractor")
	ex, err := extract.ByName(name)
	if err != nil {
		return err
	}

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	cfg := server.DefaultConfig()
	cfg.Addr, _ = cmd.Flags().GetString("addr")
	cfg.AllowedOrigins, _ = cmd.Flags().GetStringSlice("origin")
	cfg.MaxUploadBytes, _ = cmd.Flags().GetInt64("max-upload")
	cfg.SessionTTL, _ = cmd.Flags().GetDuration("session-ttl")
	if d.llmCfg.Timeout > 0 {
		cfg.GenerationTimeout = d.llmCfg.Timeout
	}

	return server.New(d.service, ex, cfg).ListenAndServe(cmd.Context())
}
