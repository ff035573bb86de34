package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/speclint/internal/claude"
	"github.com/pthm/speclint/internal/logging"
	"github.com/pthm/speclint/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	Long: `Serve the analysis API over HTTP.

Endpoints:
  GET  /                        service metadata
  GET  /health                  health check
  POST /api/analyze             analyze a prompt
  POST /api/analyze-with-claude analyze, then send the curated prompt to Claude

Examples:
  speclint serve
  speclint serve --addr :9000`,
	Args:         cobra.NoArgs,
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", `Listen address (default ":8000" or config server.addr)`)
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.LogFile != "" {
		w := logging.FileWriter(cfg.LogFile)
		defer w.Close()
		logging.Init(verbose, w)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	analyzer, err := newAnalyzer(0)
	if err != nil {
		return err
	}
	reviewer := claude.NewFromEnv(cfg.Claude.APIModel, cfg.Claude.MaxTokens)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(addr, analyzer, reviewer, slog.Default()).Run(ctx)
}
