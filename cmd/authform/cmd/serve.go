package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/config"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Configuration is read from .env (when present) and the
environment; see APP_ADDR, SESSION_SECRET, AUTH_PROVIDER and EMAIL_PROVIDER.

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.AppAddr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.New(cfg).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides APP_ADDR")
	rootCmd.AddCommand(serveCmd)
}
