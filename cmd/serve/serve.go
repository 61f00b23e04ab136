// Package serve runs the HTTP ingestion API
package serve

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/server"

	"github.com/spf13/cobra"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tech-pack ingestion API",
	Long: `Serve the HTTP API used by the upload front end.

Routes:
  POST  /api/tech-packs              multipart upload (metadata JSON + pdf)
  GET   /api/tech-packs              list records, newest first (?limit=&offset=)
  GET   /api/tech-packs/{id}         one record
  PATCH /api/tech-packs/{id}/status  change the review status
  GET   /healthz                     liveness probe

Example:
  techpack-csv serve --addr :8080`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return errors.New("container not initialized")
	}
	cfg := appContainer.GetConfig()

	repo, err := appContainer.GetRepository()
	if err != nil {
		return err
	}

	listen := cfg.Server.Addr
	if addr != "" {
		listen = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := appContainer.GetLogger()
	srv := server.New(appContainer.GetProcessor(), repo, server.Options{MaxUploadMB: cfg.Server.MaxUploadMB}, logger)
	return Serve(ctx, srv, listen, logger)
}

// Listener is the part of server.Server used by the command.
type Listener interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// Serve blocks until ctx is cancelled or the listener fails.
func Serve(ctx context.Context, l Listener, addr string, logger logging.Logger) error {
	logger.Info("Starting API server", logging.Field{Key: "addr", Value: addr})
	if err := l.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	logger.Info("API server stopped")
	return nil
}
