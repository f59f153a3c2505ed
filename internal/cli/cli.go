// Package cli holds the cobra commands of the fixture server binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/probe/internal/fixtures"
	"github.com/raysh454/probe/internal/logging"
)

// ServeOptions are the flags of the fixture server command.
type ServeOptions struct {
	Addr          string
	PostCount     int
	DropZoneInput bool
}

// FixturesConfig turns the flags into a fixtures.Config.
func (o *ServeOptions) FixturesConfig() (fixtures.Config, error) {
	if o.Addr == "" {
		return fixtures.Config{}, errors.New("--addr must not be empty")
	}
	if o.PostCount < 1 {
		return fixtures.Config{}, fmt.Errorf("--posts must be at least 1, got %d", o.PostCount)
	}
	cfg := fixtures.DefaultConfig()
	cfg.ListenAddr = o.Addr
	cfg.PostCount = o.PostCount
	cfg.DropZoneInput = o.DropZoneInput
	return cfg, nil
}

// NewFixtureServerCommand creates the root command. Log lines go to out.
func NewFixtureServerCommand(out io.Writer) *cobra.Command {
	def := fixtures.DefaultConfig()
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "fixtureserver",
		Short: "Serve local doubles of the posts API and the upload page",
		Long: `Serve in-process doubles of the REST posts service and the file upload
page on one listener, so the scenario suites can be pointed at them.

Example:
  fixtureserver --addr :9999
  PROBE_API_BASE_URL=http://localhost:9999 \
  PROBE_UPLOAD_URL=http://localhost:9999/upload PROBE_LIVE=1 go test ./internal/scenarios/...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.FixturesConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, logging.NewConsoleLogger("fixtureserver", out))
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", def.ListenAddr, "listen address")
	cmd.Flags().IntVar(&opts.PostCount, "posts", def.PostCount, "number of seeded posts")
	cmd.Flags().BoolVar(&opts.DropZoneInput, "dropzone-input", def.DropZoneInput, "render a hidden file input inside the drop zone")

	return cmd
}

// Serve runs the doubles until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, cfg fixtures.Config, logger logging.Logger) error {
	srv := fixtures.New(cfg, logger).HTTPServer()

	errc := make(chan error, 1)
	go func() {
		logger.Info("fixture server listening",
			logging.Field{Key: "addr", Value: cfg.ListenAddr},
			logging.Field{Key: "posts", Value: cfg.PostCount},
			logging.Field{Key: "dropzone_input", Value: cfg.DropZoneInput})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", cfg.ListenAddr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
