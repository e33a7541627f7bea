package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/cricanalyze/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analysis sessions over HTTP",
	Long: `Start the JSON API. The dataset loads in the background; queries made before it
is ready get 503 until loading finishes.

  GET    /health
  POST   /api/v1/sessions
  POST   /api/v1/sessions/{id}/chase
  POST   /api/v1/sessions/{id}/match
  POST   /api/v1/sessions/{id}/{chase|match}/view
  DELETE /api/v1/sessions/{id}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loader, cleanup, err := newLoader(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	loader.Start(ctx)

	h := server.NewHandler(loader)
	go h.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(h, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("✓ cricanalyze API listening on %s\n", cfg.Addr)
		fmt.Printf("  Dataset source: %s\n", cfg.Source)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	fmt.Println("\n✓ Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Println("✓ cricanalyze API stopped")
	return nil
}
