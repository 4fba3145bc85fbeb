package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasonbender-c3x/coedit/internal/config"
	"github.com/jasonbender-c3x/coedit/internal/engine"
	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/store"
)

var seedSessions []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coordination server",
	Long: `Run the coedit coordination server: listen for WebSocket connections,
mediate collaborative editing sessions, and persist accepted operations
through the configured store.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringSliceVar(&seedSessions, "seed", nil,
		"session ids to create at startup (repeatable); useful with the memory store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	hub, err := engine.NewHub(engine.Config{Cfg: cfg, Logger: logger})
	if err != nil {
		return err
	}

	if err := seed(hub.Store(), seedSessions); err != nil {
		return fmt.Errorf("failed to seed sessions: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := hub.Start(ctx); err != nil {
		return err
	}
	logger.Info("server started", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)

	// Config edits need a restart to apply; surface them so operators
	// are not left wondering why nothing changed.
	config.Watch(func(*config.Config) {
		logger.Info("config file changed; restart to apply")
	})

	<-ctx.Done()
	logger.Info("shutting down")
	if err := hub.Stop(); err != nil {
		return err
	}
	return hub.ServeErr()
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.Nop(), nil
	}
	return logging.New(cfg.Logging.Dir, cfg.Logging.Level)
}

// seed creates the named session rows if they do not already exist.
func seed(st store.Store, ids []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, id := range ids {
		if _, err := st.FindSession(ctx, id); err == nil {
			continue
		}
		if err := st.CreateSession(ctx, store.SessionRecord{
			ID:        id,
			Name:      id,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
	}
	return nil
}
