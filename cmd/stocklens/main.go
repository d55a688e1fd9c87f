package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tomh/stocklens/internal/config"
	"github.com/tomh/stocklens/internal/replica"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/tui"
	"github.com/tomh/stocklens/internal/writeapi"
)

func main() {
	root := &cobra.Command{
		Use:   "stocklens",
		Short: "Terminal ops console over a locally replicated retail dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Populate the local replica with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (*replica.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Replica.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir replica dir: %w", err)
	}
	store, err := replica.Open(cfg.Replica.Path)
	if err != nil {
		return nil, err
	}
	if err := replica.RunMigrations(cfg.Replica.Path, cfg.Replica.MigrationsPath); err != nil {
		// Fall back to direct DDL when running outside the repo checkout,
		// where the migrations directory is not on disk.
		if schemaErr := replica.EnsureSchema(store.DB()); schemaErr != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate: %v; ensure schema: %w", err, schemaErr)
		}
	}
	return store, nil
}

func runConsole() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if empty, err := replicaEmpty(ctx, store); err == nil && empty {
		log.Println("empty replica, seeding demo data")
		if err := replica.Seed(ctx, store); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if cfg.Sync.DemoFeed {
		feed := replica.NewFeed(store, time.Duration(cfg.Sync.FeedIntervalMS)*time.Millisecond)
		go feed.Run(ctx)
	}

	client := &writeapi.Loopback{Store: store}
	reg := selection.NewRegistry()

	p := tea.NewProgram(tui.New(cfg, store, client, reg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func runSeed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := replica.Seed(ctx, store); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Printf("seeded demo data into %s", cfg.Replica.Path)
	return nil
}

func replicaEmpty(ctx context.Context, store *replica.Store) (bool, error) {
	var n int
	err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
