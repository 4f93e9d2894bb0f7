package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/kelderman/listforge/internal/backend"
	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/listforge/listforge.db"
	}

	// Expand tilde and environment variables
	dbPath = common.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initBackend creates the backend API client from config.
func initBackend() (*backend.Client, error) {
	client, err := backend.NewClient(viper.GetString("backend.url"), viper.GetString("backend.token"))
	if err != nil {
		return nil, common.NewUserError("Backend is not configured; set backend.url in the config file or LISTFORGE_BACKEND_URL", err)
	}
	return client, nil
}

// parseIDList parses a comma-separated list of numeric ids.
func parseIDList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
