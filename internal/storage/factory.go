// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/igniteclubhq/pitchboard/internal/config"
	"github.com/igniteclubhq/pitchboard/internal/database"
	gormstore "github.com/igniteclubhq/pitchboard/internal/storage/gorm"
	"github.com/igniteclubhq/pitchboard/internal/storage/memory"

	"github.com/rs/zerolog"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		mgr := database.NewManager(log)
		db, err := mgr.GetSqliteDB(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return gormstore.New(db), nil
	case "postgres":
		mgr := database.NewManager(log)
		db, err := mgr.GetPostgresDB()
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return gormstore.New(db), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
