// internal/storage/factory_test.go
package storage

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igniteclubhq/pitchboard/internal/config"
	"github.com/igniteclubhq/pitchboard/internal/storage/memory"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{Type: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.IsType(t, &memory.Backend{}, b)
}

func TestNewBackend_Sqlite(t *testing.T) {
	cfg := config.StorageConfig{
		Type:       "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "board.db"),
	}
	b, err := NewBackend(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, b)
	require.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestNewBackend_UnknownType(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "carrier-pigeon"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
