package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSqliteDB_InMemory(t *testing.T) {
	m := NewManager(zerolog.Nop())

	db, err := m.GetSqliteDB("")
	require.NoError(t, err)
	require.NotNil(t, db)

	var result int
	require.NoError(t, db.Raw("SELECT 1").Scan(&result).Error)
	assert.Equal(t, 1, result)
}

func TestGetSqliteDB_File(t *testing.T) {
	m := NewManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "board.db")

	db, err := m.GetSqliteDB(path)
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.FileExists(t, path)
}

func TestClose_WithoutConnection(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.NoError(t, m.Close())
}
