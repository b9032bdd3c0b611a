package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presentoir-backend/config"
	"presentoir-backend/internal/model"
)

func TestInitSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "presentoir.db"),
	}
	gdb, err := Init(cfg)
	require.NoError(t, err)

	for _, m := range Models {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	org := model.Organization{Name: "Central"}
	require.NoError(t, gdb.Create(&org).Error)
	assert.Len(t, org.ID, 36)
}
