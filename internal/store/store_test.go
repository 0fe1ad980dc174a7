package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "tasks.db")}

	st, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	n, err := st.Users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{Driver: "mongo"}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown store driver "mongo"`)
}
