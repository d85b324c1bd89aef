package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileAndInitSchema(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	defer c.Close()

	stmts := []string{`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY)`}
	require.NoError(t, c.InitSchema(ctx, stmts))
	require.NoError(t, c.InitSchema(ctx, stmts))
	assert.NoError(t, c.Health(ctx))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}
