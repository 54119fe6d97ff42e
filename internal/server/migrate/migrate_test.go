package migrate

import (
	"bytes"
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p, err := m.Migrator(db)
	require.NoError(t, err)

	var out bytes.Buffer
	return New(p, logging.Nop{}, &out), &out
}

func TestRunner_UpVersionDown(t *testing.T) {
	r, out := newRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Exec(ctx, "version", 0))
	assert.Equal(t, "0\n", out.String())
	out.Reset()

	require.NoError(t, r.Exec(ctx, "up", 0))
	require.NoError(t, r.Exec(ctx, "up", 0))

	require.NoError(t, r.Exec(ctx, "version", 0))
	assert.Equal(t, "1\n", out.String())
	out.Reset()

	require.NoError(t, r.Exec(ctx, "status", 0))
	assert.Contains(t, out.String(), "VERSION")
	assert.Contains(t, out.String(), "applied")
	assert.Contains(t, out.String(), "00001_create_users.sql")
	out.Reset()

	require.NoError(t, r.Exec(ctx, "down", 0))
	require.NoError(t, r.Exec(ctx, "version", 0))
	assert.Equal(t, "0\n", out.String())
}

func TestRunner_UnknownCommand(t *testing.T) {
	r, _ := newRunner(t)
	err := r.Exec(context.Background(), "sideways", 0)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
