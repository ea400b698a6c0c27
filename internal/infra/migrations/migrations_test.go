package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}

func TestLedgerUniqueIndex(t *testing.T) {
	body, err := fs.ReadFile(files, dir+"/00003_webhooks.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "ON payment_ledger_entries (provider, provider_payment_id)"))
}
