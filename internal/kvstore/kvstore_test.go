package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tentennnn/anachaktopup/internal/kvstore"
)

func TestMemory(t *testing.T) {
	m := kvstore.NewMemory()

	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("key", "value")
	v, ok := m.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	m.Set("key", "replaced")
	v, _ = m.Get("key")
	assert.Equal(t, "replaced", v)

	m.Remove("key")
	_, ok = m.Get("key")
	assert.False(t, ok)

	// Removing an absent key is a no-op.
	m.Remove("key")
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)

	db.Set("serverName", "ANACHAK-MC")
	v, ok := db.Get("serverName")
	require.True(t, ok)
	assert.Equal(t, "ANACHAK-MC", v)

	db.Set("serverName", "Renamed")
	v, _ = db.Get("serverName")
	assert.Equal(t, "Renamed", v)

	db.Remove("serverName")
	_, ok = db.Get("serverName")
	assert.False(t, ok)

	// Values survive reopening the database.
	db.Set("themeColor", "#9fe870")
	require.NoError(t, db.Close())

	reopened, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok = reopened.Get("themeColor")
	require.True(t, ok)
	assert.Equal(t, "#9fe870", v)
}
