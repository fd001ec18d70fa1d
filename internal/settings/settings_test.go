package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/settings"
)

func strptr(s string) *string { return &s }

func TestLoadDefaults(t *testing.T) {
	store := settings.New(kvstore.NewMemory())

	site := store.Load()
	assert.Equal(t, settings.DefaultDisplayName, site.DisplayName)
	assert.Equal(t, settings.DefaultConnectAddress, site.ConnectAddress)
	assert.Equal(t, settings.DefaultDescription, site.Description)
	assert.Equal(t, settings.DefaultThemeColor, site.ThemeColor)
}

func TestSaveMergesPartialUpdate(t *testing.T) {
	store := settings.New(kvstore.NewMemory())

	site := store.Save(settings.Update{DisplayName: strptr("MyCraft"), ThemeColor: strptr("#ff0000")})
	assert.Equal(t, "MyCraft", site.DisplayName)
	assert.Equal(t, "#ff0000", site.ThemeColor)
	assert.Equal(t, settings.DefaultConnectAddress, site.ConnectAddress, "untouched fields keep their values")

	// A later partial save leaves the earlier change intact.
	site = store.Save(settings.Update{ConnectAddress: strptr("play.mycraft.net")})
	assert.Equal(t, "MyCraft", site.DisplayName)
	assert.Equal(t, "play.mycraft.net", site.ConnectAddress)
}

func TestSettingsVisibleToAllReaders(t *testing.T) {
	kv := kvstore.NewMemory()
	writer := settings.New(kv)
	reader := settings.New(kv)

	writer.Save(settings.Update{DisplayName: strptr("MyCraft")})
	assert.Equal(t, "MyCraft", reader.Load().DisplayName)
}

func TestStoreDisabled(t *testing.T) {
	t.Run("DefaultsToEnabled", func(t *testing.T) {
		store := settings.New(kvstore.NewMemory())
		assert.False(t, store.StoreDisabled())
	})

	t.Run("RoundTrips", func(t *testing.T) {
		store := settings.New(kvstore.NewMemory())
		store.SetStoreDisabled(true)
		require.True(t, store.StoreDisabled())
		store.SetStoreDisabled(false)
		assert.False(t, store.StoreDisabled())
	})

	t.Run("CorruptFlagReadsAsEnabled", func(t *testing.T) {
		kv := kvstore.NewMemory()
		kv.Set("storeDisabledByAdmin", "definitely not a bool")
		store := settings.New(kv)
		assert.False(t, store.StoreDisabled())
	})
}
