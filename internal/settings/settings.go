// Package settings persists the operator-editable site settings and the
// store kill switch. Each field lives under its own key so a partial save
// only touches what changed.
package settings

import (
	"encoding/json"
	"sync"

	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/models"
)

const (
	nameKey        = "serverName"
	addressKey     = "serverIP"
	descriptionKey = "serverDescription"
	themeKey       = "themeColor"
	disabledKey    = "storeDisabledByAdmin"
)

// Defaults a fresh install renders with.
const (
	DefaultDisplayName    = "ANACHAK-MC"
	DefaultConnectAddress = "mc.anachak.xyz"
	DefaultDescription    = "Your new favorite Minecraft server. Join our community for unique survival adventures and challenges."
	DefaultThemeColor     = "#9fe870"
)

// Update carries a partial settings change; nil fields are left untouched.
type Update struct {
	DisplayName    *string
	ConnectAddress *string
	Description    *string
	ThemeColor     *string
}

// Store reads and writes SiteSettings, last write wins.
type Store struct {
	mu sync.Mutex
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the current settings, falling back per field to the built-in
// default when a key is absent.
func (s *Store) Load() models.SiteSettings {
	return models.SiteSettings{
		DisplayName:    s.field(nameKey, DefaultDisplayName),
		ConnectAddress: s.field(addressKey, DefaultConnectAddress),
		Description:    s.field(descriptionKey, DefaultDescription),
		ThemeColor:     s.field(themeKey, DefaultThemeColor),
	}
}

// Save merges the update into the current settings and persists the changed
// fields. Changes take effect for all readers immediately.
func (s *Store) Save(u Update) models.SiteSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.DisplayName != nil {
		s.kv.Set(nameKey, *u.DisplayName)
	}
	if u.ConnectAddress != nil {
		s.kv.Set(addressKey, *u.ConnectAddress)
	}
	if u.Description != nil {
		s.kv.Set(descriptionKey, *u.Description)
	}
	if u.ThemeColor != nil {
		s.kv.Set(themeKey, *u.ThemeColor)
	}
	return s.Load()
}

// StoreDisabled reports whether the admin has switched purchasing off.
// Corrupt stored state reads as enabled.
func (s *Store) StoreDisabled() bool {
	raw, ok := s.kv.Get(disabledKey)
	if !ok {
		return false
	}
	var disabled bool
	if err := json.Unmarshal([]byte(raw), &disabled); err != nil {
		return false
	}
	return disabled
}

// SetStoreDisabled flips the kill switch.
func (s *Store) SetStoreDisabled(disabled bool) {
	raw, _ := json.Marshal(disabled)
	s.kv.Set(disabledKey, string(raw))
}

func (s *Store) field(key, fallback string) string {
	if v, ok := s.kv.Get(key); ok {
		return v
	}
	return fallback
}
