// Package catalog owns the two ordered item collections the store sells from:
// ranks and coin packages. Names are the identity of an item and are unique
// within a collection under case-insensitive comparison.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/models"
)

const (
	ranksKey = "storeRanks"
	coinsKey = "storeCoins"
)

// DuplicateNameError reports a create that collided with an existing item.
type DuplicateNameError struct {
	Kind models.ItemKind
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Kind == models.KindCoin {
		return fmt.Sprintf("a coin package with the name %q already exists", e.Name)
	}
	return fmt.Sprintf("a rank with the name %q already exists", e.Name)
}

// Repository holds the in-memory catalog snapshot and persists every mutation
// as a full JSON collection under a fixed key.
type Repository struct {
	mu    sync.RWMutex
	kv    kvstore.Store
	ranks []models.Rank
	coins []models.CoinPackage
}

// New loads both collections from the store. Absent or corrupt stored JSON
// seeds the built-in default catalog rather than failing.
func New(kv kvstore.Store) *Repository {
	r := &Repository{kv: kv}
	r.ranks = loadCollection(kv, ranksKey, DefaultRanks())
	r.coins = loadCollection(kv, coinsKey, DefaultCoins())
	return r
}

func loadCollection[T any](kv kvstore.Store, key string, fallback []T) []T {
	raw, ok := kv.Get(key)
	if !ok {
		return fallback
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("Stored catalog is corrupt, seeding defaults", "key", key, "error", err)
		return fallback
	}
	return items
}

// Ranks returns the current ranks in insertion order.
func (r *Repository) Ranks() []models.Rank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Rank, len(r.ranks))
	copy(out, r.ranks)
	return out
}

// Coins returns the current coin packages in insertion order.
func (r *Repository) Coins() []models.CoinPackage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CoinPackage, len(r.coins))
	copy(out, r.coins)
	return out
}

// RankByName looks up a rank by exact name.
func (r *Repository) RankByName(name string) (models.Rank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.ranks {
		if item.Name == name {
			return item, true
		}
	}
	return models.Rank{}, false
}

// CoinByName looks up a coin package by exact name.
func (r *Repository) CoinByName(name string) (models.CoinPackage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.coins {
		if item.Name == name {
			return item, true
		}
	}
	return models.CoinPackage{}, false
}

// CreateRank appends a new rank. A name already present in the collection
// (case-insensitive) rejects the create and leaves the collection unchanged.
func (r *Repository) CreateRank(item models.Rank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ranks {
		if sameName(existing.Name, item.Name) {
			return &DuplicateNameError{Kind: models.KindRank, Name: item.Name}
		}
	}
	item.Kind = models.KindRank
	r.ranks = append(r.ranks, item)
	r.persistRanks()
	return nil
}

// CreateCoin appends a new coin package under the same uniqueness rule.
func (r *Repository) CreateCoin(item models.CoinPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coins {
		if sameName(existing.Name, item.Name) {
			return &DuplicateNameError{Kind: models.KindCoin, Name: item.Name}
		}
	}
	item.Kind = models.KindCoin
	r.coins = append(r.coins, item)
	r.persistCoins()
	return nil
}

// UpdateRank replaces the rank with the same exact name in place. An unknown
// name is a silent no-op; names never change through an update.
func (r *Repository) UpdateRank(item models.Rank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.ranks {
		if existing.Name == item.Name {
			item.Kind = models.KindRank
			r.ranks[i] = item
			r.persistRanks()
			return
		}
	}
}

// UpdateCoin replaces the coin package with the same exact name in place.
func (r *Repository) UpdateCoin(item models.CoinPackage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.coins {
		if existing.Name == item.Name {
			item.Kind = models.KindCoin
			r.coins[i] = item
			r.persistCoins()
			return
		}
	}
}

// DeleteRank removes the rank with the exact name. The caller is responsible
// for having confirmed the deletion; it cannot be undone here.
func (r *Repository) DeleteRank(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.ranks {
		if existing.Name == name {
			r.ranks = append(r.ranks[:i], r.ranks[i+1:]...)
			r.persistRanks()
			return
		}
	}
}

// DeleteCoin removes the coin package with the exact name.
func (r *Repository) DeleteCoin(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.coins {
		if existing.Name == name {
			r.coins = append(r.coins[:i], r.coins[i+1:]...)
			r.persistCoins()
			return
		}
	}
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (r *Repository) persistRanks() { persistCollection(r.kv, ranksKey, r.ranks) }
func (r *Repository) persistCoins() { persistCollection(r.kv, coinsKey, r.coins) }

func persistCollection[T any](kv kvstore.Store, key string, items []T) {
	raw, err := json.Marshal(items)
	if err != nil {
		slog.Error("Failed to encode catalog", "key", key, "error", err)
		return
	}
	kv.Set(key, string(raw))
}
