package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/models"
)

func TestNewSeedsDefaults(t *testing.T) {
	t.Run("EmptyStorage", func(t *testing.T) {
		repo := catalog.New(kvstore.NewMemory())

		ranks := repo.Ranks()
		require.Len(t, ranks, 4)
		assert.Equal(t, "Explorer", ranks[0].Name)
		assert.Equal(t, "Legend", ranks[3].Name)
		assert.True(t, ranks[3].Highlighted)

		coins := repo.Coins()
		require.Len(t, coins, 3)
		assert.Equal(t, "50 Coins", coins[0].Name)
		assert.Equal(t, 250, coins[2].Amount)
	})

	t.Run("CorruptStorage", func(t *testing.T) {
		kv := kvstore.NewMemory()
		kv.Set("storeRanks", "{not valid json")
		kv.Set("storeCoins", "also not json]")

		repo := catalog.New(kv)
		assert.Len(t, repo.Ranks(), 4)
		assert.Len(t, repo.Coins(), 3)
	})

	t.Run("StoredCatalogWins", func(t *testing.T) {
		kv := kvstore.NewMemory()
		stored, err := json.Marshal([]models.Rank{{Kind: models.KindRank, Name: "VIP", Price: 3}})
		require.NoError(t, err)
		kv.Set("storeRanks", string(stored))

		repo := catalog.New(kv)
		ranks := repo.Ranks()
		require.Len(t, ranks, 1)
		assert.Equal(t, "VIP", ranks[0].Name)
	})
}

func TestCreateRank(t *testing.T) {
	t.Run("AppendsInOrder", func(t *testing.T) {
		repo := catalog.New(kvstore.NewMemory())
		require.NoError(t, repo.CreateRank(models.Rank{Name: "Mythic", Price: 30}))

		ranks := repo.Ranks()
		require.Len(t, ranks, 5)
		assert.Equal(t, "Mythic", ranks[4].Name)
		assert.Equal(t, models.KindRank, ranks[4].Kind)
	})

	t.Run("RejectsCaseInsensitiveDuplicate", func(t *testing.T) {
		kv := kvstore.NewMemory()
		repo := catalog.New(kv)
		before, _ := kv.Get("storeRanks")

		err := repo.CreateRank(models.Rank{Name: "explorer", Price: 99})

		var dup *catalog.DuplicateNameError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "explorer", dup.Name)
		assert.Equal(t, models.KindRank, dup.Kind)
		assert.Len(t, repo.Ranks(), 4)

		after, _ := kv.Get("storeRanks")
		assert.Equal(t, before, after, "a rejected create must not touch persisted state")
	})

	t.Run("PersistsFullCollection", func(t *testing.T) {
		kv := kvstore.NewMemory()
		repo := catalog.New(kv)
		require.NoError(t, repo.CreateRank(models.Rank{Name: "Mythic", Price: 30}))

		raw, ok := kv.Get("storeRanks")
		require.True(t, ok)
		var stored []models.Rank
		require.NoError(t, json.Unmarshal([]byte(raw), &stored))
		assert.Len(t, stored, 5)
	})
}

func TestCreateCoin(t *testing.T) {
	repo := catalog.New(kvstore.NewMemory())

	err := repo.CreateCoin(models.CoinPackage{Name: "100 COINS", Amount: 100, Price: 2})
	var dup *catalog.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.KindCoin, dup.Kind)

	require.NoError(t, repo.CreateCoin(models.CoinPackage{Name: "500 Coins", Amount: 500, Price: 9}))
	coins := repo.Coins()
	require.Len(t, coins, 4)
	assert.Equal(t, "500 Coins", coins[3].Name)
}

func TestUpdateRank(t *testing.T) {
	t.Run("ReplacesInPlace", func(t *testing.T) {
		repo := catalog.New(kvstore.NewMemory())

		repo.UpdateRank(models.Rank{Name: "Warrior", Price: 12, Features: []string{"Everything"}})

		ranks := repo.Ranks()
		require.Len(t, ranks, 4)
		assert.Equal(t, "Warrior", ranks[1].Name, "update must preserve position")
		assert.Equal(t, 12.0, ranks[1].Price)
		assert.Equal(t, []string{"Everything"}, ranks[1].Features)
	})

	t.Run("UnknownNameIsNoOp", func(t *testing.T) {
		repo := catalog.New(kvstore.NewMemory())
		before := repo.Ranks()

		repo.UpdateRank(models.Rank{Name: "Nonexistent", Price: 1})

		assert.Equal(t, before, repo.Ranks())
	})

	t.Run("MatchIsCaseSensitive", func(t *testing.T) {
		// Edits resolve by exact identity; a differently cased name is not
		// the same item and must be dropped.
		repo := catalog.New(kvstore.NewMemory())

		repo.UpdateRank(models.Rank{Name: "WARRIOR", Price: 99})

		assert.Equal(t, 10.0, repo.Ranks()[1].Price)
	})
}

func TestDelete(t *testing.T) {
	repo := catalog.New(kvstore.NewMemory())

	repo.DeleteRank("Champion")
	ranks := repo.Ranks()
	require.Len(t, ranks, 3)
	assert.Equal(t, []string{"Explorer", "Warrior", "Legend"},
		[]string{ranks[0].Name, ranks[1].Name, ranks[2].Name})

	repo.DeleteCoin("50 Coins")
	assert.Len(t, repo.Coins(), 2)

	// Deleting an absent name changes nothing.
	repo.DeleteRank("Champion")
	assert.Len(t, repo.Ranks(), 3)
}

func TestLookupByName(t *testing.T) {
	repo := catalog.New(kvstore.NewMemory())

	rank, ok := repo.RankByName("Legend")
	require.True(t, ok)
	assert.Equal(t, 20.0, rank.Price)
	require.NotNil(t, rank.OriginalPrice)
	assert.Equal(t, 25.0, *rank.OriginalPrice)

	_, ok = repo.RankByName("legend")
	assert.False(t, ok, "lookup is by exact name")

	coin, ok := repo.CoinByName("250 Coins")
	require.True(t, ok)
	assert.True(t, coin.Highlighted)
}

func TestReloadRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	repo := catalog.New(kv)
	require.NoError(t, repo.CreateRank(models.Rank{Name: "Mythic", Price: 30, Bonus: "New"}))
	repo.DeleteCoin("100 Coins")

	reloaded := catalog.New(kv)
	assert.Len(t, reloaded.Ranks(), 5)
	assert.Len(t, reloaded.Coins(), 2)
	rank, ok := reloaded.RankByName("Mythic")
	require.True(t, ok)
	assert.Equal(t, "New", rank.Bonus)
}
