package ledger_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tentennnn/anachaktopup/internal/clock"
	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/ledger"
	"github.com/Tentennnn/anachaktopup/internal/models"
)

// steppingClock advances by one second on every reading so consecutive
// appends get distinct, increasing IDs.
type steppingClock struct {
	t time.Time
}

func (c *steppingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func testClock() *steppingClock {
	return &steppingClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestAppend(t *testing.T) {
	t.Run("MostRecentFirst", func(t *testing.T) {
		l := ledger.New(kvstore.NewMemory(), testClock())

		l.Append("Steve", "Explorer")
		l.Append("Alex", "50 Coins")

		records := l.List(context.Background())
		require.Len(t, records, 2)
		assert.Equal(t, "Alex", records[0].BuyerName)
		assert.Equal(t, "Steve", records[1].BuyerName)
		assert.Greater(t, records[0].ID, records[1].ID, "IDs increase in creation order")
	})

	t.Run("CapsAtTenOldestEvictedFirst", func(t *testing.T) {
		l := ledger.New(kvstore.NewMemory(), testClock())

		for i := 1; i <= 13; i++ {
			l.Append(fmt.Sprintf("buyer%d", i), "Explorer")
		}

		records := l.List(context.Background())
		require.Len(t, records, ledger.MaxRecords)
		assert.Equal(t, "buyer13", records[0].BuyerName)
		assert.Equal(t, "buyer4", records[9].BuyerName)
	})

	t.Run("PersistsTruncatedList", func(t *testing.T) {
		kv := kvstore.NewMemory()
		l := ledger.New(kv, testClock())
		for i := 0; i < 12; i++ {
			l.Append("buyer", "item")
		}

		raw, ok := kv.Get("recentPurchases")
		require.True(t, ok)
		var stored []models.PurchaseRecord
		require.NoError(t, json.Unmarshal([]byte(raw), &stored))
		assert.Len(t, stored, 10)
	})

	t.Run("NotifiesSubscribers", func(t *testing.T) {
		l := ledger.New(kvstore.NewMemory(), testClock())

		var calls int
		l.Subscribe(func() { calls++ })
		l.Subscribe(func() { calls += 10 })

		l.Append("Steve", "Explorer")
		assert.Equal(t, 11, calls, "all listeners attached before emission receive it")
	})
}

func TestListFallbackChain(t *testing.T) {
	t.Run("EmptyStorageUsesDemoSeed", func(t *testing.T) {
		l := ledger.New(kvstore.NewMemory(), testClock())

		records := l.List(context.Background())
		require.Len(t, records, 3)
		assert.Equal(t, "Steve", records[0].BuyerName)
		assert.Equal(t, "Warrior Rank", records[0].ItemName)
		assert.Equal(t, "Herobrine", records[2].BuyerName)
	})

	t.Run("CorruptStorageUsesDemoSeed", func(t *testing.T) {
		kv := kvstore.NewMemory()
		kv.Set("recentPurchases", "%%% not json")
		l := ledger.New(kv, testClock())

		records := l.List(context.Background())
		assert.Len(t, records, 3)
	})

	t.Run("RemotePreferredWhenReachable", func(t *testing.T) {
		remote := []models.PurchaseRecord{
			{ID: "77", BuyerName: "Notch", ItemName: "Champion", CreatedAt: time.Now()},
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(remote)
		}))
		defer srv.Close()

		kv := kvstore.NewMemory()
		l := ledger.New(kv, testClock(), ledger.WithRemoteSource(srv.URL, srv.Client()))
		l.Append("Steve", "Explorer") // local data exists but remote wins

		records := l.List(context.Background())
		require.Len(t, records, 1)
		assert.Equal(t, "Notch", records[0].BuyerName)
	})

	t.Run("RemoteFailureFallsBackToLocal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not implemented", http.StatusNotImplemented)
		}))
		defer srv.Close()

		l := ledger.New(kvstore.NewMemory(), testClock(), ledger.WithRemoteSource(srv.URL, srv.Client()))
		l.Append("Steve", "Explorer")

		records := l.List(context.Background())
		require.Len(t, records, 1)
		assert.Equal(t, "Steve", records[0].BuyerName)
	})

	t.Run("RemoteFailureAndEmptyLocalUsesDemoSeed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer srv.Close()

		l := ledger.New(kvstore.NewMemory(), testClock(), ledger.WithRemoteSource(srv.URL, srv.Client()))

		assert.Len(t, l.List(context.Background()), 3)
	})
}

func TestSurvivesRestart(t *testing.T) {
	kv := kvstore.NewMemory()
	first := ledger.New(kv, testClock())
	first.Append("Steve", "Explorer")

	second := ledger.New(kv, testClock())
	records := second.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "Steve", records[0].BuyerName)
}

var _ clock.Clock = (*steppingClock)(nil)
