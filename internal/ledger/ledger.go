// Package ledger keeps the capped, most-recent-first log of completed
// purchase submissions that feeds the recent-activity view.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Tentennnn/anachaktopup/internal/clock"
	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/models"
)

const (
	storageKey = "recentPurchases"
	// MaxRecords is the retention cap; the oldest record is evicted first.
	MaxRecords = 10
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithRemoteSource makes List prefer url over local storage. Any fetch
// failure falls back to the local chain.
func WithRemoteSource(url string, client *http.Client) Option {
	return func(l *Ledger) {
		l.remoteURL = url
		if client != nil {
			l.client = client
		}
	}
}

// Ledger is the append-only purchase log.
type Ledger struct {
	mu        sync.Mutex
	kv        kvstore.Store
	clock     clock.Clock
	remoteURL string
	client    *http.Client
	listeners []func()
}

func New(kv kvstore.Store, clk clock.Clock, opts ...Option) *Ledger {
	l := &Ledger{
		kv:     kv,
		clock:  clk,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a completed purchase at the front of the log, evicts past
// the retention cap, persists, and notifies subscribers.
func (l *Ledger) Append(buyerName, itemName string) models.PurchaseRecord {
	now := l.clock.Now()
	record := models.PurchaseRecord{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		BuyerName: buyerName,
		ItemName:  itemName,
		CreatedAt: now,
	}

	l.mu.Lock()
	records := append([]models.PurchaseRecord{record}, l.local()...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	l.persist(records)
	listeners := make([]func(), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()

	for _, notify := range listeners {
		notify()
	}
	return record
}

// List returns the best available recent-purchase data, most-recent-first:
// the remote source when configured and reachable, then local storage, then
// a small demo seed. It never fails.
func (l *Ledger) List(ctx context.Context) []models.PurchaseRecord {
	if l.remoteURL != "" {
		if records, err := l.fetchRemote(ctx); err == nil {
			return records
		} else {
			slog.Debug("Remote purchase feed unavailable, using local data", "error", err)
		}
	}

	l.mu.Lock()
	records := l.local()
	l.mu.Unlock()
	if len(records) > 0 {
		return records
	}
	return l.demoRecords()
}

// Subscribe registers a change listener invoked after every Append. Delivery
// is in-process and fire-and-forget.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *Ledger) local() []models.PurchaseRecord {
	raw, ok := l.kv.Get(storageKey)
	if !ok {
		return nil
	}
	var records []models.PurchaseRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.Warn("Stored purchase log is corrupt, treating as empty", "error", err)
		return nil
	}
	return records
}

func (l *Ledger) persist(records []models.PurchaseRecord) {
	raw, err := json.Marshal(records)
	if err != nil {
		slog.Error("Failed to encode purchase log", "error", err)
		return
	}
	l.kv.Set(storageKey, string(raw))
}

func (l *Ledger) fetchRemote(ctx context.Context) ([]models.PurchaseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.remoteURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	var records []models.PurchaseRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "purchase feed responded with status " + strconv.Itoa(e.code)
}

func (l *Ledger) demoRecords() []models.PurchaseRecord {
	now := l.clock.Now()
	return []models.PurchaseRecord{
		{ID: "1", BuyerName: "Steve", ItemName: "Warrior Rank", CreatedAt: now.Add(-5 * time.Minute)},
		{ID: "2", BuyerName: "Alex", ItemName: "250 Coins", CreatedAt: now.Add(-30 * time.Minute)},
		{ID: "3", BuyerName: "Herobrine", ItemName: "Legend Rank", CreatedAt: now.Add(-2 * time.Hour)},
	}
}
