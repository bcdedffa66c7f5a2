package nanogen

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/teklini/nanogen/kvstore"
)

// HistoryLimit caps the ledger: the most recent entries survive, the oldest
// are silently dropped.
const HistoryLimit = 10

// DefaultHistoryKey is the storage slot the ledger persists under.
const DefaultHistoryKey = "nanogen_history"

// Ledger is the append-only, capacity-bounded log of past generation
// results, ordered newest-first. Every mutation immediately persists the
// full serialized ledger to its store; corrupt stored data is discarded
// silently on load.
//
// The ledger has exactly one writer (the studio's success transition), so it
// carries no locking of its own.
type Ledger struct {
	store  kvstore.Store
	key    string
	items  []HistoryItem
	logger *slog.Logger
	now    func() time.Time
}

// NewLedger creates an empty ledger persisting under key in store.
func NewLedger(store kvstore.Store, key string, logger *slog.Logger) *Ledger {
	if key == "" {
		key = DefaultHistoryKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:  store,
		key:    key,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the persisted ledger into memory. Missing or unparsable stored
// data falls back silently to an empty ledger; the user never sees a
// persistence error.
func (l *Ledger) Load(ctx context.Context) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		l.logger.Warn("failed to read stored history, starting empty",
			"key", l.key,
			"error", err.Error(),
		)
		l.items = nil
		return
	}
	if !ok {
		l.items = nil
		return
	}

	var items []HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		l.logger.Warn("stored history is corrupt, starting empty",
			"key", l.key,
			"error", err.Error(),
		)
		l.items = nil
		return
	}

	if len(items) > HistoryLimit {
		items = items[:HistoryLimit]
	}
	l.items = items
}

// Append constructs a HistoryItem from the result and prepends it, dropping
// anything beyond HistoryLimit, then persists the whole ledger. The new
// item's id is derived from its creation time and bumped until unique
// against the surviving entries.
func (l *Ledger) Append(ctx context.Context, result GenerationResult, mode Mode, ratio AspectRatio) HistoryItem {
	item := HistoryItem{
		GenerationResult: result,
		ID:               l.uniqueID(result.Timestamp),
		Mode:             mode,
		AspectRatio:      ratio,
	}

	items := make([]HistoryItem, 0, len(l.items)+1)
	items = append(items, item)
	items = append(items, l.items...)
	if len(items) > HistoryLimit {
		items = items[:HistoryLimit]
	}
	l.items = items

	l.persist(ctx)
	return item
}

// Items returns a copy of the ledger, newest first.
func (l *Ledger) Items() []HistoryItem {
	out := make([]HistoryItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of entries currently held.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Clear empties the ledger and removes its durable copy. Clearing an already
// empty ledger is a no-op.
func (l *Ledger) Clear(ctx context.Context) {
	l.items = nil
	if err := l.store.Remove(ctx, l.key); err != nil {
		l.logger.Warn("failed to remove stored history",
			"key", l.key,
			"error", err.Error(),
		)
	}
}

// persist writes the serialized ledger to the store. Persistence failures
// are logged, never surfaced: the in-memory ledger stays authoritative for
// the session.
func (l *Ledger) persist(ctx context.Context) {
	raw, err := json.Marshal(l.items)
	if err != nil {
		l.logger.Error("failed to serialize history",
			"key", l.key,
			"error", err.Error(),
		)
		return
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		l.logger.Warn("failed to persist history",
			"key", l.key,
			"error", err.Error(),
		)
	}
}

// uniqueID derives an id from ts, bumping by a nanosecond while it collides
// with an existing entry. Two generations within the same nanosecond are not
// a practical concern, but the ledger's id-uniqueness invariant should not
// rest on that.
func (l *Ledger) uniqueID(ts time.Time) string {
	candidate := ts.UnixNano()
	for l.containsID(strconv.FormatInt(candidate, 10)) {
		candidate++
	}
	return strconv.FormatInt(candidate, 10)
}

func (l *Ledger) containsID(id string) bool {
	for _, item := range l.items {
		if item.ID == id {
			return true
		}
	}
	return false
}
