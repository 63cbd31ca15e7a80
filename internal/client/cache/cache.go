// Package cache holds the reconciled view of the record store.
//
// A Snapshot is immutable once built: the ordered records, an id index and
// the derived stats and caller history. Cache swaps whole snapshots
// atomically, so readers never see a half-applied refresh.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
)

type Snapshot struct {
	records    []models.Record
	index      map[string]int
	stats      models.Stats
	history    []models.HistoryItem
	account    string
	builtAt    time.Time
	generation uint64
}

func newSnapshot(gen uint64, records []models.Record, account string, builtAt, now time.Time) *Snapshot {
	own := make([]models.Record, len(records))
	copy(own, records)

	index := make(map[string]int, len(own))
	for i, r := range own {
		index[r.ID] = i
	}

	return &Snapshot{
		records:    own,
		index:      index,
		stats:      ComputeStats(own, now),
		history:    BuildHistory(own, account),
		account:    account,
		builtAt:    builtAt,
		generation: gen,
	}
}

// Records returns a copy of the records in store order.
func (s *Snapshot) Records() []models.Record {
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Snapshot) Get(id string) (models.Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Record{}, false
	}
	return s.records[i], true
}

func (s *Snapshot) Filter(text string) []models.Record {
	return Filter(s.records, text)
}

func (s *Snapshot) Len() int { return len(s.records) }

func (s *Snapshot) Stats() models.Stats { return s.stats }

// Account is the identity the history was built for.
func (s *Snapshot) Account() string { return s.account }

// BuiltAt is when the records were read from the store.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

func (s *Snapshot) Generation() uint64 { return s.generation }

func (s *Snapshot) History() []models.HistoryItem {
	out := make([]models.HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

type Cache struct {
	current atomic.Pointer[Snapshot]
	issued  atomic.Uint64

	mu  sync.Mutex
	now func() time.Time
}

func New() *Cache {
	c := &Cache{now: time.Now}
	c.current.Store(newSnapshot(0, nil, "", time.Time{}, time.Now()))
	return c
}

// NextGeneration reserves a generation number for a refresh about to start.
func (c *Cache) NextGeneration() uint64 {
	return c.issued.Add(1)
}

func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Replace installs records as the new snapshot unless a refresh with a
// later generation has already been committed. It reports whether the
// snapshot was installed.
func (c *Cache) Replace(gen uint64, records []models.Record, account string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.current.Load().generation {
		return false
	}
	now := c.now()
	c.current.Store(newSnapshot(gen, records, account, now, now))
	return true
}

// Restore installs a snapshot loaded from local storage. It never overrides
// a snapshot built from a live refresh.
func (c *Cache) Restore(records []models.Record, account string, builtAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current.Load().generation > 0 {
		return false
	}
	c.current.Store(newSnapshot(0, records, account, builtAt, c.now()))
	return true
}

// Rebind recomputes the caller history for another active account.
func (c *Cache) Rebind(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current.Load()
	if common.SameAccount(cur.account, account) {
		return
	}
	next := *cur
	next.account = account
	next.history = BuildHistory(cur.records, account)
	c.current.Store(&next)
}
