package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixture() []models.Record {
	day := int64(24 * 3600)
	return []models.Record{
		{ID: "drug-1", Name: "CompoundX", Description: "test", Creator: "0xABC", CreatedAt: now.Unix() - day, PublicValue1: 250, PublicValue2: 80},
		{ID: "drug-2", Name: "Aspirin", Description: "pain relief", Creator: "0xdef", CreatedAt: now.Unix() - 10*day, PublicValue2: 40, IsVerified: true, DecryptedValue: 42},
		{ID: "drug-3", Name: "Beta blocker", Description: "CARDIO", Creator: "0xabc", CreatedAt: now.Unix() - 8*day, PublicValue2: 60, IsVerified: true, DecryptedValue: 7},
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(fixture(), now)
	assert.Equal(t, models.Stats{TotalCompounds: 3, VerifiedData: 2, AvgActivity: 60, RecentUploads: 1}, st)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, models.Stats{}, ComputeStats(nil, now))
}

func TestComputeStats_RecentBoundary(t *testing.T) {
	week := int64(RecentWindow / time.Second)
	recs := []models.Record{
		{CreatedAt: now.Unix() - week + 1},
		{CreatedAt: now.Unix() - week},
	}
	assert.Equal(t, 1, ComputeStats(recs, now).RecentUploads)
}

func TestBuildHistory_CaseInsensitive(t *testing.T) {
	got := BuildHistory(fixture(), "0xAbC")
	want := []models.HistoryItem{
		{Name: "CompoundX", Timestamp: fixture()[0].CreatedAt, Verified: false},
		{Name: "Beta blocker", Timestamp: fixture()[2].CreatedAt, Verified: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, BuildHistory(fixture(), ""))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "", want: []string{"drug-1", "drug-2", "drug-3"}},
		{text: "compound", want: []string{"drug-1"}},
		{text: "cardio", want: []string{"drug-3"}},
		{text: "PAIN", want: []string{"drug-2"}},
		{text: "nothing", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ids := []string{}
			for _, r := range Filter(fixture(), tt.text) {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func newTestCache() *Cache {
	c := New()
	c.now = func() time.Time { return now }
	return c
}

func TestCache_ReplaceBuildsSnapshot(t *testing.T) {
	c := newTestCache()
	assert.Zero(t, c.Snapshot().Len())

	require.True(t, c.Replace(c.NextGeneration(), fixture(), "0xabc"))

	s := c.Snapshot()
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, fixture(), s.Records())
	assert.Equal(t, 3, s.Stats().TotalCompounds)
	assert.Len(t, s.History(), 2)
	assert.Equal(t, now, s.BuiltAt())

	r, ok := s.Get("drug-2")
	require.True(t, ok)
	assert.Equal(t, int64(42), r.DecryptedValue)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestCache_ReplaceDropsRemovedRecords(t *testing.T) {
	c := newTestCache()
	require.True(t, c.Replace(c.NextGeneration(), fixture(), ""))
	require.True(t, c.Replace(c.NextGeneration(), fixture()[:1], ""))

	_, ok := c.Snapshot().Get("drug-2")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Snapshot().Stats().TotalCompounds)
}

func TestCache_StaleGenerationDiscarded(t *testing.T) {
	c := newTestCache()
	older := c.NextGeneration()
	newer := c.NextGeneration()

	require.True(t, c.Replace(newer, fixture(), ""))
	assert.False(t, c.Replace(older, fixture()[:1], ""))
	assert.Equal(t, 3, c.Snapshot().Len())
}

func TestCache_SnapshotIsImmutable(t *testing.T) {
	c := newTestCache()
	in := fixture()
	require.True(t, c.Replace(c.NextGeneration(), in, ""))

	in[0].Name = "mutated"
	got := c.Snapshot().Records()
	got[1].Name = "mutated too"

	r, _ := c.Snapshot().Get("drug-1")
	assert.Equal(t, "CompoundX", r.Name)
	r, _ = c.Snapshot().Get("drug-2")
	assert.Equal(t, "Aspirin", r.Name)
}

func TestCache_Rebind(t *testing.T) {
	c := newTestCache()
	require.True(t, c.Replace(c.NextGeneration(), fixture(), "0xdef"))
	require.Len(t, c.Snapshot().History(), 1)

	c.Rebind("0xABC")
	assert.Len(t, c.Snapshot().History(), 2)
	assert.Equal(t, "0xABC", c.Snapshot().Account())
	assert.Equal(t, 3, c.Snapshot().Len())

	c.Rebind("")
	assert.Empty(t, c.Snapshot().History())
}

func TestCache_RestoreOnlyBeforeLiveRefresh(t *testing.T) {
	c := newTestCache()
	taken := now.Add(-time.Hour)

	require.True(t, c.Restore(fixture()[:2], "", taken))
	assert.Equal(t, 2, c.Snapshot().Len())
	assert.Equal(t, taken, c.Snapshot().BuiltAt())

	require.True(t, c.Replace(c.NextGeneration(), fixture(), ""))
	assert.False(t, c.Restore(nil, "", taken))
	assert.Equal(t, 3, c.Snapshot().Len())
}

func TestCache_ConcurrentReplaceKeepsNewest(t *testing.T) {
	c := newTestCache()

	var wg sync.WaitGroup
	gens := make([]uint64, 20)
	for i := range gens {
		gens[i] = c.NextGeneration()
	}
	for i, g := range gens {
		wg.Add(1)
		go func(n int, g uint64) {
			defer wg.Done()
			c.Replace(g, fixture()[:n%3+1], "")
		}(i, g)
	}
	wg.Wait()

	assert.Equal(t, gens[len(gens)-1], c.Snapshot().Generation())
}
