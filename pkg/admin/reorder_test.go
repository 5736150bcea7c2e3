package admin

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore mirrors the persistence contract: Apply overwrites the order
// field per id, List sorts by order ascending with creation time as the
// tie-break.
type memStore struct {
	records []memRecord
	applied [][]Position
}

type memRecord struct {
	id        string
	title     string
	order     int
	createdAt time.Time
}

func (m *memStore) Apply(_ context.Context, positions []Position) error {
	m.applied = append(m.applied, positions)
	for _, p := range positions {
		for i := range m.records {
			if m.records[i].id == p.ID {
				m.records[i].order = p.Order
			}
		}
	}
	return nil
}

func (m *memStore) List(_ context.Context) ([]ViewRecord, error) {
	sorted := make([]memRecord, len(m.records))
	copy(sorted, m.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].order != sorted[j].order {
			return sorted[i].order < sorted[j].order
		}
		return sorted[i].createdAt.Before(sorted[j].createdAt)
	})

	views := make([]ViewRecord, len(sorted))
	for i, r := range sorted {
		views[i] = ViewRecord{ID: r.id, Title: r.title, Order: r.order}
	}
	return views, nil
}

func newTestService(store Store) *Service {
	svc := NewService(nil, zap.NewNop())
	svc.RegisterResource("categories", store)
	return svc
}

func TestReorderThenListReflectsNewPositions(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memStore{records: []memRecord{
		{id: "a", title: "Apparel", order: 1, createdAt: base},
		{id: "b", title: "Headwear", order: 2, createdAt: base.Add(time.Hour)},
	}}
	svc := newTestService(store)
	ctx := context.Background()

	err := svc.Reorder(ctx, "admin", "categories", []Position{
		{ID: "a", Order: 2},
		{ID: "b", Order: 1},
	})
	require.NoError(t, err)

	views, err := svc.List(ctx, "categories")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "b", views[0].ID)
	assert.Equal(t, "a", views[1].ID)
}

func TestListBreaksTiesByCreationTime(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memStore{records: []memRecord{
		{id: "later", title: "Later", order: 1, createdAt: base.Add(time.Hour)},
		{id: "earlier", title: "Earlier", order: 1, createdAt: base},
	}}
	svc := newTestService(store)

	views, err := svc.List(context.Background(), "categories")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "earlier", views[0].ID)
	assert.Equal(t, "later", views[1].ID)
}

func TestReorderUnknownResource(t *testing.T) {
	svc := newTestService(&memStore{})

	err := svc.Reorder(context.Background(), "admin", "widgets", nil)
	assert.ErrorIs(t, err, ErrUnknownResource)

	_, err = svc.List(context.Background(), "widgets")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestReorderPassesBatchThrough(t *testing.T) {
	store := &memStore{records: []memRecord{{id: "a"}, {id: "b"}, {id: "c"}}}
	svc := newTestService(store)

	batch := []Position{{ID: "c", Order: 1}, {ID: "a", Order: 2}, {ID: "b", Order: 3}}
	require.NoError(t, svc.Reorder(context.Background(), "admin", "categories", batch))

	require.Len(t, store.applied, 1)
	assert.Equal(t, batch, store.applied[0])
}
