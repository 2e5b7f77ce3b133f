package poolstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/suvana/suvana/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(id string, createdAt time.Time) models.Pool {
	return models.Pool{
		ID:            id,
		Name:          "Pool " + id,
		Size:          3,
		ShareAmount:   2,
		CycleDuration: 7,
		CurrentCycle:  1,
		TotalCycles:   3,
		Participants:  1,
		Collected:     2,
		Status:        models.StatusActive,
		NextPayout:    createdAt.Add(7 * models.Day),
		CreatedAt:     createdAt,
	}
}

func TestMemoryStore_CreateListGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		_, err := s.Create(ctx, testPool(id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})

	got, err := s.Get(ctx, "mid")
	require.NoError(t, err)
	assert.Equal(t, "Pool mid", got.Name)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create(ctx, testPool("mid", base))
	assert.ErrorIs(t, err, ErrDuplicateID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMemoryStore_Join(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	_, err := s.Create(ctx, testPool("p", time.Now()))
	require.NoError(t, err)

	p, err := s.Join(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Participants)
	assert.Equal(t, 4.0, p.Collected)

	p, err = s.Join(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Participants)

	_, err = s.Join(ctx, "p")
	assert.ErrorIs(t, err, ErrPoolFull)

	stored, err := s.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Participants)
	assert.Equal(t, 6.0, stored.Collected)

	_, err = s.Join(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_JoinConcurrentNeverOverfills(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := testPool("busy", time.Now())
	p.Size = 10
	_, err := s.Create(ctx, p)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Join(ctx, "busy"); err == nil {
				mu.Lock()
				joined++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Participants)
	assert.Equal(t, 9, joined)
}

func TestMemoryStore_Contribute(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	_, err := s.Create(ctx, testPool("p", time.Now()))
	require.NoError(t, err)

	p, err := s.Contribute(ctx, "p", 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Collected)

	_, err = s.Contribute(ctx, "missing", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_AdvanceDue(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	due := testPool("due", now)
	due.NextPayout = now.Add(-time.Minute)
	later := testPool("later", now)
	later.NextPayout = now.Add(time.Hour)
	for _, p := range []models.Pool{due, later} {
		_, err := s.Create(ctx, p)
		require.NoError(t, err)
	}

	n, err := s.AdvanceDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := s.Get(ctx, "due")
	assert.Equal(t, 2, got.CurrentCycle)
	got, _ = s.Get(ctx, "later")
	assert.Equal(t, 1, got.CurrentCycle)
}

func TestMemoryStore_Memberships(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.Membership(ctx, "0xABC")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.RecordContribution(ctx, "0xabc", time.Now()), ErrNotFound)

	m, err := s.SetMembership(ctx, models.Membership{Address: "0xABC", PoolID: "p1", Position: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.JoinedAt.IsZero())

	got, err := s.Membership(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PoolID)

	at := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordContribution(ctx, "0xAbC", at))
	got, _ = s.Membership(ctx, "0xabc")
	require.NotNil(t, got.LastContribution)
	assert.Equal(t, at, *got.LastContribution)

	// replacing moves the address to another pool
	_, err = s.SetMembership(ctx, models.Membership{Address: "0xabc", PoolID: "p2", Position: 5})
	require.NoError(t, err)
	got, _ = s.Membership(ctx, "0xABC")
	assert.Equal(t, "p2", got.PoolID)
	assert.Nil(t, got.LastContribution)
}
