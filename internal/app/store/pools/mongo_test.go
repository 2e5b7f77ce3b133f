package poolstore_test

import (
	"testing"
	"time"

	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/indexes"
	"github.com/suvana/suvana/internal/app/system/validators"
	"github.com/suvana/suvana/internal/domain/models"
	"github.com/suvana/suvana/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMongoStore(t *testing.T) *poolstore.MongoStore {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, validators.EnsureAll(ctx, db))
	require.NoError(t, indexes.EnsureAll(ctx, db))
	return poolstore.NewMongo(db)
}

func TestMongoStore_CreateJoinContribute(t *testing.T) {
	s := newMongoStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	fx.CreatePool(ctx, "p1", 3, 2, 1.5)

	p, err := s.Join(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Participants)
	assert.Equal(t, 4.5, p.Collected)

	_, err = s.Join(ctx, "p1")
	assert.ErrorIs(t, err, poolstore.ErrPoolFull)

	_, err = s.Join(ctx, "missing")
	assert.ErrorIs(t, err, poolstore.ErrNotFound)

	p, err = s.Contribute(ctx, "p1", 1.5)
	require.NoError(t, err)
	assert.Equal(t, 6.0, p.Collected)

	_, err = s.Create(ctx, p)
	assert.ErrorIs(t, err, poolstore.ErrDuplicateID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
}

func TestMongoStore_AdvanceDue(t *testing.T) {
	s := newMongoStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	p := models.Pool{
		ID: "due", Name: "Due", Size: 2, ShareAmount: 1, CycleDuration: 7,
		CurrentCycle: 2, TotalCycles: 2, Participants: 2, Collected: 2,
		Status: models.StatusActive, NextPayout: now.Add(-time.Hour), CreatedAt: now,
	}
	_, err := s.Create(ctx, p)
	require.NoError(t, err)

	n, err := s.AdvanceDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, "due")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestMongoStore_Memberships(t *testing.T) {
	s := newMongoStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Membership(ctx, "0xabc")
	assert.ErrorIs(t, err, poolstore.ErrNotFound)

	_, err = s.SetMembership(ctx, models.Membership{Address: "0xABC", PoolID: "p1", Position: 1})
	require.NoError(t, err)

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.RecordContribution(ctx, "0xabc", at))

	m, err := s.Membership(ctx, "0xAbc")
	require.NoError(t, err)
	assert.Equal(t, "p1", m.PoolID)
	require.NotNil(t, m.LastContribution)
	assert.True(t, at.Equal(*m.LastContribution))

	_, err = s.SetMembership(ctx, models.Membership{Address: "0xabc", PoolID: "p2", Position: 3})
	require.NoError(t, err)
	m, err = s.Membership(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "p2", m.PoolID)
	assert.Nil(t, m.LastContribution)
}
