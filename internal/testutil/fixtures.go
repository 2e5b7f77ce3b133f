package testutil

import (
	"context"
	"testing"
	"time"

	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	store poolstore.Store
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, store poolstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() poolstore.Store {
	return f.store
}

// CreatePool creates an active pool with the given seats. Collected matches
// participants*share.
func (f *Fixtures) CreatePool(ctx context.Context, id string, size, participants int, share float64) models.Pool {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Pool{
		ID:            id,
		Name:          "Test Pool " + id,
		Size:          size,
		ShareAmount:   share,
		CycleDuration: 30,
		CurrentCycle:  1,
		TotalCycles:   size,
		Participants:  participants,
		Collected:     models.RoundAmount(float64(participants) * share),
		Status:        models.StatusActive,
		NextPayout:    now.Add(30 * models.Day),
		CreatedAt:     now,
	}
	created, err := f.store.Create(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test pool: %v", err)
	}
	return created
}

// CreateMembership puts address in poolID at the given payout position.
func (f *Fixtures) CreateMembership(ctx context.Context, address, poolID string, position int) models.Membership {
	f.t.Helper()

	m, err := f.store.SetMembership(ctx, models.Membership{
		Address:  address,
		PoolID:   poolID,
		Position: position,
	})
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}
