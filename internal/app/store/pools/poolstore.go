// internal/app/store/pools/poolstore.go
package poolstore

import (
	"context"
	"errors"
	"time"

	"github.com/suvana/suvana/internal/domain/models"
)

var (
	// ErrNotFound is returned when a pool or membership does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned by Create when the pool ID is taken.
	ErrDuplicateID = errors.New("pool id already exists")
	// ErrPoolFull is returned by Join when every seat is taken.
	ErrPoolFull = models.ErrPoolFull
)

// Store holds the pools shown on the dashboard and each wallet's membership.
// Implementations must apply Join and Contribute atomically.
type Store interface {
	// Kind names the backend ("memory" or "mongo") for health output.
	Kind() string
	Ping(ctx context.Context) error

	// List returns all pools, newest first.
	List(ctx context.Context) ([]models.Pool, error)
	Get(ctx context.Context, id string) (models.Pool, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, p models.Pool) (models.Pool, error)
	// Join adds one participant and one share to the pool.
	Join(ctx context.Context, id string) (models.Pool, error)
	// Contribute adds amount to the pool's collected total.
	Contribute(ctx context.Context, id string, amount float64) (models.Pool, error)
	// AdvanceDue moves every active pool whose payout has arrived to its next
	// cycle and returns how many changed.
	AdvanceDue(ctx context.Context, now time.Time) (int, error)

	Membership(ctx context.Context, address string) (models.Membership, error)
	// SetMembership replaces the address's membership.
	SetMembership(ctx context.Context, m models.Membership) (models.Membership, error)
	RecordContribution(ctx context.Context, address string, at time.Time) error
}
