package poolstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suvana/suvana/internal/domain/models"
)

// MemoryStore keeps pools in process memory; they vanish on restart.
// It is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	pools       map[string]models.Pool
	memberships map[string]models.Membership // keyed by folded address
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		pools:       make(map[string]models.Pool),
		memberships: make(map[string]models.Membership),
	}
}

func (s *MemoryStore) Kind() string { return "memory" }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) List(ctx context.Context) ([]models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[id]
	if !ok {
		return models.Pool{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.pools)), nil
}

func (s *MemoryStore) Create(ctx context.Context, p models.Pool) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pools[p.ID]; exists {
		return models.Pool{}, ErrDuplicateID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UserPosition = nil
	p.LastContribution = nil
	s.pools[p.ID] = p
	return p, nil
}

func (s *MemoryStore) Join(ctx context.Context, id string) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[id]
	if !ok {
		return models.Pool{}, ErrNotFound
	}
	joined, err := p.Joined()
	if err != nil {
		return p, err
	}
	s.pools[id] = joined
	return joined, nil
}

func (s *MemoryStore) Contribute(ctx context.Context, id string, amount float64) (models.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[id]
	if !ok {
		return models.Pool{}, ErrNotFound
	}
	p.Collected = models.RoundAmount(p.Collected + amount)
	s.pools[id] = p
	return p, nil
}

func (s *MemoryStore) AdvanceDue(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, p := range s.pools {
		if next, changed := p.AdvanceCycle(now); changed {
			s.pools[id] = next
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Membership(ctx context.Context, address string) (models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[foldAddress(address)]
	if !ok {
		return models.Membership{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) SetMembership(ctx context.Context, m models.Membership) (models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	m.Address = foldAddress(m.Address)
	s.memberships[m.Address] = m
	return m, nil
}

func (s *MemoryStore) RecordContribution(ctx context.Context, address string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := foldAddress(address)
	m, ok := s.memberships[key]
	if !ok {
		return ErrNotFound
	}
	m.LastContribution = &at
	s.memberships[key] = m
	return nil
}

// foldAddress makes hex addresses compare case-insensitively.
func foldAddress(a string) string {
	return strings.ToLower(strings.TrimSpace(a))
}
