package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// PoolStatus is the lifecycle state shown on a pool's badge.
type PoolStatus string

const (
	StatusActive    PoolStatus = "active"
	StatusWaiting   PoolStatus = "waiting"
	StatusCompleted PoolStatus = "completed"
)

// Day is the unit of CycleDuration.
const Day = 24 * time.Hour

// Currency is the display suffix for share amounts.
const Currency = "SUI"

// Bounds enforced on the create-pool form.
const (
	MinPoolSize      = 2
	MaxPoolSize      = 50
	MinShareAmount   = 0.1
	MinCycleDuration = 7
	MaxCycleDuration = 365

	DefaultPoolSize      = 10
	DefaultShareAmount   = 1.0
	DefaultCycleDuration = 30
)

// ErrInvalidPool is returned when pool parameters fall outside the form bounds.
var ErrInvalidPool = errors.New("invalid pool parameters")

// Pool is a rotating-savings group. Members contribute ShareAmount every
// CycleDuration days and one member receives the pooled total each cycle.
//
// UserPosition and LastContribution are not stored on the pool document; they
// are filled from the viewer's Membership when the pool is shown as "their" pool.
type Pool struct {
	ID               string     `bson:"_id" json:"id" yaml:"id"`
	Name             string     `bson:"name" json:"name" yaml:"name"`
	Size             int        `bson:"size" json:"size" yaml:"size"`
	ShareAmount      float64    `bson:"share_amount" json:"shareAmount" yaml:"share_amount"`
	CycleDuration    int        `bson:"cycle_duration" json:"cycleDuration" yaml:"cycle_duration"`
	CurrentCycle     int        `bson:"current_cycle" json:"currentCycle" yaml:"current_cycle"`
	TotalCycles      int        `bson:"total_cycles" json:"totalCycles" yaml:"total_cycles"`
	Participants     int        `bson:"participants" json:"participants" yaml:"participants"`
	Collected        float64    `bson:"collected" json:"collected" yaml:"collected"`
	Status           PoolStatus `bson:"status" json:"status" yaml:"status"`
	NextPayout       time.Time  `bson:"next_payout" json:"nextPayout" yaml:"-"`
	CreatedBy        string     `bson:"created_by,omitempty" json:"createdBy,omitempty" yaml:"created_by,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt" yaml:"-"`
	UserPosition     *int       `bson:"-" json:"userPosition,omitempty" yaml:"-"`
	LastContribution *time.Time `bson:"-" json:"lastContribution,omitempty" yaml:"-"`
}

// ProgressPercent is the share of seats taken, participants/size*100,
// clamped to 0..100.
func (p Pool) ProgressPercent() float64 {
	return percent(float64(p.Participants), float64(p.Size))
}

// CycleProgressPercent is currentCycle/totalCycles*100, clamped to 0..100.
func (p Pool) CycleProgressPercent() float64 {
	return percent(float64(p.CurrentCycle), float64(p.TotalCycles))
}

// TotalPayout is what the member whose turn it is receives: size*shareAmount.
func (p Pool) TotalPayout() float64 {
	return RoundAmount(float64(p.Size) * p.ShareAmount)
}

// CyclesLeft is totalCycles-currentCycle.
func (p Pool) CyclesLeft() int {
	return p.TotalCycles - p.CurrentCycle
}

// IsFull reports whether every seat is taken.
func (p Pool) IsFull() bool {
	return p.Participants >= p.Size
}

// Joined returns a copy with one more participant and one more share
// collected. It fails with ErrPoolFull when no seat is left.
func (p Pool) Joined() (Pool, error) {
	if p.IsFull() {
		return p, ErrPoolFull
	}
	p.Participants++
	p.Collected = RoundAmount(p.Collected + p.ShareAmount)
	return p, nil
}

// ErrPoolFull is returned by Joined when participants already equals size.
var ErrPoolFull = errors.New("pool is full")

// ContributionDue reports whether more than one cycle has passed since the
// last contribution. A pool with no recorded contribution is always due.
func (p Pool) ContributionDue(now time.Time) bool {
	if p.LastContribution == nil {
		return true
	}
	return now.Sub(*p.LastContribution) > p.cycleLength()
}

// NextContributionDate is one cycle after the last contribution, or now when
// nothing has been contributed yet.
func (p Pool) NextContributionDate(now time.Time) time.Time {
	if p.LastContribution == nil {
		return now
	}
	return p.LastContribution.Add(p.cycleLength())
}

// PayoutCycle is the cycle in which address receives the pot. It uses the
// member's position when known; otherwise a turn in 1..totalCycles is derived
// from the pool ID and address so it stays the same across page loads.
func (p Pool) PayoutCycle(address string) int {
	if p.UserPosition != nil && *p.UserPosition > 0 {
		return *p.UserPosition
	}
	if p.TotalCycles <= 0 {
		return 1
	}
	sum := blake2b.Sum256([]byte(p.ID + "|" + strings.ToLower(address)))
	return int(binary.BigEndian.Uint64(sum[:8])%uint64(p.TotalCycles)) + 1
}

// PayoutDate estimates when address is paid: now plus the remaining cycles
// until its turn. Turns already passed yield dates in the past.
func (p Pool) PayoutDate(now time.Time, address string) time.Time {
	cycles := p.PayoutCycle(address) - p.CurrentCycle
	return now.Add(time.Duration(cycles) * p.cycleLength())
}

// AdvanceCycle moves an active pool whose payout date has arrived to its next
// cycle. On the last cycle the pool is marked completed instead. It reports
// whether anything changed.
func (p Pool) AdvanceCycle(now time.Time) (Pool, bool) {
	if p.Status != StatusActive || p.NextPayout.After(now) {
		return p, false
	}
	if p.CurrentCycle >= p.TotalCycles {
		p.Status = StatusCompleted
		p.CurrentCycle = p.TotalCycles
		return p, true
	}
	p.CurrentCycle++
	p.NextPayout = p.NextPayout.Add(p.cycleLength())
	return p, true
}

func (p Pool) cycleLength() time.Duration {
	return time.Duration(p.CycleDuration) * Day
}

/*─────────────────────────────────────────────────────────────────────────────*
| New pools                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// PoolParams are the creator's choices on the create form.
type PoolParams struct {
	Name          string
	Size          int
	ShareAmount   float64
	CycleDuration int
}

// DefaultPoolParams are the values the form opens with.
func DefaultPoolParams() PoolParams {
	return PoolParams{
		Size:          DefaultPoolSize,
		ShareAmount:   DefaultShareAmount,
		CycleDuration: DefaultCycleDuration,
	}
}

// Validate checks the params against the form bounds.
func (pp PoolParams) Validate() error {
	switch {
	case pp.Size < MinPoolSize || pp.Size > MaxPoolSize:
		return fmt.Errorf("%w: pool size must be between %d and %d members", ErrInvalidPool, MinPoolSize, MaxPoolSize)
	case math.IsNaN(pp.ShareAmount) || math.IsInf(pp.ShareAmount, 0) || pp.ShareAmount < MinShareAmount:
		return fmt.Errorf("%w: share amount must be at least %.1f %s", ErrInvalidPool, MinShareAmount, Currency)
	case pp.CycleDuration < MinCycleDuration || pp.CycleDuration > MaxCycleDuration:
		return fmt.Errorf("%w: cycle duration must be between %d and %d days", ErrInvalidPool, MinCycleDuration, MaxCycleDuration)
	}
	return nil
}

// PoolSummary is the preview shown under the create form.
type PoolSummary struct {
	Members        int
	PerCycle       float64
	CycleDays      int
	CompletionDays int
}

// Summary derives the form preview from the params.
func (pp PoolParams) Summary() PoolSummary {
	return PoolSummary{
		Members:        pp.Size,
		PerCycle:       RoundAmount(float64(pp.Size) * pp.ShareAmount),
		CycleDays:      pp.CycleDuration,
		CompletionDays: pp.Size * pp.CycleDuration,
	}
}

// NewPool synthesizes a freshly created pool: the creator holds the first
// seat and has paid the first share.
func NewPool(pp PoolParams, creator string, now time.Time, rng *rand.Rand) (Pool, error) {
	if err := pp.Validate(); err != nil {
		return Pool{}, err
	}
	name := strings.TrimSpace(pp.Name)
	if name == "" {
		name = fmt.Sprintf("Ajo Pool %d", rng.IntN(1000))
	}
	return Pool{
		ID:            NewPoolID(rng),
		Name:          name,
		Size:          pp.Size,
		ShareAmount:   RoundAmount(pp.ShareAmount),
		CycleDuration: pp.CycleDuration,
		CurrentCycle:  1,
		TotalCycles:   pp.Size,
		Participants:  1,
		Collected:     RoundAmount(pp.ShareAmount),
		Status:        StatusActive,
		CreatedBy:     creator,
		NextPayout:    now.Add(time.Duration(pp.CycleDuration) * Day),
		CreatedAt:     now,
	}, nil
}

const poolIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// PoolIDLength is the number of base36 characters in a generated pool ID.
const PoolIDLength = 9

// NewPoolID returns PoolIDLength random lowercase base36 characters.
func NewPoolID(rng *rand.Rand) string {
	b := make([]byte, PoolIDLength)
	for i := range b {
		b[i] = poolIDAlphabet[rng.IntN(len(poolIDAlphabet))]
	}
	return string(b)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Platform statistics                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// PlatformStats are the totals in the dashboard's statistics row.
type PlatformStats struct {
	TotalMembers int
	ActivePools  int
	Collected    float64
}

// ComputeStats sums participants and collected across pools. ActivePools
// counts every listed pool, as the dashboard always has.
func ComputeStats(pools []Pool) PlatformStats {
	var st PlatformStats
	for _, p := range pools {
		st.TotalMembers += p.Participants
		st.Collected += p.Collected
	}
	st.ActivePools = len(pools)
	st.Collected = RoundAmount(st.Collected)
	return st
}

// RoundAmount trims floating point noise from sums of decimal share amounts.
func RoundAmount(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	v := part / whole * 100
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
