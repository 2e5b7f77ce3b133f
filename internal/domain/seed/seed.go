// Package seed loads the demo pools shown on a fresh install.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/suvana/suvana/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed samplepools.yaml
var samplePools []byte

// Data is the parsed seed file.
type Data struct {
	Pools             []PoolSeed      `yaml:"pools"`
	DefaultMembership *MembershipSeed `yaml:"default_membership"`
}

// PoolSeed is a pool with its dates expressed relative to load time.
type PoolSeed struct {
	models.Pool    `yaml:",inline"`
	NextPayoutDays int `yaml:"next_payout_days"`
}

// MembershipSeed is assigned to wallets that have no pool yet.
type MembershipSeed struct {
	PoolID                  string `yaml:"pool_id"`
	Position                int    `yaml:"position"`
	LastContributionDaysAgo *int   `yaml:"last_contribution_days_ago"`
}

// Default parses the embedded sample pools.
func Default() (*Data, error) {
	return Parse(samplePools)
}

// Load reads a seed file from disk, or the embedded default when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(b)
}

// Parse decodes and checks seed YAML.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	ids := make(map[string]bool, len(d.Pools))
	for i, ps := range d.Pools {
		if ps.ID == "" {
			return nil, fmt.Errorf("seed pool %d: missing id", i)
		}
		if ids[ps.ID] {
			return nil, fmt.Errorf("seed pool %q: duplicate id", ps.ID)
		}
		ids[ps.ID] = true
		if ps.Size <= 0 || ps.Participants > ps.Size {
			return nil, fmt.Errorf("seed pool %q: participants %d out of range for size %d", ps.ID, ps.Participants, ps.Size)
		}
	}
	if m := d.DefaultMembership; m != nil && !ids[m.PoolID] {
		return nil, fmt.Errorf("default membership references unknown pool %q", m.PoolID)
	}
	return &d, nil
}

// PoolsAt materializes the seed pools against now. Missing totals are derived:
// totalCycles defaults to size and collected to participants*shareAmount.
// Earlier entries are treated as newer.
func (d *Data) PoolsAt(now time.Time) []models.Pool {
	out := make([]models.Pool, 0, len(d.Pools))
	for i, ps := range d.Pools {
		p := ps.Pool
		if p.TotalCycles == 0 {
			p.TotalCycles = p.Size
		}
		if p.CurrentCycle == 0 {
			p.CurrentCycle = 1
		}
		if p.Collected == 0 {
			p.Collected = models.RoundAmount(float64(p.Participants) * p.ShareAmount)
		}
		if p.Status == "" {
			p.Status = models.StatusActive
		}
		p.NextPayout = now.Add(time.Duration(ps.NextPayoutDays) * models.Day)
		p.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		out = append(out, p)
	}
	return out
}

// Membership builds the default membership for address, or false when the
// seed has none.
func (d *Data) Membership(address string, now time.Time) (models.Membership, bool) {
	if d == nil || d.DefaultMembership == nil {
		return models.Membership{}, false
	}
	m := models.Membership{
		Address:  address,
		PoolID:   d.DefaultMembership.PoolID,
		Position: d.DefaultMembership.Position,
		JoinedAt: now,
	}
	if ago := d.DefaultMembership.LastContributionDaysAgo; ago != nil {
		t := now.Add(-time.Duration(*ago) * models.Day)
		m.LastContribution = &t
	}
	return m, true
}
