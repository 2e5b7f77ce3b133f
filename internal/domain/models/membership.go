package models

import "time"

// Membership ties a wallet address to the pool it created or last joined.
// An address has at most one membership; joining another pool replaces it.
type Membership struct {
	ID               string     `bson:"_id" json:"id"`
	Address          string     `bson:"address" json:"address"`
	PoolID           string     `bson:"pool_id" json:"poolId"`
	Position         int        `bson:"position" json:"position"` // payout turn, 1-based
	JoinedAt         time.Time  `bson:"joined_at" json:"joinedAt"`
	LastContribution *time.Time `bson:"last_contribution,omitempty" json:"lastContribution,omitempty"`
}

// Apply copies the member-specific fields onto a pool for display as the
// member's own pool.
func (m Membership) Apply(p Pool) Pool {
	if m.Position > 0 {
		pos := m.Position
		p.UserPosition = &pos
	}
	if m.LastContribution != nil {
		t := *m.LastContribution
		p.LastContribution = &t
	}
	return p
}
