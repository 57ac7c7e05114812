package main

import "time"

const (
	MineTriggerRadius = 22.0 // non-owner contact range
	MineBlastRadius   = 80.0 // detonation damage range
	MineLifetime      = 10 * time.Second
)

// Mine is a placed charge. It detonates when a non-owner living player enters
// trigger range or is removed silently when its lifetime elapses. It never
// damages its owner.
type Mine struct {
	ID       string
	PlayerID string // owner
	X, Y     float64
	SpawnAt  time.Time
}

// Expired reports whether the mine's lifetime elapsed without a trigger
func (m *Mine) Expired(now time.Time) bool {
	return now.Sub(m.SpawnAt) >= MineLifetime
}

// Triggered reports whether p sets the mine off: living, non-owner, in range
func (m *Mine) Triggered(p *Player) bool {
	if !p.Alive || p.ID == m.PlayerID {
		return false
	}
	return CheckCircles(m.X, m.Y, MineTriggerRadius, p.X, p.Y, ShipRadius)
}

// ToState converts to the broadcast view
func (m *Mine) ToState() MineState {
	return MineState{
		ID:    m.ID,
		Owner: m.PlayerID,
		X:     round1(m.X),
		Y:     round1(m.Y),
	}
}
