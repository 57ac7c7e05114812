package main

import (
	"math"
	"time"
)

const (
	ShipRadius      = 14.0
	ShipAccel       = 420.0 // world units/s²
	ShipMaxSpeed    = 260.0 // world units/s
	ShipFriction    = 0.98  // velocity multiplier per tick
	SpeedBoostMul   = 1.5   // accel and speed cap multiplier under speed boost
	TurnRateBase    = 1.8   // radians/s at the start of a turn
	TurnRateMax     = 4.5   // radians/s once fully ramped
	TurnRampTime    = 0.8   // seconds to ramp from base to max turn rate
	WallRestitution = 0.6   // velocity kept after a wall bounce
	RespawnDelay    = 1500 * time.Millisecond

	BaseMaxAmmo    = 3
	BoostedMaxAmmo = 6
	BaseReloadTime = 1200 * time.Millisecond
)

// shipColors is cycled by join order
var shipColors = []string{
	"#ff5050", "#50a0ff", "#50e070", "#ffd040",
	"#c070ff", "#40e0d0", "#ff90c0", "#a0b0c0",
}

// Player is one connected ship
type Player struct {
	ID    string
	Name  string
	Color string
	Seq   int // join order, used for host and tie-break

	X, Y     float64
	VX, VY   float64
	Rotation float64 // radians, wrapped to [0, 2π)

	Score int
	Ammo  int
	Alive bool

	ThrustActive bool
	TurnStart    time.Time // when the current rotation ramp began
	LastReload   time.Time

	Effects []ActiveEffect // ordered, append-on-pickup
}

// NewPlayer creates a joined player; position is assigned by Spawn
func NewPlayer(id, name string, seq int, now time.Time) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Color:      shipColors[seq%len(shipColors)],
		Seq:        seq,
		Ammo:       BaseMaxAmmo,
		Alive:      true,
		TurnStart:  now,
		LastReload: now,
	}
}

// Spawn places the player at a fresh position with zero velocity and a
// random heading, clearing all carried effects
func (p *Player) Spawn(x, y, rotation float64, now time.Time) {
	p.X = x
	p.Y = y
	p.VX = 0
	p.VY = 0
	p.Rotation = WrapAngle(rotation)
	p.Alive = true
	p.ThrustActive = false
	p.TurnStart = now
	p.Effects = p.Effects[:0]
	if p.Ammo > BaseMaxAmmo {
		p.Ammo = BaseMaxAmmo
	}
}

// Speed returns the current velocity magnitude
func (p *Player) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY)
}

// turnRate returns the ramped turn rate in radians/s, linear from base to
// max over TurnRampTime measured from when rotation mode began
func (p *Player) turnRate(now time.Time) float64 {
	held := now.Sub(p.TurnStart).Seconds()
	t := Clamp(held/TurnRampTime, 0, 1)
	return TurnRateBase + t*(TurnRateMax-TurnRateBase)
}

// ToState converts to the public broadcast view
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:     p.ID,
		Name:   p.Name,
		Color:  p.Color,
		X:      round1(p.X),
		Y:      round1(p.Y),
		R:      round1(p.Rotation),
		VX:     round1(p.VX),
		VY:     round1(p.VY),
		Score:  p.Score,
		Alive:  p.Alive,
		Thrust: p.ThrustActive,
	}
}
