package main

import (
	"math"
	"time"
)

const (
	BulletSpeed    = 420.0
	BulletRadius   = 3.0
	BulletLifetime = 1600 * time.Millisecond

	MegaBulletSpeed  = 560.0
	MegaBulletRadius = 6.0

	BulletOffset = 18.0 // spawn distance from ship center
)

// Bullet is a fired shot. Bullets never collide with their owner.
type Bullet struct {
	ID       string
	PlayerID string
	X, Y     float64
	VX, VY   float64
	SpawnAt  time.Time
	Mega     bool
}

// NewBullet fires a shot from the owner's position along the given heading.
// Bullet velocity is the owner's velocity plus a heading-aligned speed vector.
func NewBullet(owner *Player, heading float64, mega bool, now time.Time) *Bullet {
	speed := BulletSpeed
	if mega {
		speed = MegaBulletSpeed
	}
	return &Bullet{
		ID:       GenerateID(3),
		PlayerID: owner.ID,
		X:        owner.X + math.Cos(heading)*BulletOffset,
		Y:        owner.Y + math.Sin(heading)*BulletOffset,
		VX:       owner.VX + math.Cos(heading)*speed,
		VY:       owner.VY + math.Sin(heading)*speed,
		SpawnAt:  now,
		Mega:     mega,
	}
}

// Radius returns the collision radius for this bullet
func (b *Bullet) Radius() float64 {
	if b.Mega {
		return MegaBulletRadius
	}
	return BulletRadius
}

// Expired reports whether the bullet's lifetime has elapsed
func (b *Bullet) Expired(now time.Time) bool {
	return now.Sub(b.SpawnAt) >= BulletLifetime
}

// ToState converts to the broadcast view
func (b *Bullet) ToState() BulletState {
	return BulletState{
		ID:    b.ID,
		Owner: b.PlayerID,
		X:     round1(b.X),
		Y:     round1(b.Y),
		Mega:  b.Mega,
	}
}
