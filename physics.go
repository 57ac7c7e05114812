package main

import (
	"math"
	"time"
)

// headingVector returns the unit vector for a heading in radians
func headingVector(rotation float64) (float64, float64) {
	return math.Cos(rotation), math.Sin(rotation)
}

// Physics integrates ship and bullet kinematics and resolves collisions
// against the tile map and between entities. It owns the grid-keyed block
// index, rebuilt whenever the round's map snapshot changes.
type Physics struct {
	index    *BlockIndex
	onChange func(playerID string)
	kill     func(victim *Player, killerID string)
}

// NewPhysics wires the engine to the dirty-set notifier and kill handler
func NewPhysics(onChange func(string), kill func(*Player, string)) *Physics {
	return &Physics{
		index:    NewBlockIndex(),
		onChange: onChange,
		kill:     kill,
	}
}

// Rebuild refreshes the block index from a new map snapshot
func (ph *Physics) Rebuild(m *GameMap) {
	ph.index.Rebuild(m)
}

// Obstructed reports whether a circle at (x, y) overlaps any solid block.
// Pure query, used by spawn placement.
func (ph *Physics) Obstructed(x, y, radius float64) bool {
	_, hit := ph.index.HitTest(x, y, radius)
	return hit
}

// Step advances one simulation tick: ship integration with wall bounces,
// bullet integration, bullet/ship hits, then ship/ship resolution.
func (ph *Physics) Step(w *World, now time.Time, dt float64) {
	for _, p := range w.Players {
		if p.Alive {
			ph.stepShip(w, p, now, dt)
		}
	}
	ph.stepBullets(w, now, dt)
	ph.resolveBulletHits(w, now)
	ph.resolveShipContacts(w, now)
}

// stepShip applies thrust or rotation ramp, friction, the speed cap, then
// commits the tentative position unless it would enter a wall, in which case
// velocity reflects off the contact normal and the ship stays put this tick.
func (ph *Physics) stepShip(w *World, p *Player, now time.Time, dt float64) {
	boosted := p.HasEffect(PowerSpeedBoost, now)

	if p.ThrustActive {
		accel := ShipAccel * dt
		if boosted {
			accel *= SpeedBoostMul
		}
		hx, hy := headingVector(p.Rotation)
		p.VX += hx * accel
		p.VY += hy * accel
	} else {
		p.Rotation = WrapAngle(p.Rotation + p.turnRate(now)*dt)
	}

	p.VX *= ShipFriction
	p.VY *= ShipFriction

	maxSpeed := ShipMaxSpeed
	if boosted {
		maxSpeed *= SpeedBoostMul
	}
	if speed := p.Speed(); speed > maxSpeed {
		scale := maxSpeed / speed
		p.VX *= scale
		p.VY *= scale
	}

	tx := Clamp(p.X+p.VX*dt, ShipRadius, w.Map.Width()-ShipRadius)
	ty := Clamp(p.Y+p.VY*dt, ShipRadius, w.Map.Height()-ShipRadius)

	if block, hit := ph.index.HitTest(tx, ty, ShipRadius); hit {
		nx, ny := contactNormal(tx, ty, block)
		dot := p.VX*nx + p.VY*ny
		p.VX = (p.VX - 2*dot*nx) * WallRestitution
		p.VY = (p.VY - 2*dot*ny) * WallRestitution
		return // bounce: position update discarded this tick
	}
	p.X = tx
	p.Y = ty
}

// stepBullets moves every bullet and deletes expired, out-of-field and
// wall-hitting ones. Bullets never bounce.
func (ph *Physics) stepBullets(w *World, now time.Time, dt float64) {
	width := w.Map.Width()
	height := w.Map.Height()
	for id, b := range w.Bullets {
		b.X += b.VX * dt
		b.Y += b.VY * dt
		if b.Expired(now) || b.X < 0 || b.X > width || b.Y < 0 || b.Y > height {
			delete(w.Bullets, id)
			continue
		}
		if _, hit := ph.index.HitTest(b.X, b.Y, b.Radius()); hit {
			delete(w.Bullets, id)
		}
	}
}

// resolveBulletHits tests each bullet against every living non-owner player.
// Shield charges absorb otherwise-lethal hits.
func (ph *Physics) resolveBulletHits(w *World, now time.Time) {
	for id, b := range w.Bullets {
		for _, p := range w.Players {
			if !p.Alive || p.ID == b.PlayerID {
				continue
			}
			if !CheckCircles(b.X, b.Y, b.Radius(), p.X, p.Y, ShipRadius) {
				continue
			}
			if p.consumeCharge(PowerShield) {
				ph.onChange(p.ID)
			} else {
				ph.kill(p, b.PlayerID)
			}
			delete(w.Bullets, id)
			break
		}
	}
}

// resolveShipContacts runs pairwise equal-mass elastic collisions between
// living ships closer than the minimum separation, skipping intangible pairs,
// and separates each pair by half the overlap.
func (ph *Physics) resolveShipContacts(w *World, now time.Time) {
	var buf [16]*Player
	ships := w.LivingPlayers(buf[:0])
	for i := 0; i < len(ships); i++ {
		for j := i + 1; j < len(ships); j++ {
			a, b := ships[i], ships[j]
			if a.HasEffect(PowerGhost, now) || b.HasEffect(PowerGhost, now) {
				continue
			}
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			minSep := 2 * ShipRadius
			if dist >= minSep {
				continue
			}

			var nx, ny float64
			if dist > 0 {
				nx = dx / dist
				ny = dy / dist
			} else {
				nx, ny = 1, 0
			}

			// Equal masses: exchange the normal velocity components when
			// the pair is converging
			rel := (a.VX-b.VX)*nx + (a.VY-b.VY)*ny
			if rel > 0 {
				a.VX -= rel * nx
				a.VY -= rel * ny
				b.VX += rel * nx
				b.VY += rel * ny
			}

			// Positional separation: half the overlap each
			push := (minSep - dist) / 2
			a.X -= nx * push
			a.Y -= ny * push
			b.X += nx * push
			b.Y += ny * push
		}
	}
}
