package main

import "time"

// SplitShotSpread is the angular offset of the outer bullets in a split volley
const SplitShotSpread = 0.15

// HandleInput validates and applies one discrete player command. Malformed
// events (unknown player, dead player, unknown action) are dropped silently.
// Commands only have simulation effects while a round is being played.
func (g *Game) HandleInput(playerID, action string, ts int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[playerID]
	if !ok || !p.Alive {
		return
	}
	if g.world.Phase != PhasePlaying {
		return
	}

	now := time.Now()
	switch action {
	case ActThrustStart:
		g.setThrust(p, true, now)
	case ActThrustStop:
		g.setThrust(p, false, now)
	case ActFire:
		g.fire(p, now)
	case ActPlaceMine:
		g.effects.PlaceMine(g.world, p, now)
	case ActDash:
		g.effects.Dash(g.world, p, now)
	}
}

// setThrust applies a thrust command, inverted while the player is under a
// control-reversal effect. Leaving thrust restarts the turn-rate ramp.
func (g *Game) setThrust(p *Player, on bool, now time.Time) {
	if p.HasEffect(PowerReverse, now) {
		on = !on
	}
	if p.ThrustActive && !on {
		p.TurnStart = now
	}
	p.ThrustActive = on
}

// fire consumes one ammo unit and emits one bullet, or three at a fixed
// spread under split shot. Bullets are mega-tagged while a mega charge
// remains; one charge is spent per volley.
func (g *Game) fire(p *Player, now time.Time) {
	if p.Ammo <= 0 {
		return
	}
	if len(g.world.Bullets) >= MaxBullets {
		return
	}
	p.Ammo--
	g.markDirty(p.ID)

	mega := p.consumeCharge(PowerMegaBullets)
	headings := []float64{p.Rotation}
	if p.HasEffect(PowerSplitShot, now) {
		headings = []float64{
			WrapAngle(p.Rotation - SplitShotSpread),
			p.Rotation,
			WrapAngle(p.Rotation + SplitShotSpread),
		}
	}
	for _, h := range headings {
		b := NewBullet(p, h, mega, now)
		g.world.Bullets[b.ID] = b
	}
}
