package main

import (
	"math/rand"
	"time"
)

// ActiveEffect is one granted power-up on a player. Timed effects carry an
// expiry; charge effects carry a use counter and never time out.
type ActiveEffect struct {
	Type      PowerUpType
	ExpiresAt time.Time // zero for charge-based effects
	Charges   int       // remaining uses for charge-based effects
}

// timed reports whether the effect expires by clock rather than depletion
func (e ActiveEffect) timed() bool {
	return !e.ExpiresAt.IsZero()
}

// HasEffect reports whether the player holds a live effect of the given type
func (p *Player) HasEffect(t PowerUpType, now time.Time) bool {
	for _, e := range p.Effects {
		if e.Type != t {
			continue
		}
		if e.timed() && now.Before(e.ExpiresAt) {
			return true
		}
		if !e.timed() && e.Charges > 0 {
			return true
		}
	}
	return false
}

// EffectCharges sums the remaining charges of the given type
func (p *Player) EffectCharges(t PowerUpType) int {
	total := 0
	for _, e := range p.Effects {
		if e.Type == t {
			total += e.Charges
		}
	}
	return total
}

// consumeCharge spends one charge of the given type, oldest grant first
func (p *Player) consumeCharge(t PowerUpType) bool {
	for i := range p.Effects {
		if p.Effects[i].Type == t && p.Effects[i].Charges > 0 {
			p.Effects[i].Charges--
			return true
		}
	}
	return false
}

// EffectManager owns the ambient spawn economy, pickup handling, per-player
// effect lifetimes and the charge-gated mine/dash operations.
type EffectManager struct {
	physics   *Physics
	onChange  func(playerID string)
	kill      func(victim *Player, killerID string)
	rng       *rand.Rand
	lastSpawn time.Time
}

// NewEffectManager wires the manager to the physics obstruction query, the
// dirty-set notifier and the orchestrator's kill handler
func NewEffectManager(ph *Physics, onChange func(string), kill func(*Player, string)) *EffectManager {
	return &EffectManager{
		physics:  ph,
		onChange: onChange,
		kill:     kill,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Update runs one effect tick: ambient spawning, pickup lifetimes and
// collection, mine lifecycle, then the per-player expiry sweep.
func (em *EffectManager) Update(w *World, now time.Time) {
	em.spawnAmbient(w, now)
	em.updatePickups(w, now)
	em.updateMines(w, now)
	em.sweepEffects(w, now)
}

// spawnAmbient adds one power-up per interval while the round runs and the
// field is below the ambient cap
func (em *EffectManager) spawnAmbient(w *World, now time.Time) {
	if !w.RoundActive || len(w.PowerUps) >= AmbientCap {
		return
	}
	if now.Sub(em.lastSpawn) < SpawnInterval {
		return
	}
	em.lastSpawn = now

	x, y := em.FindOpenPosition(w.Map, PowerUpRadius)
	pu := &PowerUp{
		ID:      GenerateID(3),
		Type:    PowerUpType(em.rng.Intn(NumPowerUpTypes)),
		X:       x,
		Y:       y,
		SpawnAt: now,
	}
	w.PowerUps[pu.ID] = pu
}

// FindOpenPosition picks an unobstructed point for a circle of the given
// radius: uniform random with bounded retries, then a randomized search near
// the field center, then the exact center as the emergency fallback.
func (em *EffectManager) FindOpenPosition(m *GameMap, radius float64) (float64, float64) {
	const retries = 24
	margin := CellSize + radius
	for i := 0; i < retries; i++ {
		x := margin + em.rng.Float64()*(m.Width()-2*margin)
		y := margin + em.rng.Float64()*(m.Height()-2*margin)
		if !em.physics.Obstructed(x, y, radius) {
			return x, y
		}
	}
	cx, cy := m.Center()
	for i := 0; i < retries; i++ {
		x := cx + (em.rng.Float64()-0.5)*m.Width()/2
		y := cy + (em.rng.Float64()-0.5)*m.Height()/2
		if !em.physics.Obstructed(x, y, radius) {
			return x, y
		}
	}
	return cx, cy
}

// updatePickups expires stale power-ups and applies collected ones
func (em *EffectManager) updatePickups(w *World, now time.Time) {
	for id, pu := range w.PowerUps {
		if pu.Expired(now) {
			delete(w.PowerUps, id)
			continue
		}
		for _, p := range w.Players {
			if !p.Alive {
				continue
			}
			if !CheckCircles(pu.X, pu.Y, PowerUpRadius, p.X, p.Y, ShipRadius) {
				continue
			}
			em.apply(w, p, pu.Type, now)
			w.Notices = append(w.Notices, PickupNotice{
				PlayerID:   p.ID,
				PlayerName: p.Name,
				Type:       pu.Type,
				At:         now,
			})
			delete(w.PowerUps, id)
			break
		}
	}
}

// apply grants the type-specific effect to the collecting player
func (em *EffectManager) apply(w *World, p *Player, t PowerUpType, now time.Time) {
	switch t {
	case PowerAmmoBoost, PowerSplitShot, PowerSpeedBoost, PowerRapidFire, PowerGhost:
		p.Effects = append(p.Effects, ActiveEffect{Type: t, ExpiresAt: now.Add(EffectDuration)})
	case PowerMines:
		p.Effects = append(p.Effects, ActiveEffect{Type: t, Charges: MineChargeGrant})
	case PowerShield:
		p.Effects = append(p.Effects, ActiveEffect{Type: t, Charges: ShieldChargeGrant})
	case PowerMegaBullets:
		p.Effects = append(p.Effects, ActiveEffect{Type: t, Charges: MegaChargeGrant})
	case PowerDash:
		p.Effects = append(p.Effects, ActiveEffect{Type: t, Charges: DashChargeGrant})
	case PowerReverse:
		// Hits a random other living player, not the picker
		if victim := em.randomOther(w, p); victim != nil {
			victim.Effects = append(victim.Effects, ActiveEffect{Type: t, ExpiresAt: now.Add(ReverseDuration)})
			em.onChange(victim.ID)
		}
	}
	em.onChange(p.ID)
}

// randomOther picks a uniformly random living player other than p
func (em *EffectManager) randomOther(w *World, p *Player) *Player {
	var others []*Player
	for _, q := range w.Players {
		if q.Alive && q.ID != p.ID {
			others = append(others, q)
		}
	}
	if len(others) == 0 {
		return nil
	}
	return others[em.rng.Intn(len(others))]
}

// updateMines expires stale mines and detonates triggered ones
func (em *EffectManager) updateMines(w *World, now time.Time) {
	for id, m := range w.Mines {
		if m.Expired(now) {
			delete(w.Mines, id)
			continue
		}
		for _, p := range w.Players {
			if m.Triggered(p) {
				em.detonate(w, m, now)
				delete(w.Mines, id)
				break
			}
		}
	}
}

// detonate damages every living non-owner player inside the blast radius.
// Shielded players spend a charge; the rest die to the mine's owner.
func (em *EffectManager) detonate(w *World, m *Mine, now time.Time) {
	for _, p := range w.Players {
		if !p.Alive || p.ID == m.PlayerID {
			continue
		}
		if !CheckCircles(m.X, m.Y, MineBlastRadius, p.X, p.Y, ShipRadius) {
			continue
		}
		if p.consumeCharge(PowerShield) {
			em.onChange(p.ID)
			continue
		}
		em.kill(p, m.PlayerID)
	}
}

// sweepEffects drops expired timed effects and depleted mega/shield charges,
// then re-clamps ammo against the possibly lowered cap
func (em *EffectManager) sweepEffects(w *World, now time.Time) {
	for _, p := range w.Players {
		kept := p.Effects[:0]
		changed := false
		for _, e := range p.Effects {
			if e.timed() && !now.Before(e.ExpiresAt) {
				changed = true
				continue
			}
			if !e.timed() && e.Charges <= 0 {
				changed = true
				continue
			}
			kept = append(kept, e)
		}
		p.Effects = kept

		if max := em.MaxAmmo(p, now); p.Ammo > max {
			p.Ammo = max
			changed = true
		}
		if changed {
			em.onChange(p.ID)
		}
	}
}

// MaxAmmo is the effect-derived clip size
func (em *EffectManager) MaxAmmo(p *Player, now time.Time) int {
	if p.HasEffect(PowerAmmoBoost, now) {
		return BoostedMaxAmmo
	}
	return BaseMaxAmmo
}

// ReloadInterval is the effect-derived time between reloads. Rapid fire wins
// when both reload modifiers are held.
func (em *EffectManager) ReloadInterval(p *Player, now time.Time) time.Duration {
	if p.HasEffect(PowerRapidFire, now) {
		return time.Duration(float64(BaseReloadTime) * 0.4)
	}
	if p.HasEffect(PowerAmmoBoost, now) {
		return time.Duration(float64(BaseReloadTime) * 0.5)
	}
	return BaseReloadTime
}

// PlaceMine drops a mine at the player's position if a charge is available
func (em *EffectManager) PlaceMine(w *World, p *Player, now time.Time) {
	if !p.consumeCharge(PowerMines) {
		return
	}
	mine := &Mine{
		ID:       GenerateID(3),
		PlayerID: p.ID,
		X:        p.X,
		Y:        p.Y,
		SpawnAt:  now,
	}
	w.Mines[mine.ID] = mine
	em.onChange(p.ID)
}

// Dash displaces the player a fixed distance along their motion (or facing,
// when nearly still), wrapping at the field edges. The destination is not
// validated against walls.
func (em *EffectManager) Dash(w *World, p *Player, now time.Time) {
	if !p.consumeCharge(PowerDash) {
		return
	}
	dirX, dirY := 0.0, 0.0
	if speed := p.Speed(); speed > DashMinSpeed {
		dirX = p.VX / speed
		dirY = p.VY / speed
	} else {
		dirX, dirY = headingVector(p.Rotation)
	}
	p.X = wrapCoord(p.X+dirX*DashDistance, w.Map.Width())
	p.Y = wrapCoord(p.Y+dirY*DashDistance, w.Map.Height())
	em.onChange(p.ID)
}

// wrapCoord wraps a coordinate into [0, size)
func wrapCoord(v, size float64) float64 {
	for v < 0 {
		v += size
	}
	for v >= size {
		v -= size
	}
	return v
}
