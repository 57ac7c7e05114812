package main

import "time"

// PowerUpType identifies a power-up and its applied effect
type PowerUpType int

const (
	PowerAmmoBoost   PowerUpType = 0 // higher clip + faster reload
	PowerSplitShot   PowerUpType = 1 // 3 bullets per shot
	PowerSpeedBoost  PowerUpType = 2 // accel and speed cap multiplier
	PowerMines       PowerUpType = 3 // grants placeable mines
	PowerShield      PowerUpType = 4 // absorbs otherwise-lethal hits
	PowerRapidFire   PowerUpType = 5 // faster reload
	PowerGhost       PowerUpType = 6 // intangible to other ships
	PowerMegaBullets PowerUpType = 7 // oversized, faster bullets
	PowerDash        PowerUpType = 8 // instant displacement charges
	PowerReverse     PowerUpType = 9 // inverts a random other player's controls
)

// NumPowerUpTypes is the size of the uniform random type pool
const NumPowerUpTypes = 10

var powerUpNames = [NumPowerUpTypes]string{
	"ammo boost", "split shot", "speed boost", "mines", "shield",
	"rapid fire", "ghost", "mega bullets", "dash", "reverse",
}

// Name returns a human-readable label for logs and notices
func (t PowerUpType) Name() string {
	if t < 0 || int(t) >= NumPowerUpTypes {
		return "unknown"
	}
	return powerUpNames[t]
}

const (
	PowerUpRadius   = 12.0
	AmbientCap      = 4 // max uncollected power-ups on the field
	SpawnInterval   = 5 * time.Second
	PowerUpLifetime = 12 * time.Second

	EffectDuration  = 8 * time.Second
	ReverseDuration = 6 * time.Second

	MineChargeGrant   = 3
	ShieldChargeGrant = 3
	MegaChargeGrant   = 3
	DashChargeGrant   = 3

	DashDistance = 120.0
	DashMinSpeed = 20.0 // below this, dash follows facing instead of velocity
)

// PowerUp is an ambient pickup waiting on the field
type PowerUp struct {
	ID      string
	Type    PowerUpType
	X, Y    float64
	SpawnAt time.Time
}

// Expired reports whether the pickup went uncollected for its full lifetime
func (p *PowerUp) Expired(now time.Time) bool {
	return now.Sub(p.SpawnAt) >= PowerUpLifetime
}

// ToState converts to the broadcast view
func (p *PowerUp) ToState() PowerUpState {
	return PowerUpState{
		ID:   p.ID,
		Type: p.Type,
		X:    round1(p.X),
		Y:    round1(p.Y),
	}
}
