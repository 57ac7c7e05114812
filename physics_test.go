package main

import (
	"math"
	"testing"
	"time"
)

// testPhysics builds a physics engine over the test arena with recording
// callbacks
func testPhysics(t *testing.T) (*Physics, *World, *[]string) {
	t.Helper()
	kills := &[]string{}
	ph := NewPhysics(func(string) {}, func(victim *Player, killerID string) {
		victim.Alive = false
		*kills = append(*kills, victim.ID+"<-"+killerID)
	})
	w := NewWorld()
	w.Map = testMap(t)
	ph.Rebuild(w.Map)
	return ph, w, kills
}

func testShip(id string, x, y float64) *Player {
	p := NewPlayer(id, id, 0, time.Now())
	p.X = x
	p.Y = y
	return p
}

func TestShipMovesWhenClear(t *testing.T) {
	ph, w, _ := testPhysics(t)
	p := testShip("a", 160, 140)
	p.VX = 100
	w.Players[p.ID] = p

	ph.Step(w, time.Now(), 1.0/60)
	if p.X <= 160 {
		t.Errorf("expected ship to move right, X=%f", p.X)
	}
}

func TestShipWallBounce(t *testing.T) {
	ph, w, _ := testPhysics(t)
	p := testShip("a", 55, 80) // just right of the left border wall
	p.VX = -120
	w.Players[p.ID] = p

	ph.Step(w, time.Now(), 1.0/60)

	if p.X != 55 || p.Y != 80 {
		t.Errorf("bounce must discard the position update, got (%f,%f)", p.X, p.Y)
	}
	if p.VX <= 0 {
		t.Errorf("velocity should reflect off the wall, VX=%f", p.VX)
	}
	// Restitution damps the reflected speed
	if p.VX >= 120 {
		t.Errorf("reflected speed should be damped, VX=%f", p.VX)
	}
}

func TestShipRotationWrapped(t *testing.T) {
	ph, w, _ := testPhysics(t)
	p := testShip("a", 160, 140)
	p.Rotation = 2*math.Pi - 0.01
	p.TurnStart = time.Now().Add(-time.Second) // fully ramped
	w.Players[p.ID] = p

	ph.Step(w, time.Now(), 1.0/60)
	if p.Rotation < 0 || p.Rotation >= 2*math.Pi {
		t.Errorf("rotation out of [0,2π): %f", p.Rotation)
	}
}

func TestDeadShipDoesNotIntegrate(t *testing.T) {
	ph, w, _ := testPhysics(t)
	p := testShip("a", 160, 140)
	p.Alive = false
	p.VX = 100
	w.Players[p.ID] = p

	ph.Step(w, time.Now(), 1.0/60)
	if p.X != 160 {
		t.Errorf("dead ship moved to %f", p.X)
	}
}

func TestBulletHitsWallAndDies(t *testing.T) {
	ph, w, _ := testPhysics(t)
	now := time.Now()
	b := &Bullet{ID: "b1", PlayerID: "a", X: 45, Y: 140, VX: -400, SpawnAt: now}
	w.Bullets[b.ID] = b

	ph.Step(w, now, 1.0/60)
	if _, ok := w.Bullets["b1"]; ok {
		t.Error("bullet entering a wall should be deleted, not bounced")
	}
}

func TestBulletLifetimeExpiry(t *testing.T) {
	ph, w, _ := testPhysics(t)
	now := time.Now()
	b := &Bullet{ID: "b1", PlayerID: "a", X: 160, Y: 140, SpawnAt: now.Add(-2 * time.Second)}
	w.Bullets[b.ID] = b

	ph.Step(w, now, 1.0/60)
	if _, ok := w.Bullets["b1"]; ok {
		t.Error("expired bullet should be deleted")
	}
}

func TestBulletNeverHitsOwner(t *testing.T) {
	ph, w, kills := testPhysics(t)
	p := testShip("a", 160, 80)
	w.Players[p.ID] = p
	b := &Bullet{ID: "b1", PlayerID: "a", X: 160, Y: 80, SpawnAt: time.Now()}
	w.Bullets[b.ID] = b

	ph.resolveBulletHits(w, time.Now())
	if len(*kills) != 0 {
		t.Errorf("owner was hit by own bullet: %v", *kills)
	}
	if _, ok := w.Bullets["b1"]; !ok {
		t.Error("bullet over its owner should survive")
	}
}

func TestBulletKillsOtherPlayer(t *testing.T) {
	ph, w, kills := testPhysics(t)
	victim := testShip("v", 160, 80)
	w.Players[victim.ID] = victim
	b := &Bullet{ID: "b1", PlayerID: "shooter", X: 160, Y: 80, SpawnAt: time.Now()}
	w.Bullets[b.ID] = b

	ph.resolveBulletHits(w, time.Now())
	if len(*kills) != 1 || (*kills)[0] != "v<-shooter" {
		t.Errorf("expected v killed by shooter, got %v", *kills)
	}
	if _, ok := w.Bullets["b1"]; ok {
		t.Error("bullet should be destroyed on hit")
	}
}

func TestShieldAbsorbsHit(t *testing.T) {
	ph, w, kills := testPhysics(t)
	victim := testShip("v", 160, 80)
	victim.Effects = append(victim.Effects, ActiveEffect{Type: PowerShield, Charges: 1})
	w.Players[victim.ID] = victim
	b := &Bullet{ID: "b1", PlayerID: "shooter", X: 160, Y: 80, SpawnAt: time.Now()}
	w.Bullets[b.ID] = b

	ph.resolveBulletHits(w, time.Now())
	if len(*kills) != 0 {
		t.Errorf("shielded player died: %v", *kills)
	}
	if !victim.Alive {
		t.Error("shielded player must survive")
	}
	if victim.EffectCharges(PowerShield) != 0 {
		t.Errorf("expected 0 shield charges, got %d", victim.EffectCharges(PowerShield))
	}
	if _, ok := w.Bullets["b1"]; ok {
		t.Error("bullet should be destroyed even when absorbed")
	}
}

func TestShipShipElasticCollision(t *testing.T) {
	ph, w, _ := testPhysics(t)
	a := testShip("a", 150, 80)
	b := testShip("b", 168, 80) // 18 apart, under the 28 minimum
	a.VX = 50
	b.VX = -50
	w.Players[a.ID] = a
	w.Players[b.ID] = b

	ph.resolveShipContacts(w, time.Now())

	// Equal masses: normal velocity components exchange
	if a.VX != -50 || b.VX != 50 {
		t.Errorf("expected velocity exchange, got a.VX=%f b.VX=%f", a.VX, b.VX)
	}
	// Momentum is conserved
	if a.VX+b.VX != 0 {
		t.Errorf("momentum not conserved: %f", a.VX+b.VX)
	}
	// Pair is separated by half the overlap each
	if dist := Distance(a.X, a.Y, b.X, b.Y); dist < 2*ShipRadius-1e-9 {
		t.Errorf("pair still overlapping at distance %f", dist)
	}
}

func TestGhostSkipsShipCollision(t *testing.T) {
	ph, w, _ := testPhysics(t)
	now := time.Now()
	a := testShip("a", 150, 80)
	b := testShip("b", 168, 80)
	a.VX = 50
	b.VX = -50
	a.Effects = append(a.Effects, ActiveEffect{Type: PowerGhost, ExpiresAt: now.Add(time.Minute)})
	w.Players[a.ID] = a
	w.Players[b.ID] = b

	ph.resolveShipContacts(w, now)
	if a.VX != 50 || b.VX != -50 {
		t.Error("intangible pair should pass through unchanged")
	}
}

func TestObstructedQueryIsPure(t *testing.T) {
	ph, _, _ := testPhysics(t)
	if !ph.Obstructed(20, 20, 14) {
		t.Error("wall cell should be obstructed")
	}
	if ph.Obstructed(160, 140, 14) {
		t.Error("open floor should not be obstructed")
	}
}
