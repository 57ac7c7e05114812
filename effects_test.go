package main

import (
	"testing"
	"time"
)

// testEffects builds an effect manager sharing a physics engine over the test
// arena, with recording callbacks
func testEffects(t *testing.T) (*EffectManager, *World, *[]string) {
	t.Helper()
	kills := &[]string{}
	ph := NewPhysics(func(string) {}, nil)
	em := NewEffectManager(ph, func(string) {}, func(victim *Player, killerID string) {
		victim.Alive = false
		*kills = append(*kills, victim.ID+"<-"+killerID)
	})
	w := NewWorld()
	w.Map = testMap(t)
	ph.Rebuild(w.Map)
	return em, w, kills
}

func TestApplyTimedEffects(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	w.Players[p.ID] = p

	for _, typ := range []PowerUpType{PowerAmmoBoost, PowerSplitShot, PowerSpeedBoost, PowerRapidFire, PowerGhost} {
		em.apply(w, p, typ, now)
		if !p.HasEffect(typ, now) {
			t.Errorf("%s not active after pickup", typ.Name())
		}
		if p.HasEffect(typ, now.Add(EffectDuration)) {
			t.Errorf("%s still active after its duration", typ.Name())
		}
	}
}

func TestApplyChargeEffects(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	w.Players[p.ID] = p

	em.apply(w, p, PowerShield, now)
	if got := p.EffectCharges(PowerShield); got != ShieldChargeGrant {
		t.Errorf("expected %d shield charges, got %d", ShieldChargeGrant, got)
	}

	// A second pickup stacks
	em.apply(w, p, PowerShield, now)
	if got := p.EffectCharges(PowerShield); got != 2*ShieldChargeGrant {
		t.Errorf("expected %d stacked charges, got %d", 2*ShieldChargeGrant, got)
	}
}

func TestReverseHitsAnotherPlayer(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	picker := testShip("picker", 100, 140)
	other := testShip("other", 220, 140)
	w.Players[picker.ID] = picker
	w.Players[other.ID] = other

	em.apply(w, picker, PowerReverse, now)
	if picker.HasEffect(PowerReverse, now) {
		t.Error("reverse must never affect the picker")
	}
	if !other.HasEffect(PowerReverse, now) {
		t.Error("reverse should land on the only other player")
	}
}

func TestReverseAloneIsNoOp(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("solo", 160, 140)
	w.Players[p.ID] = p

	em.apply(w, p, PowerReverse, now)
	if p.HasEffect(PowerReverse, now) {
		t.Error("reverse with no other players should fizzle")
	}
}

func TestSweepDropsExpiredAndDepleted(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	p.Effects = []ActiveEffect{
		{Type: PowerGhost, ExpiresAt: now.Add(-time.Second)},
		{Type: PowerShield, Charges: 0},
		{Type: PowerDash, Charges: 2},
	}
	w.Players[p.ID] = p

	em.sweepEffects(w, now)
	if len(p.Effects) != 1 || p.Effects[0].Type != PowerDash {
		t.Errorf("expected only the dash charges to survive, got %v", p.Effects)
	}
}

func TestSweepClampsAmmoToCap(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	p.Ammo = BoostedMaxAmmo
	p.Effects = []ActiveEffect{{Type: PowerAmmoBoost, ExpiresAt: now.Add(-time.Second)}}
	w.Players[p.ID] = p

	em.sweepEffects(w, now)
	if p.Ammo != BaseMaxAmmo {
		t.Errorf("ammo should re-clamp to %d after the boost expires, got %d", BaseMaxAmmo, p.Ammo)
	}
}

func TestMaxAmmoAndReloadInterval(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	w.Players[p.ID] = p

	if em.MaxAmmo(p, now) != BaseMaxAmmo {
		t.Errorf("base clip should be %d", BaseMaxAmmo)
	}
	if em.ReloadInterval(p, now) != BaseReloadTime {
		t.Errorf("base reload should be %v", BaseReloadTime)
	}

	p.Effects = append(p.Effects, ActiveEffect{Type: PowerAmmoBoost, ExpiresAt: now.Add(time.Minute)})
	if em.MaxAmmo(p, now) != BoostedMaxAmmo {
		t.Errorf("boosted clip should be %d", BoostedMaxAmmo)
	}
	if em.ReloadInterval(p, now) != time.Duration(float64(BaseReloadTime)*0.5) {
		t.Error("ammo boost should halve the reload interval")
	}

	// Rapid fire wins over ammo boost
	p.Effects = append(p.Effects, ActiveEffect{Type: PowerRapidFire, ExpiresAt: now.Add(time.Minute)})
	if em.ReloadInterval(p, now) != time.Duration(float64(BaseReloadTime)*0.4) {
		t.Error("rapid fire should take precedence over ammo boost")
	}
}

func TestPlaceMineRequiresCharge(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	w.Players[p.ID] = p

	em.PlaceMine(w, p, now)
	if len(w.Mines) != 0 {
		t.Error("mine placed without a charge")
	}

	p.Effects = append(p.Effects, ActiveEffect{Type: PowerMines, Charges: 1})
	em.PlaceMine(w, p, now)
	if len(w.Mines) != 1 {
		t.Fatalf("expected 1 mine, got %d", len(w.Mines))
	}
	for _, m := range w.Mines {
		if m.PlayerID != p.ID || m.X != p.X || m.Y != p.Y {
			t.Error("mine should drop at the owner's position")
		}
	}
	if p.EffectCharges(PowerMines) != 0 {
		t.Error("placement should spend the charge")
	}
}

func TestMineIgnoresOwnerAndKillsIntruder(t *testing.T) {
	em, w, kills := testEffects(t)
	now := time.Now()
	owner := testShip("owner", 160, 140)
	intruder := testShip("intruder", 170, 140)
	w.Players[owner.ID] = owner
	w.Players[intruder.ID] = intruder
	w.Mines["m1"] = &Mine{ID: "m1", PlayerID: "owner", X: 160, Y: 140, SpawnAt: now}

	em.updateMines(w, now)
	if _, ok := w.Mines["m1"]; ok {
		t.Error("triggered mine should be removed")
	}
	if len(*kills) != 1 || (*kills)[0] != "intruder<-owner" {
		t.Errorf("expected the intruder killed by the owner, got %v", *kills)
	}
	if !owner.Alive {
		t.Error("mine must never damage its owner")
	}
}

func TestMineBlastSparesShielded(t *testing.T) {
	em, w, kills := testEffects(t)
	now := time.Now()
	owner := testShip("owner", 100, 140)
	victim := testShip("victim", 170, 140)
	victim.Effects = []ActiveEffect{{Type: PowerShield, Charges: 1}}
	w.Players[owner.ID] = owner
	w.Players[victim.ID] = victim

	em.detonate(w, &Mine{ID: "m1", PlayerID: "owner", X: 160, Y: 140}, now)
	if len(*kills) != 0 {
		t.Errorf("shielded victim died: %v", *kills)
	}
	if victim.EffectCharges(PowerShield) != 0 {
		t.Error("the blast should spend a shield charge")
	}
}

func TestMineExpiresSilently(t *testing.T) {
	em, w, kills := testEffects(t)
	now := time.Now()
	w.Mines["m1"] = &Mine{ID: "m1", PlayerID: "owner", X: 160, Y: 140, SpawnAt: now.Add(-MineLifetime)}

	em.updateMines(w, now)
	if _, ok := w.Mines["m1"]; ok {
		t.Error("expired mine should be removed")
	}
	if len(*kills) != 0 {
		t.Error("expiry must not detonate")
	}
}

func TestDashDisplacesAlongVelocity(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 100, 140)
	p.VX = 100 // above the minimum speed, dash follows velocity
	p.Effects = []ActiveEffect{{Type: PowerDash, Charges: 1}}
	w.Players[p.ID] = p

	em.Dash(w, p, now)
	if p.X != 100+DashDistance || p.Y != 140 {
		t.Errorf("expected dash to (%f,140), got (%f,%f)", 100+DashDistance, p.X, p.Y)
	}
	if p.EffectCharges(PowerDash) != 0 {
		t.Error("dash should spend the charge")
	}
}

func TestDashFollowsFacingWhenStill(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 100, 140)
	p.Rotation = 0 // facing +X, standing still
	p.Effects = []ActiveEffect{{Type: PowerDash, Charges: 1}}
	w.Players[p.ID] = p

	em.Dash(w, p, now)
	if p.X != 100+DashDistance {
		t.Errorf("still dash should follow facing, got X=%f", p.X)
	}
}

func TestDashWrapsAtFieldEdge(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 280, 140) // field is 320 wide
	p.Rotation = 0
	p.Effects = []ActiveEffect{{Type: PowerDash, Charges: 1}}
	w.Players[p.ID] = p

	em.Dash(w, p, now)
	if p.X != 80 {
		t.Errorf("expected wrap to X=80, got %f", p.X)
	}
}

func TestDashWithoutChargeIsNoOp(t *testing.T) {
	em, w, _ := testEffects(t)
	p := testShip("a", 100, 140)
	w.Players[p.ID] = p

	em.Dash(w, p, time.Now())
	if p.X != 100 || p.Y != 140 {
		t.Error("dash without a charge must not move the player")
	}
}

func TestPickupCollectionAndNotice(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	w.Players[p.ID] = p
	w.PowerUps["pu1"] = &PowerUp{ID: "pu1", Type: PowerShield, X: 165, Y: 140, SpawnAt: now}

	em.updatePickups(w, now)
	if _, ok := w.PowerUps["pu1"]; ok {
		t.Error("collected power-up should be removed")
	}
	if p.EffectCharges(PowerShield) != ShieldChargeGrant {
		t.Error("collection should grant the effect")
	}
	if len(w.Notices) != 1 || w.Notices[0].PlayerID != "a" || w.Notices[0].Type != PowerShield {
		t.Errorf("expected a pickup notice for player a, got %v", w.Notices)
	}
}

func TestDeadPlayerCannotCollect(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	p := testShip("a", 160, 140)
	p.Alive = false
	w.Players[p.ID] = p
	w.PowerUps["pu1"] = &PowerUp{ID: "pu1", Type: PowerShield, X: 165, Y: 140, SpawnAt: now}

	em.updatePickups(w, now)
	if _, ok := w.PowerUps["pu1"]; !ok {
		t.Error("power-up should remain when only dead players overlap it")
	}
}

func TestPickupExpiry(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	w.PowerUps["pu1"] = &PowerUp{ID: "pu1", Type: PowerShield, X: 165, Y: 140, SpawnAt: now.Add(-PowerUpLifetime)}

	em.updatePickups(w, now)
	if _, ok := w.PowerUps["pu1"]; ok {
		t.Error("stale power-up should expire")
	}
}

func TestAmbientSpawnCapAndInterval(t *testing.T) {
	em, w, _ := testEffects(t)
	now := time.Now()
	w.RoundActive = true

	em.spawnAmbient(w, now)
	if len(w.PowerUps) != 1 {
		t.Fatalf("expected one spawned power-up, got %d", len(w.PowerUps))
	}

	// Within the interval: no second spawn
	em.spawnAmbient(w, now.Add(time.Second))
	if len(w.PowerUps) != 1 {
		t.Error("spawned again inside the interval")
	}

	// Past the interval: another spawn
	em.spawnAmbient(w, now.Add(SpawnInterval))
	if len(w.PowerUps) != 2 {
		t.Error("expected a spawn once the interval elapsed")
	}

	// At the cap: no more
	for i := len(w.PowerUps); i < AmbientCap; i++ {
		w.PowerUps[GenerateID(3)] = &PowerUp{SpawnAt: now}
	}
	em.spawnAmbient(w, now.Add(10*SpawnInterval))
	if len(w.PowerUps) != AmbientCap {
		t.Errorf("spawned past the ambient cap: %d", len(w.PowerUps))
	}
}

func TestNoAmbientSpawnOutsideRound(t *testing.T) {
	em, w, _ := testEffects(t)
	w.RoundActive = false

	em.spawnAmbient(w, time.Now())
	if len(w.PowerUps) != 0 {
		t.Error("power-ups must not spawn outside an active round")
	}
}

func TestFindOpenPositionAvoidsWalls(t *testing.T) {
	em, w, _ := testEffects(t)
	for i := 0; i < 50; i++ {
		x, y := em.FindOpenPosition(w.Map, PowerUpRadius)
		if em.physics.Obstructed(x, y, PowerUpRadius) {
			t.Fatalf("picked an obstructed position (%f,%f)", x, y)
		}
	}
}
