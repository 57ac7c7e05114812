package main

import (
	"math"
	"testing"
	"time"
)

func TestNewPlayerDefaults(t *testing.T) {
	now := time.Now()
	p := NewPlayer("id1", "Ace", 2, now)
	if p.Ammo != BaseMaxAmmo {
		t.Errorf("expected a full clip, got %d", p.Ammo)
	}
	if !p.Alive {
		t.Error("fresh player should be alive")
	}
	if p.Color != shipColors[2] {
		t.Errorf("expected color by join order, got %s", p.Color)
	}
	if len(p.Effects) != 0 {
		t.Error("fresh player should carry no effects")
	}
}

func TestSpawnClearsTransientState(t *testing.T) {
	now := time.Now()
	p := NewPlayer("id1", "Ace", 0, now)
	p.VX, p.VY = 90, -40
	p.ThrustActive = true
	p.Alive = false
	p.Ammo = BoostedMaxAmmo
	p.Effects = []ActiveEffect{{Type: PowerGhost, ExpiresAt: now.Add(time.Minute)}}

	p.Spawn(100, 120, 3*math.Pi, now)
	if p.VX != 0 || p.VY != 0 {
		t.Error("spawn should zero velocity")
	}
	if p.ThrustActive {
		t.Error("spawn should clear thrust")
	}
	if !p.Alive {
		t.Error("spawn should revive")
	}
	if len(p.Effects) != 0 {
		t.Error("spawn should drop carried effects")
	}
	if p.Ammo != BaseMaxAmmo {
		t.Errorf("spawn should clamp ammo to %d, got %d", BaseMaxAmmo, p.Ammo)
	}
	if p.Rotation != math.Pi {
		t.Errorf("spawn rotation should wrap, got %f", p.Rotation)
	}
}

func TestTurnRateRamp(t *testing.T) {
	now := time.Now()
	p := NewPlayer("id1", "Ace", 0, now)
	p.TurnStart = now

	if got := p.turnRate(now); got != TurnRateBase {
		t.Errorf("ramp should start at %f, got %f", TurnRateBase, got)
	}
	mid := p.turnRate(now.Add(400 * time.Millisecond))
	if mid <= TurnRateBase || mid >= TurnRateMax {
		t.Errorf("mid-ramp rate out of range: %f", mid)
	}
	if got := p.turnRate(now.Add(2 * time.Second)); got != TurnRateMax {
		t.Errorf("ramp should cap at %f, got %f", TurnRateMax, got)
	}
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		if got := WrapAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("WrapAngle(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestCheckCircles(t *testing.T) {
	if !CheckCircles(0, 0, 10, 15, 0, 10) {
		t.Error("overlapping circles not detected")
	}
	if CheckCircles(0, 0, 10, 25, 0, 10) {
		t.Error("separated circles reported overlapping")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 {
		t.Error("clamp bounds wrong")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID(4)
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
