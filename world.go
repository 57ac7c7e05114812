package main

import "time"

// Phase is the round lifecycle state
type Phase int

const (
	PhaseWaiting Phase = 0 // accepting joins, simulation idle
	PhasePlaying Phase = 1 // round timer running, full simulation
	PhaseEnded   Phase = 2 // scores frozen, awaiting reset
)

// PickupNotice is a recent power-up collection, consumed by the presentation
// layer and pruned after a few seconds
type PickupNotice struct {
	PlayerID   string      `json:"pid" msgpack:"pid"`
	PlayerName string      `json:"pn" msgpack:"pn"`
	Type       PowerUpType `json:"pt" msgpack:"pt"`
	At         time.Time   `json:"-" msgpack:"-"`
}

// World is the shared simulation aggregate. It is owned by the Game
// orchestrator and passed by pointer into each component's update call;
// no component retains its own copy. It is created once at process start
// and its collections are cleared in place at round boundaries.
type World struct {
	Players  map[string]*Player
	Bullets  map[string]*Bullet
	PowerUps map[string]*PowerUp
	Mines    map[string]*Mine
	Map      *GameMap
	Notices  []PickupNotice

	Phase       Phase
	HostID      string    // empty when the room is empty
	RoundEndsAt time.Time // zero while no round is running
	RoundActive bool
}

// NewWorld creates the process-lifetime world
func NewWorld() *World {
	return &World{
		Players:  make(map[string]*Player),
		Bullets:  make(map[string]*Bullet),
		PowerUps: make(map[string]*PowerUp),
		Mines:    make(map[string]*Mine),
	}
}

// ResetRoundState clears all transient entities and installs the new map
// snapshot. Players survive across rounds; everything else is round-scoped.
func (w *World) ResetRoundState(m *GameMap) {
	clear(w.Bullets)
	clear(w.PowerUps)
	clear(w.Mines)
	w.Notices = w.Notices[:0]
	w.Map = m
}

// LivingPlayers appends all alive players to buf in no particular order
func (w *World) LivingPlayers(buf []*Player) []*Player {
	for _, p := range w.Players {
		if p.Alive {
			buf = append(buf, p)
		}
	}
	return buf
}

// PlayerBySeq returns the connected player with the lowest join sequence,
// or nil when the room is empty. Used for host reassignment and tie-breaks.
func (w *World) PlayerBySeq() *Player {
	var first *Player
	for _, p := range w.Players {
		if first == nil || p.Seq < first.Seq {
			first = p
		}
	}
	return first
}
