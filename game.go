package main

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate     = 60 // simulation ticks per second
	TickDuration = time.Second / TickRate

	NoticeTTL  = 4 * time.Second
	MaxPlayers = 8
	MaxBullets = 200
)

// Broadcaster is the egress interface for one connected client. Sends are
// fire-and-forget and must never block the tick.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game is the simulation orchestrator: it owns the World, sequences the
// components each tick, runs the round phase machine and tracks the
// per-client dirty set for delta egress.
type Game struct {
	mu      sync.Mutex
	world   *World
	physics *Physics
	effects *EffectManager
	sched   *Scheduler
	clients map[string]Broadcaster // playerID -> client
	dirty   map[string]struct{}    // player ids with changed personal state

	maps         []*GameMap
	rng          *rand.Rand
	roundSeconds int
	nextSeq      int
	tick         uint64

	running bool
	stop    chan struct{}
}

// NewGame creates the process-lifetime game over the given map pool
func NewGame(maps []*GameMap, roundSeconds int) *Game {
	g := &Game{
		world:        NewWorld(),
		sched:        NewScheduler(),
		clients:      make(map[string]Broadcaster),
		dirty:        make(map[string]struct{}),
		maps:         maps,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		roundSeconds: roundSeconds,
		stop:         make(chan struct{}),
	}
	g.physics = NewPhysics(g.markDirty, g.killPlayer)
	g.effects = NewEffectManager(g.physics, g.markDirty, g.killPlayer)

	// A map is installed even in the waiting phase so joins have somewhere
	// to spawn
	g.world.Map = maps[g.rng.Intn(len(maps))]
	g.physics.Rebuild(g.world.Map)
	return g
}

// Run starts the fixed-rate tick loop. Ticks never overlap; if one runs
// long the next simply starts late.
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the tick loop and drains pending timers
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
	g.sched.CancelAll()
}

// update runs one tick: physics, effects, reload pass, notice pruning,
// broadcast, round clock. A panic here is contained so it cannot kill the
// loop.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick %d panic: %v", g.tick, r)
		}
	}()

	g.tick++
	now := time.Now()
	dt := 1.0 / float64(TickRate)

	if g.world.Phase == PhasePlaying {
		g.physics.Step(g.world, now, dt)
		g.effects.Update(g.world, now)
		g.reloadPass(now)
	}
	g.pruneNotices(now)
	g.broadcast(now)

	if g.world.Phase == PhasePlaying && now.After(g.world.RoundEndsAt) {
		g.endRound()
	}
}

// reloadPass grants one ammo unit per player once their effect-scaled reload
// interval has elapsed, capped at the effect-derived maximum
func (g *Game) reloadPass(now time.Time) {
	for _, p := range g.world.Players {
		if !p.Alive {
			continue
		}
		max := g.effects.MaxAmmo(p, now)
		if p.Ammo >= max {
			p.LastReload = now
			continue
		}
		if now.Sub(p.LastReload) >= g.effects.ReloadInterval(p, now) {
			p.Ammo++
			p.LastReload = now
			g.markDirty(p.ID)
		}
	}
}

// pruneNotices drops pickup notifications older than the TTL
func (g *Game) pruneNotices(now time.Time) {
	kept := g.world.Notices[:0]
	for _, n := range g.world.Notices {
		if now.Sub(n.At) < NoticeTTL {
			kept = append(kept, n)
		}
	}
	g.world.Notices = kept
}

// AddPlayer joins a new player, spawning them at an open position. The first
// joiner becomes host. Returns nil when the arena is full.
func (g *Game) AddPlayer(name string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.world.Players) >= MaxPlayers {
		return nil
	}

	now := time.Now()
	p := NewPlayer(uuid.NewString(), name, g.nextSeq, now)
	g.nextSeq++

	x, y := g.effects.FindOpenPosition(g.world.Map, ShipRadius)
	p.Spawn(x, y, g.rng.Float64()*2*math.Pi, now)
	g.world.Players[p.ID] = p

	if g.world.HostID == "" {
		g.world.HostID = p.ID
		g.markAllDirty()
	} else {
		g.markDirty(p.ID)
	}
	log.Printf("player %s (%s) joined, %d in arena", p.Name, p.ID, len(g.world.Players))
	return p
}

// RemovePlayer disconnects a player, cancels their pending respawn, reassigns
// the host if needed and ends the round when the arena empties mid-round
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[id]
	if !ok {
		return
	}
	g.sched.Cancel("respawn:" + id)
	delete(g.world.Players, id)
	delete(g.clients, id)
	delete(g.dirty, id)
	log.Printf("player %s left, %d in arena", p.Name, len(g.world.Players))

	if g.world.HostID == id {
		if next := g.world.PlayerBySeq(); next != nil {
			g.world.HostID = next.ID
		} else {
			g.world.HostID = ""
		}
		g.markAllDirty()
	}
	if g.world.Phase == PhasePlaying && len(g.world.Players) == 0 {
		g.endRound()
	}
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// PlayerCount returns the number of joined players
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.world.Players)
}

// StartRound begins play. Only the host may start, only from the waiting
// phase, and only with at least one joined player.
func (g *Game) StartRound(by string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world.Phase != PhaseWaiting || by != g.world.HostID || len(g.world.Players) == 0 {
		return false
	}
	g.beginRound()
	return true
}

// ResetRound restarts play after a round ended. Any joined player may reset,
// but only from the ended phase.
func (g *Game) ResetRound(by string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world.Phase != PhaseEnded {
		return false
	}
	if _, ok := g.world.Players[by]; !ok {
		return false
	}
	for _, p := range g.world.Players {
		p.Score = 0
	}
	g.beginRound()
	return true
}

// beginRound reselects a map, rebuilds the spatial index, clears round state
// and respawns everyone. Caller holds the lock.
func (g *Game) beginRound() {
	now := time.Now()
	m := g.maps[g.rng.Intn(len(g.maps))]
	g.world.ResetRoundState(m)
	g.physics.Rebuild(m)
	g.sched.CancelAll()

	for _, p := range g.world.Players {
		x, y := g.effects.FindOpenPosition(m, ShipRadius)
		p.Spawn(x, y, g.rng.Float64()*2*math.Pi, now)
		p.Ammo = BaseMaxAmmo
		p.LastReload = now
	}

	g.world.Phase = PhasePlaying
	g.world.RoundActive = true
	g.world.RoundEndsAt = now.Add(time.Duration(g.roundSeconds) * time.Second)
	g.markAllDirty()

	// Static blocks go out once per round on their own channel
	g.broadcastJSON(Envelope{T: MsgBlocks, Data: BlocksMsg{
		Name:   m.Name,
		Cols:   m.Cols,
		Rows:   m.Rows,
		Blocks: m.Blocks,
	}})
	log.Printf("round started on map %s (%ds)", m.Name, g.roundSeconds)
}

// endRound freezes scores and reports the winner (ties broken by join order).
// Caller holds the lock.
func (g *Game) endRound() {
	g.world.Phase = PhaseEnded
	g.world.RoundActive = false
	g.world.RoundEndsAt = time.Time{}
	g.markAllDirty()

	var winner *Player
	for _, p := range g.world.Players {
		if winner == nil || p.Score > winner.Score ||
			(p.Score == winner.Score && p.Seq < winner.Seq) {
			winner = p
		}
	}
	if winner != nil {
		log.Printf("round over, winner %s with %d", winner.Name, winner.Score)
	} else {
		log.Printf("round over, arena empty")
	}
}

// killPlayer marks the victim dead, awards the killer a point and schedules
// a cancelable respawn. Injected into the physics engine and effect manager;
// caller holds the lock.
func (g *Game) killPlayer(victim *Player, killerID string) {
	if !victim.Alive {
		return
	}
	victim.Alive = false
	victim.ThrustActive = false
	victim.VX = 0
	victim.VY = 0
	g.markDirty(victim.ID)

	if killer, ok := g.world.Players[killerID]; ok && killerID != victim.ID {
		killer.Score++
		log.Printf("%s destroyed %s", killer.Name, victim.Name)
	}

	id := victim.ID
	g.sched.After("respawn:"+id, RespawnDelay, func() {
		g.respawn(id)
	})
}

// respawn revives a still-connected player at a wall-validated position
func (g *Game) respawn(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[id]
	if !ok {
		return
	}
	now := time.Now()
	x, y := g.effects.FindOpenPosition(g.world.Map, ShipRadius)
	p.Spawn(x, y, g.rng.Float64()*2*math.Pi, now)
	p.Ammo = BaseMaxAmmo
	p.LastReload = now
	g.markDirty(id)
}

// markDirty records a player whose personal state changed since the last
// broadcast. Injected into mutating components as their change callback.
func (g *Game) markDirty(playerID string) {
	g.dirty[playerID] = struct{}{}
}

// markAllDirty flags every player, used for phase and host changes
func (g *Game) markAllDirty() {
	for id := range g.world.Players {
		g.dirty[id] = struct{}{}
	}
}

// broadcast sends the full state to everyone as a msgpack binary frame, then
// per-player deltas to the dirty set, which is cleared afterwards. Caller
// holds the lock.
func (g *Game) broadcast(now time.Time) {
	state := GameStateMsg{
		Players:  make([]PlayerState, 0, len(g.world.Players)),
		Bullets:  make([]BulletState, 0, len(g.world.Bullets)),
		PowerUps: make([]PowerUpState, 0, len(g.world.PowerUps)),
		Mines:    make([]MineState, 0, len(g.world.Mines)),
		Notices:  g.world.Notices,
		Phase:    g.world.Phase,
		Host:     g.world.HostID,
		RoundEnd: roundEndMillis(g.world),
		Tick:     g.tick,
	}
	for _, p := range g.world.Players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, b := range g.world.Bullets {
		state.Bullets = append(state.Bullets, b.ToState())
	}
	for _, pu := range g.world.PowerUps {
		state.PowerUps = append(state.PowerUps, pu.ToState())
	}
	for _, m := range g.world.Mines {
		state.Mines = append(state.Mines, m.ToState())
	}

	data, err := msgpack.Marshal(state)
	if err != nil {
		log.Printf("state marshal: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}

	for id := range g.dirty {
		p, ok := g.world.Players[id]
		if !ok {
			delete(g.dirty, id)
			continue
		}
		client, ok := g.clients[id]
		if !ok {
			continue // keep the delta until the client attaches
		}
		client.SendJSON(Envelope{T: MsgYou, Data: g.personalState(p, now)})
		delete(g.dirty, id)
	}
}

// personalState builds the minimal delta for one player. Caller holds the
// lock.
func (g *Game) personalState(p *Player, now time.Time) PersonalState {
	return PersonalState{
		Ammo:     p.Ammo,
		MaxAmmo:  g.effects.MaxAmmo(p, now),
		Mines:    p.EffectCharges(PowerMines),
		Dashes:   p.EffectCharges(PowerDash),
		Shield:   p.EffectCharges(PowerShield),
		Mega:     p.EffectCharges(PowerMegaBullets),
		Reversed: p.HasEffect(PowerReverse, now),
		Phase:    g.world.Phase,
		Host:     g.world.HostID,
		RoundEnd: roundEndMillis(g.world),
	}
}

// broadcastJSON sends a JSON envelope to every connected client. Caller
// holds the lock.
func (g *Game) broadcastJSON(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

// BlocksEnvelope returns the current map as a blocks message, sent to
// late joiners
func (g *Game) BlocksEnvelope() Envelope {
	g.mu.Lock()
	defer g.mu.Unlock()
	m := g.world.Map
	return Envelope{T: MsgBlocks, Data: BlocksMsg{
		Name:   m.Name,
		Cols:   m.Cols,
		Rows:   m.Rows,
		Blocks: m.Blocks,
	}}
}

// roundEndMillis renders the round deadline for the wire, 0 when idle
func roundEndMillis(w *World) int64 {
	if w.RoundEndsAt.IsZero() {
		return 0
	}
	return w.RoundEndsAt.UnixMilli()
}
