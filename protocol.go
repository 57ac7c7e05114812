package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgInput    = "input"
	MsgStart    = "start" // host starts the round
	MsgReset    = "reset" // anyone resets from the ended phase
	MsgLeave    = "leave"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // resume with a token
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgState   = "state" // msgpack binary frame, not a JSON envelope
	MsgYou     = "you"   // per-player delta, sent only when dirty
	MsgBlocks  = "blocks"
	MsgError   = "error"
	MsgAuthOK  = "auth_ok"
)

// Input actions
const (
	ActThrustStart = "thrust-start"
	ActThrustStop  = "thrust-stop"
	ActFire        = "fire"
	ActPlaceMine   = "place-mine"
	ActDash        = "dash"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages. json.RawMessage avoids a
// double unmarshal of the payload.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is sent when a player wants to join the arena
type JoinMsg struct {
	Name string `json:"name"`
}

// InputMsg is one discrete player command
type InputMsg struct {
	Action string `json:"a"`
	TS     int64  `json:"ts"` // client timestamp, millis
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID    string `json:"id"`
	Color string `json:"c"`
}

// PlayerState is the public per-player view broadcast each tick
type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"n" msgpack:"n"`
	Color  string  `json:"c" msgpack:"c"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Score  int     `json:"sc" msgpack:"sc"`
	Alive  bool    `json:"a" msgpack:"a"`
	Thrust bool    `json:"th" msgpack:"th"`
}

// BulletState is broadcast per bullet
type BulletState struct {
	ID    string  `json:"id" msgpack:"id"`
	Owner string  `json:"o" msgpack:"o"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Mega  bool    `json:"m" msgpack:"m"`
}

// PowerUpState is broadcast per ambient power-up
type PowerUpState struct {
	ID   string      `json:"id" msgpack:"id"`
	Type PowerUpType `json:"pt" msgpack:"pt"`
	X    float64     `json:"x" msgpack:"x"`
	Y    float64     `json:"y" msgpack:"y"`
}

// MineState is broadcast per placed mine
type MineState struct {
	ID    string  `json:"id" msgpack:"id"`
	Owner string  `json:"o" msgpack:"o"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
}

// GameStateMsg is the full per-tick broadcast, msgpack-encoded as a binary
// frame. Static map blocks are excluded; they go out once per round via
// BlocksMsg.
type GameStateMsg struct {
	Players  []PlayerState  `json:"p" msgpack:"p"`
	Bullets  []BulletState  `json:"b" msgpack:"b"`
	PowerUps []PowerUpState `json:"pu" msgpack:"pu"`
	Mines    []MineState    `json:"mn" msgpack:"mn"`
	Notices  []PickupNotice `json:"nt" msgpack:"nt"`
	Phase    Phase          `json:"ph" msgpack:"ph"`
	Host     string         `json:"h" msgpack:"h"`
	RoundEnd int64          `json:"re" msgpack:"re"` // unix millis, 0 when idle
	Tick     uint64         `json:"tick" msgpack:"tick"`
}

// PersonalState is the minimal per-player delta, emitted only for players
// whose state changed since the last tick
type PersonalState struct {
	Ammo     int    `json:"am"`
	MaxAmmo  int    `json:"mx"`
	Mines    int    `json:"mn"`
	Dashes   int    `json:"da"`
	Shield   int    `json:"sh"`
	Mega     int    `json:"mg"`
	Reversed bool   `json:"rv"`
	Phase    Phase  `json:"ph"`
	Host     string `json:"h"`
	RoundEnd int64  `json:"re"`
}

// BlocksMsg carries the static map once per round start
type BlocksMsg struct {
	Name   string  `json:"name"`
	Cols   int     `json:"cols"`
	Rows   int     `json:"rows"`
	Blocks []Block `json:"blocks"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates by password
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg resumes a session by token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
