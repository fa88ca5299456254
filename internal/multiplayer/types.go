package multiplayer

import (
	"errors"
	"strings"
	"time"

	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Mode selects how a room was created and which id format it carries.
type Mode string

const (
	ModeFriends Mode = "friends"
	ModeRandom  Mode = "random"
)

func ParseMode(s string) Mode {
	if strings.ToLower(strings.TrimSpace(s)) == string(ModeRandom) {
		return ModeRandom
	}
	return ModeFriends
}

// RoomStatus is the room lifecycle state: waiting, playing, finished.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// Player is one seat in a room.
type Player struct {
	UserID    string
	Username  string
	Color     Color
	Connected bool
}

// MoveEntry is one accepted move in a room's append-only history.
type MoveEntry struct {
	Move      string
	PlayerID  string
	Username  string
	Timestamp time.Time
}

// RemoveOutcome reports the effect of removing a player from a room.
type RemoveOutcome string

const (
	RoomEmptied    RemoveOutcome = "empty"
	PlayerRemoved  RemoveOutcome = "removed"
	PlayerNotFound RemoveOutcome = "not_found"
)

// Verdict is the Validator's view of game termination.
type Verdict struct {
	GameOver bool
	Winner   Color // empty when the game is drawn or still running
}

// Validator is the move-legality and game-outcome oracle a room delegates
// to. Each room owns exactly one instance; the room's lock serializes all
// calls into it.
type Validator interface {
	SubmitMove(notation string) (accepted bool, reason string)
	Status() Verdict
	Board() string
}

// ValidatorFactory builds a fresh Validator for every new room.
type ValidatorFactory func() Validator

var (
	ErrRoomFull         = errors.New("room is full")
	ErrRoomNotFound     = errors.New("room not found")
	ErrInvalidRoomState = errors.New("room already started or finished")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameNotActive    = errors.New("game not started or already finished")
	ErrNoActiveSession  = errors.New("no active game session")
)

// InvalidMoveError carries the Validator's rejection reason verbatim.
type InvalidMoveError struct {
	Reason string
}

func (e *InvalidMoveError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "invalid move"
}

// MatchResult reports one find-random poll.
type MatchResult struct {
	Matched  bool
	RoomID   string
	Snapshot *gamedto.RoomSnapshot
}
