// Package engine adapts the chess rules library to the move-legality and
// game-outcome oracle the multiplayer core consumes. One Engine backs one
// room; the room's lock serializes access.
package engine

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/kenbachkhoa/chess-arena/internal/multiplayer"
)

type Engine struct {
	game *nchess.Game
}

func New() *Engine {
	return &Engine{game: nchess.NewGame()}
}

// NewValidator is the factory handed to the multiplayer manager.
func NewValidator() multiplayer.Validator { return New() }

// SubmitMove accepts a move in UCI notation with SAN as fallback. On
// rejection the board is untouched and the reason describes the input.
func (e *Engine) SubmitMove(notation string) (bool, string) {
	raw := strings.TrimSpace(notation)
	if raw == "" {
		return false, "empty move"
	}

	pos := e.game.Position()
	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(raw)); err == nil {
		e.game.Move(mv, nil)
		return true, ""
	}
	if err := e.game.PushNotationMove(raw, nchess.AlgebraicNotation{}, nil); err != nil {
		return false, fmt.Sprintf("invalid move: %s", raw)
	}
	return true, ""
}

// Status reports termination and, when decisive, the winning color.
func (e *Engine) Status() multiplayer.Verdict {
	switch e.game.Outcome() {
	case nchess.WhiteWon:
		return multiplayer.Verdict{GameOver: true, Winner: multiplayer.White}
	case nchess.BlackWon:
		return multiplayer.Verdict{GameOver: true, Winner: multiplayer.Black}
	case nchess.Draw:
		return multiplayer.Verdict{GameOver: true}
	default:
		return multiplayer.Verdict{}
	}
}

// Board returns the position as a FEN string, forwarded unchanged to
// clients.
func (e *Engine) Board() string {
	return e.game.FEN()
}
