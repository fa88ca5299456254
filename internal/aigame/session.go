// Package aigame runs single-player games against a built-in engine
// opponent. The player always takes white; the opponent answers as black
// after every accepted move.
package aigame

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	nchess "github.com/corentings/chess/v2"

	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

var (
	ErrGameNotFound    = errors.New("ai game not found")
	ErrUndoUnavailable = errors.New("not enough moves to undo")
	ErrGameFinished    = errors.New("game already finished")
)

// InvalidMoveError reports a rejected move. Reason is safe to surface to
// the client verbatim.
type InvalidMoveError struct {
	Reason string
}

func (e *InvalidMoveError) Error() string { return e.Reason }

// Session is one game against the engine opponent. The mutex serializes
// the player move and the opponent's reply within a request.
type Session struct {
	mu         sync.Mutex
	id         string
	level      Level
	game       *nchess.Game
	moves      []string // UCI, in applied order
	lastAIMove string
	rng        *rand.Rand
}

func newSession(id string, level Level) *Session {
	return &Session{
		id:    id,
		level: level,
		game:  nchess.NewGame(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlayerMove applies a move in UCI notation with SAN as fallback. History
// always records the UCI form so undo can replay it.
func (s *Session) PlayerMove(notation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Outcome() != nchess.NoOutcome {
		return ErrGameFinished
	}
	raw := strings.TrimSpace(notation)
	if raw == "" {
		return &InvalidMoveError{Reason: "empty move"}
	}

	pos := s.game.Position()
	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(raw)); err == nil {
		s.game.Move(mv, nil)
	} else if err := s.game.PushNotationMove(raw, nchess.AlgebraicNotation{}, nil); err != nil {
		return &InvalidMoveError{Reason: fmt.Sprintf("invalid move: %s", raw)}
	}
	s.moves = append(s.moves, lastMoveUCI(s.game))
	return nil
}

// Reply has the opponent answer the position. A no-op when the game is
// already decided.
func (s *Session) Reply() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Outcome() != nchess.NoOutcome {
		return "", nil
	}
	uci := s.pickMoveLocked()
	if uci == "" {
		return "", nil
	}
	if err := s.game.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return "", fmt.Errorf("engine move %q rejected: %w", uci, err)
	}
	s.moves = append(s.moves, uci)
	s.lastAIMove = uci
	return uci, nil
}

// Hint returns the strongest move for the side to move, evaluated without
// noise.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Outcome() != nchess.NoOutcome {
		return "", ErrGameFinished
	}
	cands := scoredCandidates(s.game, 0, s.rng)
	if len(cands) == 0 {
		return "", ErrGameFinished
	}
	return cands[0].Move, nil
}

// Undo rolls back the last exchange, one opponent ply and one player ply,
// by replaying the trimmed history from the start.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.moves) < 2 {
		return ErrUndoUnavailable
	}
	trimmed := append([]string(nil), s.moves[:len(s.moves)-2]...)
	game := nchess.NewGame()
	for _, mv := range trimmed {
		if err := game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			return fmt.Errorf("replay move %q: %w", mv, err)
		}
	}
	s.game = game
	s.moves = trimmed
	s.lastAIMove = ""
	return nil
}

// Restart resets the board and clears the history.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = nchess.NewGame()
	s.moves = nil
	s.lastAIMove = ""
}

func (s *Session) Status() *gamedto.AIGameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &gamedto.AIGameStatus{
		Board:       s.game.FEN(),
		CurrentTurn: "white",
		MoveHistory: append([]string(nil), s.moves...),
		LastAIMove:  s.lastAIMove,
	}
	if s.game.Position().Turn() == nchess.Black {
		st.CurrentTurn = "black"
	}
	switch s.game.Outcome() {
	case nchess.WhiteWon:
		st.GameOver = true
		st.Winner = "white"
	case nchess.BlackWon:
		st.GameOver = true
		st.Winner = "black"
	case nchess.Draw:
		st.GameOver = true
	}
	return st
}

// pickMoveLocked selects the opponent's move: the opening book first when
// the level consults it, the one-ply material eval otherwise.
func (s *Session) pickMoveLocked() string {
	p := presetFor(s.level)
	if p.UseBook && s.game.Position().Turn() == nchess.Black {
		if mv := bookMove(s.game); mv != "" {
			return mv
		}
	}
	cands := scoredCandidates(s.game, p.EvalNoise, s.rng)
	if len(cands) == 0 {
		return ""
	}
	return selectCandidate(p, cands, s.rng).Move
}

// pieceValues are centipawn weights for the material eval.
var pieceValues = map[rune]int{'p': 100, 'n': 320, 'b': 330, 'r': 500, 'q': 900}

// scoredCandidates evaluates every legal move one ply deep: material
// balance after the move from the mover's point of view, with a decided
// game scored far beyond any capture. Sorted best first.
func scoredCandidates(game *nchess.Game, noise int, r *rand.Rand) []candidate {
	mover := game.Position().Turn()
	valid := game.ValidMoves()
	cands := make([]candidate, 0, len(valid))
	for i := range valid {
		probe := game.Clone()
		if err := probe.Move(&valid[i], nil); err != nil {
			continue
		}
		score := materialBalance(probe.FEN(), mover)
		switch probe.Outcome() {
		case nchess.WhiteWon:
			score += mateBonus(mover == nchess.White)
		case nchess.BlackWon:
			score += mateBonus(mover == nchess.Black)
		}
		if noise > 0 {
			score += r.Intn(2*noise+1) - noise
		}
		cands = append(cands, candidate{Move: valid[i].String(), EvalCP: score})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].EvalCP > cands[j].EvalCP })
	return cands
}

func mateBonus(forMover bool) int {
	if forMover {
		return 100000
	}
	return -100000
}

// materialBalance reads the FEN piece placement and sums piece values from
// color's perspective.
func materialBalance(fen string, color nchess.Color) int {
	placement := strings.SplitN(fen, " ", 2)[0]
	score := 0
	for _, r := range placement {
		v, ok := pieceValues[unicode.ToLower(r)]
		if !ok {
			continue
		}
		if unicode.IsUpper(r) {
			score += v
		} else {
			score -= v
		}
	}
	if color == nchess.Black {
		score = -score
	}
	return score
}

func lastMoveUCI(game *nchess.Game) string {
	moves := game.Moves()
	if len(moves) == 0 {
		return ""
	}
	mv := moves[len(moves)-1]
	return mv.String()
}
