package multiplayer

import (
	"errors"
	"testing"
)

// scriptValidator accepts every move and reacts to a few magic notations so
// tests can steer the oracle without a real rules engine.
type scriptValidator struct {
	verdict Verdict
	moves   []string
}

func (v *scriptValidator) SubmitMove(n string) (bool, string) {
	switch n {
	case "bad":
		return false, "invalid move: bad"
	case "mate-white":
		v.verdict = Verdict{GameOver: true, Winner: White}
	case "mate-black":
		v.verdict = Verdict{GameOver: true, Winner: Black}
	case "stalemate":
		v.verdict = Verdict{GameOver: true}
	}
	v.moves = append(v.moves, n)
	return true, ""
}

func (v *scriptValidator) Status() Verdict { return v.verdict }
func (v *scriptValidator) Board() string { return "board" }

func newScriptFactory() ValidatorFactory {
	return func() Validator { return &scriptValidator{} }
}

func newTestRoom(t *testing.T) *GameRoom {
	t.Helper()
	return newRoom("123456", ModeFriends, "u1", &scriptValidator{})
}

func TestAddPlayerAssignsColorsByJoinOrder(t *testing.T) {
	r := newTestRoom(t)

	started, err := r.AddPlayer("u1", "alice")
	if err != nil || started {
		t.Fatalf("first AddPlayer: started=%v err=%v", started, err)
	}
	if r.Status() != StatusWaiting {
		t.Fatalf("expected waiting after first join, got %s", r.Status())
	}

	started, err = r.AddPlayer("u2", "bob")
	if err != nil || !started {
		t.Fatalf("second AddPlayer: started=%v err=%v", started, err)
	}
	if r.Status() != StatusPlaying {
		t.Fatalf("expected playing after second join, got %s", r.Status())
	}

	snap := r.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
	if snap.Players[0].Username != "alice" || snap.Players[0].Color != "white" {
		t.Fatalf("first joiner should be white: %+v", snap.Players[0])
	}
	if snap.Players[1].Username != "bob" || snap.Players[1].Color != "black" {
		t.Fatalf("second joiner should be black: %+v", snap.Players[1])
	}
}

func TestAddPlayerRoomFull(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")
	r.AddPlayer("u2", "bob")
	if _, err := r.AddPlayer("u3", "carol"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if got := len(r.Snapshot().Players); got != 2 {
		t.Fatalf("player count changed on rejected join: %d", got)
	}
}

func TestRemovePlayerOutcomes(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")
	r.AddPlayer("u2", "bob")

	if out := r.RemovePlayer("nobody"); out != PlayerNotFound {
		t.Fatalf("expected not_found, got %s", out)
	}
	if out := r.RemovePlayer("u1"); out != PlayerRemoved {
		t.Fatalf("expected removed, got %s", out)
	}
	if out := r.RemovePlayer("u2"); out != RoomEmptied {
		t.Fatalf("expected empty, got %s", out)
	}
}

func TestMakeMovePreconditions(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")

	if err := r.MakeMove("u1", "e2e4"); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("expected ErrGameNotActive while waiting, got %v", err)
	}

	r.AddPlayer("u2", "bob")
	if err := r.MakeMove("u2", "e7e5"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn for black on white's turn, got %v", err)
	}
	if snap := r.Snapshot(); snap.CurrentTurn != "white" || len(snap.MoveHistory) != 0 {
		t.Fatalf("rejected move mutated state: %+v", snap)
	}
}

func TestMakeMoveAcceptedFlipsTurn(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")
	r.AddPlayer("u2", "bob")

	if err := r.MakeMove("u1", "e2e4"); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	snap := r.Snapshot()
	if snap.CurrentTurn != "black" {
		t.Fatalf("expected black to move, got %s", snap.CurrentTurn)
	}
	if len(snap.MoveHistory) != 1 || snap.MoveHistory[0].Move != "e2e4" || snap.MoveHistory[0].Player != "u1" {
		t.Fatalf("unexpected history: %+v", snap.MoveHistory)
	}
}

func TestMakeMoveRejectionIsVerbatimAndSideEffectFree(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")
	r.AddPlayer("u2", "bob")

	err := r.MakeMove("u1", "bad")
	var invalid *InvalidMoveError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidMoveError, got %v", err)
	}
	if invalid.Reason != "invalid move: bad" {
		t.Fatalf("rejection reason not passed through verbatim: %q", invalid.Reason)
	}
	snap := r.Snapshot()
	if snap.CurrentTurn != "white" || len(snap.MoveHistory) != 0 || snap.Status != "playing" {
		t.Fatalf("rejected move mutated state: %+v", snap)
	}
}

func TestMakeMoveTerminalResolvesWinner(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice") // white
	r.AddPlayer("u2", "bob")   // black

	if err := r.MakeMove("u1", "mate-white"); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	snap := r.Snapshot()
	if snap.Status != "finished" || !snap.GameOver {
		t.Fatalf("expected finished room, got %+v", snap)
	}
	if snap.Winner != "u1" {
		t.Fatalf("winner should be the white player u1, got %q", snap.Winner)
	}
}

func TestMakeMoveDrawLeavesWinnerUnset(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("u1", "alice")
	r.AddPlayer("u2", "bob")

	if err := r.MakeMove("u1", "stalemate"); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	snap := r.Snapshot()
	if snap.Status != "finished" || snap.Winner != "" {
		t.Fatalf("draw must finish without a winner: %+v", snap)
	}
}
