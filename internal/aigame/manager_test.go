package aigame

import (
	"errors"
	"testing"
)

func TestManagerStartAndMove(t *testing.T) {
	m := NewManager()

	id, st := m.Start(LevelIntermediate)
	if id == "" || st == nil || st.GameOver || len(st.MoveHistory) != 0 {
		t.Fatalf("Start: id=%q status=%+v", id, st)
	}

	st, err := m.Move(id, "e2e4")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if len(st.MoveHistory) != 2 || st.CurrentTurn != "white" {
		t.Fatalf("expected player move plus reply: %+v", st)
	}
}

func TestManagerUnknownGame(t *testing.T) {
	m := NewManager()
	if _, err := m.Move("nope", "e2e4"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Move: expected ErrGameNotFound, got %v", err)
	}
	if _, err := m.Undo("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Undo: expected ErrGameNotFound, got %v", err)
	}
	if _, err := m.Hint("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Hint: expected ErrGameNotFound, got %v", err)
	}
	if _, err := m.Restart("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Restart: expected ErrGameNotFound, got %v", err)
	}
}

func TestManagerUndoAndRestart(t *testing.T) {
	m := NewManager()
	id, _ := m.Start(LevelMaster)

	if _, err := m.Move(id, "e2e4"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	st, err := m.Undo(id)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(st.MoveHistory) != 0 {
		t.Fatalf("undo left history behind: %+v", st)
	}

	if _, err := m.Move(id, "d2d4"); err != nil {
		t.Fatalf("Move after undo: %v", err)
	}
	st, err = m.Restart(id)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if len(st.MoveHistory) != 0 || st.GameOver {
		t.Fatalf("restart left state behind: %+v", st)
	}
}

func TestManagerRejectedMoveKeepsBoard(t *testing.T) {
	m := NewManager()
	id, initial := m.Start(LevelMaster)

	var invalid *InvalidMoveError
	st, err := m.Move(id, "e2e5")
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidMoveError, got %v", err)
	}
	if st.Board != initial.Board {
		t.Fatalf("rejected move changed the board")
	}
}
