package multiplayer

import (
	"sync"
	"time"

	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

// GameRoom is a single pairing's state machine: two seats, turn order, move
// log and terminal outcome. All fields are guarded by mu; when the owning
// manager also locks, the order is always manager first, then room.
type GameRoom struct {
	mu sync.Mutex

	id        string
	mode      Mode
	creatorID string
	players   map[string]*Player
	status    RoomStatus
	turn      Color
	winner    string
	history   []MoveEntry
	createdAt time.Time
	validator Validator
}

func newRoom(id string, mode Mode, creatorID string, v Validator) *GameRoom {
	return &GameRoom{
		id:        id,
		mode:      mode,
		creatorID: creatorID,
		players:   make(map[string]*Player, 2),
		status:    StatusWaiting,
		turn:      White,
		createdAt: time.Now(),
		validator: v,
	}
}

// AddPlayer seats a player. The first joiner is white, the second black;
// the room starts playing exactly when the second seat fills. started
// reports whether this call triggered the transition.
func (r *GameRoom) AddPlayer(userID, username string) (started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= 2 {
		return false, ErrRoomFull
	}
	color := White
	if len(r.players) == 1 {
		color = Black
	}
	r.players[userID] = &Player{
		UserID:    userID,
		Username:  username,
		Color:     color,
		Connected: true,
	}
	if len(r.players) == 2 {
		r.status = StatusPlaying
		return true, nil
	}
	return false, nil
}

// RemovePlayer unseats a player if present and reports whether the room is
// now empty.
func (r *GameRoom) RemovePlayer(userID string) RemoveOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[userID]; !ok {
		return PlayerNotFound
	}
	delete(r.players, userID)
	if len(r.players) == 0 {
		return RoomEmptied
	}
	return PlayerRemoved
}

// MakeMove applies one move for userID. Preconditions are checked in order:
// the game must be playing, then it must be the caller's turn. A Validator
// rejection leaves every field untouched and surfaces the reason verbatim.
func (r *GameRoom) MakeMove(userID, move string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return ErrGameNotActive
	}
	p, ok := r.players[userID]
	if !ok || p.Color != r.turn {
		return ErrNotYourTurn
	}

	accepted, reason := r.validator.SubmitMove(move)
	if !accepted {
		return &InvalidMoveError{Reason: reason}
	}

	r.history = append(r.history, MoveEntry{
		Move:      move,
		PlayerID:  userID,
		Username:  p.Username,
		Timestamp: time.Now(),
	})
	r.turn = r.turn.Opposite()

	if v := r.validator.Status(); v.GameOver {
		r.status = StatusFinished
		if v.Winner != "" {
			for uid, pl := range r.players {
				if pl.Color == v.Winner {
					r.winner = uid
					break
				}
			}
		}
	}
	return nil
}

// Snapshot assembles an atomic wire view of the room. Players are listed in
// join order (white before black).
func (r *GameRoom) Snapshot() *gamedto.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]gamedto.PlayerInfo, 0, len(r.players))
	for _, color := range []Color{White, Black} {
		for _, p := range r.players {
			if p.Color == color {
				players = append(players, gamedto.PlayerInfo{
					UserID:    p.UserID,
					Username:  p.Username,
					Color:     string(p.Color),
					Connected: p.Connected,
				})
			}
		}
	}

	history := make([]gamedto.MoveRecord, 0, len(r.history))
	for _, e := range r.history {
		history = append(history, gamedto.MoveRecord{
			Move:      e.Move,
			Player:    e.PlayerID,
			Username:  e.Username,
			Timestamp: e.Timestamp.Format(time.RFC3339),
		})
	}

	return &gamedto.RoomSnapshot{
		RoomID:      r.id,
		Mode:        string(r.mode),
		Status:      string(r.status),
		Players:     players,
		CurrentTurn: string(r.turn),
		Board:       r.validator.Board(),
		GameOver:    r.validator.Status().GameOver,
		Winner:      r.winner,
		MoveHistory: history,
	}
}

// Status returns the current lifecycle state.
func (r *GameRoom) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Finished reports whether the room reached its terminal state.
func (r *GameRoom) Finished() bool {
	return r.Status() == StatusFinished
}

// PlayerIDs lists the user ids currently seated.
func (r *GameRoom) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.players))
	for uid := range r.players {
		ids = append(ids, uid)
	}
	return ids
}
