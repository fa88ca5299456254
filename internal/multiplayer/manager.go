package multiplayer

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/obslog"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

type queueEntry struct {
	userID     string
	username   string
	enqueuedAt time.Time
}

// Manager owns the three shared stores of the multiplayer subsystem: the
// room registry, the session index (userID to roomID) and the FIFO
// matchmaking queue. mu serializes every mutation across all three so a
// waiting entry can never be paired twice and an eviction can never race a
// concurrent insert. Individual rooms carry their own lock; the order is
// always manager first, then room.
type Manager struct {
	mu sync.RWMutex

	rooms    map[string]*GameRoom
	sessions map[string]string
	waiting  []queueEntry

	newValidator ValidatorFactory
}

func NewManager(factory ValidatorFactory) *Manager {
	return &Manager{
		rooms:        make(map[string]*GameRoom),
		sessions:     make(map[string]string),
		newValidator: factory,
	}
}

// CreateRoom allocates a room id, registers the room with the creator
// seated as white and binds the creator's session.
func (m *Manager) CreateRoom(creatorID, username string, mode Mode) (string, *gamedto.RoomSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var roomID string
	if mode == ModeFriends {
		code, err := m.allocFriendCode()
		if err != nil {
			return "", nil, err
		}
		roomID = code
	} else {
		roomID = uuid.NewString()
	}

	room := newRoom(roomID, mode, creatorID, m.newValidator())
	if _, err := room.AddPlayer(creatorID, username); err != nil {
		return "", nil, err
	}
	m.rooms[roomID] = room
	m.sessions[creatorID] = roomID

	obslog.L().Info("room_create",
		zap.String("room_id", roomID),
		zap.String("mode", string(mode)),
		zap.String("creator_id", creatorID),
	)
	return roomID, room.Snapshot(), nil
}

// JoinRoom seats userID in an existing waiting room and binds their session.
func (m *Manager) JoinRoom(roomID, userID, username string) (*gamedto.RoomSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Status() != StatusWaiting {
		return nil, ErrInvalidRoomState
	}
	started, err := room.AddPlayer(userID, username)
	if err != nil {
		return nil, err
	}
	m.sessions[userID] = roomID

	obslog.L().Info("room_join",
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
		zap.Bool("started", started),
	)
	return room.Snapshot(), nil
}

// FindRandomMatch pairs the caller with the oldest waiting entry, or
// enqueues the caller when nobody is waiting. Callers poll by re-invoking;
// nothing blocks server-side.
func (m *Manager) FindRandomMatch(userID, username string) (*MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opponentIdx := -1
	for i, e := range m.waiting {
		if e.userID != userID {
			opponentIdx = i
			break
		}
	}

	if opponentIdx < 0 {
		m.enqueueLocked(userID, username)
		return &MatchResult{Matched: false}, nil
	}

	opp := m.waiting[opponentIdx]
	m.waiting = append(m.waiting[:opponentIdx], m.waiting[opponentIdx+1:]...)
	m.dropFromQueueLocked(userID)

	roomID := uuid.NewString()
	room := newRoom(roomID, ModeRandom, "", m.newValidator())
	if _, err := room.AddPlayer(opp.userID, opp.username); err != nil {
		return nil, err
	}
	if _, err := room.AddPlayer(userID, username); err != nil {
		return nil, err
	}
	m.rooms[roomID] = room
	m.sessions[opp.userID] = roomID
	m.sessions[userID] = roomID

	obslog.L().Info("match_found",
		zap.String("room_id", roomID),
		zap.String("white_id", opp.userID),
		zap.String("black_id", userID),
		zap.Duration("waited", time.Since(opp.enqueuedAt)),
	)
	return &MatchResult{Matched: true, RoomID: roomID, Snapshot: room.Snapshot()}, nil
}

// CancelMatchmaking removes every queue entry for userID. Safe to call when
// no entry exists.
func (m *Manager) CancelMatchmaking(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropFromQueueLocked(userID) {
		obslog.L().Info("match_cancel", zap.String("user_id", userID))
	}
}

// MakeMove resolves the caller's active room and applies the move. When the
// move finishes the game the room is evicted at once; the returned snapshot
// is the caller's only view of the final board. On a rejected move the
// pre-move snapshot accompanies the error.
func (m *Manager) MakeMove(userID, move string) (*gamedto.RoomSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	err := room.MakeMove(userID, move)
	snap := room.Snapshot()
	if err != nil {
		return snap, err
	}

	if room.Finished() {
		m.cleanupRoomLocked(roomID)
	}
	obslog.L().Info("move_applied",
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
		zap.String("status", snap.Status),
		zap.String("winner", snap.Winner),
	)
	return snap, nil
}

// LeaveRoom unseats the caller and unconditionally clears their session.
// The room is evicted the instant it becomes empty.
func (m *Manager) LeaveRoom(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.sessions[userID]
	if !ok {
		return ErrNoActiveSession
	}
	room, ok := m.rooms[roomID]
	if !ok {
		delete(m.sessions, userID)
		return ErrNoActiveSession
	}

	outcome := room.RemovePlayer(userID)
	delete(m.sessions, userID)
	if outcome == RoomEmptied {
		m.cleanupRoomLocked(roomID)
	}
	obslog.L().Info("room_leave",
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
		zap.String("outcome", string(outcome)),
	)
	return nil
}

// GetRoom returns a snapshot of the room, or ErrRoomNotFound once it has
// been evicted.
func (m *Manager) GetRoom(roomID string) (*gamedto.RoomSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

// cleanupRoomLocked drops the room and every former member's session entry
// in one step. Callers must hold the write lock; no lookup can observe a
// half-cleaned room.
func (m *Manager) cleanupRoomLocked(roomID string) {
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	for _, uid := range room.PlayerIDs() {
		delete(m.sessions, uid)
	}
	delete(m.rooms, roomID)
	obslog.L().Info("room_cleanup", zap.String("room_id", roomID))
}

func (m *Manager) enqueueLocked(userID, username string) {
	for _, e := range m.waiting {
		if e.userID == userID {
			return
		}
	}
	m.waiting = append(m.waiting, queueEntry{
		userID:     userID,
		username:   username,
		enqueuedAt: time.Now(),
	})
	obslog.L().Info("match_enqueue", zap.String("user_id", userID), zap.Int("queue_len", len(m.waiting)))
}

func (m *Manager) dropFromQueueLocked(userID string) bool {
	kept := m.waiting[:0]
	dropped := false
	for _, e := range m.waiting {
		if e.userID == userID {
			dropped = true
			continue
		}
		kept = append(kept, e)
	}
	m.waiting = kept
	return dropped
}

// allocFriendCode draws 6-digit codes over '1'..'9' until one is free.
func (m *Manager) allocFriendCode() (string, error) {
	for i := 0; i < 10; i++ {
		code, err := friendCode()
		if err != nil {
			return "", err
		}
		if _, taken := m.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate room code")
}

func friendCode() (string, error) {
	const digits = "123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b), nil
}
