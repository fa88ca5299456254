package aigame

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/obslog"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

// Manager is the registry of running single-player games, keyed by an
// opaque game id.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*Session
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*Session)}
}

// Start registers a fresh game at the given level and returns its id with
// the initial board.
func (m *Manager) Start(level Level) (string, *gamedto.AIGameStatus) {
	id := uuid.NewString()
	session := newSession(id, level)

	m.mu.Lock()
	m.games[id] = session
	m.mu.Unlock()

	obslog.L().Info("ai_start",
		zap.String("game_id", id),
		zap.String("level", string(level)),
	)
	return id, session.Status()
}

// Move applies the player's move and, when the game continues, has the
// opponent answer. The returned status reflects both plies.
func (m *Manager) Move(id, notation string) (*gamedto.AIGameStatus, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if err := session.PlayerMove(notation); err != nil {
		return session.Status(), err
	}
	reply, err := session.Reply()
	if err != nil {
		return session.Status(), err
	}
	obslog.L().Info("ai_move",
		zap.String("game_id", id),
		zap.String("reply", reply),
	)
	return session.Status(), nil
}

// Undo rolls the game back one exchange.
func (m *Manager) Undo(id string) (*gamedto.AIGameStatus, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Undo(); err != nil {
		return nil, err
	}
	return session.Status(), nil
}

// Hint returns the strongest move for the side to move.
func (m *Manager) Hint(id string) (string, error) {
	session, err := m.get(id)
	if err != nil {
		return "", err
	}
	return session.Hint()
}

// Restart resets the game to the initial position, keeping its id.
func (m *Manager) Restart(id string) (*gamedto.AIGameStatus, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.Restart()
	obslog.L().Info("ai_restart", zap.String("game_id", id))
	return session.Status(), nil
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return session, nil
}
