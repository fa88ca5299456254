package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/domain"
	"github.com/kenbachkhoa/chess-arena/internal/obslog"
)

// DefaultElo is assigned when a registration carries no rating.
const DefaultElo = 1000

// eloK scales the rating exchange after a decisive game.
const eloK = 32

// Claims is the signed token payload handed back to clients on login.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Elo      int    `json:"elo"`
	jwt.RegisteredClaims
}

// Manager implements registration, login and leaderboard over any UserStore.
type Manager struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewManager(store UserStore, secret string, tokenTTL time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Register creates a new account keyed by email.
func (m *Manager) Register(ctx context.Context, username, email, password string, elo int) (*domain.User, error) {
	if elo <= 0 {
		elo = DefaultElo
	}
	u := &domain.User{
		UserID:       uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashPassword(password),
		Elo:          elo,
		CreatedAt:    time.Now(),
	}
	if err := m.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	obslog.L().Info("user_register", zap.String("user_id", u.UserID), zap.String("username", u.Username))
	return u, nil
}

// Login verifies credentials and issues a signed token.
func (m *Manager) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := m.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUserNotFound
	}
	if u.PasswordHash != hashPassword(password) {
		return "", nil, ErrBadPassword
	}

	now := time.Now()
	claims := &Claims{
		UserID:   u.UserID,
		Email:    u.Email,
		Username: u.Username,
		Elo:      u.Elo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	obslog.L().Info("user_login", zap.String("user_id", u.UserID))
	return token, u, nil
}

// VerifyToken parses a signed token and returns its claims.
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Profile returns the account for email, or ErrUserNotFound.
func (m *Manager) Profile(ctx context.Context, email string) (*domain.User, error) {
	u, err := m.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// RecordResult credits a decisive game: the winner gains a win and rating,
// the loser the mirror. The exchange follows the standard expected-score
// formula with a fixed K factor.
func (m *Manager) RecordResult(ctx context.Context, winnerID, loserID string) error {
	users, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	var winner, loser *domain.User
	for _, u := range users {
		switch u.UserID {
		case winnerID:
			winner = u
		case loserID:
			loser = u
		}
	}
	if winner == nil || loser == nil {
		return ErrUserNotFound
	}

	expected := 1 / (1 + math.Pow(10, float64(loser.Elo-winner.Elo)/400))
	delta := int(math.Round(eloK * (1 - expected)))
	winner.Elo += delta
	winner.Wins++
	loser.Elo -= delta
	loser.Losses++

	if err := m.store.Update(ctx, winner); err != nil {
		return err
	}
	if err := m.store.Update(ctx, loser); err != nil {
		return err
	}
	obslog.L().Info("result_recorded",
		zap.String("winner_id", winner.UserID),
		zap.String("loser_id", loser.UserID),
		zap.Int("elo_delta", delta),
	)
	return nil
}

// Leaderboard lists the top accounts by ELO, descending.
func (m *Manager) Leaderboard(ctx context.Context, limit int) ([]*domain.User, error) {
	users, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Elo != users[j].Elo {
			return users[i].Elo > users[j].Elo
		}
		return users[i].Username < users[j].Username
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
