package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/kenbachkhoa/chess-arena/internal/domain"
)

// PostgresStore is the relational account backend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, u *domain.User) error {
	const query = `
		INSERT INTO users (user_id, username, email, password_hash, elo, wins, losses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO NOTHING
		RETURNING user_id`

	var id sql.NullString
	err := s.db.QueryRowContext(ctx, query,
		u.UserID, u.Username, u.Email, u.PasswordHash,
		u.Elo, u.Wins, u.Losses, u.CreatedAt,
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, u *domain.User) error {
	const query = `
		UPDATE users
		SET username = $2, password_hash = $3, elo = $4, wins = $5, losses = $6
		WHERE email = $1`
	res, err := s.db.ExecContext(ctx, query,
		u.Email, u.Username, u.PasswordHash, u.Elo, u.Wins, u.Losses,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT user_id, username, email, password_hash, elo, wins, losses, created_at
		FROM users
		WHERE email = $1`

	var u domain.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&u.UserID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Elo, &u.Wins, &u.Losses, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*domain.User, error) {
	const query = `
		SELECT user_id, username, email, password_hash, elo, wins, losses, created_at
		FROM users
		ORDER BY elo DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.UserID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Elo, &u.Wins, &u.Losses, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
