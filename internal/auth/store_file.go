package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kenbachkhoa/chess-arena/internal/domain"
)

// FileStore keeps accounts in a single JSON document keyed by email, the
// same layout the hosted document backend uses. The whole map is rewritten
// on every mutation; fine for the account volumes this serves.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]*domain.User
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, users: make(map[string]*domain.User)}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return s, nil
}

func (s *FileStore) Insert(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.Email]; exists {
		return ErrEmailTaken
	}
	cp := *u
	s.users[u.Email] = &cp
	return s.saveLocked()
}

func (s *FileStore) Update(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.Email]; !exists {
		return ErrUserNotFound
	}
	cp := *u
	s.users[u.Email] = &cp
	return s.saveLocked()
}

func (s *FileStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *FileStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) saveLocked() error {
	raw, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}
