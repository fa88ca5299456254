package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/kenbachkhoa/chess-arena/internal/domain"
)

// RedisStore is the remote-document account backend: one JSON value per
// account plus an email index set.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb}, nil
}

func keyUser(email string) string { return "user:" + strings.TrimSpace(email) }

const keyIndex = "users:index"

func (s *RedisStore) Insert(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, keyUser(u.Email), raw, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrEmailTaken
	}
	return s.rdb.SAdd(ctx, keyIndex, u.Email).Err()
}

func (s *RedisStore) Update(ctx context.Context, u *domain.User) error {
	exists, err := s.rdb.Exists(ctx, keyUser(u.Email)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrUserNotFound
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyUser(u.Email), raw, 0).Err()
}

func (s *RedisStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	raw, err := s.rdb.Get(ctx, keyUser(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*domain.User, error) {
	emails, err := s.rdb.SMembers(ctx, keyIndex).Result()
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(emails))
	for _, email := range emails {
		u, err := s.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
