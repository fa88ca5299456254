package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	JWTSecret   string
	TokenTTLSec int

	DatabaseURL string
	RedisURL    string
	UsersFile   string

	StaticDir  string
	MessageDir string

	LeaderboardLimit int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:       ":5000",
		TokenTTLSec:      24 * 3600,
		UsersFile:        "data/users.json",
		LeaderboardLimit: 100,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	} else if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.ListenAddr = ":" + v
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if v := strings.TrimSpace(os.Getenv("TOKEN_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenTTLSec = n
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if v := strings.TrimSpace(os.Getenv("USERS_FILE")); v != "" {
		cfg.UsersFile = v
	}

	cfg.StaticDir = strings.TrimSpace(os.Getenv("STATIC_DIR"))
	cfg.MessageDir = strings.TrimSpace(os.Getenv("MESSAGE_DIR"))

	if v := strings.TrimSpace(os.Getenv("LEADERBOARD_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LeaderboardLimit = n
		}
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}
