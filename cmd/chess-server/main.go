package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/aigame"
	"github.com/kenbachkhoa/chess-arena/internal/auth"
	appcfg "github.com/kenbachkhoa/chess-arena/internal/config"
	"github.com/kenbachkhoa/chess-arena/internal/engine"
	"github.com/kenbachkhoa/chess-arena/internal/httpapi"
	"github.com/kenbachkhoa/chess-arena/internal/msgcat"
	"github.com/kenbachkhoa/chess-arena/internal/multiplayer"
	"github.com/kenbachkhoa/chess-arena/internal/obslog"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	msgs, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	store, err := selectStore(cfg)
	if err != nil {
		log.Fatalf("user store init error: %v", err)
	}

	authMgr := auth.NewManager(store, cfg.JWTSecret, time.Duration(cfg.TokenTTLSec)*time.Second)
	gameMgr := multiplayer.NewManager(engine.NewValidator)
	aiMgr := aigame.NewManager()
	srv := httpapi.NewServer(cfg, authMgr, gameMgr, aiMgr, msgs)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.ListenAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		obslog.L().Info("shutdown", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	_ = store.Close()
}

// selectStore picks the account backend: relational when DATABASE_URL is
// set, remote-document when REDIS_URL is set, local JSON file otherwise.
func selectStore(cfg *appcfg.AppConfig) (auth.UserStore, error) {
	switch {
	case cfg.DatabaseURL != "":
		obslog.L().Info("user_store", zap.String("backend", "postgres"))
		return auth.NewPostgresStore(cfg.DatabaseURL)
	case cfg.RedisURL != "":
		obslog.L().Info("user_store", zap.String("backend", "redis"))
		return auth.NewRedisStore(cfg.RedisURL)
	default:
		obslog.L().Info("user_store", zap.String("backend", "file"), zap.String("path", cfg.UsersFile))
		return auth.NewFileStore(cfg.UsersFile)
	}
}
