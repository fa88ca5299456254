package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/kenbachkhoa/chess-arena/internal/auth"
	"github.com/kenbachkhoa/chess-arena/internal/domain"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

func (s *Server) handleRegister(ctx *fasthttp.RequestCtx) {
	var req gamedto.RegisterRequest
	if !readJSON(ctx, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(ctx, fasthttp.StatusBadRequest, s.msgs.Get("auth.missing_fields"))
		return
	}
	u, err := s.auth.Register(ctx, req.Username, req.Email, req.Password, req.Elo)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(ctx, fasthttp.StatusBadRequest, s.msgs.Get("auth.email_taken"))
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, gamedto.AuthResponse{
		Success: true,
		Message: s.msgs.Get("auth.register_ok"),
		User:    toProfile(u),
	})
}

func (s *Server) handleLogin(ctx *fasthttp.RequestCtx) {
	var req gamedto.LoginRequest
	if !readJSON(ctx, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(ctx, fasthttp.StatusBadRequest, s.msgs.Get("auth.missing_fields"))
		return
	}
	token, u, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(ctx, fasthttp.StatusUnauthorized, s.msgs.Get("auth.user_not_found"))
		case errors.Is(err, auth.ErrBadPassword):
			writeError(ctx, fasthttp.StatusUnauthorized, s.msgs.Get("auth.bad_password"))
		default:
			writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.AuthResponse{
		Success: true,
		Message: s.msgs.Get("auth.login_ok"),
		Token:   token,
		User:    toProfile(u),
	})
}

func (s *Server) handleValidateToken(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.AuthResponse{
		Success: true,
		User: &gamedto.UserProfile{
			UserID:   claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			Elo:      claims.Elo,
		},
	})
}

func (s *Server) handleProfile(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	u, err := s.auth.Profile(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, s.msgs.Get("auth.user_not_found"))
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.AuthResponse{Success: true, User: toProfile(u)})
}

func (s *Server) handleLeaderboard(ctx *fasthttp.RequestCtx) {
	limit := s.cfg.LeaderboardLimit
	if v := string(ctx.QueryArgs().Peek("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	users, err := s.auth.Leaderboard(ctx, limit)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	rows := make([]gamedto.LeaderboardRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, gamedto.LeaderboardRow{
			Username: u.Username,
			Elo:      u.Elo,
			Wins:     u.Wins,
			Losses:   u.Losses,
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.LeaderboardResponse{Success: true, Leaderboard: rows})
}

func toProfile(u *domain.User) *gamedto.UserProfile {
	return &gamedto.UserProfile{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Elo:      u.Elo,
		Wins:     u.Wins,
		Losses:   u.Losses,
	}
}
