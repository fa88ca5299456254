// Package httpapi is the HTTP/JSON boundary: it authenticates bearer
// tokens, marshals requests into the auth and multiplayer managers and
// serializes their snapshots back out.
package httpapi

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/aigame"
	"github.com/kenbachkhoa/chess-arena/internal/auth"
	"github.com/kenbachkhoa/chess-arena/internal/config"
	"github.com/kenbachkhoa/chess-arena/internal/msgcat"
	"github.com/kenbachkhoa/chess-arena/internal/multiplayer"
	"github.com/kenbachkhoa/chess-arena/internal/obslog"
)

const (
	roomPathPrefix   = "/api/multiplayer/get-room/"
	aiMovePrefix     = "/api/ai_move/"
	aiControlsPrefix = "/api/ai_controls/"
)

type Server struct {
	cfg    *config.AppConfig
	auth   *auth.Manager
	games  *multiplayer.Manager
	ai     *aigame.Manager
	msgs   *msgcat.Catalog
	static fasthttp.RequestHandler
}

func NewServer(cfg *config.AppConfig, authMgr *auth.Manager, gameMgr *multiplayer.Manager, aiMgr *aigame.Manager, msgs *msgcat.Catalog) *Server {
	s := &Server{cfg: cfg, auth: authMgr, games: gameMgr, ai: aiMgr, msgs: msgs}
	if cfg.StaticDir != "" {
		fs := &fasthttp.FS{
			Root:       cfg.StaticDir,
			IndexNames: []string{"index.html"},
		}
		s.static = fs.NewRequestHandler()
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &fasthttp.Server{
		Handler: s.Handler(),
		Name:    "chess-arena",
	}
	obslog.L().Info("http_listen", zap.String("addr", addr))
	return srv.ListenAndServe(addr)
}

func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch {
		case path == "/api/health" && method == fasthttp.MethodGet:
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		case path == "/api/register" && method == fasthttp.MethodPost:
			s.handleRegister(ctx)
		case path == "/api/login" && method == fasthttp.MethodPost:
			s.handleLogin(ctx)
		case path == "/api/validate-token" && method == fasthttp.MethodGet:
			s.handleValidateToken(ctx)
		case path == "/api/profile" && method == fasthttp.MethodGet:
			s.handleProfile(ctx)
		case path == "/api/leaderboard" && method == fasthttp.MethodGet:
			s.handleLeaderboard(ctx)
		case path == "/api/multiplayer/create-room" && method == fasthttp.MethodPost:
			s.handleCreateRoom(ctx)
		case path == "/api/multiplayer/join-room" && method == fasthttp.MethodPost:
			s.handleJoinRoom(ctx)
		case path == "/api/multiplayer/find-random" && method == fasthttp.MethodPost:
			s.handleFindRandom(ctx)
		case path == "/api/multiplayer/cancel-matchmaking" && method == fasthttp.MethodPost:
			s.handleCancelMatchmaking(ctx)
		case path == "/api/multiplayer/make-move" && method == fasthttp.MethodPost:
			s.handleMakeMove(ctx)
		case path == "/api/multiplayer/leave-room" && method == fasthttp.MethodPost:
			s.handleLeaveRoom(ctx)
		case strings.HasPrefix(path, roomPathPrefix) && method == fasthttp.MethodGet:
			s.handleGetRoom(ctx, strings.TrimPrefix(path, roomPathPrefix))
		case path == "/api/start_ai" && method == fasthttp.MethodPost:
			s.handleStartAI(ctx)
		case strings.HasPrefix(path, aiMovePrefix) && method == fasthttp.MethodPost:
			s.handleAIMove(ctx, strings.TrimPrefix(path, aiMovePrefix))
		case strings.HasPrefix(path, aiControlsPrefix) && method == fasthttp.MethodPost:
			s.handleAIControls(ctx, strings.TrimPrefix(path, aiControlsPrefix))
		default:
			if s.static != nil && method == fasthttp.MethodGet {
				s.static(ctx)
				return
			}
			writeJSON(ctx, fasthttp.StatusNotFound, map[string]string{"error": "not found"})
		}
	}
}

// identity verifies the bearer token and hands back the trusted
// (userId, username) claims; on failure it writes 401 and returns nil.
func (s *Server) identity(ctx *fasthttp.RequestCtx) *auth.Claims {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		writeError(ctx, fasthttp.StatusUnauthorized, s.msgs.Get("auth.token_missing"))
		return nil
	}
	token := header
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		token = strings.TrimSpace(parts[1])
	}
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnauthorized, s.msgs.Get("auth.token_invalid"))
		return nil
	}
	return claims
}

func readJSON(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success":false,"message":"internal error"}`)
		return
	}
	ctx.SetBody(raw)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]any{"success": false, "message": message})
}

// gameMessage maps core error kinds to catalog messages. Validator
// rejections pass through verbatim.
func (s *Server) gameMessage(err error) (int, string) {
	var invalid *multiplayer.InvalidMoveError
	switch {
	case errors.As(err, &invalid):
		return fasthttp.StatusBadRequest, invalid.Reason
	case errors.Is(err, multiplayer.ErrRoomNotFound):
		return fasthttp.StatusNotFound, s.msgs.Get("room.not_found")
	case errors.Is(err, multiplayer.ErrNoActiveSession):
		return fasthttp.StatusNotFound, s.msgs.Get("move.no_session")
	case errors.Is(err, multiplayer.ErrRoomFull):
		return fasthttp.StatusBadRequest, s.msgs.Get("room.full")
	case errors.Is(err, multiplayer.ErrInvalidRoomState):
		return fasthttp.StatusBadRequest, s.msgs.Get("room.not_waiting")
	case errors.Is(err, multiplayer.ErrNotYourTurn):
		return fasthttp.StatusBadRequest, s.msgs.Get("move.not_your_turn")
	case errors.Is(err, multiplayer.ErrGameNotActive):
		return fasthttp.StatusBadRequest, s.msgs.Get("move.not_active")
	default:
		return fasthttp.StatusInternalServerError, err.Error()
	}
}
