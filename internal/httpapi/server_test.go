package httpapi

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/kenbachkhoa/chess-arena/internal/aigame"
	"github.com/kenbachkhoa/chess-arena/internal/auth"
	"github.com/kenbachkhoa/chess-arena/internal/config"
	"github.com/kenbachkhoa/chess-arena/internal/engine"
	"github.com/kenbachkhoa/chess-arena/internal/msgcat"
	"github.com/kenbachkhoa/chess-arena/internal/multiplayer"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

func newTestServer(t *testing.T) fasthttp.RequestHandler {
	t.Helper()
	store, err := auth.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	msgs, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	cfg := &config.AppConfig{JWTSecret: "test-secret", LeaderboardLimit: 100}
	authMgr := auth.NewManager(store, cfg.JWTSecret, time.Hour)
	gameMgr := multiplayer.NewManager(engine.NewValidator)
	return NewServer(cfg, authMgr, gameMgr, aigame.NewManager(), msgs).Handler()
}

func doRequest(t *testing.T, handler fasthttp.RequestHandler, method, path, token string, body any, out any) int {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(raw)
	}
	handler(ctx)
	if out != nil {
		if err := json.Unmarshal(ctx.Response.Body(), out); err != nil {
			t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
		}
	}
	return ctx.Response.StatusCode()
}

func registerAndLogin(t *testing.T, handler fasthttp.RequestHandler, username, email string) string {
	t.Helper()
	var reg gamedto.AuthResponse
	code := doRequest(t, handler, fasthttp.MethodPost, "/api/register", "", gamedto.RegisterRequest{
		Username: username, Email: email, Password: "pw",
	}, &reg)
	if code != fasthttp.StatusCreated || !reg.Success {
		t.Fatalf("register %s: code=%d resp=%+v", username, code, reg)
	}
	var login gamedto.AuthResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/login", "", gamedto.LoginRequest{
		Email: email, Password: "pw",
	}, &login)
	if code != fasthttp.StatusOK || login.Token == "" {
		t.Fatalf("login %s: code=%d resp=%+v", username, code, login)
	}
	return login.Token
}

func TestFullGameFlow(t *testing.T) {
	handler := newTestServer(t)
	alice := registerAndLogin(t, handler, "alice", "alice@example.com")
	bob := registerAndLogin(t, handler, "bob", "bob@example.com")

	var created gamedto.RoomResponse
	code := doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/create-room", alice,
		gamedto.CreateRoomRequest{Mode: "friends"}, &created)
	if code != fasthttp.StatusOK || !created.Success || created.RoomID == "" {
		t.Fatalf("create-room: code=%d resp=%+v", code, created)
	}
	if created.Room.Status != "waiting" {
		t.Fatalf("new room should be waiting: %+v", created.Room)
	}

	var joined gamedto.RoomResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/join-room", bob,
		gamedto.JoinRoomRequest{RoomID: created.RoomID}, &joined)
	if code != fasthttp.StatusOK || !joined.Success {
		t.Fatalf("join-room: code=%d resp=%+v", code, joined)
	}
	if joined.Room.Status != "playing" || len(joined.Room.Players) != 2 {
		t.Fatalf("room should be playing with 2 players: %+v", joined.Room)
	}

	// black may not move first
	var rejected gamedto.RoomResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/make-move", bob,
		gamedto.MoveRequest{Move: "e7e5"}, &rejected)
	if code != fasthttp.StatusBadRequest || rejected.Success {
		t.Fatalf("out-of-turn move: code=%d resp=%+v", code, rejected)
	}

	var moved gamedto.RoomResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/make-move", alice,
		gamedto.MoveRequest{Move: "e2e4"}, &moved)
	if code != fasthttp.StatusOK || !moved.Success {
		t.Fatalf("make-move: code=%d resp=%+v", code, moved)
	}
	if moved.Room.CurrentTurn != "black" || len(moved.Room.MoveHistory) != 1 {
		t.Fatalf("move not reflected: %+v", moved.Room)
	}

	var fetched gamedto.RoomResponse
	code = doRequest(t, handler, fasthttp.MethodGet, "/api/multiplayer/get-room/"+created.RoomID, "", nil, &fetched)
	if code != fasthttp.StatusOK || fetched.Room.Board == "" {
		t.Fatalf("get-room: code=%d resp=%+v", code, fetched)
	}
}

func TestMultiplayerRequiresToken(t *testing.T) {
	handler := newTestServer(t)
	var resp map[string]any
	code := doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/create-room", "",
		gamedto.CreateRoomRequest{Mode: "friends"}, &resp)
	if code != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d (%+v)", code, resp)
	}

	code = doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/create-room", "garbage-token",
		gamedto.CreateRoomRequest{Mode: "friends"}, &resp)
	if code != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d (%+v)", code, resp)
	}
}

func TestMatchmakingFlowOverHTTP(t *testing.T) {
	handler := newTestServer(t)
	alice := registerAndLogin(t, handler, "alice", "alice@example.com")
	bob := registerAndLogin(t, handler, "bob", "bob@example.com")

	var waiting gamedto.MatchResponse
	code := doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/find-random", alice, nil, &waiting)
	if code != fasthttp.StatusOK || waiting.Matched || waiting.Status != "waiting_for_opponent" {
		t.Fatalf("first poll: code=%d resp=%+v", code, waiting)
	}

	var matched gamedto.MatchResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/find-random", bob, nil, &matched)
	if code != fasthttp.StatusOK || !matched.Matched || matched.RoomID == "" {
		t.Fatalf("second poll: code=%d resp=%+v", code, matched)
	}
	if len(matched.Room.Players) != 2 || matched.Room.Status != "playing" {
		t.Fatalf("matched room malformed: %+v", matched.Room)
	}
}

func TestFinishedGameUpdatesLeaderboard(t *testing.T) {
	handler := newTestServer(t)
	alice := registerAndLogin(t, handler, "alice", "alice@example.com")
	bob := registerAndLogin(t, handler, "bob", "bob@example.com")

	var created gamedto.RoomResponse
	doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/create-room", alice,
		gamedto.CreateRoomRequest{Mode: "friends"}, &created)
	doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/join-room", bob,
		gamedto.JoinRoomRequest{RoomID: created.RoomID}, nil)

	// fastest mate: alice (white) walks into it, bob (black) delivers
	for _, step := range []struct {
		token string
		move  string
	}{
		{alice, "f2f3"}, {bob, "e7e5"}, {alice, "g2g4"}, {bob, "d8h4"},
	} {
		var resp gamedto.RoomResponse
		code := doRequest(t, handler, fasthttp.MethodPost, "/api/multiplayer/make-move", step.token,
			gamedto.MoveRequest{Move: step.move}, &resp)
		if code != fasthttp.StatusOK || !resp.Success {
			t.Fatalf("move %s: code=%d resp=%+v", step.move, code, resp)
		}
	}

	var lb gamedto.LeaderboardResponse
	code := doRequest(t, handler, fasthttp.MethodGet, "/api/leaderboard", "", nil, &lb)
	if code != fasthttp.StatusOK || len(lb.Leaderboard) != 2 {
		t.Fatalf("leaderboard: code=%d resp=%+v", code, lb)
	}
	top := lb.Leaderboard[0]
	if top.Username != "bob" || top.Wins != 1 || top.Elo <= lb.Leaderboard[1].Elo {
		t.Fatalf("winner not credited: %+v", lb.Leaderboard)
	}
	if lb.Leaderboard[1].Losses != 1 {
		t.Fatalf("loser not debited: %+v", lb.Leaderboard)
	}
}

func TestAIGameFlow(t *testing.T) {
	handler := newTestServer(t)

	var started gamedto.AIStartResponse
	code := doRequest(t, handler, fasthttp.MethodPost, "/api/start_ai", "",
		gamedto.AIStartRequest{Level: "master"}, &started)
	if code != fasthttp.StatusOK || started.GameID == "" || started.Status == nil {
		t.Fatalf("start_ai: code=%d resp=%+v", code, started)
	}

	var status gamedto.AIGameStatus
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_move/"+started.GameID, "",
		gamedto.AIMoveRequest{UCI: "e2e4"}, &status)
	if code != fasthttp.StatusOK || len(status.MoveHistory) != 2 || status.CurrentTurn != "white" {
		t.Fatalf("ai_move: code=%d resp=%+v", code, status)
	}

	var hint gamedto.AIHintResponse
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_controls/"+started.GameID, "",
		gamedto.AIControlRequest{Action: "hint"}, &hint)
	if code != fasthttp.StatusOK || hint.Hint == "" {
		t.Fatalf("hint: code=%d resp=%+v", code, hint)
	}

	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_controls/"+started.GameID, "",
		gamedto.AIControlRequest{Action: "undo"}, &status)
	if code != fasthttp.StatusOK || len(status.MoveHistory) != 0 {
		t.Fatalf("undo: code=%d resp=%+v", code, status)
	}

	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_controls/"+started.GameID, "",
		gamedto.AIControlRequest{Action: "restart"}, &status)
	if code != fasthttp.StatusOK || status.GameOver {
		t.Fatalf("restart: code=%d resp=%+v", code, status)
	}

	var failure map[string]any
	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_controls/"+started.GameID, "",
		gamedto.AIControlRequest{Action: "teleport"}, &failure)
	if code != fasthttp.StatusBadRequest {
		t.Fatalf("invalid action: code=%d resp=%+v", code, failure)
	}

	code = doRequest(t, handler, fasthttp.MethodPost, "/api/ai_move/missing", "",
		gamedto.AIMoveRequest{UCI: "e2e4"}, &failure)
	if code != fasthttp.StatusNotFound {
		t.Fatalf("unknown game: code=%d resp=%+v", code, failure)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	handler := newTestServer(t)
	registerAndLogin(t, handler, "alice", "alice@example.com")
	registerAndLogin(t, handler, "bob", "bob@example.com")

	var resp gamedto.LeaderboardResponse
	code := doRequest(t, handler, fasthttp.MethodGet, "/api/leaderboard?limit=10", "", nil, &resp)
	if code != fasthttp.StatusOK || !resp.Success || len(resp.Leaderboard) != 2 {
		t.Fatalf("leaderboard: code=%d resp=%+v", code, resp)
	}
}
