package httpapi

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kenbachkhoa/chess-arena/internal/multiplayer"
	"github.com/kenbachkhoa/chess-arena/internal/obslog"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

// waitingStatus is the legacy wire value clients poll against.
const waitingStatus = "waiting_for_opponent"

func (s *Server) handleCreateRoom(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	var req gamedto.CreateRoomRequest
	if !readJSON(ctx, &req) {
		return
	}
	roomID, snap, err := s.games.CreateRoom(claims.UserID, claims.Username, multiplayer.ParseMode(req.Mode))
	if err != nil {
		status, msg := s.gameMessage(err)
		writeError(ctx, status, msg)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.RoomResponse{
		Success: true,
		Message: s.msgs.Get("room.created"),
		RoomID:  roomID,
		Room:    snap,
	})
}

func (s *Server) handleJoinRoom(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	var req gamedto.JoinRoomRequest
	if !readJSON(ctx, &req) {
		return
	}
	snap, err := s.games.JoinRoom(req.RoomID, claims.UserID, claims.Username)
	if err != nil {
		status, msg := s.gameMessage(err)
		writeError(ctx, status, msg)
		return
	}
	msg := s.msgs.Get("room.joined")
	if snap.Status == string(multiplayer.StatusPlaying) {
		msg = s.msgs.Get("room.game_start")
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.RoomResponse{
		Success: true,
		Message: msg,
		RoomID:  req.RoomID,
		Room:    snap,
	})
}

func (s *Server) handleFindRandom(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	res, err := s.games.FindRandomMatch(claims.UserID, claims.Username)
	if err != nil {
		status, msg := s.gameMessage(err)
		writeError(ctx, status, msg)
		return
	}
	if !res.Matched {
		writeJSON(ctx, fasthttp.StatusOK, gamedto.MatchResponse{
			Success: true,
			Matched: false,
			Status:  waitingStatus,
		})
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.MatchResponse{
		Success: true,
		Matched: true,
		RoomID:  res.RoomID,
		Room:    res.Snapshot,
	})
}

func (s *Server) handleCancelMatchmaking(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	s.games.CancelMatchmaking(claims.UserID)
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"success": true,
		"message": s.msgs.Get("match.cancelled"),
	})
}

func (s *Server) handleMakeMove(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	var req gamedto.MoveRequest
	if !readJSON(ctx, &req) {
		return
	}
	snap, err := s.games.MakeMove(claims.UserID, req.Move)
	if err != nil {
		status, msg := s.gameMessage(err)
		writeJSON(ctx, status, gamedto.RoomResponse{
			Success: false,
			Message: msg,
			Room:    snap,
		})
		return
	}
	if snap.GameOver && snap.Winner != "" {
		s.recordGameResult(ctx, snap)
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.RoomResponse{
		Success: true,
		Message: s.msgs.Get("move.ok"),
		Room:    snap,
	})
}

// recordGameResult credits the decisive game to both accounts. A failed
// write only loses the stat update, never the move response.
func (s *Server) recordGameResult(ctx *fasthttp.RequestCtx, snap *gamedto.RoomSnapshot) {
	var winnerID, loserID string
	for _, p := range snap.Players {
		if p.Color == snap.Winner {
			winnerID = p.UserID
		} else {
			loserID = p.UserID
		}
	}
	if winnerID == "" || loserID == "" {
		return
	}
	if err := s.auth.RecordResult(ctx, winnerID, loserID); err != nil {
		obslog.L().Warn("result_record_failed",
			zap.String("winner_id", winnerID),
			zap.Error(err),
		)
	}
}

func (s *Server) handleLeaveRoom(ctx *fasthttp.RequestCtx) {
	claims := s.identity(ctx)
	if claims == nil {
		return
	}
	if err := s.games.LeaveRoom(claims.UserID); err != nil {
		status, msg := s.gameMessage(err)
		writeError(ctx, status, msg)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"success": true,
		"message": s.msgs.Get("room.left"),
	})
}

func (s *Server) handleGetRoom(ctx *fasthttp.RequestCtx, roomID string) {
	snap, err := s.games.GetRoom(roomID)
	if err != nil {
		status, msg := s.gameMessage(err)
		writeError(ctx, status, msg)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.RoomResponse{
		Success: true,
		RoomID:  roomID,
		Room:    snap,
	})
}
