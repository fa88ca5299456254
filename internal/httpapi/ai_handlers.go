package httpapi

import (
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/kenbachkhoa/chess-arena/internal/aigame"
	"github.com/kenbachkhoa/chess-arena/pkg/gamedto"
)

func (s *Server) handleStartAI(ctx *fasthttp.RequestCtx) {
	var req gamedto.AIStartRequest
	if len(ctx.PostBody()) > 0 && !readJSON(ctx, &req) {
		return
	}
	id, status := s.ai.Start(aigame.ParseLevel(req.Level))
	writeJSON(ctx, fasthttp.StatusOK, gamedto.AIStartResponse{GameID: id, Status: status})
}

func (s *Server) handleAIMove(ctx *fasthttp.RequestCtx, gameID string) {
	var req gamedto.AIMoveRequest
	if !readJSON(ctx, &req) {
		return
	}
	status, err := s.ai.Move(gameID, req.UCI)
	if err != nil {
		code, msg := s.aiMessage(err)
		writeError(ctx, code, msg)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, status)
}

func (s *Server) handleAIControls(ctx *fasthttp.RequestCtx, gameID string) {
	var req gamedto.AIControlRequest
	if !readJSON(ctx, &req) {
		return
	}
	switch req.Action {
	case "undo":
		status, err := s.ai.Undo(gameID)
		if err != nil {
			code, msg := s.aiMessage(err)
			writeError(ctx, code, msg)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, status)
	case "hint":
		hint, err := s.ai.Hint(gameID)
		if err != nil {
			code, msg := s.aiMessage(err)
			writeError(ctx, code, msg)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, gamedto.AIHintResponse{Hint: hint})
	case "restart":
		status, err := s.ai.Restart(gameID)
		if err != nil {
			code, msg := s.aiMessage(err)
			writeError(ctx, code, msg)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, status)
	default:
		writeError(ctx, fasthttp.StatusBadRequest, s.msgs.Get("ai.invalid_action"))
	}
}

func (s *Server) aiMessage(err error) (int, string) {
	var invalid *aigame.InvalidMoveError
	switch {
	case errors.As(err, &invalid):
		return fasthttp.StatusBadRequest, invalid.Reason
	case errors.Is(err, aigame.ErrGameNotFound):
		return fasthttp.StatusNotFound, s.msgs.Get("ai.not_found")
	case errors.Is(err, aigame.ErrUndoUnavailable):
		return fasthttp.StatusBadRequest, s.msgs.Get("ai.no_undo")
	case errors.Is(err, aigame.ErrGameFinished):
		return fasthttp.StatusBadRequest, s.msgs.Get("ai.finished")
	default:
		return fasthttp.StatusInternalServerError, err.Error()
	}
}
