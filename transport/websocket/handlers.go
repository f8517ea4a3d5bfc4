package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
	"github.com/Satogava-Kaydan/XO/internal/protocol"
)

const (
	errMsgRoomNotFound = "room not found"
	errMsgRoomFull     = "room is full"
)

func (that *Server) handleCreateRoom(ctx context.Context, p *peer, _ json.RawMessage) error {
	log := that.logger.With("method", "handleCreateRoom", "playerID", p.id)

	room, _, err := that.manager.CreateRoom(ctx, p.id)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendError(p, "failed to create room")
	}

	payload := protocol.RoomCreatedPayload{
		RoomID:    room.ID,
		ShareLink: that.publicURL + "?room=" + room.ID,
	}

	if err = that.sendTo(p, protocol.ActionRoomCreated, payload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("room created", "roomID", room.ID)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, p *peer, rawPayload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinRoom", "playerID", p.id)

	var code string
	if err := json.Unmarshal(rawPayload, &code); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, player, err := that.manager.JoinRoom(ctx, code, p.id)

	if errors.Is(err, apperror.ErrRoomNotFound) {
		log.Info("join rejected", "roomID", code, "reason", errMsgRoomNotFound)
		return that.sendError(p, errMsgRoomNotFound)
	}

	if errors.Is(err, apperror.ErrRoomFull) {
		log.Info("join rejected", "roomID", code, "reason", errMsgRoomFull)
		return that.sendError(p, errMsgRoomFull)
	}

	if err != nil {
		log.Error("failed to join room", "error", err)
		return that.sendError(p, "failed to join room")
	}

	if err = that.sendTo(p, protocol.ActionRoomJoined, protocol.RoomJoinedPayload{RoomID: room.ID}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	if err = that.sendTo(p, protocol.ActionAssignSymbol, player.Mark); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastToRoom(room, protocol.ActionGameStart, protocol.GameStatePayload{
		Board:         room.Board,
		CurrentPlayer: room.Turn,
	})

	log.Info("player joined room", "roomID", room.ID, "mark", player.Mark)

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, p *peer, rawPayload json.RawMessage) error {
	log := that.logger.With("method", "handleMakeMove", "playerID", p.id)

	var payload protocol.MakeMovePayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.manager.MakeMove(ctx, p.id, payload.RoomID, payload.CellIndex)

	// invalid moves are dropped without a reply: the client-side guard is
	// expected to catch them, and the protocol has no rejection message
	if apperror.IsSilentMove(err) {
		log.Debug("move ignored", "roomID", payload.RoomID, "cell", payload.CellIndex, "reason", err)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	if room.IsFinished() {
		that.broadcastToRoom(room, protocol.ActionGameOver, protocol.GameOverPayload{
			Winner: room.Winner,
			Board:  room.Board,
		})

		log.Info("game over", "roomID", room.ID, "winner", room.Winner)

		return nil
	}

	that.broadcastToRoom(room, protocol.ActionUpdateGame, protocol.GameStatePayload{
		Board:         room.Board,
		CurrentPlayer: room.Turn,
	})

	return nil
}

func (that *Server) handleRestartGame(ctx context.Context, p *peer, rawPayload json.RawMessage) error {
	log := that.logger.With("method", "handleRestartGame", "playerID", p.id)

	var roomID string
	if err := json.Unmarshal(rawPayload, &roomID); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.manager.RestartGame(ctx, roomID)

	// restarting an unknown room is a no-op, same as a stale move
	if errors.Is(err, apperror.ErrRoomNotFound) {
		log.Debug("restart ignored", "roomID", roomID)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	that.broadcastToRoom(room, protocol.ActionGameRestart, protocol.GameStatePayload{
		Board:         room.Board,
		CurrentPlayer: room.Turn,
	})

	log.Info("game restarted", "roomID", room.ID)

	return nil
}
