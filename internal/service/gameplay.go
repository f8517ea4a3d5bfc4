package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
	"github.com/Satogava-Kaydan/XO/internal/entity"
	"github.com/Satogava-Kaydan/XO/internal/repository"
)

// MakeMove applies one cell for the requesting player. The player's stored
// mark is authoritative; the mark a client claims on the wire is ignored.
// Validation failures come back as apperror sentinels so the transport can
// drop them without a response.
func (that *RoomService) MakeMove(ctx context.Context, playerID, roomID string, cell int) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, apperror.ErrRoomNotPlaying
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	roomID = entity.NormalizeRoomCode(roomID)
	if player.RoomID != roomID {
		return nil, apperror.ErrRoomNotPlaying
	}

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotPlaying
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if err = room.MakeMove(player.Mark, cell); err != nil {
		return nil, err
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.logger.Debug("move applied", "roomID", room.ID, "mark", player.Mark, "cell", cell)

	return room, nil
}

// Restart wipes the board of an existing room and starts a fresh game with
// the same players. It may be called in any room state.
func (that *RoomService) Restart(ctx context.Context, roomID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	roomID = entity.NormalizeRoomCode(roomID)

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	room.Restart()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.logger.Info("game restarted", "roomID", room.ID)

	return room, nil
}
