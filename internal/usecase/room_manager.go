package usecase

import (
	"context"
	"fmt"

	"github.com/Satogava-Kaydan/XO/internal/entity"
)

type RoomManager interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error)
	MakeMove(ctx context.Context, playerID, roomID string, cell int) (*entity.Room, error)
	RestartGame(ctx context.Context, roomID string) (*entity.Room, error)
	Disconnect(ctx context.Context, playerID string) (*entity.Room, error)
	ActiveRooms(ctx context.Context) (int, error)
}

type roomService interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error)
	MakeMove(ctx context.Context, playerID, roomID string, cell int) (*entity.Room, error)
	Restart(ctx context.Context, roomID string) (*entity.Room, error)
	RemovePlayer(ctx context.Context, playerID string) (*entity.Room, error)
	ActiveRooms(ctx context.Context) (int, error)
}

type roomManager struct {
	roomService roomService
}

func NewRoomManager(roomService roomService) RoomManager {
	return &roomManager{
		roomService: roomService,
	}
}

func (that *roomManager) CreateRoom(ctx context.Context, playerID string) (*entity.Room, *entity.Player, error) {
	room, player, err := that.roomService.CreateRoom(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, player, nil
}

func (that *roomManager) JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error) {
	room, player, err := that.roomService.JoinRoom(ctx, code, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to join room: %w", err)
	}

	return room, player, nil
}

func (that *roomManager) MakeMove(ctx context.Context, playerID, roomID string, cell int) (*entity.Room, error) {
	room, err := that.roomService.MakeMove(ctx, playerID, roomID, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	return room, nil
}

func (that *roomManager) RestartGame(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.roomService.Restart(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return room, nil
}

func (that *roomManager) Disconnect(ctx context.Context, playerID string) (*entity.Room, error) {
	room, err := that.roomService.RemovePlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove player: %w", err)
	}

	return room, nil
}

func (that *roomManager) ActiveRooms(ctx context.Context) (int, error) {
	count, err := that.roomService.ActiveRooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active rooms: %w", err)
	}

	return count, nil
}
