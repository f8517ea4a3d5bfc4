package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
	"github.com/Satogava-Kaydan/XO/internal/entity"
	"github.com/Satogava-Kaydan/XO/internal/repository"
)

// codeAttempts bounds the uniqueness retry loop for fresh room codes.
// Collisions are already unlikely at 36^6 codes; the loop just removes the
// residual chance of two live rooms sharing an ID.
const codeAttempts = 5

var ErrNoFreeRoomCode = errors.New("could not generate a free room code")

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

// RoomService owns the room lifecycle: creation, join, disconnect cleanup
// and, in gameplay.go, moves and restarts. A single mutex serializes every
// room mutation, reproducing the one-event-at-a-time ordering the protocol
// assumes even though each connection reads on its own goroutine.
type RoomService struct {
	logger *slog.Logger

	// mu guards every read-modify-write cycle against the repositories.
	mu sync.Mutex

	roomRepo   roomRepo
	playerRepo playerRepo
}

func NewRoomService(logger *slog.Logger, roomRepo roomRepo, playerRepo playerRepo) *RoomService {
	return &RoomService{
		logger:     logger,
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
	}
}

// CreateRoom generates a fresh room code and opens a waiting room with the
// requester seated as X.
func (that *RoomService) CreateRoom(ctx context.Context, playerID string) (*entity.Room, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	code, err := that.freeRoomCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	player := &entity.Player{
		ID:     playerID,
		Mark:   entity.PlayerX,
		RoomID: code,
	}

	room := entity.NewRoom(code, player)

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to save player: %w", err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.logger.Info("room created", "roomID", code, "playerID", playerID)

	return room, player, nil
}

// JoinRoom seats the requester in an existing room. The code is normalized
// to uppercase before lookup. The joiner inherits whichever mark is vacant,
// and a successful join moves the room to the playing state.
func (that *RoomService) JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	code = entity.NormalizeRoomCode(code)

	room, err := that.roomRepo.GetByID(ctx, code)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if room.IsFull() {
		return nil, nil, apperror.ErrRoomFull
	}

	player := &entity.Player{
		ID:     playerID,
		Mark:   room.VacantMark(),
		RoomID: room.ID,
	}

	room.Players = append(room.Players, player)
	room.Status = entity.StatusPlaying

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to save player: %w", err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.logger.Info("player joined room", "roomID", room.ID, "playerID", playerID, "mark", player.Mark)

	return room, player, nil
}

// RemovePlayer handles disconnect cleanup. A room whose last player leaves
// is deleted on the spot. When an opponent remains, the room survives with
// its board intact and is returned so the transport can notify the survivor.
func (that *RoomService) RemovePlayer(ctx context.Context, playerID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if err = that.playerRepo.DeleteByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to delete player: %w", err)
	}

	if player.RoomID == "" {
		return nil, nil
	}

	room, err := that.roomRepo.GetByID(ctx, player.RoomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if !room.RemovePlayer(playerID) {
		return nil, nil
	}

	if room.IsEmpty() {
		if err = that.roomRepo.DeleteByID(ctx, room.ID); err != nil {
			return nil, fmt.Errorf("failed to delete room: %w", err)
		}

		that.logger.Info("room deleted, no players left", "roomID", room.ID)

		return nil, nil
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.logger.Info("player left room", "roomID", room.ID, "playerID", playerID)

	return room, nil
}

// ActiveRooms reports the number of live rooms, for the status page.
func (that *RoomService) ActiveRooms(ctx context.Context) (int, error) {
	count, err := that.roomRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	return count, nil
}

func (that *RoomService) freeRoomCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := entity.NewRoomCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		_, err = that.roomRepo.GetByID(ctx, code)
		if errors.Is(err, repository.ErrRoomNotFound) {
			return code, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
	}

	return "", ErrNoFreeRoomCode
}
