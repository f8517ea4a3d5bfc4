package repository

import (
	"context"
	"sync"

	"github.com/Satogava-Kaydan/XO/internal/entity"
)

// memoryRoom is the default room storage: a process-local map, matching the
// single-process room registry model. Values are cloned on the way in and
// out so callers observe the same snapshot semantics as the redis backend.
type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *memoryRoom) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = cloneRoom(room)

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return &entity.Room{}, ErrRoomNotFound
	}

	return cloneRoom(room), nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}

func (that *memoryRoom) Count(_ context.Context) (int, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms), nil
}

func cloneRoom(room *entity.Room) *entity.Room {
	clone := *room

	clone.Players = make([]*entity.Player, 0, len(room.Players))
	for _, player := range room.Players {
		playerCopy := *player
		clone.Players = append(clone.Players, &playerCopy)
	}

	return &clone
}

type memoryPlayer struct {
	mu      sync.RWMutex
	players map[string]*entity.Player
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayer{
		players: make(map[string]*entity.Player),
	}
}

func (that *memoryPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	playerCopy := *player
	that.players[player.ID] = &playerCopy

	return nil
}

func (that *memoryPlayer) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return &entity.Player{}, ErrPlayerNotFound
	}

	playerCopy := *player

	return &playerCopy, nil
}

func (that *memoryPlayer) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.players, id)

	return nil
}
