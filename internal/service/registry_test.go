package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
	"github.com/Satogava-Kaydan/XO/internal/entity"
	"github.com/Satogava-Kaydan/XO/internal/repository"
)

func newTestService() *RoomService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRoomService(logger, repository.NewMemoryRoomRepository(), repository.NewMemoryPlayerRepository())
}

func TestRoomService_CreateRoom(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// When: a player creates a room
	room, player, err := svc.CreateRoom(ctx, "p1")

	// Then: the room waits for an opponent with the creator seated as X
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Len(t, room.ID, entity.RoomCodeLength)
	assert.Equal(t, entity.StatusWaiting, room.Status)
	assert.Equal(t, entity.PlayerX, room.Turn)
	assert.Equal(t, entity.PlayerX, player.Mark)
	assert.Equal(t, room.ID, player.RoomID)
	require.Len(t, room.Players, 1)
}

func TestRoomService_CreateRoom_UniqueCodes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// When: many rooms are created
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		room, _, err := svc.CreateRoom(ctx, "p")
		require.NoError(t, err)

		// Then: every active room has a distinct code
		assert.False(t, seen[room.ID])
		seen[room.ID] = true
	}
}

func TestRoomService_JoinRoom(t *testing.T) {
	t.Run("Second player joins and the game starts", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)

		// When: a second player joins
		joined, player, err := svc.JoinRoom(ctx, room.ID, "p2")

		// Then: the room is playing and the joiner holds O
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlaying, joined.Status)
		assert.Equal(t, entity.PlayerO, player.Mark)
		require.Len(t, joined.Players, 2)
	})

	t.Run("Room code lookup is case-insensitive", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)

		// When: joining with a lowercased code
		joined, _, err := svc.JoinRoom(ctx, "  "+strings.ToLower(room.ID)+" ", "p2")

		// Then: the join succeeds against the uppercase room
		require.NoError(t, err)
		assert.Equal(t, room.ID, joined.ID)
	})

	t.Run("Join on an unknown room yields ErrRoomNotFound", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		_, _, err := svc.JoinRoom(ctx, "NOROOM", "p2")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Join on a full room yields ErrRoomFull and mutates nothing", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, _, err = svc.JoinRoom(ctx, room.ID, "p2")
		require.NoError(t, err)

		// When: a third player tries to join
		_, _, err = svc.JoinRoom(ctx, room.ID, "p3")

		// Then: the join is rejected and the room still has two players
		require.ErrorIs(t, err, apperror.ErrRoomFull)

		remaining, removeErr := svc.RemovePlayer(ctx, "p1")
		require.NoError(t, removeErr)
		require.NotNil(t, remaining)
		assert.Len(t, remaining.Players, 1)
	})

	t.Run("Joiner after the X player left inherits X", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, _, err = svc.JoinRoom(ctx, room.ID, "p2")
		require.NoError(t, err)

		// Given: the creator (X) disconnects
		_, err = svc.RemovePlayer(ctx, "p1")
		require.NoError(t, err)

		// When: a new player takes the vacant seat
		_, player, err := svc.JoinRoom(ctx, room.ID, "p3")

		// Then: the newcomer plays X, not O
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, player.Mark)
	})
}

func TestRoomService_RemovePlayer(t *testing.T) {
	t.Run("Disconnect with two players keeps the room alive", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)
		_, _, err = svc.JoinRoom(ctx, room.ID, "p2")
		require.NoError(t, err)

		// When: one player disconnects
		remaining, err := svc.RemovePlayer(ctx, "p2")

		// Then: the survivor is returned and the board state survives
		require.NoError(t, err)
		require.NotNil(t, remaining)
		require.Len(t, remaining.Players, 1)
		assert.Equal(t, "p1", remaining.Players[0].ID)
	})

	t.Run("Disconnect of the last player deletes the room", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		room, _, err := svc.CreateRoom(ctx, "p1")
		require.NoError(t, err)

		// When: the only player disconnects
		remaining, err := svc.RemovePlayer(ctx, "p1")

		// Then: nothing is returned and the room is gone
		require.NoError(t, err)
		assert.Nil(t, remaining)

		_, _, err = svc.JoinRoom(ctx, room.ID, "p2")
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Disconnect of an unknown player is a no-op", func(t *testing.T) {
		ctx := context.Background()
		svc := newTestService()

		remaining, err := svc.RemovePlayer(ctx, "ghost")

		require.NoError(t, err)
		assert.Nil(t, remaining)
	})
}

func TestRoomService_ActiveRooms(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	count, err := svc.ActiveRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, _, err = svc.CreateRoom(ctx, "p1")
	require.NoError(t, err)
	_, _, err = svc.CreateRoom(ctx, "p2")
	require.NoError(t, err)

	count, err = svc.ActiveRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
