package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
)

func TestNewRoom(t *testing.T) {
	// Given: a creator player
	creator := &Player{ID: "p1", Mark: PlayerX, RoomID: "ABC123"}

	// When: creating a new room
	room := NewRoom("ABC123", creator)

	// Then: the room should be waiting with an empty board and X to move
	require.NotNil(t, room)
	assert.Equal(t, "ABC123", room.ID)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Equal(t, PlayerX, room.Turn)
	assert.Equal(t, [9]string{}, room.Board)
	assert.Len(t, room.Players, 1)
	assert.False(t, room.CreatedAt.IsZero())
}

func TestNewRoomCode(t *testing.T) {
	// When: generating a batch of room codes
	for i := 0; i < 50; i++ {
		code, err := NewRoomCode()

		// Then: each code is 6 characters from the A-Z0-9 alphabet
		require.NoError(t, err)
		require.Len(t, code, RoomCodeLength)
		for _, r := range code {
			assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
		}
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeRoomCode("abc123"))
	assert.Equal(t, "ABC123", NormalizeRoomCode("  Abc123 "))
}

func newPlayingRoom() *Room {
	room := NewRoom("ABC123", &Player{ID: "p1", Mark: PlayerX, RoomID: "ABC123"})
	room.Players = append(room.Players, &Player{ID: "p2", Mark: PlayerO, RoomID: "ABC123"})
	room.Status = StatusPlaying

	return room
}

func TestRoom_MakeMove(t *testing.T) {
	t.Run("Applies a move and toggles the turn", func(t *testing.T) {
		// Given: a playing room with X to move
		room := newPlayingRoom()

		// When: X takes cell 0
		err := room.MakeMove(PlayerX, 0)

		// Then: the cell holds X and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, PlayerX, room.Board[0])
		assert.Equal(t, PlayerO, room.Turn)
		assert.Equal(t, StatusPlaying, room.Status)
	})

	t.Run("Turn alternates strictly starting from X", func(t *testing.T) {
		// Given: a playing room
		room := newPlayingRoom()

		moves := []struct {
			mark string
			cell int
		}{
			{PlayerX, 0}, {PlayerO, 4}, {PlayerX, 1}, {PlayerO, 8},
		}

		// When: players alternate valid moves
		for _, move := range moves {
			require.Equal(t, move.mark, room.Turn)
			require.NoError(t, room.MakeMove(move.mark, move.cell))
		}

		// Then: it is X's turn again
		assert.Equal(t, PlayerX, room.Turn)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a playing room where X already took cell 0
		room := newPlayingRoom()
		require.NoError(t, room.MakeMove(PlayerX, 0))

		// When: O tries the same cell
		err := room.MakeMove(PlayerO, 0)

		// Then: the cell keeps its value and the turn does not change
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, room.Board[0])
		assert.Equal(t, PlayerO, room.Turn)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a playing room with X to move
		room := newPlayingRoom()

		// When: O tries to move first
		err := room.MakeMove(PlayerO, 1)

		// Then: the board stays empty
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, [9]string{}, room.Board)
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		// Given: a playing room
		room := newPlayingRoom()

		// When: X addresses a cell outside the board
		err := room.MakeMove(PlayerX, 9)

		// Then: ErrInvalidCell is returned
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Error while the room is still waiting", func(t *testing.T) {
		// Given: a room waiting for an opponent
		room := NewRoom("ABC123", &Player{ID: "p1", Mark: PlayerX})

		// When: the creator tries to move alone
		err := room.MakeMove(PlayerX, 0)

		// Then: ErrRoomNotPlaying is returned
		require.ErrorIs(t, err, apperror.ErrRoomNotPlaying)
	})

	t.Run("Winning move finishes the game without toggling the turn", func(t *testing.T) {
		// Given: X holds cells 0 and 1, O holds 4 and 5
		room := newPlayingRoom()
		room.Board = [9]string{PlayerX, PlayerX, EmptyCell, EmptyCell, PlayerO, PlayerO, EmptyCell, EmptyCell, EmptyCell}

		// When: X completes the top row at cell 2
		err := room.MakeMove(PlayerX, 2)

		// Then: X wins and the room is finished
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, room.Status)
		assert.Equal(t, PlayerX, room.Winner)
		assert.Equal(t, PlayerX, room.Turn)
	})

	t.Run("Filling the board without a winner is a draw", func(t *testing.T) {
		// Given: one empty cell left and no winning line possible
		room := newPlayingRoom()
		room.Board = [9]string{
			PlayerX, PlayerO, PlayerX,
			PlayerX, PlayerO, PlayerO,
			PlayerO, PlayerX, EmptyCell,
		}

		// When: X fills the last cell
		err := room.MakeMove(PlayerX, 8)

		// Then: the game ends in a draw
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, room.Status)
		assert.Equal(t, WinnerDraw, room.Winner)
	})
}

func TestRoom_DetermineResult(t *testing.T) {
	t.Run("Returns the winner for each canonical triple", func(t *testing.T) {
		for _, combo := range WinCombos {
			room := &Room{}
			for _, idx := range combo {
				room.Board[idx] = PlayerO
			}

			assert.Equal(t, PlayerO, room.DetermineResult())
		}
	})

	t.Run("Returns empty string while the game is open", func(t *testing.T) {
		room := &Room{Board: [9]string{PlayerX, PlayerO}}

		assert.Equal(t, "", room.DetermineResult())
	})

	t.Run("Returns draw for a full board without a line", func(t *testing.T) {
		room := &Room{Board: [9]string{
			PlayerX, PlayerO, PlayerX,
			PlayerX, PlayerO, PlayerO,
			PlayerO, PlayerX, PlayerX,
		}}

		assert.Equal(t, WinnerDraw, room.DetermineResult())
	})
}

func TestRoom_Restart(t *testing.T) {
	t.Run("Resets a finished game", func(t *testing.T) {
		// Given: a finished room with a winner
		room := newPlayingRoom()
		room.Board = [9]string{PlayerX, PlayerX, PlayerX}
		room.Status = StatusFinished
		room.Winner = PlayerX

		// When: restarting
		room.Restart()

		// Then: the board is empty, X moves first, players are kept
		assert.Equal(t, [9]string{}, room.Board)
		assert.Equal(t, PlayerX, room.Turn)
		assert.Equal(t, StatusPlaying, room.Status)
		assert.Empty(t, room.Winner)
		assert.Len(t, room.Players, 2)
	})

	t.Run("Wipes the board mid-game as well", func(t *testing.T) {
		// Given: a game in progress
		room := newPlayingRoom()
		require.NoError(t, room.MakeMove(PlayerX, 4))

		// When: restarting without any status precondition
		room.Restart()

		// Then: the half-played board is gone
		assert.Equal(t, [9]string{}, room.Board)
		assert.Equal(t, PlayerX, room.Turn)
	})
}

func TestRoom_RemovePlayer(t *testing.T) {
	t.Run("Removes a member and preserves order", func(t *testing.T) {
		// Given: a full room
		room := newPlayingRoom()

		// When: the first player leaves
		removed := room.RemovePlayer("p1")

		// Then: only the second player remains
		require.True(t, removed)
		require.Len(t, room.Players, 1)
		assert.Equal(t, "p2", room.Players[0].ID)
	})

	t.Run("Reports a non-member", func(t *testing.T) {
		room := newPlayingRoom()

		assert.False(t, room.RemovePlayer("stranger"))
		assert.Len(t, room.Players, 2)
	})
}

func TestRoom_VacantMark(t *testing.T) {
	t.Run("First seat gets X", func(t *testing.T) {
		room := &Room{}

		assert.Equal(t, PlayerX, room.VacantMark())
	})

	t.Run("Second seat gets O", func(t *testing.T) {
		room := &Room{Players: []*Player{{ID: "p1", Mark: PlayerX}}}

		assert.Equal(t, PlayerO, room.VacantMark())
	})

	t.Run("Joiner after the X player left inherits X", func(t *testing.T) {
		// Given: the X player disconnected, O stayed
		room := &Room{Players: []*Player{{ID: "p2", Mark: PlayerO}}}

		// Then: the vacant seat is X
		assert.Equal(t, PlayerX, room.VacantMark())
	})
}
