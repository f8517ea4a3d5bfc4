package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Satogava-Kaydan/XO/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"

	PlayerX = "X"
	PlayerO = "O"

	WinnerDraw = "draw"

	EmptyCell = ""
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	RoomCodeLength   = 6

	maxPlayers = 2
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Room struct {
	ID        string    `json:"id"`
	Players   []*Player `json:"players,omitempty"`
	Board     [9]string `json:"board"`
	Turn      string    `json:"current_player"`
	Winner    string    `json:"winner,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRoom creates a room in the waiting state owned by its first player.
func NewRoom(id string, creator *Player) *Room {
	return &Room{
		ID:        id,
		Players:   []*Player{creator},
		Turn:      PlayerX,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
}

// NewRoomCode draws RoomCodeLength characters independently and uniformly
// from the room code alphabet.
func NewRoomCode() (string, error) {
	var sb strings.Builder

	for i := 0; i < RoomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to draw room code character: %w", err)
		}

		sb.WriteByte(roomCodeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NormalizeRoomCode maps user input to the canonical uppercase form.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= maxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// VacantMark returns the mark a new joiner should receive. Marks are tied to
// seats, not to join order alone: if the X seat was vacated by a disconnect,
// the next joiner inherits X while the remaining player keeps O.
func (that *Room) VacantMark() string {
	for _, player := range that.Players {
		if player.Mark == PlayerX {
			return PlayerO
		}
	}

	return PlayerX
}

// RemovePlayer drops the player with the given ID, preserving the order of
// the remaining players. It reports whether the player was a member.
func (that *Room) RemovePlayer(playerID string) bool {
	for i, player := range that.Players {
		if player.ID == playerID {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return true
		}
	}

	return false
}

// DetermineResult evaluates the 8 canonical triples in fixed order and
// returns the winning mark, WinnerDraw for a full board without a winner,
// or an empty string while the game is still open.
func (that *Room) DetermineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return ""
		}
	}

	return WinnerDraw
}

// MakeMove applies a mark to a cell. Every precondition failure is reported
// with a sentinel from apperror; callers decide whether to surface it. The
// turn toggles only when the move leaves the game open.
func (that *Room) MakeMove(mark string, cell int) error {
	if !that.IsPlaying() {
		return apperror.ErrRoomNotPlaying
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	that.Board[cell] = mark

	switch result := that.DetermineResult(); result {
	case EmptyCell:
		if that.Turn == PlayerX {
			that.Turn = PlayerO
		} else {
			that.Turn = PlayerX
		}
	default:
		that.Winner = result
		that.Status = StatusFinished
	}

	return nil
}

// Restart wipes the board and hands the turn back to X. There is no status
// precondition: a restart mid-game simply wipes the board.
func (that *Room) Restart() {
	that.Board = [9]string{}
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusPlaying
}
