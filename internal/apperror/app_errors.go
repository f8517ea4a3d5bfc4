package apperror

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")

	ErrRoomNotPlaying = errors.New("room is not in playing state")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidCell    = errors.New("invalid cell index")
)

// IsSilentMove reports whether an error belongs to the move-validation family
// that is never surfaced to clients: the move produces no state change and no
// broadcast.
func IsSilentMove(err error) bool {
	return errors.Is(err, ErrRoomNotPlaying) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidCell)
}
