package game

import "errors"

var (
	// ErrInvalidMove is wrapped by every *MoveError.
	ErrInvalidMove = errors.New("invalid move")
	// ErrEmptyHistory is returned by Undo when nothing has been recorded.
	ErrEmptyHistory = errors.New("no moves to undo")
	// ErrHistoryMismatch means the layout no longer matches the last recorded move.
	ErrHistoryMismatch = errors.New("history does not match layout")
	// ErrNothingToDraw is returned by Draw when stock and waste are both empty.
	ErrNothingToDraw = errors.New("stock and waste are empty")
	// ErrMalformedMove rejects a move descriptor whose piles or cards don't fit its kind.
	ErrMalformedMove = errors.New("malformed move")
)

// MoveError explains why a move was refused.
type MoveError struct {
	Reason string
}

func (e *MoveError) Error() string { return "invalid move: " + e.Reason }

func (e *MoveError) Unwrap() error { return ErrInvalidMove }

func invalid(reason string) error { return &MoveError{Reason: reason} }
