package apperror

import "errors"

var (
	ErrBadStateLength = errors.New("board state must be exactly 9 characters")
	ErrLowercaseMark  = errors.New("only upper-case marks are allowed")
	ErrUnknownMark    = errors.New("unexpected character found in board state")
	ErrTooManyO       = errors.New("too many O marks")
	ErrTooManyX       = errors.New("too many X marks")
	ErrGameFinished   = errors.New("game is already finished")
)
