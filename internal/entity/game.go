package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/movepeek/tictactoe-console/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	// StateLength is the length of the serialized board string.
	StateLength = 9

	emptyMark = '-'
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is a tic-tac-toe position. Turn is derived from the mark counts, so a
// serialized board string is the full game state.
type Game struct {
	Board [9]string
	Turn  string
}

// MoveOption is one legal successor of a position. ID is unique within the
// move list of a single position.
type MoveOption struct {
	ID         string `json:"move_id"`
	NextBoard  string `json:"next_board"`
	NextPlayer string `json:"next_player"`
}

func NewGame() *Game {
	return &Game{
		Board: [9]string{},
		Turn:  PlayerX,
	}
}

// ParseGame - restores a game from its serialized board string.
func ParseGame(state string) (*Game, error) {
	if len(state) != StateLength {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrBadStateLength, len(state))
	}

	game := NewGame()

	var numX, numO int

	for i := 0; i < StateLength; i++ {
		switch c := state[i]; c {
		case emptyMark:
			game.Board[i] = EmptyCell
		case 'X':
			game.Board[i] = PlayerX
			numX++
		case 'O':
			game.Board[i] = PlayerO
			numO++
		case 'x', 'o':
			return nil, apperror.ErrLowercaseMark
		default:
			return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMark, c)
		}
	}

	if numO > numX {
		return nil, apperror.ErrTooManyO
	}

	switch numX - numO {
	case 0:
		game.Turn = PlayerX
	case 1:
		game.Turn = PlayerO
	default:
		return nil, apperror.ErrTooManyX
	}

	return game, nil
}

// Unparse - serializes the board back into its 9-character string form.
func (that *Game) Unparse() string {
	var sb strings.Builder
	sb.Grow(StateLength)

	for _, cell := range that.Board {
		if cell == EmptyCell {
			sb.WriteByte(emptyMark)
		} else {
			sb.WriteString(cell)
		}
	}

	return sb.String()
}

// Moves - enumerates the legal successors of the position, one per free
// cell. Move ids are the cell numbers 1..9, in board order.
func (that *Game) Moves() []MoveOption {
	if that.DetermineGameResult() != "" {
		return nil
	}

	nextPlayer := toggleMark(that.Turn)
	moves := make([]MoveOption, 0, StateLength)

	for i, cell := range that.Board {
		if cell != EmptyCell {
			continue
		}

		next := *that
		next.Board[i] = that.Turn
		next.Turn = nextPlayer

		moves = append(moves, MoveOption{
			ID:         strconv.Itoa(i + 1),
			NextBoard:  next.Unparse(),
			NextPlayer: nextPlayer,
		})
	}

	return moves
}

// DetermineGameResult - returns the winning mark, PlayerTie when the board
// is full, or "" while the game is still open.
func (that *Game) DetermineGameResult() string {
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

	return PlayerTie
}

// RenderText - draws the board as a fixed five-line ASCII grid. The line
// count is deterministic for every state, which the preview pipeline relies
// on when clearing previously painted regions.
func (that *Game) RenderText() string {
	pad := func(i int) string {
		cell := that.Board[i]
		if cell == EmptyCell {
			cell = " "
		}
		return fmt.Sprintf(" %s ", cell)
	}

	row := func(a, b, c int) string {
		return fmt.Sprintf(" %s | %s | %s ", pad(a), pad(b), pad(c))
	}

	const rule = "-----|-----|-----"

	return row(0, 1, 2) + "\n" + rule + "\n" + row(3, 4, 5) + "\n" + rule + "\n" + row(6, 7, 8) + "\n"
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
