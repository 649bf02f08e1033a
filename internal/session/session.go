package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"

	"github.com/movepeek/tictactoe-console/internal/entity"
	"github.com/movepeek/tictactoe-console/internal/oracle"
	"github.com/movepeek/tictactoe-console/internal/preview"
	"github.com/movepeek/tictactoe-console/internal/terminal"
)

var ErrInputClosed = errors.New("input stream closed")

// renderOracle is the slice of the oracle client a session needs.
type renderOracle interface {
	Render(ctx context.Context, state string) (string, error)
	RenderAsync(ctx context.Context, state string) <-chan oracle.RenderReply
}

// Outcome is how a selection round ended.
type Outcome struct {
	Move *entity.MoveOption // the committed move, nil when the user quit
	Quit bool
}

// Session owns the state of one interactive game: the current board, the
// player to move, and during a round the typed prefix and preview
// bookkeeping. The round loop is the sole mutator; the concurrent event
// sources (keystrokes, render replies) are only ever awaited, never write.
type Session struct {
	logger      *slog.Logger
	term        *terminal.Terminal
	oracle      renderOracle
	coordinator *preview.Coordinator

	Board  string
	Player string
}

func New(logger *slog.Logger, term *terminal.Terminal, renderOracle renderOracle, board, player string) *Session {
	return &Session{
		logger:      logger.With("component", "session"),
		term:        term,
		oracle:      renderOracle,
		coordinator: preview.NewCoordinator(logger, renderOracle),
		Board:       board,
		Player:      player,
	}
}

// Apply advances the session to the state a committed move produced.
func (that *Session) Apply(move *entity.MoveOption) {
	that.Board = move.NextBoard
	that.Player = move.NextPlayer
}

// RunRound - runs one move-selection round: paints the board and the move
// list, then collects a move id one keystroke at a time, live-previewing
// the matching move's resulting board while typing continues.
//
// Each loop iteration selects over exactly two suspension points: the next
// key event and, when a preview request is outstanding, its reply. The
// displayed preview is always driven by the most recent keystroke; a slow
// or out-of-order reply for an abandoned prefix is discarded on arrival.
func (that *Session) RunRound(ctx context.Context, moves []entity.MoveOption) (Outcome, error) {
	boardText, err := that.oracle.Render(ctx, that.Board)
	if err != nil {
		return Outcome{}, fmt.Errorf("could not render current board: %w", err)
	}

	boardLines := terminal.LineCount(boardText)
	that.term.PaintRegion(1, boardLines, boardText)

	headerLine := boardLines + 1
	queryLine := boardLines + 2
	previewStart := queryLine + 1

	that.term.MoveTo(headerLine)
	that.term.ClearLine()
	that.term.Printf("%s moves: ", color.New(color.FgCyan, color.Bold).Sprint(that.Player))
	for _, move := range moves {
		that.term.Print(move.ID, " ")
	}

	keys := that.term.Keys()

	// raw mode must never survive an exit path, error paths included
	defer that.term.DisableRaw()

	prefix := ""
	var pending *preview.Pending
	paintedLines := 0  // extent of the currently painted preview
	maxPreview := 0    // tallest preview this round, anchors messages

	for {
		that.term.MoveTo(queryLine)
		that.term.ClearLine()
		// no space after the prefix: the user may still extend it
		that.term.Print("? ", prefix)

		if err = that.term.EnableRaw(); err != nil {
			return Outcome{}, err
		}

		var replyCh <-chan oracle.RenderReply
		if pending != nil {
			replyCh = pending.Reply
		}

		var key terminal.Key
		var ok bool

		select {
		case reply := <-replyCh:
			ready, replyErr := that.coordinator.OnReply(pending, prefix, reply)
			pending = nil
			if replyErr != nil {
				return Outcome{}, replyErr
			}

			if ready != nil {
				that.term.PaintRegion(previewStart, paintedLines, ready.Text)
				paintedLines = ready.Lines
				if paintedLines > maxPreview {
					maxPreview = paintedLines
				}
			}

			// the preview resolved first; keep waiting for the key
			if key, ok = that.waitKey(ctx, keys); !ok {
				return Outcome{}, that.inputErr(ctx)
			}

		case key, ok = <-keys:
			if !ok {
				return Outcome{}, ErrInputClosed
			}

		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}

		that.term.DisableRaw()

		switch key.Kind {
		case terminal.KeyInterrupt:
			that.term.ClearLines(previewStart, paintedLines)
			return Outcome{Quit: true}, nil

		case terminal.KeyRune:
			if key.Rune == 'q' {
				that.term.ClearLines(previewStart, paintedLines)
				return Outcome{Quit: true}, nil
			}

			if key.Rune >= '0' && key.Rune <= '9' {
				prefix += string(key.Rune)
				pending, paintedLines = that.resetPreview(ctx, prefix, moves, previewStart, paintedLines)
			}

		case terminal.KeyBackspace:
			if prefix != "" {
				prefix = prefix[:len(prefix)-1]
			}
			pending, paintedLines = that.resetPreview(ctx, prefix, moves, previewStart, paintedLines)

		case terminal.KeyEnter:
			if move := preview.Match(prefix, moves); move != nil {
				that.term.ClearLines(previewStart, paintedLines)
				that.logger.Debug("move committed", "id", move.ID)
				return Outcome{Move: move}, nil
			}

			// Recoverable: report below the tallest preview seen this round
			// so the message never collides with preview repaints, and keep
			// the prefix so the user can go on editing it.
			msgLine := queryLine + maxPreview + 1
			that.term.MoveTo(msgLine)
			that.term.ClearLine()
			that.term.Print(color.YellowString("You typed `%s`; but you need to select one of the %d moves listed above", prefix, len(moves)))
			that.term.MoveTo(msgLine + 1)
			that.term.ClearLine()
		}
	}
}

// resetPreview - invalidates whatever preview belonged to the previous
// prefix (pending or painted) and issues a new request when the new prefix
// exactly matches a move id.
func (that *Session) resetPreview(ctx context.Context, prefix string, moves []entity.MoveOption, previewStart, paintedLines int) (*preview.Pending, int) {
	that.term.ClearLines(previewStart, paintedLines)

	return that.coordinator.MaybeRequest(ctx, prefix, moves), 0
}

// waitKey blocks for the next key while the round context stays live.
func (that *Session) waitKey(ctx context.Context, keys <-chan terminal.Key) (terminal.Key, bool) {
	select {
	case key, ok := <-keys:
		return key, ok
	case <-ctx.Done():
		return terminal.Key{}, false
	}
}

func (that *Session) inputErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrInputClosed
}
