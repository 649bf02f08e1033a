package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal owns the single output stream and the raw-mode state of the
// controlling tty. Raw mode is scoped: the session enables it only around
// the blocking wait for the next key and disables it as soon as a key is
// consumed, so the terminal is never left raw on any exit path.
type Terminal struct {
	out   io.Writer
	in    io.Reader
	fd    int
	saved *term.State
	keys  chan Key
}

// New wires the terminal to the given streams. When in is not a real tty
// (as in tests), raw-mode switching becomes a no-op.
func New(out io.Writer, in io.Reader) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}

	return &Terminal{
		out: out,
		in:  in,
		fd:  fd,
	}
}

// EnableRaw - switches the tty into raw (unbuffered, un-echoed) mode.
func (that *Terminal) EnableRaw() error {
	if that.fd < 0 || that.saved != nil {
		return nil
	}

	saved, err := term.MakeRaw(that.fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}

	that.saved = saved

	return nil
}

// DisableRaw - restores the tty mode saved by EnableRaw. Safe to call
// repeatedly; only the first call after an EnableRaw does anything.
func (that *Terminal) DisableRaw() {
	if that.fd < 0 || that.saved == nil {
		return
	}

	_ = term.Restore(that.fd, that.saved)
	that.saved = nil
}

// MoveTo - places the cursor at column 1 of the given 1-based line.
func (that *Terminal) MoveTo(line int) {
	fmt.Fprintf(that.out, "\x1b[%d;1H", line)
}

// ClearLine - erases the line the cursor is on.
func (that *Terminal) ClearLine() {
	fmt.Fprint(that.out, "\x1b[2K")
}

// ClearLines - erases count lines starting at start. Clearing zero lines is
// a no-op, and clearing is idempotent.
func (that *Terminal) ClearLines(start, count int) {
	for j := 0; j < count; j++ {
		that.MoveTo(start + j)
		that.ClearLine()
	}
}

// PaintRegion - clears exactly prevLines lines beginning at start, writes
// each line of text at the same position, and restores the cursor to where
// it was before the call, so typing on the query line is uninterrupted.
func (that *Terminal) PaintRegion(start, prevLines int, text string) {
	that.SaveCursor()
	that.ClearLines(start, prevLines)

	for j, line := range Lines(text) {
		that.MoveTo(start + j)
		fmt.Fprint(that.out, line)
	}

	that.RestoreCursor()
}

func (that *Terminal) SaveCursor() {
	fmt.Fprint(that.out, "\x1b7")
}

func (that *Terminal) RestoreCursor() {
	fmt.Fprint(that.out, "\x1b8")
}

func (that *Terminal) Print(args ...any) {
	fmt.Fprint(that.out, args...)
}

func (that *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(that.out, format, args...)
}

// Lines splits rendered text into its display lines, ignoring a trailing
// newline.
func Lines(text string) []string {
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "\n")
}

// LineCount reports how many display lines a rendered text occupies.
func LineCount(text string) int {
	return len(Lines(text))
}
