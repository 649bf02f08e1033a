package terminal

import "io"

type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyInterrupt
)

// Key is a single decoded keystroke from the raw input stream.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Keys starts (once) a reader goroutine that decodes raw keystrokes into
// Key events. The channel is closed when the input stream ends or fails;
// consumers treat a closed stream as a fatal terminal error.
//
// The goroutine reads the stream regardless of the tty mode; the session
// only waits on the channel while raw mode is enabled, mirroring how the
// event stream is scoped around the blocking read.
func (that *Terminal) Keys() <-chan Key {
	if that.keys != nil {
		return that.keys
	}

	that.keys = make(chan Key)

	go func() {
		defer close(that.keys)

		buf := make([]byte, 1)

		for {
			if _, err := io.ReadFull(that.in, buf); err != nil {
				return
			}

			switch b := buf[0]; {
			case b == '\r' || b == '\n':
				that.keys <- Key{Kind: KeyEnter}
			case b == 0x7f || b == 0x08:
				that.keys <- Key{Kind: KeyBackspace}
			case b == 0x03: // ctrl-c arrives as a byte in raw mode
				that.keys <- Key{Kind: KeyInterrupt}
			case b == 0x1b:
				that.skipEscapeSequence(buf)
			case b >= 0x20 && b < 0x7f:
				that.keys <- Key{Kind: KeyRune, Rune: rune(b)}
			}
		}
	}()

	return that.keys
}

// skipEscapeSequence consumes the remainder of a CSI sequence (arrow keys
// and friends) so its bytes are not mistaken for typed characters.
func (that *Terminal) skipEscapeSequence(buf []byte) {
	if _, err := io.ReadFull(that.in, buf); err != nil || buf[0] != '[' {
		return
	}

	for {
		if _, err := io.ReadFull(that.in, buf); err != nil {
			return
		}
		// CSI final bytes are in the 0x40-0x7e range
		if buf[0] >= 0x40 && buf[0] <= 0x7e {
			return
		}
	}
}
