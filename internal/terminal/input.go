package terminal

import "time"

// Key is a decoded keypress.
type Key int

const (
	KeyUnrecognized Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyConfirm
	KeyCancel
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyConfirm:
		return "confirm"
	case KeyCancel:
		return "cancel"
	default:
		return "unrecognized"
	}
}

const (
	// DefaultPollTimeout bounds the wait for a keypress. It is also the
	// redraw tick of the menu loop.
	DefaultPollTimeout = 200 * time.Millisecond
	// DefaultEscapeTimeout bounds the wait for each byte after ESC. A lone
	// ESC keypress is reported once this expires.
	DefaultEscapeTimeout = 100 * time.Millisecond
)

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03
)

// ByteSource yields single bytes with a bounded wait. ok is false when
// timeout expired with nothing to read.
type ByteSource interface {
	ReadByte(timeout time.Duration) (b byte, ok bool, err error)
}

type decodeState int

const (
	stateIdle decodeState = iota
	stateSawEscape
	stateSawEscapeBracket
	stateSawEscapeTail
)

// Decoder turns raw terminal bytes into Keys.
type Decoder struct {
	src           ByteSource
	EscapeTimeout time.Duration
}

// NewDecoder returns a Decoder reading from src.
func NewDecoder(src ByteSource) *Decoder {
	return &Decoder{src: src, EscapeTimeout: DefaultEscapeTimeout}
}

// Poll waits up to timeout for one keypress. ok is false if nothing arrived.
// Escape sequences are assembled here: each byte after ESC gets its own
// EscapeTimeout, so a bare ESC never blocks and a fast escape sequence is
// never split into separate keys. Up to two bytes after ESC are consumed.
func (d *Decoder) Poll(timeout time.Duration) (Key, bool, error) {
	state := stateIdle
	wait := timeout

	for {
		b, ok, err := d.src.ReadByte(wait)
		if err != nil {
			return KeyUnrecognized, false, err
		}

		switch state {
		case stateIdle:
			if !ok {
				return KeyUnrecognized, false, nil
			}
			if b == keyEsc {
				state = stateSawEscape
				wait = d.EscapeTimeout
				continue
			}
			return classifyByte(b), true, nil

		case stateSawEscape:
			if !ok {
				return KeyUnrecognized, true, nil
			}
			if b == '[' || b == 'O' {
				state = stateSawEscapeBracket
			} else {
				state = stateSawEscapeTail
			}
			continue

		case stateSawEscapeTail:
			// The second byte after ESC belongs to the sequence even when
			// the sequence is unknown, so it is never decoded on its own.
			return KeyUnrecognized, true, nil

		case stateSawEscapeBracket:
			if !ok {
				return KeyUnrecognized, true, nil
			}
			return arrowKey(b), true, nil
		}
	}
}

func classifyByte(b byte) Key {
	switch b {
	case '\n', '\r', ' ':
		return KeyConfirm
	case keyCtrlC:
		return KeyCancel
	default:
		return KeyUnrecognized
	}
}

// arrowKey maps the final byte of "ESC [ X" or "ESC O X".
func arrowKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	default:
		return KeyUnrecognized
	}
}
