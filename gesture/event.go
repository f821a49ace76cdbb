package gesture

// Event is a classified gesture.
type Event int

const (
	NONE Event = iota
	UP
	DOWN
	LEFT
	RIGHT
	FORWARD
	BACKWARD
	CLOCKWISE
	ANTICLOCKWISE
	WAVE
)

var eventNames = [...]string{"NONE", "UP", "DOWN", "LEFT", "RIGHT", "FORWARD", "BACKWARD", "CLOCKWISE", "ANTICLOCKWISE", "WAVE"}

func (e Event) String() string {
	if e < NONE || e > WAVE {
		return "UNKNOWN"
	}
	return eventNames[e]
}

// Events lists every event except NONE.
func Events() []Event {
	return []Event{UP, DOWN, LEFT, RIGHT, FORWARD, BACKWARD, CLOCKWISE, ANTICLOCKWISE, WAVE}
}

// primaryEvents maps the recognized primary register codes.
var primaryEvents = map[Code]Event{
	CodeRight:         RIGHT,
	CodeLeft:          LEFT,
	CodeUp:            UP,
	CodeDown:          DOWN,
	CodeForward:       FORWARD,
	CodeBackward:      BACKWARD,
	CodeClockwise:     CLOCKWISE,
	CodeAnticlockwise: ANTICLOCKWISE,
}

// FromPrimary returns the event for a primary register code, NONE for
// anything unrecognized.
func FromPrimary(c Code) Event {
	if e, ok := primaryEvents[c]; ok {
		return e
	}
	return NONE
}

// PrimaryCode is the inverse of FromPrimary. WAVE and NONE have no
// primary code and yield CodeNone.
func PrimaryCode(e Event) Code {
	for c, ev := range primaryEvents {
		if ev == e {
			return c
		}
	}
	return CodeNone
}

func (e Event) directional() bool {
	return e == UP || e == DOWN || e == LEFT || e == RIGHT
}

func (e Event) depth() bool {
	return e == FORWARD || e == BACKWARD
}

func (e Event) rotation() bool {
	return e == CLOCKWISE || e == ANTICLOCKWISE
}
