package gesture

import (
	"log/slog"
	"time"

	u "lautenbacher.net/gestureleds/util"
)

const (
	ENTRY_TIME = 800 * time.Millisecond
	QUIT_TIME  = 1000 * time.Millisecond
)

type stateKind int

const (
	idle stateKind = iota
	confirming
)

// state of the classifier. pending is only meaningful while confirming.
type state struct {
	kind    stateKind
	pending Event
}

func (s state) String() string {
	if s.kind == confirming {
		return "CONFIRMING(" + s.pending.String() + ")"
	}
	return "IDLE"
}

// action tells Classify what to do after a transition.
type action int

const (
	actEmit       action = iota // emit the outcome event
	actConfirm                  // wait the entry time and re-poll the primary register
	actSecondary                // read the secondary register
)

type outcome struct {
	next  state
	act   action
	emit  Event
	quiet bool
}

// transition is the classifier's transition table. It is total over
// every state and every raw code.
func transition(s state, c Code) outcome {
	ev := FromPrimary(c)
	switch s.kind {
	case confirming:
		if ev.depth() {
			return outcome{next: state{kind: idle}, act: actEmit, emit: ev, quiet: true}
		}
		return outcome{next: state{kind: idle}, act: actEmit, emit: s.pending}
	default:
		switch {
		case ev.directional():
			return outcome{next: state{kind: confirming, pending: ev}, act: actConfirm}
		case ev.depth():
			return outcome{next: state{kind: idle}, act: actEmit, emit: ev, quiet: true}
		case ev.rotation():
			return outcome{next: state{kind: idle}, act: actEmit, emit: ev}
		}
		return outcome{next: state{kind: idle}, act: actSecondary}
	}
}

// Classification is the result of one Classify call. Quiet is the time
// the caller must stay silent after dispatching Event.
type Classification struct {
	Event Event
	Quiet time.Duration
}

// Classifier turns raw sensor codes into gesture events. Directional
// codes are ambiguous: the sensor reports them at the start of a
// forward/backward swipe too, so they are only emitted after the entry
// time has passed without a forward/backward code showing up.
type Classifier struct {
	sensor    Sensor
	clock     u.Clock
	entryTime time.Duration
	quitTime  time.Duration
	state     state
}

func NewClassifier(sensor Sensor, clock u.Clock, entryTime, quitTime time.Duration) *Classifier {
	return &Classifier{
		sensor:    sensor,
		clock:     clock,
		entryTime: entryTime,
		quitTime:  quitTime,
	}
}

// State returns the name of the current state.
func (s *Classifier) State() string {
	return s.state.String()
}

// Classify polls the sensor once, plus at most one confirm re-poll or
// one secondary read, and returns the resulting event. It blocks for
// the entry time when a directional code needs confirmation.
func (s *Classifier) Classify() Classification {
	code := s.sensor.PollPrimary()
	for {
		out := transition(s.state, code)
		if out.next.kind != s.state.kind || out.next.pending != s.state.pending {
			slog.Debug("Classifier transition", "from", s.state, "to", out.next, "code", code)
		}
		s.state = out.next

		switch out.act {
		case actConfirm:
			s.clock.Sleep(s.entryTime)
			code = s.sensor.PollPrimary()
			continue
		case actSecondary:
			if s.sensor.PollSecondary() == CodeWave {
				return Classification{Event: WAVE}
			}
			return Classification{Event: NONE}
		default:
			res := Classification{Event: out.emit}
			if out.quiet {
				res.Quiet = s.quitTime
			}
			return res
		}
	}
}
