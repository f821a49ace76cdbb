package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	u "lautenbacher.net/gestureleds/util"
)

// scriptedSensor replays fixed register values. An exhausted script
// reads as CodeNone.
type scriptedSensor struct {
	primary   []Code
	secondary []Code
	primReads int
	secReads  int
}

func (s *scriptedSensor) PollPrimary() Code {
	s.primReads++
	if len(s.primary) == 0 {
		return CodeNone
	}
	c := s.primary[0]
	s.primary = s.primary[1:]
	return c
}

func (s *scriptedSensor) PollSecondary() Code {
	s.secReads++
	if len(s.secondary) == 0 {
		return CodeNone
	}
	c := s.secondary[0]
	s.secondary = s.secondary[1:]
	return c
}

func newTestClassifier(sensor Sensor) (*Classifier, *u.FakeClock) {
	clk := u.NewFakeClock(time.Time{})
	return NewClassifier(sensor, clk, ENTRY_TIME, QUIT_TIME), clk
}

func TestClassify_RightThenForward(t *testing.T) {
	sensor := &scriptedSensor{primary: []Code{CodeRight, CodeForward}}
	c, clk := newTestClassifier(sensor)

	res := c.Classify()

	assert.Equal(t, FORWARD, res.Event)
	assert.Equal(t, QUIT_TIME, res.Quiet)
	assert.Equal(t, []time.Duration{ENTRY_TIME}, clk.Sleeps())
	assert.Equal(t, 2, sensor.primReads)
	assert.Equal(t, "IDLE", c.State())
}

func TestClassify_RightThenNeutral(t *testing.T) {
	sensor := &scriptedSensor{primary: []Code{CodeRight, CodeNone}}
	c, clk := newTestClassifier(sensor)

	res := c.Classify()

	assert.Equal(t, RIGHT, res.Event)
	assert.Equal(t, time.Duration(0), res.Quiet)
	assert.Equal(t, ENTRY_TIME, clk.Slept(), "no delay beyond the confirm window")
	assert.Equal(t, 0, sensor.secReads)
}

func TestClassify_DirectionalThenBackward(t *testing.T) {
	for _, code := range []Code{CodeUp, CodeDown, CodeLeft, CodeRight} {
		sensor := &scriptedSensor{primary: []Code{code, CodeBackward}}
		c, _ := newTestClassifier(sensor)

		res := c.Classify()

		assert.Equal(t, BACKWARD, res.Event, "code %s", code)
		assert.Equal(t, QUIT_TIME, res.Quiet)
	}
}

func TestClassify_DirectionalConfirmed(t *testing.T) {
	cases := map[Code]Event{CodeUp: UP, CodeDown: DOWN, CodeLeft: LEFT, CodeRight: RIGHT}
	for code, expected := range cases {
		// another directional code on re-poll does not override the pending one
		sensor := &scriptedSensor{primary: []Code{code, CodeClockwise}}
		c, _ := newTestClassifier(sensor)

		assert.Equal(t, expected, c.Classify().Event, "code %s", code)
	}
}

func TestClassify_DirectForwardBackward(t *testing.T) {
	for code, expected := range map[Code]Event{CodeForward: FORWARD, CodeBackward: BACKWARD} {
		sensor := &scriptedSensor{primary: []Code{code}}
		c, clk := newTestClassifier(sensor)

		res := c.Classify()

		assert.Equal(t, expected, res.Event)
		assert.Equal(t, QUIT_TIME, res.Quiet)
		assert.Empty(t, clk.Sleeps(), "no confirm window for forward/backward")
	}
}

func TestClassify_Rotation(t *testing.T) {
	for code, expected := range map[Code]Event{CodeClockwise: CLOCKWISE, CodeAnticlockwise: ANTICLOCKWISE} {
		sensor := &scriptedSensor{primary: []Code{code}}
		c, clk := newTestClassifier(sensor)

		res := c.Classify()

		assert.Equal(t, expected, res.Event)
		assert.Equal(t, time.Duration(0), res.Quiet)
		assert.Empty(t, clk.Sleeps())
	}
}

func TestClassify_Wave(t *testing.T) {
	sensor := &scriptedSensor{primary: []Code{CodeNone}, secondary: []Code{CodeWave}}
	c, _ := newTestClassifier(sensor)

	assert.Equal(t, WAVE, c.Classify().Event)
	assert.Equal(t, 1, sensor.secReads)
}

func TestClassify_Nothing(t *testing.T) {
	sensor := &scriptedSensor{}
	c, clk := newTestClassifier(sensor)

	res := c.Classify()

	assert.Equal(t, NONE, res.Event)
	assert.Equal(t, time.Duration(0), res.Quiet)
	assert.Empty(t, clk.Sleeps())
}

func TestClassify_UnrecognizedCodes(t *testing.T) {
	for _, code := range []Code{0x03, 0x11, 0xff, 0x0c} {
		sensor := &scriptedSensor{primary: []Code{code}, secondary: []Code{0x7e}}
		c, _ := newTestClassifier(sensor)

		assert.NotPanics(t, func() {
			assert.Equal(t, NONE, c.Classify().Event, "code %s", code)
		})
	}
}

func TestClassify_SecondaryOnlyForUnknownPrimary(t *testing.T) {
	sensor := &scriptedSensor{primary: []Code{CodeClockwise}, secondary: []Code{CodeWave}}
	c, _ := newTestClassifier(sensor)

	assert.Equal(t, CLOCKWISE, c.Classify().Event)
	assert.Equal(t, 0, sensor.secReads)
}

func TestTransition_Total(t *testing.T) {
	states := []state{{kind: idle}, {kind: confirming, pending: UP}, {kind: confirming, pending: LEFT}}
	for _, s := range states {
		for c := 0; c < 256; c++ {
			out := transition(s, Code(c))
			if s.kind == confirming {
				assert.Equal(t, idle, out.next.kind, "confirming always resolves")
				assert.Equal(t, actEmit, out.act)
			} else if out.act == actConfirm {
				assert.True(t, out.next.pending.directional())
			}
		}
	}
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "ANTICLOCKWISE", ANTICLOCKWISE.String())
	assert.Equal(t, "UNKNOWN", Event(40).String())
	assert.Len(t, Events(), 9)
}

func TestPrimaryCode(t *testing.T) {
	for _, e := range Events() {
		if e == WAVE {
			assert.Equal(t, CodeNone, PrimaryCode(e))
			continue
		}
		assert.Equal(t, e, FromPrimary(PrimaryCode(e)))
	}
}
