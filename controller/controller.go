package controller

import (
	"context"
	"log/slog"

	"lautenbacher.net/gestureleds/animation"
	"lautenbacher.net/gestureleds/gesture"
	"lautenbacher.net/gestureleds/ring"
	"lautenbacher.net/gestureleds/util"
)

// Controller is the interaction state machine. It owns the ring, the
// base color and the mode; all of them are only touched from the
// goroutine calling Step or Run.
type Controller struct {
	ring       *ring.Ring
	animator   *animation.Animator
	classifier *gesture.Classifier
	presence   PresenceSensor
	clock      util.Clock
	timing     Timing
	publishers []Publisher

	mode        InteractionMode
	lastMode    InteractionMode
	activeStep  int
	waitingStep int
}

func New(rg *ring.Ring, anim *animation.Animator, cls *gesture.Classifier, presence PresenceSensor, clock util.Clock, opts ...Opt) *Controller {
	c := &Controller{
		ring:       rg,
		animator:   anim,
		classifier: cls,
		presence:   presence,
		clock:      clock,
		timing:     DefaultTiming(),
		mode:       WAITING,
		lastMode:   WAITING,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timing.ActiveLoops <= 0 {
		c.timing.ActiveLoops = 1
	}
	return c
}

func (c *Controller) Mode() InteractionMode {
	return c.mode
}

func (c *Controller) Base() ring.Color {
	return c.ring.Base()
}

// Start sets the startup brightness and blanks the ring.
func (c *Controller) Start() {
	c.ring.SetBrightness(c.timing.StartupBrightness)
	c.animator.Blank()
	slog.Info("Controller started", "leds", c.ring.Size(), "base", c.ring.Base())
	c.publish(KindStart, gesture.NONE)
}

// Run calls Step until ctx is done. Cancellation is only observed
// between two iterations; a running animation always finishes.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Ending controller loop...")
			return
		default:
			c.Step()
		}
	}
}

// Step runs one iteration of the interaction loop.
func (c *Controller) Step() {
	if c.mode == WAITING || c.activeStep%c.timing.ActiveLoops == 0 {
		if c.presence.IsPresent() {
			c.mode = ACTIVE
		} else {
			c.mode = WAITING
		}
	}

	if c.mode == ACTIVE {
		c.activeStep++
		if c.lastMode != c.mode {
			c.lastMode = c.mode
			slog.Info("Presence detected, switching to active mode")
			c.publish(KindMode, gesture.NONE)
			c.ring.SetBrightness(c.timing.ActiveBrightness)
			c.animator.Flash(ring.WHITE, c.timing.WelcomeDwell)
		}
		res := c.classifier.Classify()
		c.Dispatch(res.Event)
		c.clock.Sleep(res.Quiet)
		c.clock.Sleep(c.timing.GestureWait)
		return
	}

	if c.lastMode != c.mode {
		c.lastMode = c.mode
		slog.Info("Presence lost, switching to waiting mode")
		c.publish(KindMode, gesture.NONE)
		c.animator.Blank()
	}
	c.animator.BreatheStep(c.waitingStep, c.timing.BreatheColor)
	c.waitingStep = (c.waitingStep + 1) % animation.RAMP_STEPS
}

// Dispatch renders the effect bound to e. NONE does nothing.
func (c *Controller) Dispatch(e gesture.Event) {
	switch e {
	case gesture.NONE:
		return
	case gesture.UP:
		slog.Info("Up Gesture")
		c.highlight(animation.North)
	case gesture.DOWN:
		slog.Info("Down Gesture")
		c.highlight(animation.South)
	case gesture.LEFT:
		slog.Info("Left Gesture")
		c.highlight(animation.West)
	case gesture.RIGHT:
		slog.Info("Right Gesture")
		c.highlight(animation.East)
	case gesture.FORWARD:
		slog.Info("Forward Gesture")
		c.animator.Fill(ring.OFF)
	case gesture.BACKWARD:
		slog.Info("Backward Gesture")
		c.animator.Fill(c.ring.Base())
	case gesture.WAVE:
		slog.Info("Wave Gesture")
		c.ring.SetBase(ring.Next(c.ring.Base()))
		c.animator.QuadrantSplit()
	case gesture.CLOCKWISE:
		slog.Info("Clockwise Gesture")
		c.animator.Sweep(animation.Clockwise)
	case gesture.ANTICLOCKWISE:
		slog.Info("Anticlockwise Gesture")
		c.animator.Sweep(animation.Anticlockwise)
	default:
		slog.Warn("Ignoring unknown gesture", "event", int(e))
		return
	}
	c.publish(KindGesture, e)
}

func (c *Controller) highlight(q animation.Quadrant) {
	c.animator.ArmHighlight(q)
	c.ring.SetBase(ring.Next(c.ring.Base()))
}

func (c *Controller) publish(kind NotificationKind, e gesture.Event) {
	if len(c.publishers) == 0 {
		return
	}
	n := Notification{
		Kind:    kind,
		Gesture: e,
		Mode:    c.mode,
		Base:    c.ring.Base(),
		Time:    c.clock.Now(),
	}
	for _, p := range c.publishers {
		p.Publish(n)
	}
}
