package controller

import (
	"time"

	"lautenbacher.net/gestureleds/gesture"
	"lautenbacher.net/gestureleds/ring"
)

// Opt defines a controller option
type Opt func(*Controller)

// WithPublisher adds a publisher that is told about every dispatched
// gesture and every mode change.
func WithPublisher(p Publisher) Opt {
	return func(c *Controller) {
		c.publishers = append(c.publishers, p)
	}
}

// WithTiming replaces the default loop timing.
func WithTiming(t Timing) Opt {
	return func(c *Controller) {
		c.timing = t
	}
}

// Timing holds the fixed parameters of the interaction loop.
type Timing struct {
	// ACTIVE iterations between two presence polls
	ActiveLoops       int
	WelcomeDwell      time.Duration
	GestureWait       time.Duration
	StartupBrightness uint8
	ActiveBrightness  uint8
	BreatheColor      ring.Color
}

func DefaultTiming() Timing {
	return Timing{
		ActiveLoops:       10,
		WelcomeDwell:      1000 * time.Millisecond,
		GestureWait:       100 * time.Millisecond,
		StartupBrightness: 200,
		ActiveBrightness:  255,
		BreatheColor:      ring.BLUE,
	}
}

type NotificationKind string

const (
	KindStart   NotificationKind = "START"
	KindMode    NotificationKind = "MODE"
	KindGesture NotificationKind = "GESTURE"
)

// Notification describes something the controller did. Gesture is NONE
// unless Kind is KindGesture.
type Notification struct {
	Kind    NotificationKind
	Gesture gesture.Event
	Mode    InteractionMode
	Base    ring.Color
	Time    time.Time
}

// Publisher receives notifications from the control loop. Publish is
// called synchronously and must not block for long.
type Publisher interface {
	Publish(n Notification)
}
