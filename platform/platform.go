package platform

import (
	"lautenbacher.net/gestureleds/controller"
	"lautenbacher.net/gestureleds/gesture"
	"lautenbacher.net/gestureleds/ring"
)

// Platform abstracts the real hardware away from the TUI simulation.
// It is the ring's display, the gesture sensor and the presence sensor
// in one.
type Platform interface {
	ring.Display
	gesture.Sensor
	controller.PresenceSensor

	// Start initializes the platform (opens SPI/I2C/GPIO, or starts the TUI).
	Start() error

	// Stop releases all platform resources. The ring is blanked first.
	Stop()

	// Ready is closed once the platform can take frames.
	Ready() <-chan bool

	// LedsTotal is the number of pixels on the ring.
	LedsTotal() int
}
