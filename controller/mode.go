package controller

// InteractionMode is the top-level state of the controller.
type InteractionMode int

const (
	ACTIVE InteractionMode = iota
	WAITING
)

func (m InteractionMode) String() string {
	if m == ACTIVE {
		return "ACTIVE"
	}
	return "WAITING"
}

// PresenceSensor reports whether somebody is in front of the device.
type PresenceSensor interface {
	IsPresent() bool
}
