package gesture

import "fmt"

// Code is a raw value read from one of the two gesture result
// registers of the sensor (PAJ7620 bank 0, 0x43 and 0x44).
type Code uint8

// Primary result register flags.
const (
	CodeNone          Code = 0x00
	CodeRight         Code = 0x01
	CodeLeft          Code = 0x02
	CodeUp            Code = 0x04
	CodeDown          Code = 0x08
	CodeForward       Code = 0x10
	CodeBackward      Code = 0x20
	CodeClockwise     Code = 0x40
	CodeAnticlockwise Code = 0x80
)

// Secondary result register flag.
const CodeWave Code = 0x01

func (c Code) String() string {
	return fmt.Sprintf("0x%02x", uint8(c))
}

// Sensor is the gesture sensor as seen by the classifier. A failed read
// is reported as CodeNone.
type Sensor interface {
	PollPrimary() Code
	PollSecondary() Code
}
