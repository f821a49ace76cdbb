package ring

// Led is the RGB value of a single physical pixel as handed to the
// LED drivers.
type Led struct {
	Red   float64
	Green float64
	Blue  float64
}

// True if all components are zero, false otherwise
func (s Led) IsEmpty() bool {
	return s.Red == 0 && s.Green == 0 && s.Blue == 0
}

// Scale returns the Led with every component multiplied by factor.
func (s Led) Scale(factor float64) Led {
	return Led{Red: s.Red * factor, Green: s.Green * factor, Blue: s.Blue * factor}
}

// ToLeds converts a committed frame to RGB values at the given
// brightness, 255 being full intensity.
func ToLeds(frame []Color, brightness uint8, buffer []Led) []Led {
	if cap(buffer) < len(frame) {
		buffer = make([]Led, len(frame))
	}
	buffer = buffer[:len(frame)]
	factor := float64(brightness) / 255
	for i, c := range frame {
		buffer[i] = c.RGB().Scale(factor)
	}
	return buffer
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
