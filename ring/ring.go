package ring

import "log/slog"

// LEDS_TOTAL is the number of positions of the ring the device is built
// with. The quadrant offsets are laid out for it.
const LEDS_TOTAL = 12

// Display is the LED hardware the ring is committed to.
type Display interface {
	// SetBrightness sets the global brightness, 0..255.
	SetBrightness(level uint8)
	// Commit shows a complete frame. The slice is owned by the callee.
	Commit(frame []Color)
}

// Displays fans brightness and frames out to several displays. Every
// display but the first gets its own copy of the frame.
type Displays []Display

func (d Displays) SetBrightness(level uint8) {
	for _, disp := range d {
		disp.SetBrightness(level)
	}
}

func (d Displays) Commit(frame []Color) {
	for i, disp := range d {
		if i == 0 {
			disp.Commit(frame)
			continue
		}
		cp := make([]Color, len(frame))
		copy(cp, frame)
		disp.Commit(cp)
	}
}

// Ring is the in-memory model of the LED ring. Positions are written by
// the fill operations and only become visible through Commit. The ring
// also carries the current base color, the theme every "reset" reverts to.
type Ring struct {
	leds       []Color
	brightness uint8
	base       Color
	display    Display
}

// NewRing creates a ring of size positions, all OFF, with GREEN as the
// base color.
func NewRing(size int, display Display) *Ring {
	if size <= 0 {
		panic("ring size must be positive")
	}
	leds := make([]Color, size)
	for i := range leds {
		leds[i] = OFF
	}
	return &Ring{
		leds:    leds,
		base:    GREEN,
		display: display,
	}
}

func (s *Ring) Size() int {
	return len(s.leds)
}

func (s *Ring) Base() Color {
	return s.base
}

func (s *Ring) SetBase(c Color) {
	if c != s.base {
		slog.Debug("Base color changed", "from", s.base, "to", c)
	}
	s.base = c
}

func (s *Ring) Brightness() uint8 {
	return s.brightness
}

// index maps any integer onto a ring position.
func (s *Ring) index(i int) int {
	n := len(s.leds)
	return ((i % n) + n) % n
}

func (s *Ring) SetPixel(i int, c Color) {
	s.leds[s.index(i)] = c
}

func (s *Ring) FillAll(c Color) {
	for i := range s.leds {
		s.leds[i] = c
	}
}

// FillRegion sets length consecutive positions starting at start,
// wrapping around the end of the ring.
func (s *Ring) FillRegion(start, length int, c Color) {
	for i := 0; i < length; i++ {
		s.leds[s.index(start+i)] = c
	}
}

// FillRegionPreservingBase resets the whole ring to the base color
// before overlaying the region, so only that region shows c.
func (s *Ring) FillRegionPreservingBase(start, length int, c Color) {
	s.FillAll(s.base)
	s.FillRegion(start, length, c)
}

// SetBrightness forwards the level to the hardware right away.
func (s *Ring) SetBrightness(level uint8) {
	s.brightness = level
	s.display.SetBrightness(level)
}

// Commit hands a copy of the current positions to the hardware.
func (s *Ring) Commit() {
	frame := make([]Color, len(s.leds))
	copy(frame, s.leds)
	s.display.Commit(frame)
}
