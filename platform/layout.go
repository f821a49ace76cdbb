package platform

import (
	"log/slog"

	c "lautenbacher.net/gestureleds/config"
	r "lautenbacher.net/gestureleds/ring"
)

// layout maps logical ring positions to the physical order of the
// pixels on the wire. Logical position 0 sits at physical index offset;
// with reverse set the logical order runs against the wiring.
type layout struct {
	size    int
	offset  int
	reverse bool
}

func newLayout(cfg c.LayoutConfig, size int) layout {
	return layout{
		size:    size,
		offset:  clamp(cfg.Offset, size),
		reverse: cfg.Reverse,
	}
}

// physical returns the wire index of logical position i.
func (s layout) physical(i int) int {
	if s.reverse {
		i = -i
	}
	return ((s.offset+i)%s.size + s.size) % s.size
}

// apply writes the logical leds into dst in wire order. dst must hold
// at least size entries.
func (s layout) apply(leds []r.Led, dst []r.Led) []r.Led {
	dst = dst[:s.size]
	for i := 0; i < s.size && i < len(leds); i++ {
		dst[s.physical(i)] = leds[i]
	}
	return dst
}

// clamp ensures the LED index is within bounds.
func clamp(led int, ledsTotal int) int {
	switch {
	case led < 0:
		slog.Warn("LED index smaller than 0, using 0", "index", led)
		return 0
	case led >= ledsTotal:
		slog.Warn("LED index too big, using max", "index", led, "max", ledsTotal-1)
		return ledsTotal - 1
	}
	return led
}
