package animation

import (
	"log/slog"
	"time"

	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

const (
	FRAME_DELAY   = 150 * time.Millisecond
	WAITING_DELAY = 75 * time.Millisecond
	TURNS         = 2
	RAMP_STEPS    = 30
)

// Direction selects the palette step used by Sweep.
type Direction int

const (
	Clockwise Direction = iota
	Anticlockwise
)

func (d Direction) String() string {
	if d == Anticlockwise {
		return "anticlockwise"
	}
	return "clockwise"
}

// Animator renders the visual effects onto a Ring. Every frame is
// committed and followed by a blocking delay on the clock; an effect
// always runs to its last frame.
type Animator struct {
	ring         *r.Ring
	clock        u.Clock
	frameDelay   time.Duration
	waitingDelay time.Duration
	turns        int
}

func NewAnimator(ring *r.Ring, clock u.Clock, frameDelay, waitingDelay time.Duration, turns int) *Animator {
	return &Animator{
		ring:         ring,
		clock:        clock,
		frameDelay:   frameDelay,
		waitingDelay: waitingDelay,
		turns:        turns,
	}
}

func (s *Animator) frame() {
	s.ring.Commit()
	s.clock.Sleep(s.frameDelay)
}

// Sweep shows a rotating rainbow for turns × N frames. Both the color
// progression along the ring and the per-frame offset use Next for
// Clockwise and Previous for Anticlockwise. The base color is not
// changed.
func (s *Animator) Sweep(dir Direction) int {
	step := r.Next
	if dir == Anticlockwise {
		step = r.Previous
	}
	size := s.ring.Size()
	frames := s.turns * size
	slog.Debug("Sweep", "direction", dir, "frames", frames)

	offset := s.ring.Base()
	for k := 0; k < frames; k++ {
		color := offset
		for j := 0; j < size; j++ {
			s.ring.SetPixel(j, color)
			color = step(color)
		}
		s.frame()
		offset = step(offset)
	}
	return frames
}

// CascadeLeftToRight fills mirrored pairs from both ends toward the
// middle and makes target the new base color.
func (s *Animator) CascadeLeftToRight(target r.Color) int {
	size := s.ring.Size()
	for i := 0; i < size/2; i++ {
		s.ring.SetPixel(i, target)
		s.ring.SetPixel(size-1-i, target)
		s.frame()
	}
	s.ring.SetBase(target)
	return size / 2
}

// CascadeRightToLeft fills mirrored pairs from the middle toward both
// ends and makes target the new base color.
func (s *Animator) CascadeRightToLeft(target r.Color) int {
	size := s.ring.Size()
	for i := 0; i < size/2; i++ {
		s.ring.SetPixel(size/2-1-i, target)
		s.ring.SetPixel(size/2+i, target)
		s.frame()
	}
	s.ring.SetBase(target)
	return size / 2
}

// QuadrantSplit paints the four quadrants with four successive palette
// colors, NORTH getting the base color itself.
func (s *Animator) QuadrantSplit() {
	color := s.ring.Base()
	for _, q := range []Quadrant{North, East, South, West} {
		start, length := q.Region(s.ring.Size())
		s.ring.FillRegion(start, length, color)
		color = r.Next(color)
	}
	s.ring.Commit()
}

// ArmHighlight resets the ring to the base color and shows the next
// palette color on quadrant q only. Advancing the base color is left
// to the caller.
func (s *Animator) ArmHighlight(q Quadrant) {
	start, length := q.Region(s.ring.Size())
	s.ring.FillRegionPreservingBase(start, length, r.Next(s.ring.Base()))
	s.ring.Commit()
}

// Flash fills the whole ring with c and holds it for dwell.
func (s *Animator) Flash(c r.Color, dwell time.Duration) {
	s.ring.FillAll(c)
	s.ring.Commit()
	s.clock.Sleep(dwell)
}

// Fill shows c on the whole ring without any delay.
func (s *Animator) Fill(c r.Color) {
	s.ring.FillAll(c)
	s.ring.Commit()
}

// Blank turns the whole ring off.
func (s *Animator) Blank() {
	s.Fill(r.OFF)
}

// Ramp is the triangular brightness curve of the waiting animation:
// 0 up to 255 over steps 0..15, then back down to 17 at step 29.
func Ramp(step int) uint8 {
	step = ((step % RAMP_STEPS) + RAMP_STEPS) % RAMP_STEPS
	if step <= 15 {
		return uint8(step * 17)
	}
	return uint8(255 - (step%15)*17)
}

// BreatheStep lights the ring in c at Ramp(step), holds it for the
// waiting delay and blanks it again. The ring is therefore always OFF
// between two steps.
func (s *Animator) BreatheStep(step int, c r.Color) {
	s.ring.SetBrightness(Ramp(step))
	s.ring.FillAll(c)
	s.ring.Commit()
	s.clock.Sleep(s.waitingDelay)
	s.Blank()
}
