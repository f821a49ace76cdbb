package ring

import "sync"

// Recorder is a Display that keeps every committed frame in memory.
// It backs headless runs and the tests of the packages built on Ring.
type Recorder struct {
	mu          sync.Mutex
	frames      [][]Color
	brightness  []uint8
	current     uint8
	frameLevels []uint8
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (s *Recorder) SetBrightness(level uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = level
	s.brightness = append(s.brightness, level)
}

func (s *Recorder) Commit(frame []Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Color, len(frame))
	copy(cp, frame)
	s.frames = append(s.frames, cp)
	s.frameLevels = append(s.frameLevels, s.current)
}

// Frames returns a copy of all committed frames.
func (s *Recorder) Frames() [][]Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([][]Color, len(s.frames))
	for i, f := range s.frames {
		ret[i] = make([]Color, len(f))
		copy(ret[i], f)
	}
	return ret
}

// Last returns the most recent frame or nil.
func (s *Recorder) Last() []Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	ret := make([]Color, len(s.frames[len(s.frames)-1]))
	copy(ret, s.frames[len(s.frames)-1])
	return ret
}

// FrameCount returns the number of committed frames.
func (s *Recorder) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Brightness returns every level passed to SetBrightness, in order.
func (s *Recorder) Brightness() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]uint8, len(s.brightness))
	copy(ret, s.brightness)
	return ret
}

// BrightnessAt returns the brightness that was active when frame i was
// committed.
func (s *Recorder) BrightnessAt(i int) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLevels[i]
}

// Clear forgets everything recorded so far, including the current
// brightness. The recorder is then in the same state as a new one.
func (s *Recorder) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = 0
	s.frames = nil
	s.brightness = nil
	s.frameLevels = nil
}
