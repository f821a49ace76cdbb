package platform

import (
	"sync"

	c "lautenbacher.net/gestureleds/config"
	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

// AbstractPlatform holds the display path shared by the hardware and
// the TUI platform: brightness, night dimming, conversion to RGB and
// the logical-to-physical layout. The concrete platform only supplies
// displayFunc.
type AbstractPlatform struct {
	config         *c.Config
	clock          u.Clock
	size           int
	layout         layout
	dimmer         *nightDimmer
	brightness     uint8
	logical        []r.Led
	wire           []r.Led
	displayFunc    func([]r.Led)
	readyChan      chan bool
	shutdownMutex  sync.RWMutex
	isShuttingDown bool
}

func newAbstractPlatform(conf *c.Config, lay c.LayoutConfig, size int, clock u.Clock, displayFunc func([]r.Led)) *AbstractPlatform {
	return &AbstractPlatform{
		config:      conf,
		clock:       clock,
		size:        size,
		layout:      newLayout(lay, size),
		dimmer:      newNightDimmer(conf.NightDim),
		brightness:  255,
		logical:     make([]r.Led, size),
		wire:        make([]r.Led, size),
		displayFunc: displayFunc,
		readyChan:   make(chan bool),
	}
}

func (s *AbstractPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *AbstractPlatform) LedsTotal() int {
	return s.size
}

func (s *AbstractPlatform) SetBrightness(level uint8) {
	s.brightness = level
}

// Commit converts the frame at the current (possibly night dimmed)
// brightness and hands it to the concrete display in wire order.
func (s *AbstractPlatform) Commit(frame []r.Color) {
	level := s.dimmer.scale(s.brightness, s.clock.Now())
	s.logical = r.ToLeds(frame, level, s.logical)
	s.wire = s.layout.apply(s.logical, s.wire)

	s.shutdownMutex.RLock()
	defer s.shutdownMutex.RUnlock()
	if !s.isShuttingDown {
		s.displayFunc(s.wire)
	}
}

// blank writes an all dark frame, bypassing the shutdown guard.
func (s *AbstractPlatform) blank() {
	for i := range s.wire {
		s.wire[i] = r.Led{}
	}
	s.displayFunc(s.wire)
}

func (s *AbstractPlatform) setInShutdown() {
	s.shutdownMutex.Lock()
	s.isShuttingDown = true
	s.shutdownMutex.Unlock()
}
