package platform

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/gammazero/deque"
	"github.com/grant-carpenter/go-ads"
	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	c "lautenbacher.net/gestureleds/config"
)

// presenceSensor is a controller.PresenceSensor that owns hardware.
type presenceSensor interface {
	IsPresent() bool
	close() error
}

func newPresenceSensor(cfg c.PresenceConfig) (presenceSensor, error) {
	switch strings.ToLower(cfg.Source) {
	case c.PRESENCE_GPIO:
		pin := gpioreg.ByName(cfg.Pin)
		if pin == nil {
			return nil, fmt.Errorf("failed to find pin %s", cfg.Pin)
		}
		return newGpioPresence(pin, cfg.ActiveLow)
	case c.PRESENCE_RPIO:
		return newRpioPresence(cfg.Pin, cfg.ActiveLow)
	case c.PRESENCE_ADS:
		return newAdsPresence(cfg.ADS)
	}
	return nil, fmt.Errorf("unknown presence source: %s", cfg.Source)
}

// gpioPresence reads a digital presence sensor (PIR, radar module)
// through periph.
type gpioPresence struct {
	pin       gpio.PinIO
	activeLow bool
}

func newGpioPresence(pin gpio.PinIO, activeLow bool) (*gpioPresence, error) {
	pull := gpio.PullDown
	if activeLow {
		pull = gpio.PullUp
	}
	if err := pin.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to set pin %s to input: %w", pin, err)
	}
	return &gpioPresence{pin: pin, activeLow: activeLow}, nil
}

func (s *gpioPresence) IsPresent() bool {
	return (s.pin.Read() == gpio.High) != s.activeLow
}

func (s *gpioPresence) close() error {
	return s.pin.Halt()
}

// rpioPresence reads the same kind of sensor through go-rpio's
// memory mapped GPIO registers.
type rpioPresence struct {
	pin       rpio.Pin
	activeLow bool
}

// bcmPin parses "GPIO17" or "17".
func bcmPin(name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "GPIO"))
	if err != nil || n < 0 || n > 27 {
		return 0, fmt.Errorf("invalid BCM pin name %q", name)
	}
	return n, nil
}

func newRpioPresence(name string, activeLow bool) (*rpioPresence, error) {
	n, err := bcmPin(name)
	if err != nil {
		return nil, err
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open rpio: %w", err)
	}
	pin := rpio.Pin(n)
	pin.Input()
	if activeLow {
		pin.PullUp()
	} else {
		pin.PullDown()
	}
	return &rpioPresence{pin: pin, activeLow: activeLow}, nil
}

func (s *rpioPresence) IsPresent() bool {
	return (s.pin.Read() == rpio.High) != s.activeLow
}

func (s *rpioPresence) close() error {
	return rpio.Close()
}

// ADS_WINDOW is the number of readings averaged by adsPresence.
const ADS_WINDOW = 4

// adsPresence compares a smoothed analog distance reading (e.g. a Sharp
// IR distance sensor on an ADS1115) with a threshold.
type adsPresence struct {
	read      func() (int, error)
	closer    func() error
	threshold int
	window    deque.Deque[int]
	sum       int
	present   bool
}

func newAdsPresence(cfg c.ADSConfig) (*adsPresence, error) {
	if err := ads.HostInit(); err != nil {
		return nil, fmt.Errorf("failed to init ads host: %w", err)
	}
	dev, err := ads.NewADS(cfg.Bus, cfg.Address, "")
	if err != nil {
		return nil, fmt.Errorf("failed to open ads on %s: %w", cfg.Bus, err)
	}
	dev.SetConfigGain(ads.ConfigGain2_3)
	read := func() (int, error) {
		v, err := dev.ReadRetry(5)
		return int(v), err
	}
	closer := func() error {
		dev.Close()
		return nil
	}
	return newAdsPresenceWith(read, closer, cfg.Threshold), nil
}

func newAdsPresenceWith(read func() (int, error), closer func() error, threshold int) *adsPresence {
	return &adsPresence{read: read, closer: closer, threshold: threshold}
}

func (s *adsPresence) smoothedValue(value int) int {
	s.window.PushBack(value)
	s.sum += value
	if s.window.Len() > ADS_WINDOW {
		s.sum -= s.window.PopFront()
	}
	return int(math.Round(float64(s.sum) / float64(s.window.Len())))
}

// IsPresent keeps the last answer when a read fails.
func (s *adsPresence) IsPresent() bool {
	v, err := s.read()
	if err != nil {
		slog.Error("Error reading presence ADC", "error", err)
		return s.present
	}
	s.present = s.smoothedValue(v) >= s.threshold
	return s.present
}

func (s *adsPresence) close() error {
	return s.closer()
}
