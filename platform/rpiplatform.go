package platform

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	c "lautenbacher.net/gestureleds/config"
	g "lautenbacher.net/gestureleds/gesture"
	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

type RaspberryPiPlatform struct {
	*AbstractPlatform
	ledDriver ledDriver
	spiPort   spi.PortCloser
	spiConn   spi.Conn
	spiMutex  sync.Mutex
	i2cBus    i2c.BusCloser
	gesture   *paj7620
	presence  presenceSensor
}

func NewRaspberryPiPlatform(conf *c.Config) *RaspberryPiPlatform {
	inst := &RaspberryPiPlatform{}
	inst.AbstractPlatform = newAbstractPlatform(conf, conf.Hardware.Layout, r.LEDS_TOTAL, u.NewRealClock(), inst.rpiDisplayFunc)
	return inst
}

func (s *RaspberryPiPlatform) Start() error {
	hw := s.config.Hardware

	slog.Info("Initialise GPIO, I2C and Spi...")
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to init periph: %w", err)
	}

	var err error
	s.spiPort, err = spireg.Open(hw.SPIDevice)
	if err != nil {
		return fmt.Errorf("failed to open spi %s: %w", hw.SPIDevice, err)
	}

	switch strings.ToUpper(hw.LEDType) {
	case c.LED_WS2812:
		s.ledDriver, err = newNrzledDriver(hw, s.size, s.spiPort)
		if err != nil {
			return err
		}
	case c.LED_APA102, c.LED_WS2801:
		s.spiConn, err = s.spiPort.Connect(physic.Frequency(hw.SPIFrequency)*physic.Hertz, spi.Mode0, 8)
		if err != nil {
			return fmt.Errorf("failed to connect to spi device: %w", err)
		}
		if strings.ToUpper(hw.LEDType) == c.LED_APA102 {
			s.ledDriver = newApa102Driver(hw, s.size, s.spiExchange)
		} else {
			s.ledDriver = newWs2801Driver(hw, s.size, s.spiExchange)
		}
	default:
		return fmt.Errorf("unknown LED type: %s", hw.LEDType)
	}

	s.i2cBus, err = i2creg.Open(hw.GestureSensor.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open i2c bus %q: %w", hw.GestureSensor.I2CBus, err)
	}
	s.gesture = newPaj7620(s.i2cBus, hw.GestureSensor.Address)
	if err := s.gesture.init(); err != nil {
		return err
	}

	s.presence, err = newPresenceSensor(hw.Presence)
	if err != nil {
		return err
	}
	slog.Info("Hardware ready", "leds", s.size, "type", hw.LEDType, "presence", hw.Presence.Source)

	close(s.readyChan) // For RPi, we are ready immediately.
	return nil
}

func (s *RaspberryPiPlatform) Stop() {
	s.setInShutdown()

	if s.ledDriver != nil {
		if err := s.ledDriver.halt(); err != nil {
			slog.Error("Error blanking LEDs", "error", err)
		}
	}
	if s.presence != nil {
		if err := s.presence.close(); err != nil {
			slog.Error("Error closing presence sensor", "error", err)
		}
		s.presence = nil
	}
	if s.i2cBus != nil {
		if err := s.i2cBus.Close(); err != nil {
			slog.Error("Error closing i2c bus", "error", err)
		}
		s.i2cBus = nil
	}
	if s.spiPort != nil {
		if err := s.spiPort.Close(); err != nil {
			slog.Error("Error closing spi port", "error", err)
		}
		s.spiPort = nil
	}
}

func (s *RaspberryPiPlatform) rpiDisplayFunc(leds []r.Led) {
	if err := s.ledDriver.write(leds); err != nil {
		slog.Error("Error writing to LED driver", "error", err)
	}
}

func (s *RaspberryPiPlatform) spiExchange(data []byte) error {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	return s.spiConn.Tx(data, nil)
}

func (s *RaspberryPiPlatform) PollPrimary() g.Code {
	return s.gesture.PollPrimary()
}

func (s *RaspberryPiPlatform) PollSecondary() g.Code {
	return s.gesture.PollSecondary()
}

func (s *RaspberryPiPlatform) IsPresent() bool {
	return s.presence.IsPresent()
}
