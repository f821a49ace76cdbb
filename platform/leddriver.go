package platform

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	c "lautenbacher.net/gestureleds/config"
	r "lautenbacher.net/gestureleds/ring"
)

// ledDriver encodes a frame in wire order for one LED chip type.
type ledDriver interface {
	write(leds []r.Led) error
	halt() error
}

func corrected(v float64, corr float64) byte {
	return byte(math.Min(math.Round(v*corr), 255))
}

type ws2801Driver struct {
	hw       c.HardwareConfig
	n        int
	buffer   []byte
	exchange func([]byte) error
}

func newWs2801Driver(hw c.HardwareConfig, n int, exchange func([]byte) error) *ws2801Driver {
	return &ws2801Driver{
		hw:       hw,
		n:        n,
		buffer:   make([]byte, 3*n),
		exchange: exchange,
	}
}

func (d *ws2801Driver) write(leds []r.Led) error {
	display := d.buffer[:3*len(leds)]
	cc := d.hw.ColorCorrection
	for idx, led := range leds {
		display[3*idx] = corrected(led.Red, cc[0])
		display[3*idx+1] = corrected(led.Green, cc[1])
		display[3*idx+2] = corrected(led.Blue, cc[2])
	}
	return d.exchange(display)
}

func (d *ws2801Driver) halt() error {
	return d.write(make([]r.Led, d.n))
}

type apa102Driver struct {
	hw       c.HardwareConfig
	n        int
	buffer   []byte
	exchange func([]byte) error
}

func newApa102Driver(hw c.HardwareConfig, n int, exchange func([]byte) error) *apa102Driver {
	return &apa102Driver{
		hw:       hw,
		n:        n,
		buffer:   make([]byte, apa102FrameSize(n)),
		exchange: exchange,
	}
}

// 4 start bytes, 4 bytes per LED, and at least n/2 clock edges
// (n/16 bytes) to push the data through the chain.
func apa102FrameSize(n int) int {
	return 4 + 4*n + n/16 + 1
}

func (d *apa102Driver) write(leds []r.Led) error {
	display := d.buffer[:apa102FrameSize(len(leds))]
	copy(display[0:4], []byte{0x00, 0x00, 0x00, 0x00})

	global := d.hw.APA102Brightness | 0xE0
	cc := d.hw.ColorCorrection
	offset := 4
	for _, led := range leds {
		// brightness, blue, green, red
		display[offset] = global
		display[offset+1] = corrected(led.Blue, cc[2])
		display[offset+2] = corrected(led.Green, cc[1])
		display[offset+3] = corrected(led.Red, cc[0])
		offset += 4
	}
	for i := offset; i < len(display); i++ {
		display[i] = 0xFF
	}
	return d.exchange(display)
}

func (d *apa102Driver) halt() error {
	return d.write(make([]r.Led, d.n))
}

// nrzledDriver drives WS2812 rings through periph's NRZ encoder on
// the SPI MOSI line.
type nrzledDriver struct {
	hw     c.HardwareConfig
	dev    *nrzled.Dev
	buffer []byte
}

func newNrzledDriver(hw c.HardwareConfig, n int, port spi.Port) (*nrzledDriver, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      800 * physic.KiloHertz,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init nrzled: %w", err)
	}
	return &nrzledDriver{
		hw:     hw,
		dev:    dev,
		buffer: make([]byte, 3*n),
	}, nil
}

func (d *nrzledDriver) write(leds []r.Led) error {
	raw := d.buffer[:3*len(leds)]
	cc := d.hw.ColorCorrection
	for idx, led := range leds {
		raw[3*idx] = corrected(led.Red, cc[0])
		raw[3*idx+1] = corrected(led.Green, cc[1])
		raw[3*idx+2] = corrected(led.Blue, cc[2])
	}
	_, err := d.dev.Write(raw)
	return err
}

func (d *nrzledDriver) halt() error {
	return d.dev.Halt()
}
