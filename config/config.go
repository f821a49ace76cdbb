package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"lautenbacher.net/gestureleds/ring"
)

const CONFILE = "config.yml"

// LED chip types understood by the hardware platform.
const (
	LED_APA102 = "APA102"
	LED_WS2801 = "WS2801"
	LED_WS2812 = "WS2812"
)

// Presence sources.
const (
	PRESENCE_GPIO = "gpio"
	PRESENCE_RPIO = "rpio"
	PRESENCE_ADS  = "ads"
)

type LayoutConfig struct {
	Offset  int  `yaml:"Offset" env:"GESTURELEDS_LAYOUT_OFFSET,overwrite"`
	Reverse bool `yaml:"Reverse" env:"GESTURELEDS_LAYOUT_REVERSE,overwrite"`
}

type GestureSensorConfig struct {
	I2CBus  string `yaml:"I2CBus" env:"GESTURELEDS_GESTURE_BUS,overwrite"`
	Address uint16 `yaml:"Address" env:"GESTURELEDS_GESTURE_ADDRESS,overwrite"`
}

type ADSConfig struct {
	Bus       string `yaml:"Bus"`
	Address   uint16 `yaml:"Address"`
	Threshold int    `yaml:"Threshold" env:"GESTURELEDS_ADS_THRESHOLD,overwrite"`
}

type PresenceConfig struct {
	Source    string    `yaml:"Source" env:"GESTURELEDS_PRESENCE_SOURCE,overwrite"`
	Pin       string    `yaml:"Pin" env:"GESTURELEDS_PRESENCE_PIN,overwrite"`
	ActiveLow bool      `yaml:"ActiveLow"`
	ADS       ADSConfig `yaml:"ADS"`
}

type HardwareConfig struct {
	LEDType          string              `yaml:"LEDType" env:"GESTURELEDS_LED_TYPE,overwrite"`
	SPIDevice        string              `yaml:"SPIDevice" env:"GESTURELEDS_SPI_DEVICE,overwrite"`
	SPIFrequency     int64               `yaml:"SPIFrequency" env:"GESTURELEDS_SPI_FREQUENCY,overwrite"`
	ColorCorrection  [3]float64          `yaml:"ColorCorrection"`
	APA102Brightness byte                `yaml:"APA102Brightness"`
	Layout           LayoutConfig        `yaml:"Layout"`
	GestureSensor    GestureSensorConfig `yaml:"GestureSensor"`
	Presence         PresenceConfig      `yaml:"Presence"`
}

type NightDimConfig struct {
	Enabled   bool    `yaml:"Enabled" env:"GESTURELEDS_NIGHTDIM_ENABLED,overwrite"`
	Latitude  float64 `yaml:"Latitude"`
	Longitude float64 `yaml:"Longitude"`
	Factor    float64 `yaml:"Factor"`
}

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

type LoggingConfig struct {
	TUI LogConfig `yaml:"TUI"`
	HW  LogConfig `yaml:"HW"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"Enabled" env:"GESTURELEDS_MQTT_ENABLED,overwrite"`
	Broker      string `yaml:"Broker" env:"GESTURELEDS_MQTT_BROKER,overwrite"`
	ClientID    string `yaml:"ClientID" env:"GESTURELEDS_MQTT_CLIENT_ID,overwrite"`
	TopicPrefix string `yaml:"TopicPrefix" env:"GESTURELEDS_MQTT_TOPIC_PREFIX,overwrite"`
}

type PreviewConfig struct {
	Enabled bool   `yaml:"Enabled" env:"GESTURELEDS_PREVIEW_ENABLED,overwrite"`
	Listen  string `yaml:"Listen" env:"GESTURELEDS_PREVIEW_LISTEN,overwrite"`
}

type Config struct {
	Hardware HardwareConfig `yaml:"Hardware"`
	NightDim NightDimConfig `yaml:"NightDim"`
	Logging  LoggingConfig  `yaml:"Logging"`
	MQTT     MQTTConfig     `yaml:"MQTT"`
	Preview  PreviewConfig  `yaml:"Preview"`
}

// Log returns the logging section for the TUI or the hardware run.
func (c *Config) Log(realHW bool) LogConfig {
	if realHW {
		return c.Logging.HW
	}
	return c.Logging.TUI
}

// ReadConfig decodes the YAML file at cfile, applies GESTURELEDS_*
// environment overrides and validates the result.
func ReadConfig(cfile string) (*Config, error) {
	data, err := os.ReadFile(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't read config file %s: %w", cfile, err)
	}
	return parse(data, envconfig.OsLookuper())
}

func parse(data []byte, lookuper envconfig.Lookuper) (*Config, error) {
	conf := defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil {
		return nil, fmt.Errorf("can't decode config: %w", err)
	}
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   conf,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("can't apply environment overrides: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func defaults() *Config {
	return &Config{
		Hardware: HardwareConfig{
			LEDType:          LED_APA102,
			SPIDevice:        "/dev/spidev0.0",
			SPIFrequency:     1_000_000,
			ColorCorrection:  [3]float64{1, 1, 1},
			APA102Brightness: 31,
			GestureSensor:    GestureSensorConfig{Address: 0x73},
			Presence: PresenceConfig{
				Source: PRESENCE_GPIO,
				Pin:    "GPIO17",
				ADS:    ADSConfig{Bus: "I2C1", Address: 0x48},
			},
		},
		NightDim: NightDimConfig{Factor: 0.3},
		Logging: LoggingConfig{
			TUI: LogConfig{Level: "INFO", Format: "text"},
			HW:  LogConfig{Level: "INFO", Format: "text"},
		},
		MQTT:    MQTTConfig{ClientID: "gestureleds", TopicPrefix: "gestureleds"},
		Preview: PreviewConfig{Listen: ":8080"},
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	hw := c.Hardware

	switch hw.LEDType {
	case LED_APA102, LED_WS2801, LED_WS2812:
	default:
		errs = append(errs, fmt.Errorf("Hardware.LEDType %q must be one of %s, %s, %s", hw.LEDType, LED_APA102, LED_WS2801, LED_WS2812))
	}
	if hw.SPIFrequency <= 0 {
		errs = append(errs, fmt.Errorf("Hardware.SPIFrequency (%d) must be positive", hw.SPIFrequency))
	}
	for i, v := range hw.ColorCorrection {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("Hardware.ColorCorrection[%d] (%v) must be between 0 and 1", i, v))
		}
	}
	if hw.APA102Brightness > 31 {
		errs = append(errs, fmt.Errorf("Hardware.APA102Brightness (%d) must be between 0 and 31", hw.APA102Brightness))
	}
	if hw.Layout.Offset < 0 || hw.Layout.Offset >= ring.LEDS_TOTAL {
		errs = append(errs, fmt.Errorf("Hardware.Layout.Offset (%d) must be between 0 and %d", hw.Layout.Offset, ring.LEDS_TOTAL-1))
	}
	if hw.GestureSensor.Address == 0 || hw.GestureSensor.Address > 0x7f {
		errs = append(errs, fmt.Errorf("Hardware.GestureSensor.Address (0x%x) is not a 7 bit I2C address", hw.GestureSensor.Address))
	}

	switch strings.ToLower(hw.Presence.Source) {
	case PRESENCE_GPIO, PRESENCE_RPIO:
		if hw.Presence.Pin == "" {
			errs = append(errs, errors.New("Hardware.Presence.Pin must be set for a digital presence sensor"))
		}
	case PRESENCE_ADS:
		if hw.Presence.ADS.Threshold <= 0 {
			errs = append(errs, fmt.Errorf("Hardware.Presence.ADS.Threshold (%d) must be positive", hw.Presence.ADS.Threshold))
		}
	default:
		errs = append(errs, fmt.Errorf("Hardware.Presence.Source %q must be one of %s, %s, %s", hw.Presence.Source, PRESENCE_GPIO, PRESENCE_RPIO, PRESENCE_ADS))
	}

	if c.NightDim.Enabled {
		if c.NightDim.Latitude < -90 || c.NightDim.Latitude > 90 {
			errs = append(errs, fmt.Errorf("NightDim.Latitude (%v) must be between -90 and 90", c.NightDim.Latitude))
		}
		if c.NightDim.Longitude < -180 || c.NightDim.Longitude > 180 {
			errs = append(errs, fmt.Errorf("NightDim.Longitude (%v) must be between -180 and 180", c.NightDim.Longitude))
		}
		if c.NightDim.Factor <= 0 || c.NightDim.Factor > 1 {
			errs = append(errs, fmt.Errorf("NightDim.Factor (%v) must be in (0, 1]", c.NightDim.Factor))
		}
	}

	for name, l := range map[string]LogConfig{"TUI": c.Logging.TUI, "HW": c.Logging.HW} {
		switch strings.ToUpper(l.Level) {
		case "", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		default:
			errs = append(errs, fmt.Errorf("Logging.%s.Level %q is unknown", name, l.Level))
		}
		switch strings.ToLower(l.Format) {
		case "", "text", "json":
		default:
			errs = append(errs, fmt.Errorf("Logging.%s.Format %q must be text or json", name, l.Format))
		}
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		errs = append(errs, errors.New("MQTT.Broker must be set when MQTT is enabled"))
	}
	if c.Preview.Enabled && c.Preview.Listen == "" {
		errs = append(errs, errors.New("Preview.Listen must be set when the preview is enabled"))
	}
	return errors.Join(errs...)
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
