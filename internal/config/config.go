// Package config holds the start-time settings of the relay simulator.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/relay-sim/internal/gpio"
	"github.com/sweeney/relay-sim/internal/relay"
)

// Config is immutable once the supervisor starts.
type Config struct {
	Channels  int           `yaml:"channels" validate:"oneof=8 16"`
	Step      time.Duration `yaml:"step" validate:"gt=0"`
	Simulate  bool          `yaml:"simulate"`
	Chip      string        `yaml:"chip"`
	Pins      []int         `yaml:"pins" validate:"dive,gte=0"`
	ActiveLow bool          `yaml:"active_low"`
	Color     bool          `yaml:"color"`
	Broker    string        `yaml:"broker" validate:"omitempty,url"`
	HTTPAddr  string        `yaml:"http_addr"`
}

var validate = validator.New()

// Default returns the settings of the stock Raspberry Pi relay board: 8 channels,
// half-second steps, active-low relays on gpiochip0.
func Default() Config {
	pins := make([]int, len(gpio.DefaultPins))
	copy(pins, gpio.DefaultPins)
	return Config{
		Channels:  relay.Channels8,
		Step:      500 * time.Millisecond,
		Chip:      gpio.DefaultChip,
		Pins:      pins,
		ActiveLow: true,
		Color:     true,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value. The result is not validated: command line overrides
// are applied first, then the caller runs Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and the hardware pin table.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var errs []error
			for _, e := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", e.Field(), e.Tag(), e.Value()))
			}
			return errors.Join(errs...)
		}
		return err
	}
	if c.Simulate {
		return nil
	}
	if c.Chip == "" {
		return errors.New("chip is required unless simulating")
	}
	if len(c.Pins) < c.Channels {
		return fmt.Errorf("pins: %d channels need %d pins, got %d", c.Channels, c.Channels, len(c.Pins))
	}
	seen := make(map[int]bool, c.Channels)
	for _, p := range c.Pins[:c.Channels] {
		if seen[p] {
			return fmt.Errorf("pins: pin %d used twice", p)
		}
		seen[p] = true
	}
	return nil
}

// ChannelPins returns the pins driving the configured channels.
func (c Config) ChannelPins() []int {
	if len(c.Pins) < c.Channels {
		return c.Pins
	}
	return c.Pins[:c.Channels]
}

// DisplayPeriod is the terminal refresh period (step/5).
func (c Config) DisplayPeriod() time.Duration {
	return c.Step / 5
}

// RelayPeriod is the GPIO refresh period (step/10).
func (c Config) RelayPeriod() time.Duration {
	return c.Step / 10
}

// Polarity returns the electrical convention of the relay board.
func (c Config) Polarity() gpio.Polarity {
	if c.ActiveLow {
		return gpio.ActiveLow
	}
	return gpio.ActiveHigh
}

// Labels returns the display label for each channel.
func (c Config) Labels() []string {
	return gpio.Labels(c.Pins, c.Channels, c.Simulate)
}

// String formats the configuration for -print-config.
func (c Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", c)
	}
	return string(data)
}
