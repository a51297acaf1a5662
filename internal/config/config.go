// Package config loads event logger settings from flags and an optional
// YAML file. Flags given on the command line override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/event-logger/internal/gpio"
	"github.com/sweeney/event-logger/internal/logic"
	"github.com/sweeney/event-logger/internal/status"
)

// maxSample is the joystick ADC full scale after conversion.
const maxSample = 4095

// Config is the complete daemon configuration.
type Config struct {
	Poll      time.Duration `yaml:"poll"`
	Debounce  time.Duration `yaml:"debounce"`
	Throttle  time.Duration `yaml:"throttle"`
	Hold      time.Duration `yaml:"hold"`
	Heartbeat time.Duration `yaml:"heartbeat"`

	// Joystick rest range, inclusive.
	DeadZoneMin uint16 `yaml:"dead_zone_min"`
	DeadZoneMax uint16 `yaml:"dead_zone_max"`

	Pins    PinsConfig    `yaml:"pins"`
	I2C     I2CConfig     `yaml:"i2c"`
	Storage StorageConfig `yaml:"storage"`

	Broker   string `yaml:"broker"`
	HTTPAddr string `yaml:"http"`

	// File is the YAML file the config was read from, if any.
	File string `yaml:"-"`
}

// PinsConfig holds BCM line offsets.
type PinsConfig struct {
	ButtonA int `yaml:"button_a"`
	ButtonB int `yaml:"button_b"`
	Red     int `yaml:"red"`
	Green   int `yaml:"green"`
	Blue    int `yaml:"blue"`
	Buzzer  int `yaml:"buzzer"`
}

// I2CConfig locates the display and joystick ADC.
type I2CConfig struct {
	Bus         string `yaml:"bus"` // empty selects the first bus
	DisplayAddr uint16 `yaml:"display_addr"`
	ADCAddr     uint16 `yaml:"adc_addr"`
	ChannelX    int    `yaml:"channel_x"`
	ChannelY    int    `yaml:"channel_y"`
}

// StorageConfig locates the event log.
type StorageConfig struct {
	Device string `yaml:"device"` // empty means Dir is already mounted
	FSType string `yaml:"fstype"`
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`

	// AllowUnmounted logs into Dir even when no card is mounted there.
	AllowUnmounted bool `yaml:"allow_unmounted"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := gpio.DefaultPins()
	return &Config{
		Poll:        50 * time.Millisecond,
		Debounce:    50 * time.Millisecond,
		Throttle:    300 * time.Millisecond,
		Hold:        300 * time.Millisecond,
		Heartbeat:   15 * time.Minute,
		DeadZoneMin: 1000,
		DeadZoneMax: 3000,
		Pins: PinsConfig{
			ButtonA: p.ButtonA,
			ButtonB: p.ButtonB,
			Red:     p.Red,
			Green:   p.Green,
			Blue:    p.Blue,
			Buzzer:  p.Buzzer,
		},
		I2C: I2CConfig{
			DisplayAddr: 0x3C,
			ADCAddr:     0x48,
			ChannelX:    0,
			ChannelY:    1,
		},
		Storage: StorageConfig{
			FSType: "vfat",
			Dir:    "/mnt/sd",
			File:   "events.txt",
		},
		HTTPAddr: ":8080",
	}
}

// AddFlags registers a flag for every setting, bound to c's fields.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML config file")
	fs.DurationVar(&c.Poll, "poll", c.Poll, "input polling interval")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "button debounce window")
	fs.DurationVar(&c.Throttle, "throttle", c.Throttle, "joystick cool-down between events")
	fs.DurationVar(&c.Hold, "hold", c.Hold, "indicator on-time per event")
	fs.DurationVar(&c.Heartbeat, "heartbeat", c.Heartbeat, "heartbeat interval (0 to disable)")
	fs.Uint16Var(&c.DeadZoneMin, "dead-zone-min", c.DeadZoneMin, "lowest joystick reading treated as rest")
	fs.Uint16Var(&c.DeadZoneMax, "dead-zone-max", c.DeadZoneMax, "highest joystick reading treated as rest")

	fs.IntVar(&c.Pins.ButtonA, "pin-button-a", c.Pins.ButtonA, "BCM pin for button A")
	fs.IntVar(&c.Pins.ButtonB, "pin-button-b", c.Pins.ButtonB, "BCM pin for button B")
	fs.IntVar(&c.Pins.Red, "pin-red", c.Pins.Red, "BCM pin for the red LED")
	fs.IntVar(&c.Pins.Green, "pin-green", c.Pins.Green, "BCM pin for the green LED")
	fs.IntVar(&c.Pins.Blue, "pin-blue", c.Pins.Blue, "BCM pin for the blue LED")
	fs.IntVar(&c.Pins.Buzzer, "pin-buzzer", c.Pins.Buzzer, "BCM pin for the buzzer")

	fs.StringVar(&c.I2C.Bus, "i2c-bus", c.I2C.Bus, "I2C bus name (empty for the first bus)")
	fs.Uint16Var(&c.I2C.DisplayAddr, "display-addr", c.I2C.DisplayAddr, "SSD1306 I2C address")
	fs.Uint16Var(&c.I2C.ADCAddr, "adc-addr", c.I2C.ADCAddr, "ADS1115 I2C address")
	fs.IntVar(&c.I2C.ChannelX, "adc-channel-x", c.I2C.ChannelX, "ADC channel for the joystick X axis")
	fs.IntVar(&c.I2C.ChannelY, "adc-channel-y", c.I2C.ChannelY, "ADC channel for the joystick Y axis")

	fs.StringVar(&c.Storage.Device, "sd-device", c.Storage.Device, "block device to mount (empty if already mounted)")
	fs.StringVar(&c.Storage.FSType, "sd-fstype", c.Storage.FSType, "filesystem type of the SD card")
	fs.StringVar(&c.Storage.Dir, "sd-dir", c.Storage.Dir, "SD card mount point")
	fs.StringVar(&c.Storage.File, "log-file", c.Storage.File, "event log file name")
	fs.BoolVar(&c.Storage.AllowUnmounted, "sd-allow-unmounted", c.Storage.AllowUnmounted, "log even if no card is mounted on the SD directory")

	fs.StringVar(&c.Broker, "broker", c.Broker, "MQTT broker address (empty to disable)")
	fs.StringVar(&c.HTTPAddr, "http", c.HTTPAddr, "HTTP status address (empty to disable)")
}

// Load parses args into a default config. When --config names a file, the
// file is applied first and the flags that were set explicitly are
// re-applied on top. fs may carry other flags; they are parsed but ignored.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	cfg.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.File == "" {
		return cfg, nil
	}

	fromFile, err := LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	fromFile.AddFlags(overlay)
	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		if overlay.Lookup(f.Name) == nil {
			return
		}
		if err := overlay.Set(f.Name, f.Value.String()); err != nil {
			setErr = errors.Join(setErr, err)
		}
	})
	if setErr != nil {
		return nil, setErr
	}
	fromFile.File = cfg.File
	return fromFile, nil
}

// LoadFile reads a YAML config on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.File = path
	return cfg, nil
}

// Validate checks the settings for values the daemon cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Poll <= 0 {
		errs = append(errs, fmt.Errorf("poll must be positive, got %v", c.Poll))
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %v", c.Debounce))
	}
	if c.Throttle <= 0 {
		errs = append(errs, fmt.Errorf("throttle must be positive, got %v", c.Throttle))
	}
	if c.Hold < 0 {
		errs = append(errs, fmt.Errorf("hold must not be negative, got %v", c.Hold))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat))
	}
	if c.DeadZoneMin > c.DeadZoneMax {
		errs = append(errs, fmt.Errorf("dead zone %d..%d is inverted", c.DeadZoneMin, c.DeadZoneMax))
	}
	if c.DeadZoneMax > maxSample {
		errs = append(errs, fmt.Errorf("dead zone max %d exceeds ADC range %d", c.DeadZoneMax, maxSample))
	}
	for _, ch := range []int{c.I2C.ChannelX, c.I2C.ChannelY} {
		if ch < 0 || ch > 3 {
			errs = append(errs, fmt.Errorf("ADC channel %d out of range 0..3", ch))
		}
	}
	if c.I2C.ChannelX == c.I2C.ChannelY {
		errs = append(errs, fmt.Errorf("joystick axes share ADC channel %d", c.I2C.ChannelX))
	}
	if err := c.Pins.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Storage.Dir == "" || c.Storage.File == "" {
		errs = append(errs, errors.New("storage dir and log file must be set"))
	}
	return errors.Join(errs...)
}

func (p PinsConfig) validate() error {
	seen := map[int]string{}
	var errs []error
	for _, pin := range []struct {
		name string
		n    int
	}{
		{"button A", p.ButtonA},
		{"button B", p.ButtonB},
		{"red", p.Red},
		{"green", p.Green},
		{"blue", p.Blue},
		{"buzzer", p.Buzzer},
	} {
		if pin.n < 0 {
			errs = append(errs, fmt.Errorf("%s pin %d is negative", pin.name, pin.n))
			continue
		}
		if other, ok := seen[pin.n]; ok {
			errs = append(errs, fmt.Errorf("%s and %s share pin %d", other, pin.name, pin.n))
		}
		seen[pin.n] = pin.name
	}
	return errors.Join(errs...)
}

// LogPath is the full path of the event log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.File)
}

// Logic returns the detection settings.
func (c *Config) Logic() logic.Config {
	return logic.Config{
		Debounce: c.Debounce,
		Motion: logic.MotionConfig{
			Min:      c.DeadZoneMin,
			Max:      c.DeadZoneMax,
			Throttle: c.Throttle,
		},
	}
}

// GPIOPins returns the pin assignment for the gpio package.
func (c *Config) GPIOPins() gpio.Pins {
	return gpio.Pins{
		ButtonA: c.Pins.ButtonA,
		ButtonB: c.Pins.ButtonB,
		Red:     c.Pins.Red,
		Green:   c.Pins.Green,
		Blue:    c.Pins.Blue,
		Buzzer:  c.Pins.Buzzer,
	}
}

// Status returns the settings shown on the status page.
func (c *Config) Status() status.Config {
	return status.Config{
		PollMs:      c.Poll.Milliseconds(),
		DebounceMs:  c.Debounce.Milliseconds(),
		ThrottleMs:  c.Throttle.Milliseconds(),
		HoldMs:      c.Hold.Milliseconds(),
		HeartbeatMs: c.Heartbeat.Milliseconds(),
		LogPath:     c.LogPath(),
		Broker:      c.Broker,
		HTTPAddr:    c.HTTPAddr,
	}
}
