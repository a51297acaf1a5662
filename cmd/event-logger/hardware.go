package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/sweeney/event-logger/internal/adc"
	"github.com/sweeney/event-logger/internal/config"
	"github.com/sweeney/event-logger/internal/display"
	"github.com/sweeney/event-logger/internal/gpio"
)

// peripherals are the I2C devices. Each one is optional: without a display
// screens go to the log, without an ADC the joystick is not sampled.
type peripherals struct {
	bus      i2c.BusCloser
	oled     *ssd1306.Dev
	adc      *adc.ADS1115
	screen   display.Surface
	joystick adc.Reader
}

func openPeripherals(cfg *config.Config) *peripherals {
	p := &peripherals{screen: display.LogSurface{}}

	bus, err := openI2C(cfg.I2C.Bus)
	if err != nil {
		log.Printf("i2c: %v, running without display and joystick", err)
		return p
	}
	p.bus = bus

	oled, err := display.OpenSSD1306(bus, cfg.I2C.DisplayAddr)
	if err != nil {
		log.Printf("display: %v, showing screens in the log", err)
	} else {
		p.oled = oled
		p.screen = display.NewScreen(oled)
	}

	joystick, err := adc.NewADS1115(bus, cfg.I2C.ADCAddr, cfg.I2C.ChannelX, cfg.I2C.ChannelY)
	if err != nil {
		log.Printf("adc: %v, joystick disabled", err)
		return p
	}
	// Probe once so a missing module is not reported on every poll
	if _, err := joystick.Read(); err != nil {
		log.Printf("adc: %v, joystick disabled", err)
		joystick.Halt()
		return p
	}
	p.adc = joystick
	p.joystick = joystick
	return p
}

func openI2C(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open bus %q: %w", name, err)
	}
	return bus, nil
}

func (p *peripherals) Close() error {
	if p.bus == nil {
		return nil
	}
	var errs []error
	if p.oled != nil {
		errs = append(errs, p.oled.Halt())
	}
	if p.adc != nil {
		errs = append(errs, p.adc.Halt())
	}
	errs = append(errs, p.bus.Close())
	return errors.Join(errs...)
}

// printInputs reads every input once.
func printInputs(w io.Writer, buttons gpio.Reader, joystick adc.Reader) error {
	a, b, err := buttons.Read()
	if err != nil {
		return fmt.Errorf("read buttons: %w", err)
	}
	fmt.Fprintf(w, "A: %s, B: %s\n", pressed(a), pressed(b))

	if joystick == nil {
		fmt.Fprintln(w, "Joystick: unavailable")
		return nil
	}
	s, err := joystick.Read()
	if err != nil {
		return fmt.Errorf("read joystick: %w", err)
	}
	fmt.Fprintf(w, "Joystick: X=%d Y=%d\n", s.X, s.Y)
	return nil
}

func pressed(on bool) string {
	if on {
		return "PRESSED"
	}
	return "RELEASED"
}
