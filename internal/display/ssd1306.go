package display

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// DefaultAddress is the usual I2C address of SSD1306 modules. The periph
// driver always talks to it.
const DefaultAddress = 0x3C

// OpenSSD1306 initializes a 128x64 SSD1306 panel. Modules strapped to
// another address are reached by rewriting the driver's traffic.
func OpenSSD1306(bus i2c.Bus, addr uint16) (*ssd1306.Dev, error) {
	if addr != DefaultAddress {
		bus = &addrBus{Bus: bus, addr: addr}
	}
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 at %#x: %w", addr, err)
	}
	return dev, nil
}

// addrBus sends transfers for DefaultAddress to addr.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b *addrBus) Tx(addr uint16, w, r []byte) error {
	if addr == DefaultAddress {
		addr = b.addr
	}
	return b.Bus.Tx(addr, w, r)
}
