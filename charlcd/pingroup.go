// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package charlcd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// PinGroup assembles discrete GPIO pins into a gpio.Group so the data bus
// can be driven straight from a host header, without an I/O expander. Pin 0
// is the least significant bit of the bus.
func PinGroup(pins ...gpio.PinIO) gpio.Group {
	return &pinGroup{pins: pins}
}

type pinGroup struct {
	pins []gpio.PinIO
}

func (g *pinGroup) Pins() []pin.Pin {
	result := make([]pin.Pin, len(g.pins))
	for i := range g.pins {
		result[i] = g.pins[i]
	}
	return result
}

func (g *pinGroup) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(g.pins) {
		return nil
	}
	return g.pins[offset]
}

func (g *pinGroup) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (g *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range g.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

func (g *pinGroup) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = (1 << len(g.pins)) - 1
	}
	for i, p := range g.pins {
		bit := gpio.GPIOValue(1) << i
		if mask&bit == 0 {
			continue
		}
		if err := p.Out(gpio.Level(value&bit != 0)); err != nil {
			return fmt.Errorf("charlcd: %w", err)
		}
	}
	return nil
}

func (g *pinGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = (1 << len(g.pins)) - 1
	}
	var value gpio.GPIOValue
	for i, p := range g.pins {
		bit := gpio.GPIOValue(1) << i
		if mask&bit == 0 {
			continue
		}
		if p.Read() == gpio.High {
			value |= bit
		}
	}
	return value, nil
}

func (g *pinGroup) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, errors.New("charlcd: edge detection not supported")
}

func (g *pinGroup) Halt() error {
	for _, p := range g.pins {
		if err := p.Halt(); err != nil {
			return fmt.Errorf("charlcd: %w", err)
		}
	}
	return nil
}

func (g *pinGroup) String() string {
	names := make([]string, len(g.pins))
	for i, p := range g.pins {
		names[i] = p.Name()
	}
	return "pins{" + strings.Join(names, ", ") + "}"
}

var _ gpio.Group = &pinGroup{}
