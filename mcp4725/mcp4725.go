// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp4725 drives the Microchip MCP4725 12-bit D/A converter that
// sets the LCD contrast voltage on the backpack board. Only the fast-write
// command is needed for that job; the DAC's EEPROM is left alone so wear
// stays on the backpack's own settings store.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/devicedoc/22039d.pdf
package mcp4725

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the address the backpack board straps the DAC to.
const DefaultAddress uint16 = 0x60

const (
	maxCount = 1<<12 - 1

	// Power-down mode bits for the fast-write command.
	pdNormal byte = 0x0
	pd500K   byte = 0x3
)

var (
	errInvalidCount   = errors.New("mcp4725: count exceeds 12 bits")
	errInvalidVoltage = errors.New("mcp4725: voltage out of range")
)

// Dev represents an MCP4725 attached to an I2C bus.
type Dev struct {
	d    i2c.Dev
	vRef physic.ElectricPotential
}

// New returns a Dev. vRef is the supply voltage; the MCP4725 uses VCC as
// its reference, so full scale output equals vRef.
func New(bus i2c.Bus, address uint16, vRef physic.ElectricPotential) (*Dev, error) {
	if vRef <= 0 {
		return nil, errInvalidVoltage
	}
	return &Dev{d: i2c.Dev{Bus: bus, Addr: address}, vRef: vRef}, nil
}

// SetCount programs the raw 12-bit output count with a fast write.
func (d *Dev) SetCount(count uint16) error {
	return d.fastWrite(count, pdNormal)
}

// Set programs the output to the given voltage, 0..vRef.
func (d *Dev) Set(v physic.ElectricPotential) error {
	if v < 0 || v > d.vRef {
		return errInvalidVoltage
	}
	count := uint16((int64(v)*maxCount + int64(d.vRef)/2) / int64(d.vRef))
	return d.fastWrite(count, pdNormal)
}

// Halt ties the output to ground through 500K and stops driving it.
func (d *Dev) Halt() error {
	return d.fastWrite(0, pd500K)
}

func (d *Dev) String() string {
	return fmt.Sprintf("MCP4725@%#x", d.d.Addr)
}

func (d *Dev) fastWrite(count uint16, pd byte) error {
	if count > maxCount {
		return errInvalidCount
	}
	w := []byte{pd<<4 | byte(count>>8), byte(count)}
	if err := d.d.Tx(w, nil); err != nil {
		return fmt.Errorf("mcp4725: %w", err)
	}
	return nil
}
