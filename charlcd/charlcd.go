// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charlcd drives the HD44780-class character LCD attached to the
// backpack, together with the board's RGB backlight and contrast circuits.
// The data bus is a gpio.Group of 4 or 8 pins, the backlight channels are
// PWM-capable pins, and contrast goes through the MCP4725 DAC on the
// controller's V0 pin.
//
// It implements the command.Display facade, so it is what the command
// interpreter renders to on real hardware.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package charlcd

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/openlcd/command"
	"github.com/GermanBionicSystems/openlcd/mcp4725"
)

type ifMode byte

const (
	mode4Bit ifMode = 4
	mode8Bit ifMode = 8

	opClear    byte = 0x01
	opHome     byte = 0x02
	opEntry    byte = 0x06
	opDisplay  byte = 0x0C
	opSetCGRAM byte = 0x40
	opSetDDRAM byte = 0x80

	// Settle times between controller writes, in microseconds. The busy
	// flag cannot be read on boards without R/W wired, so fixed delays it
	// is.
	delayCommand   = 2000
	delayCharacter = 200

	backlightPWMFreq = 25 * physic.KiloHertz
)

// DDRAM address of column 0 for each row, valid for 16x2 through 20x4
// panels.
var rowOffsets = [4]byte{0, 64, 20, 84}

var (
	errCursorRange = errors.New("charlcd: cursor out of range")
	errGlyphSlot   = errors.New("charlcd: glyph slot out of range")
)

// Opts configures optional panel hardware.
type Opts struct {
	// Rows and Cols give the panel geometry; 2x16 when zero.
	Rows, Cols int
	// Backlight holds the red, green and blue PWM pins. Any entry may be
	// nil; a mono backlight wires only the first.
	Backlight [3]gpio.PinOut
	// Contrast is the DAC on the V0 pin. May be nil.
	Contrast *mcp4725.Dev
}

// Dev is a character LCD panel. The write path follows the HD44780
// initialization and timing cycle for both 4 and 8 bit buses.
type Dev struct {
	data      gpio.Group
	rs        gpio.PinOut
	enable    gpio.PinOut
	backlight [3]gpio.PinOut
	dac       *mcp4725.Dev
	mode      ifMode
	rows      int
	cols      int
	lastWrite int64
}

// New initializes the panel. The first 4 or 8 pins of data must be wired to
// the controller's data lines, D4-D7 for a 4-bit bus, D0-D7 when the group
// has 8 or more pins.
func New(data gpio.Group, rs, enable gpio.PinOut, opts *Opts) (*Dev, error) {
	d := &Dev{
		data:   data,
		rs:     rs,
		enable: enable,
		mode:   mode4Bit,
		rows:   2,
		cols:   16,
	}
	if len(data.Pins()) >= 8 {
		d.mode = mode8Bit
	}
	if opts != nil {
		if opts.Rows > 0 {
			d.rows = opts.Rows
		}
		if opts.Cols > 0 {
			d.cols = opts.Cols
		}
		d.backlight = opts.Backlight
		d.dac = opts.Contrast
	}
	if d.rows > len(rowOffsets) {
		return nil, fmt.Errorf("charlcd: %d rows not supported", d.rows)
	}
	return d, d.init()
}

// Rows returns the panel line count.
func (d *Dev) Rows() int {
	return d.rows
}

// Cols returns the panel character width.
func (d *Dev) Cols() int {
	return d.cols
}

// WriteChar renders one character at the cursor.
func (d *Dev) WriteChar(c byte) error {
	return d.send(c, true)
}

// Command forwards a raw controller opcode. No validation happens here; the
// controller ignores what it does not understand.
func (d *Dev) Command(opcode byte) error {
	err := d.send(opcode, false)
	if opcode == opClear || opcode == opHome {
		time.Sleep(delayCommand * time.Microsecond)
	}
	return err
}

// SetCursor moves to the 0-based row and column.
func (d *Dev) SetCursor(row, col int) error {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return errCursorRange
	}
	return d.Command(opSetDDRAM | rowOffsets[row]+byte(col))
}

// Clear blanks the panel and homes the cursor.
func (d *Dev) Clear() error {
	return d.Command(opClear)
}

// LoadGlyph programs one of the 8 CGRAM slots with a 5x8 bitmap. The
// character code equals the slot number.
func (d *Dev) LoadGlyph(slot byte, bitmap [8]byte) error {
	if slot > 7 {
		return errGlyphSlot
	}
	if err := d.send(opSetCGRAM|slot<<3, false); err != nil {
		return err
	}
	for _, row := range bitmap {
		if err := d.send(row, true); err != nil {
			return err
		}
	}
	// Leave the address counter back in display memory.
	return d.send(opSetDDRAM, false)
}

// SetBacklight applies the channel intensities on the PWM pins.
func (d *Dev) SetBacklight(r, g, b byte) error {
	for i, v := range [3]byte{r, g, b} {
		p := d.backlight[i]
		if p == nil {
			continue
		}
		duty := gpio.Duty(int64(v) * int64(gpio.DutyMax) / 255)
		if err := p.PWM(duty, backlightPWMFreq); err != nil {
			return fmt.Errorf("charlcd: %w", err)
		}
	}
	return nil
}

// SetContrast drives the V0 pin through the DAC. Lower values are darker.
func (d *Dev) SetContrast(v byte) error {
	if d.dac == nil {
		return nil
	}
	// Spread the byte over the DAC's 12-bit range.
	return d.dac.SetCount(uint16(v) << 4)
}

// Halt blanks the panel, kills the backlight, and releases the pins.
func (d *Dev) Halt() error {
	_ = d.Clear()
	_ = d.SetBacklight(0, 0, 0)
	if d.dac != nil {
		_ = d.dac.Halt()
	}
	return d.data.Halt()
}

func (d *Dev) String() string {
	return fmt.Sprintf("charlcd %dx%d (%d-bit) on %s", d.cols, d.rows, d.mode, d.data)
}

// init runs the HD44780 power-on sequence as documented in the datasheet,
// with the 4-bit variation when the bus is narrow.
func (d *Dev) init() error {
	d.lastWrite = time.Now().UnixMicro()
	if err := d.rs.Out(gpio.Low); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	if err := d.enable.Out(gpio.Low); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}

	function := byte(0x20)
	if d.rows > 1 {
		function |= 0x08
	}
	if d.mode == mode4Bit {
		if err := d.writeBits(0x03, 0x0f); err != nil {
			return err
		}
		time.Sleep(4100 * time.Microsecond)
		_ = d.writeBits(0x03, 0x0f)
		_ = d.writeBits(0x03, 0x0f)
		_ = d.writeBits(0x02, 0x0f)
		_ = d.send(function, false)
	} else {
		function |= 0x10
		if err := d.writeBits(0x30, 0xff); err != nil {
			return err
		}
		time.Sleep(4100 * time.Microsecond)
		_ = d.writeBits(0x30, 0xff)
		_ = d.writeBits(0x30, 0xff)
		_ = d.send(function, false)
	}
	_ = d.send(opDisplay, false)
	_ = d.send(opEntry, false)
	return d.Clear()
}

// send writes one byte to the controller, in data or command register.
func (d *Dev) send(b byte, dataReg bool) error {
	d.settle()
	if err := d.rs.Out(gpio.Level(dataReg)); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	var err error
	if d.mode == mode4Bit {
		err = d.writeBits(gpio.GPIOValue(b>>4), 0x0f)
		if err == nil {
			err = d.writeBits(gpio.GPIOValue(b&0x0f), 0x0f)
		}
	} else {
		err = d.writeBits(gpio.GPIOValue(b), 0xff)
	}
	d.lastWrite = time.Now().UnixMicro()
	return err
}

func (d *Dev) writeBits(value, mask gpio.GPIOValue) error {
	if err := d.data.Out(value, mask); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	if err := d.enable.Out(gpio.High); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	time.Sleep(2 * time.Microsecond)
	if err := d.enable.Out(gpio.Low); err != nil {
		return fmt.Errorf("charlcd: %w", err)
	}
	return nil
}

// settle waits out the controller's write latency if the last write was too
// recent. Fast I/O paths need this; slow ones pay nothing.
func (d *Dev) settle() {
	diff := delayCharacter - (time.Now().UnixMicro() - d.lastWrite)
	if diff > 0 {
		time.Sleep(time.Duration(diff) * time.Microsecond)
	}
}

var _ command.Display = &Dev{}
