// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termlcd emulates the character LCD on a terminal (stdout) using
// ANSI color codes. The backlight color paints the frame around the
// character cells, so RGB commands are visible without hardware.
//
// Useful while you are waiting for your character LCD to come by mail.
package termlcd

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/openlcd/command"
)

const (
	opClear    byte = 0x01
	opHome     byte = 0x02
	opSetDDRAM byte = 0x80
)

var rowOffsets = [4]byte{0, 64, 20, 84}

// Opts represents the options available for this display.
type Opts struct {
	// Rows and Cols give the emulated geometry; 2x16 when zero.
	Rows, Cols int
	// Writer receives the frames. Defaults to a colorable stdout.
	Writer io.Writer
	// Palette maps colors to ANSI codes.
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is a character LCD emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	rows    int
	cols    int
	palette ansi256.Palette

	cells     [][]byte
	row, col  int
	backlight color.NRGBA
	contrast  byte
	frames    int
	buf       bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	d := &Dev{
		w:         colorable.NewColorableStdout(),
		rows:      2,
		cols:      16,
		palette:   *ansi256.Default,
		backlight: color.NRGBA{255, 255, 255, 255},
	}
	if opts != nil {
		if opts.Rows > 0 {
			d.rows = opts.Rows
		}
		if opts.Cols > 0 {
			d.cols = opts.Cols
		}
		if opts.Writer != nil {
			d.w = opts.Writer
		}
		if opts.Palette != nil {
			d.palette = *opts.Palette
		}
	}
	d.cells = make([][]byte, d.rows)
	for i := range d.cells {
		d.cells[i] = bytes.Repeat([]byte{' '}, d.cols)
	}
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermLCD(%dx%d)", d.cols, d.rows)
}

// Halt resets the terminal colors and leaves the last frame on screen.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// WriteChar places one character at the cursor and advances it, wrapping
// across rows the way the controller's address counter does.
func (d *Dev) WriteChar(c byte) error {
	d.cells[d.row][d.col] = c
	d.col++
	if d.col >= d.cols {
		d.col = 0
		d.row = (d.row + 1) % d.rows
	}
	return d.refresh()
}

// Command interprets the controller opcodes that affect what a viewer sees:
// clear, home and cursor addressing. Anything else is accepted and ignored.
func (d *Dev) Command(opcode byte) error {
	switch {
	case opcode == opClear:
		return d.Clear()
	case opcode == opHome:
		d.row, d.col = 0, 0
	case opcode >= opSetDDRAM:
		addr := opcode &^ opSetDDRAM
		for r := 0; r < d.rows; r++ {
			off := rowOffsets[r]
			if addr >= off && int(addr-off) < d.cols {
				d.row, d.col = r, int(addr-off)
				break
			}
		}
	}
	return nil
}

// SetCursor moves to the 0-based row and column.
func (d *Dev) SetCursor(row, col int) error {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return fmt.Errorf("termlcd: cursor %d,%d out of range", row, col)
	}
	d.row, d.col = row, col
	return nil
}

// Clear blanks all cells and homes the cursor.
func (d *Dev) Clear() error {
	for _, row := range d.cells {
		for i := range row {
			row[i] = ' '
		}
	}
	d.row, d.col = 0, 0
	return d.refresh()
}

// LoadGlyph accepts a custom character definition. The emulator renders the
// low character codes as a placeholder block, so only the slot matters.
func (d *Dev) LoadGlyph(slot byte, bitmap [8]byte) error {
	if slot > 7 {
		return fmt.Errorf("termlcd: glyph slot %d out of range", slot)
	}
	return nil
}

// SetBacklight repaints the frame in the given color.
func (d *Dev) SetBacklight(r, g, b byte) error {
	d.backlight = color.NRGBA{r, g, b, 255}
	return d.refresh()
}

// SetContrast records the contrast level, shown in the status line.
func (d *Dev) SetContrast(v byte) error {
	d.contrast = v
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	if d.frames > 0 {
		// Redraw over the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA\r", d.rows+3)
	}
	d.frames++

	edge := d.palette.Block(d.backlight)
	for i := 0; i < d.cols+2; i++ {
		_, _ = io.WriteString(&d.buf, edge)
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	for _, row := range d.cells {
		_, _ = io.WriteString(&d.buf, edge)
		_, _ = d.buf.WriteString("\033[0m")
		for _, c := range row {
			d.buf.WriteByte(printable(c))
		}
		_, _ = io.WriteString(&d.buf, edge)
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	for i := 0; i < d.cols+2; i++ {
		_, _ = io.WriteString(&d.buf, edge)
	}
	fmt.Fprintf(&d.buf, "\033[0m\ncontrast=%d\n", d.contrast)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// printable maps a controller character code to something a terminal can
// show. Codes 0-7 are the custom glyph slots.
func printable(c byte) byte {
	switch {
	case c < 8:
		return '#'
	case c >= 0x20 && c < 0x7f:
		return c
	default:
		return '.'
	}
}

var _ command.Display = &Dev{}
var _ fmt.Stringer = &Dev{}
