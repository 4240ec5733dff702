// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package command implements the backpack's byte-stream command
// interpreter.
//
// Incoming bytes are literal display text unless they open one of two
// escapes: 0xFE forwards the next byte verbatim to the LCD controller, and
// 0x7C (the pipe character) starts a backpack setting command. Settings
// commands either complete immediately or collect a fixed number of operand
// bytes first; a malformed command abandons the escape and the offending
// byte is handled as ordinary text again, so bad input can never wedge the
// stream.
package command

import (
	"github.com/GermanBionicSystems/openlcd/settings"
)

const (
	// EscapeCommand introduces a raw controller opcode.
	EscapeCommand byte = 0xFE
	// EscapeSetting introduces a backpack setting command.
	EscapeSetting byte = 0x7C // '|'

	// BufferSize is the capacity of the incoming ring buffer.
	BufferSize = 64
)

// Setting kind bytes following EscapeSetting.
const (
	kindBaud         byte = 0x04
	kindLines        byte = 0x05
	kindWidth        byte = 0x06
	kindFactoryReset byte = 0x08
	kindSplashToggle byte = 0x09
	kindSplashSet    byte = 0x0A
	kindIgnoreRX     byte = 0x0C
	kindContrast     byte = 0x18
	kindTWIAddress   byte = 0x19
	kindGlyphSet     byte = 0x1B
	kindBacklightRGB byte = 0x2B // '+'
	kindClear        byte = 0x2D // '-'

	// Backlight composite bands: 30 codes per channel, red, green, blue.
	bandMin   byte = 128
	bandMax   byte = 217
	bandWidth byte = 30
)

// Display executes resolved operations against the physical controller.
// Failures are not recoverable at this level and are ignored by the
// interpreter.
type Display interface {
	// WriteChar renders one literal character at the cursor.
	WriteChar(c byte) error
	// Command forwards a raw HD44780 opcode unmodified.
	Command(opcode byte) error
	// SetCursor moves to the 0-based row and column.
	SetCursor(row, col int) error
	// Clear blanks the display and homes the cursor.
	Clear() error
	// LoadGlyph stores a user-defined bitmap in CGRAM slot 0..7.
	LoadGlyph(slot byte, bitmap [8]byte) error
	// SetBacklight applies the channel intensities.
	SetBacklight(r, g, b byte) error
	// SetContrast applies a new contrast, lower is darker.
	SetContrast(v byte) error
}

// Transport reconfigures the host link after a relevant setting changed.
// The interpreter always persists first, so the store is correct even if
// the line change disrupts the in-flight byte.
type Transport interface {
	Reconfigure(baud settings.Baud, twiAddress byte) error
}

// kindRange maps a contiguous band of kind bytes to a handler. Keeping the
// protocol surface in one ordered table keeps it auditable; handlers with
// operands > 0 run once the full operand block has been collected.
type kindRange struct {
	first, last byte
	operands    int
	apply       func(in *Interpreter, kind byte, ops []byte)
}

var kindTable = []kindRange{
	{kindBaud, kindBaud, 1, applyBaud},
	{kindLines, kindLines, 1, applyLines},
	{kindWidth, kindWidth, 1, applyWidth},
	{kindFactoryReset, kindFactoryReset, 0, applyFactoryReset},
	{kindSplashToggle, kindSplashToggle, 0, applySplashToggle},
	{kindSplashSet, kindSplashSet, settings.SplashContentSize, applySplashSet},
	{kindIgnoreRX, kindIgnoreRX, 1, applyIgnoreRX},
	{kindContrast, kindContrast, 1, applyContrast},
	{kindTWIAddress, kindTWIAddress, 1, applyTWIAddress},
	{kindGlyphSet, kindGlyphSet, 1 + settings.GlyphSize, applyGlyphSet},
	{kindBacklightRGB, kindBacklightRGB, 3, applyBacklightRGB},
	{kindClear, kindClear, 0, applyClear},
	{bandMin, bandMax, 0, applyBacklightBand},
}

func lookupKind(b byte) *kindRange {
	for i := range kindTable {
		if b >= kindTable[i].first && b <= kindTable[i].last {
			return &kindTable[i]
		}
	}
	return nil
}

// GlyphSequence returns the escape sequence that programs a custom glyph
// slot, as a host would send it.
func GlyphSequence(slot byte, bitmap [settings.GlyphSize]byte) []byte {
	seq := make([]byte, 0, 3+settings.GlyphSize)
	seq = append(seq, EscapeSetting, kindGlyphSet, slot)
	return append(seq, bitmap[:]...)
}

// bandChannel splits a backlight composite byte into its channel and the
// intensity scaled to the full 0..255 range. The 30-code band maps
// linearly, (v-min)*255/29.
func bandChannel(v byte) (settings.Channel, byte) {
	off := v - bandMin
	ch := settings.Channel(off / bandWidth)
	raw := int(off % bandWidth)
	return ch, byte(raw * 255 / (int(bandWidth) - 1))
}
