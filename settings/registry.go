// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

import (
	"errors"

	"github.com/GermanBionicSystems/openlcd/eeprom"
)

var (
	ErrInvalidBaud       = errors.New("settings: invalid baud code")
	ErrInvalidTWIAddress = errors.New("settings: invalid TWI address")
	ErrInvalidLines      = errors.New("settings: lines must be 1, 2 or 4")
	ErrInvalidWidth      = errors.New("settings: width must be 16 or 20")
	ErrInvalidGlyphSlot  = errors.New("settings: glyph slot out of range")
	ErrSplashTooLong     = errors.New("settings: splash content exceeds 80 bytes")
)

// Registry translates between the in-memory Settings and store offsets. All
// setters range-check before committing; a rejected value leaves both the
// store and the in-memory view unchanged.
type Registry struct {
	store eeprom.Store
	s     *Settings
}

// NewRegistry returns a Registry operating on the given store and Settings
// instance. The Settings value is owned by the caller and shared with the
// interpreter; the Registry is its only writer.
func NewRegistry(store eeprom.Store, s *Settings) *Registry {
	return &Registry{store: store, s: s}
}

// Settings returns the in-memory view.
func (r *Registry) Settings() *Settings {
	return r.s
}

// Load populates the Settings from the store. A store that has never been
// provisioned (missing initialized marker) is factory reset first. Any
// scalar holding an out-of-range value is rewritten with its default, so a
// corrupt but reachable store heals itself instead of failing.
func (r *Registry) Load() {
	if r.store.ReadByte(LocationInitialized) != initializedMarker {
		r.FactoryReset()
		return
	}

	def := Default()

	r.s.Baud = Baud(r.healByte(LocationBaud, byte(def.Baud), func(v byte) bool { return Baud(v).Valid() }))
	r.s.TWIAddress = r.healByte(LocationTWIAddress, def.TWIAddress, validTWIAddress)
	r.s.Contrast = r.store.ReadByte(LocationContrast) // full byte domain
	r.s.Lines = r.healByte(LocationLines, def.Lines, validLines)
	r.s.Width = r.healByte(LocationWidth, def.Width, validWidth)
	r.s.SplashEnabled = r.healBool(LocationSplashEnable, true)
	r.s.IgnoreRX = r.healBool(LocationIgnoreRX, false)
	r.s.Backlight[Red] = r.store.ReadByte(LocationRed)
	r.s.Backlight[Green] = r.store.ReadByte(LocationGreen)
	r.s.Backlight[Blue] = r.store.ReadByte(LocationBlue)
	for i := range r.s.SplashContent {
		r.s.SplashContent[i] = r.store.ReadByte(LocationSplashContent + i)
	}
	for slot := 0; slot < GlyphCount; slot++ {
		for i := 0; i < GlyphSize; i++ {
			r.s.Glyphs[slot][i] = r.store.ReadByte(LocationGlyphs + slot*GlyphSize + i)
		}
	}
}

// healByte reads a scalar and rewrites it with def when valid rejects it.
func (r *Registry) healByte(offset int, def byte, valid func(byte) bool) byte {
	v := r.store.ReadByte(offset)
	if !valid(v) {
		v = def
		r.store.WriteByte(offset, v)
	}
	return v
}

// healBool normalizes a flag cell to 0 or 1.
func (r *Registry) healBool(offset int, def bool) bool {
	switch r.store.ReadByte(offset) {
	case 0:
		return false
	case 1:
		return true
	}
	r.store.WriteByte(offset, boolByte(def))
	return def
}

// FactoryReset rewrites every offset with its documented default in one
// pass and marks the store initialized.
func (r *Registry) FactoryReset() {
	*r.s = Default()
	r.store.WriteByte(LocationBaud, byte(r.s.Baud))
	r.store.WriteByte(LocationReserved, 0)
	r.store.WriteByte(LocationSplashEnable, 1)
	r.store.WriteByte(LocationLines, r.s.Lines)
	r.store.WriteByte(LocationWidth, r.s.Width)
	r.store.WriteByte(LocationRed, r.s.Backlight[Red])
	r.store.WriteByte(LocationGreen, r.s.Backlight[Green])
	r.store.WriteByte(LocationBlue, r.s.Backlight[Blue])
	r.store.WriteByte(LocationIgnoreRX, 0)
	r.store.WriteByte(LocationTWIAddress, r.s.TWIAddress)
	r.store.WriteByte(LocationContrast, r.s.Contrast)
	for i, v := range r.s.SplashContent {
		r.store.WriteByte(LocationSplashContent+i, v)
	}
	for slot := range r.s.Glyphs {
		for i, v := range r.s.Glyphs[slot] {
			r.store.WriteByte(LocationGlyphs+slot*GlyphSize+i, v)
		}
	}
	r.store.WriteByte(LocationInitialized, initializedMarker)
}

// SetBaud persists a new baud code. The caller is responsible for
// reconfiguring the transport afterwards.
func (r *Registry) SetBaud(b Baud) error {
	if !b.Valid() {
		return ErrInvalidBaud
	}
	r.store.WriteByte(LocationBaud, byte(b))
	r.s.Baud = b
	return nil
}

// SetTWIAddress persists a new I2C slave address.
func (r *Registry) SetTWIAddress(addr byte) error {
	if !validTWIAddress(addr) {
		return ErrInvalidTWIAddress
	}
	r.store.WriteByte(LocationTWIAddress, addr)
	r.s.TWIAddress = addr
	return nil
}

// SetContrast persists a new contrast value. Every byte value is legal.
func (r *Registry) SetContrast(v byte) {
	r.store.WriteByte(LocationContrast, v)
	r.s.Contrast = v
}

// SetLines persists the display line count.
func (r *Registry) SetLines(v byte) error {
	if !validLines(v) {
		return ErrInvalidLines
	}
	r.store.WriteByte(LocationLines, v)
	r.s.Lines = v
	return nil
}

// SetWidth persists the display character width.
func (r *Registry) SetWidth(v byte) error {
	if !validWidth(v) {
		return ErrInvalidWidth
	}
	r.store.WriteByte(LocationWidth, v)
	r.s.Width = v
	return nil
}

// SetSplashEnabled persists the boot splash flag.
func (r *Registry) SetSplashEnabled(on bool) {
	r.store.WriteByte(LocationSplashEnable, boolByte(on))
	r.s.SplashEnabled = on
}

// SetIgnoreRX persists the deaf-mode flag.
func (r *Registry) SetIgnoreRX(on bool) {
	r.store.WriteByte(LocationIgnoreRX, boolByte(on))
	r.s.IgnoreRX = on
}

// SetChannel persists one backlight channel intensity.
func (r *Registry) SetChannel(c Channel, v byte) {
	r.store.WriteByte(LocationRed+int(c), v)
	r.s.Backlight[c] = v
}

// SetBacklight persists all three backlight channels.
func (r *Registry) SetBacklight(red, green, blue byte) {
	r.SetChannel(Red, red)
	r.SetChannel(Green, green)
	r.SetChannel(Blue, blue)
}

// SetBrightness persists the white/red channel intensity.
func (r *Registry) SetBrightness(v byte) {
	r.SetChannel(Red, v)
}

// SetSplashContent persists the boot splash text. Content shorter than the
// full block is padded with spaces; the whole 80-byte field is committed in
// one pass.
func (r *Registry) SetSplashContent(content []byte) error {
	if len(content) > SplashContentSize {
		return ErrSplashTooLong
	}
	var block [SplashContentSize]byte
	for i := range block {
		block[i] = ' '
	}
	copy(block[:], content)
	for i, v := range block {
		r.store.WriteByte(LocationSplashContent+i, v)
	}
	r.s.SplashContent = block
	return nil
}

// SetGlyph persists one user-defined glyph bitmap.
func (r *Registry) SetGlyph(slot byte, bitmap [GlyphSize]byte) error {
	if int(slot) >= GlyphCount {
		return ErrInvalidGlyphSlot
	}
	for i, v := range bitmap {
		r.store.WriteByte(LocationGlyphs+int(slot)*GlyphSize+i, v)
	}
	r.s.Glyphs[slot] = bitmap
	return nil
}
