// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package settings holds the backpack's persisted configuration: the typed
// view of the EEPROM layout, the documented defaults, and the Registry that
// validates and writes settings through to the store.
//
// The byte layout is the on-chip compatibility contract across firmware
// versions. Offsets are append-only: new fields get new offsets, existing
// offsets are never reassigned, so a firmware upgrade never corrupts a
// deployed configuration.
package settings

// EEPROM locations for the user settings. Scalars live in 0..10, the splash
// block at 20, glyph bitmaps at 100.
const (
	LocationBaud          = 0
	LocationReserved      = 1 // legacy TWI-enable slot, kept zeroed
	LocationSplashEnable  = 2
	LocationLines         = 3
	LocationWidth         = 4
	LocationRed           = 5 // doubles as white brightness on mono backlights
	LocationGreen         = 6
	LocationBlue          = 7
	LocationIgnoreRX      = 8
	LocationTWIAddress    = 9
	LocationContrast      = 10
	LocationInitialized   = 11
	LocationSplashContent = 20
	LocationGlyphs        = 100

	// SplashContentSize is 4x20, the largest supported display.
	SplashContentSize = 80
	GlyphCount        = 8
	GlyphSize         = 8

	// StoreSize is the capacity a Store must provide.
	StoreSize = LocationGlyphs + GlyphCount*GlyphSize

	// initializedMarker at LocationInitialized means the store has been
	// provisioned with defaults at least once.
	initializedMarker byte = 0xA5
)

// layout drives the overlap test and documents each field's extent.
var layout = []struct {
	name   string
	offset int
	width  int
}{
	{"baud", LocationBaud, 1},
	{"reserved", LocationReserved, 1},
	{"splashEnable", LocationSplashEnable, 1},
	{"lines", LocationLines, 1},
	{"width", LocationWidth, 1},
	{"red", LocationRed, 1},
	{"green", LocationGreen, 1},
	{"blue", LocationBlue, 1},
	{"ignoreRX", LocationIgnoreRX, 1},
	{"twiAddress", LocationTWIAddress, 1},
	{"contrast", LocationContrast, 1},
	{"initialized", LocationInitialized, 1},
	{"splashContent", LocationSplashContent, SplashContentSize},
	{"glyphs", LocationGlyphs, GlyphCount * GlyphSize},
}

// Baud is an index into the fixed baud-rate table.
type Baud byte

const (
	Baud1200 Baud = iota
	Baud2400
	Baud4800
	Baud9600
	Baud14400
	Baud19200
	Baud38400
	Baud57600
	Baud115200
	Baud230400
	Baud460800
	Baud921600
	Baud1000000
)

var baudRates = [...]int{
	1200, 2400, 4800, 9600, 14400, 19200, 38400,
	57600, 115200, 230400, 460800, 921600, 1000000,
}

// Valid reports whether b indexes the baud table.
func (b Baud) Valid() bool {
	return int(b) < len(baudRates)
}

// Rate returns the line speed in bits per second, or 0 for an invalid code.
func (b Baud) Rate() int {
	if !b.Valid() {
		return 0
	}
	return baudRates[b]
}

// Channel selects one backlight color channel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Documented defaults.
const (
	DefaultTWIAddress byte = 0x72
	DefaultBaud            = Baud9600
	DefaultBrightness byte = 255 // full
	DefaultContrast   byte = 20  // lower value, darker
	DefaultLines      byte = 2
	DefaultWidth      byte = 16
)

// Settings is the in-memory view of the persisted configuration. There is
// one instance per backpack, owned by the caller and mutated only through a
// Registry.
type Settings struct {
	Baud          Baud
	TWIAddress    byte
	Contrast      byte
	Lines         byte
	Width         byte
	SplashEnabled bool
	// IgnoreRX discards incoming text when set. Commands are still
	// recognized so the flag can be cleared over the wire.
	IgnoreRX bool
	// Backlight holds the red, green and blue channel intensities. The red
	// channel doubles as white brightness on single-color backlights.
	Backlight     [3]byte
	SplashContent [SplashContentSize]byte
	Glyphs        [GlyphCount][GlyphSize]byte
}

// Brightness returns the white/red channel intensity.
func (s *Settings) Brightness() byte {
	return s.Backlight[Red]
}

// Default returns every field at its documented default.
func Default() Settings {
	s := Settings{
		Baud:          DefaultBaud,
		TWIAddress:    DefaultTWIAddress,
		Contrast:      DefaultContrast,
		Lines:         DefaultLines,
		Width:         DefaultWidth,
		SplashEnabled: true,
		Backlight:     [3]byte{DefaultBrightness, DefaultBrightness, DefaultBrightness},
	}
	for i := range s.SplashContent {
		s.SplashContent[i] = ' '
	}
	copy(s.SplashContent[:], "OpenLCD")
	return s
}

func validLines(v byte) bool {
	return v == 1 || v == 2 || v == 4
}

func validWidth(v byte) bool {
	return v == 16 || v == 20
}

// validTWIAddress accepts 7-bit addresses outside the ranges the I2C spec
// reserves (0x00-0x07 and 0x78-0x7F).
func validTWIAddress(v byte) bool {
	return v >= 0x08 && v <= 0x77
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
