// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package settings

import (
	"testing"

	"github.com/GermanBionicSystems/openlcd/eeprom"
)

func TestLayoutNoOverlap(t *testing.T) {
	for i, a := range layout {
		if a.offset+a.width > StoreSize {
			t.Errorf("%s extends past StoreSize", a.name)
		}
		for _, b := range layout[i+1:] {
			if a.offset < b.offset+b.width && b.offset < a.offset+a.width {
				t.Errorf("fields %s and %s overlap", a.name, b.name)
			}
		}
	}
}

func TestBaudTable(t *testing.T) {
	cases := []struct {
		code Baud
		rate int
	}{
		{Baud1200, 1200},
		{Baud9600, 9600},
		{Baud115200, 115200},
		{Baud1000000, 1000000},
	}
	for _, c := range cases {
		if !c.code.Valid() {
			t.Errorf("Baud(%d).Valid() = false", c.code)
		}
		if got := c.code.Rate(); got != c.rate {
			t.Errorf("Baud(%d).Rate() = %d, want %d", c.code, got, c.rate)
		}
	}
	if Baud(13).Valid() {
		t.Error("Baud(13) should be invalid")
	}
	if Baud(13).Rate() != 0 {
		t.Error("invalid code should report rate 0")
	}
}

func TestDefaults(t *testing.T) {
	s := Default()
	if s.Baud != Baud9600 {
		t.Errorf("default baud = %d", s.Baud)
	}
	if s.TWIAddress != 0x72 {
		t.Errorf("default TWI address = %#x", s.TWIAddress)
	}
	if s.Contrast != 20 {
		t.Errorf("default contrast = %d", s.Contrast)
	}
	if s.Lines != 2 || s.Width != 16 {
		t.Errorf("default geometry = %dx%d", s.Lines, s.Width)
	}
	if !s.SplashEnabled {
		t.Error("splash should default on")
	}
	if s.IgnoreRX {
		t.Error("ignore RX should default off")
	}
	if s.Brightness() != 255 {
		t.Errorf("default brightness = %d", s.Brightness())
	}
}

func TestFirstBootProvisionsStore(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()

	if s != Default() {
		t.Error("first load should yield defaults")
	}
	if store.ReadByte(LocationBaud) != byte(Baud9600) {
		t.Error("defaults not written through")
	}
	if store.ReadByte(LocationContrast) != 20 {
		t.Error("contrast default not written")
	}

	// A second registry on the same store sees the provisioned values.
	var s2 Settings
	NewRegistry(store, &s2).Load()
	if s2 != s {
		t.Error("reload differs from provisioned settings")
	}
}

func TestLoadSelfHealsCorruptScalars(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()

	// Corrupt a few cells behind the registry's back.
	store.WriteByte(LocationLines, 9)
	store.WriteByte(LocationBaud, 200)
	store.WriteByte(LocationTWIAddress, 0x02)
	store.WriteByte(LocationContrast, 99) // any byte is legal, must survive
	store.WriteByte(LocationIgnoreRX, 0x37)

	var healed Settings
	NewRegistry(store, &healed).Load()

	if healed.Lines != DefaultLines {
		t.Errorf("lines = %d, want default", healed.Lines)
	}
	if healed.Baud != DefaultBaud {
		t.Errorf("baud = %d, want default", healed.Baud)
	}
	if healed.TWIAddress != DefaultTWIAddress {
		t.Errorf("twi = %#x, want default", healed.TWIAddress)
	}
	if healed.Contrast != 99 {
		t.Errorf("contrast = %d, want preserved 99", healed.Contrast)
	}
	if healed.IgnoreRX {
		t.Error("corrupt flag should heal to default off")
	}
	if store.ReadByte(LocationLines) != DefaultLines {
		t.Error("healed value not rewritten to store")
	}
}

func TestApplyRoundTrip(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()

	if err := reg.SetBaud(Baud115200); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetTWIAddress(0x3C); err != nil {
		t.Fatal(err)
	}
	reg.SetContrast(42)
	if err := reg.SetLines(4); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetWidth(20); err != nil {
		t.Fatal(err)
	}
	reg.SetSplashEnabled(false)
	reg.SetIgnoreRX(true)
	reg.SetBacklight(10, 20, 30)
	if err := reg.SetSplashContent([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	glyph := [GlyphSize]byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := reg.SetGlyph(7, glyph); err != nil {
		t.Fatal(err)
	}

	var back Settings
	NewRegistry(store, &back).Load()
	if back != s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, s)
	}
	if back.Glyphs[7] != glyph {
		t.Error("glyph did not round trip")
	}
	if string(back.SplashContent[:5]) != "hello" {
		t.Error("splash content did not round trip")
	}
	if back.SplashContent[5] != ' ' {
		t.Error("short splash content should be space padded")
	}
}

func TestApplyRejectsOutOfDomain(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()
	prior := s

	if err := reg.SetBaud(Baud(42)); err != ErrInvalidBaud {
		t.Errorf("SetBaud = %v, want ErrInvalidBaud", err)
	}
	if err := reg.SetTWIAddress(0x00); err != ErrInvalidTWIAddress {
		t.Errorf("SetTWIAddress = %v, want ErrInvalidTWIAddress", err)
	}
	if err := reg.SetTWIAddress(0x78); err != ErrInvalidTWIAddress {
		t.Errorf("SetTWIAddress(0x78) = %v, want ErrInvalidTWIAddress", err)
	}
	if err := reg.SetLines(3); err != ErrInvalidLines {
		t.Errorf("SetLines = %v, want ErrInvalidLines", err)
	}
	if err := reg.SetWidth(8); err != ErrInvalidWidth {
		t.Errorf("SetWidth = %v, want ErrInvalidWidth", err)
	}
	if err := reg.SetGlyph(8, [GlyphSize]byte{}); err != ErrInvalidGlyphSlot {
		t.Errorf("SetGlyph = %v, want ErrInvalidGlyphSlot", err)
	}
	if err := reg.SetSplashContent(make([]byte, 81)); err != ErrSplashTooLong {
		t.Errorf("SetSplashContent = %v, want ErrSplashTooLong", err)
	}

	if s != prior {
		t.Error("rejected writes must leave settings unchanged")
	}
	var back Settings
	NewRegistry(store, &back).Load()
	if back != prior {
		t.Error("rejected writes must leave the store unchanged")
	}
}

func TestApplyIdempotence(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()

	reg.SetContrast(42)
	wrote := store.Writes()
	snapshot := s
	reg.SetContrast(42)
	if s != snapshot {
		t.Error("second apply changed observable state")
	}
	if store.Writes() != wrote {
		t.Error("second apply should not wear the store")
	}
}

func TestFactoryReset(t *testing.T) {
	store := eeprom.NewMem(StoreSize)
	var s Settings
	reg := NewRegistry(store, &s)
	reg.Load()

	_ = reg.SetBaud(Baud1200)
	reg.SetContrast(200)
	reg.SetIgnoreRX(true)
	_ = reg.SetGlyph(0, [GlyphSize]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	reg.FactoryReset()
	if s != Default() {
		t.Error("factory reset should restore defaults in memory")
	}

	var back Settings
	NewRegistry(store, &back).Load()
	if back != Default() {
		t.Error("factory reset should restore defaults in the store")
	}
}
