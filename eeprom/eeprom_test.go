// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemErased(t *testing.T) {
	m := NewMem(16)
	if m.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", m.Size())
	}
	for i := 0; i < m.Size(); i++ {
		if v := m.ReadByte(i); v != Erased {
			t.Errorf("ReadByte(%d) = %#x, want %#x", i, v, Erased)
		}
	}
}

func TestMemWriteReadBack(t *testing.T) {
	m := NewMem(16)
	m.WriteByte(3, 0x42)
	if v := m.ReadByte(3); v != 0x42 {
		t.Errorf("ReadByte(3) = %#x, want 0x42", v)
	}
	if v := m.ReadByte(4); v != Erased {
		t.Errorf("neighbor cell modified: %#x", v)
	}
}

func TestMemIdempotentWrite(t *testing.T) {
	m := NewMem(16)
	m.WriteByte(0, 0x10)
	if m.Writes() != 1 {
		t.Fatalf("Writes() = %d, want 1", m.Writes())
	}
	m.WriteByte(0, 0x10)
	if m.Writes() != 1 {
		t.Errorf("rewriting the stored value should not wear the cell, Writes() = %d", m.Writes())
	}
	m.WriteByte(0, 0x11)
	if m.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", m.Writes())
	}
}

func TestMemOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out-of-range offset should panic")
		}
	}()
	NewMem(8).ReadByte(8)
}

func TestFilePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	s, err := OpenFile(path, 32)
	if err != nil {
		t.Fatal(err)
	}
	s.WriteByte(0, 3)
	s.WriteByte(31, 0xAB)
	if err = s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenFile(path, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	if v := s.ReadByte(0); v != 3 {
		t.Errorf("ReadByte(0) = %#x, want 3", v)
	}
	if v := s.ReadByte(31); v != 0xAB {
		t.Errorf("ReadByte(31) = %#x, want 0xAB", v)
	}
	if v := s.ReadByte(15); v != Erased {
		t.Errorf("untouched cell = %#x, want erased", v)
	}
}

func TestFileGrowsShorterImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := OpenFile(path, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	for i, want := range []byte{1, 2, 3, Erased, Erased, Erased, Erased, Erased} {
		if v := s.ReadByte(i); v != want {
			t.Errorf("ReadByte(%d) = %#x, want %#x", i, v, want)
		}
	}
	if s.Err() != nil {
		t.Error(s.Err())
	}
}
