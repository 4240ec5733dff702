// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eeprom provides the byte-addressed non-volatile store that holds
// the backpack's persisted configuration.
//
// The store behaves like a microcontroller's internal EEPROM: a
// small fixed-capacity array of bytes whose erased state is 0xFF. Offsets are
// compile-time constants owned by the settings package; an out-of-range
// offset is a programming error and panics, it is never a runtime condition
// to handle.
//
// Writes are idempotent. Writing the value already stored at an offset is
// skipped, which matters only for wear, never for behavior.
package eeprom

// Erased is the value every cell holds before it is first written.
const Erased byte = 0xFF

// Store is a byte-addressed non-volatile memory.
//
// Implementations do not return errors; storage is assumed addressable for
// its whole fixed capacity. A backing medium that can fail (a file) keeps a
// sticky error reported out of band.
type Store interface {
	// ReadByte returns the byte stored at offset.
	ReadByte(offset int) byte
	// WriteByte stores value at offset. Rewriting the current value is a
	// no-op.
	WriteByte(offset int, value byte)
	// Size returns the fixed capacity in bytes.
	Size() int
}

// Mem is a volatile Store. It is the store used in tests and by the
// emulated front panel; contents are lost when the process exits.
type Mem struct {
	data   []byte
	writes int
}

// NewMem returns a Mem of the given capacity with every cell erased.
func NewMem(size int) *Mem {
	m := &Mem{data: make([]byte, size)}
	for i := range m.data {
		m.data[i] = Erased
	}
	return m
}

func (m *Mem) ReadByte(offset int) byte {
	return m.data[offset]
}

func (m *Mem) WriteByte(offset int, value byte) {
	if m.data[offset] == value {
		return
	}
	m.data[offset] = value
	m.writes++
}

func (m *Mem) Size() int {
	return len(m.data)
}

// Writes returns the number of cell updates performed so far. Skipped
// idempotent writes are not counted; the counter is the wear observable.
func (m *Mem) Writes() int {
	return m.writes
}

var _ Store = &Mem{}
