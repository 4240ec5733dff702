// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom

import (
	"fmt"
	"os"
)

// File is a Store backed by a file on disk, used when the firmware core runs
// on a host instead of a microcontroller. The whole image is cached in
// memory; WriteByte writes through one byte at a time.
//
// The Store contract has no error returns, so I/O failures after a
// successful open are held as a sticky error available from Err. Reads and
// writes keep operating on the cache so the device behaves until shutdown;
// a store that cannot be opened at boot is the only fatal storage fault.
type File struct {
	f    *os.File
	data []byte
	err  error
}

// OpenFile opens or creates a file-backed store of the given capacity.
//
// A new file starts fully erased (0xFF). An existing shorter image is
// extended with erased cells so layouts can grow append-only across
// versions; extra trailing bytes in a longer image are preserved untouched.
func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eeprom: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("eeprom: %w", err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = Erased
	}
	if st.Size() > 0 {
		n := size
		if int(st.Size()) < n {
			n = int(st.Size())
		}
		if _, err = f.ReadAt(data[:n], 0); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("eeprom: %w", err)
		}
	}
	if int(st.Size()) < size {
		// Materialize the erased tail so offsets are always addressable.
		if _, err = f.WriteAt(data[st.Size():], st.Size()); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("eeprom: %w", err)
		}
	}
	return &File{f: f, data: data}, nil
}

func (s *File) ReadByte(offset int) byte {
	return s.data[offset]
}

func (s *File) WriteByte(offset int, value byte) {
	if s.data[offset] == value {
		return
	}
	s.data[offset] = value
	if _, err := s.f.WriteAt([]byte{value}, int64(offset)); err != nil && s.err == nil {
		s.err = fmt.Errorf("eeprom: %w", err)
	}
}

func (s *File) Size() int {
	return len(s.data)
}

// Err returns the first write error encountered, if any.
func (s *File) Err() error {
	return s.err
}

// Close syncs and closes the backing file.
func (s *File) Close() error {
	if err := s.f.Sync(); err != nil && s.err == nil {
		s.err = fmt.Errorf("eeprom: %w", err)
	}
	if err := s.f.Close(); err != nil && s.err == nil {
		s.err = fmt.Errorf("eeprom: %w", err)
	}
	return s.err
}

var _ Store = &File{}
