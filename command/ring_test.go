// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package command

import "testing"

func TestRingFIFO(t *testing.T) {
	r := NewRing()
	for i := 0; i < 10; i++ {
		r.Put(byte(i))
	}
	if r.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", r.Len())
	}
	for i := 0; i < 10; i++ {
		b, ok := r.Get()
		if !ok || b != byte(i) {
			t.Fatalf("Get() = %d,%v, want %d,true", b, ok, i)
		}
	}
	if _, ok := r.Get(); ok {
		t.Error("empty ring should report !ok")
	}
}

func TestRingOverflowDropsOldest(t *testing.T) {
	r := NewRing()
	for i := 0; i < BufferSize+5; i++ {
		r.Put(byte(i))
	}
	if r.Len() != BufferSize {
		t.Fatalf("Len() = %d, want %d", r.Len(), BufferSize)
	}
	if r.Dropped() != 5 {
		t.Fatalf("Dropped() = %d, want 5", r.Dropped())
	}
	// The oldest five bytes are gone; order of the rest is preserved.
	b, _ := r.Get()
	if b != 5 {
		t.Errorf("first byte = %d, want 5", b)
	}
	for want := byte(6); want < byte(BufferSize+5); want++ {
		b, ok := r.Get()
		if !ok || b != want {
			t.Fatalf("Get() = %d,%v, want %d,true", b, ok, want)
		}
	}
}

func TestRingWake(t *testing.T) {
	r := NewRing()
	select {
	case <-r.Wake():
		t.Fatal("wake before any Put")
	default:
	}
	r.Put(1)
	select {
	case <-r.Wake():
	default:
		t.Fatal("Put should signal the wake channel")
	}
}
