// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package command

import "sync"

// Ring is the bounded FIFO between the transport's receive path and the
// interpreter. When the producer outruns the consumer the oldest byte is
// dropped; a display protocol degrades more gracefully losing stale text
// than blocking the receive path.
//
// The mutex is held only for the pointer updates; byte processing happens
// outside it.
type Ring struct {
	mu      sync.Mutex
	buf     [BufferSize]byte
	head    int
	n       int
	dropped int

	wake chan struct{}
}

// NewRing returns an empty Ring.
func NewRing() *Ring {
	return &Ring{wake: make(chan struct{}, 1)}
}

// Put enqueues one byte, evicting the oldest pending byte when full.
func (r *Ring) Put(b byte) {
	r.mu.Lock()
	if r.n == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
		r.n--
		r.dropped++
	}
	r.buf[(r.head+r.n)%len(r.buf)] = b
	r.n++
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Get dequeues the oldest byte. ok is false when the ring is empty.
func (r *Ring) Get() (b byte, ok bool) {
	r.mu.Lock()
	if r.n == 0 {
		r.mu.Unlock()
		return 0, false
	}
	b = r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.n--
	r.mu.Unlock()
	return b, true
}

// Len returns the number of pending bytes.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Dropped returns how many bytes were evicted by overflow.
func (r *Ring) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Wake returns a channel that receives after a Put, so a consumer can sleep
// until input arrives.
func (r *Ring) Wake() <-chan struct{} {
	return r.wake
}
