// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uart

import (
	"io"
	"sync"

	"github.com/GermanBionicSystems/openlcd/command"
	"github.com/GermanBionicSystems/openlcd/settings"
)

// Loopback is an in-memory stand-in for a Port: bytes written to it come
// back out of Read, and reconfiguration requests are recorded instead of
// touching hardware. It lets the full receive path run without a device.
type Loopback struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu   sync.Mutex
	baud settings.Baud
	addr byte
}

// NewLoopback returns a Loopback at the default rate and address.
func NewLoopback() *Loopback {
	r, w := io.Pipe()
	return &Loopback{r: r, w: w, baud: settings.DefaultBaud, addr: settings.DefaultTWIAddress}
}

// Write queues bytes for Read, blocking until a reader consumes them.
func (l *Loopback) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

// Read returns previously written bytes, blocking until some arrive.
func (l *Loopback) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

// Reconfigure records the requested line parameters.
func (l *Loopback) Reconfigure(baud settings.Baud, twiAddress byte) error {
	if !baud.Valid() {
		return settings.ErrInvalidBaud
	}
	l.mu.Lock()
	l.baud = baud
	l.addr = twiAddress
	l.mu.Unlock()
	return nil
}

// Baud returns the last applied rate.
func (l *Loopback) Baud() settings.Baud {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.baud
}

// TWIAddress returns the last applied address.
func (l *Loopback) TWIAddress() byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

// Close ends the stream; pending and future Reads return io.EOF.
func (l *Loopback) Close() error {
	return l.w.Close()
}

var _ command.Transport = &Loopback{}
var _ io.ReadWriteCloser = &Loopback{}
