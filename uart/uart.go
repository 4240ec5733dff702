// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package uart connects the command stream to a host serial port. It is the
// wire a remote controller talks over, so baud rate changes requested
// through the settings escape are applied to the open port on the fly.
package uart

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/GermanBionicSystems/openlcd/command"
	"github.com/GermanBionicSystems/openlcd/settings"
)

// Port is an open serial connection carrying display traffic.
type Port struct {
	name string
	p    serial.Port
}

// Open opens the named device at the given rate, 8N1.
func Open(device string, baud settings.Baud) (*Port, error) {
	if !baud.Valid() {
		return nil, settings.ErrInvalidBaud
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud.Rate()})
	if err != nil {
		return nil, fmt.Errorf("uart: %w", err)
	}
	return &Port{name: device, p: p}, nil
}

// Read fills b with incoming bytes, blocking until at least one arrives.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.p.Read(b)
	if err != nil {
		return n, fmt.Errorf("uart: %w", err)
	}
	return n, nil
}

// Reconfigure switches the port to a new baud rate. The I2C address only
// concerns the TWI slave interface, so it is ignored here.
func (p *Port) Reconfigure(baud settings.Baud, twiAddress byte) error {
	if !baud.Valid() {
		return settings.ErrInvalidBaud
	}
	if err := p.p.SetMode(&serial.Mode{BaudRate: baud.Rate()}); err != nil {
		return fmt.Errorf("uart: %w", err)
	}
	return nil
}

// Close releases the device.
func (p *Port) Close() error {
	if err := p.p.Close(); err != nil {
		return fmt.Errorf("uart: %w", err)
	}
	return nil
}

func (p *Port) String() string {
	return fmt.Sprintf("uart(%s)", p.name)
}

var _ command.Transport = &Port{}
