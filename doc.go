// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package openlcd implements the firmware core of a serial character LCD
// backpack: it receives a byte stream from a transport, interprets the
// embedded command escapes, keeps the board settings in a persistent store,
// and renders everything else on a character display.
//
// The hardware-facing pieces live in subpackages: charlcd drives a real
// HD44780 panel over GPIO, termlcd emulates one on a terminal, uart carries
// the inbound stream over a host serial port, and eeprom provides the
// persistent store. The protocol itself lives in command and settings.
package openlcd
