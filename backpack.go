// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package openlcd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/GermanBionicSystems/openlcd/command"
	"github.com/GermanBionicSystems/openlcd/eeprom"
	"github.com/GermanBionicSystems/openlcd/settings"
)

// SplashDelay is how long the splash screen stays up during boot.
const SplashDelay = 500 * time.Millisecond

// Splash content is stored as 4 rows of 20 regardless of the attached
// panel's geometry.
const splashStride = 20

// Backpack is the firmware core: settings store, command interpreter and
// receive buffer wired to one display and one transport.
type Backpack struct {
	reg   *settings.Registry
	disp  command.Display
	in    io.Reader
	intr  *command.Interpreter
	ring  *command.Ring
	sleep func(time.Duration)
}

// New loads the settings from store and assembles the core around disp. The
// in reader supplies the byte stream; if it also implements
// command.Transport, baud and address changes are applied to it live.
func New(store eeprom.Store, disp command.Display, in io.Reader) *Backpack {
	st := &settings.Settings{}
	reg := settings.NewRegistry(store, st)
	reg.Load()
	tr, _ := in.(command.Transport)
	return &Backpack{
		reg:   reg,
		disp:  disp,
		in:    in,
		intr:  command.New(reg, disp, tr),
		ring:  command.NewRing(),
		sleep: time.Sleep,
	}
}

// Settings returns a copy of the current settings.
func (b *Backpack) Settings() settings.Settings {
	return *b.reg.Settings()
}

// Dropped reports how many inbound bytes were lost to buffer overflow.
func (b *Backpack) Dropped() int {
	return b.ring.Dropped()
}

// Write feeds bytes straight into the interpreter, bypassing the receive
// buffer. It is the in-process equivalent of sending them over the wire.
func (b *Backpack) Write(p []byte) (int, error) {
	return b.intr.Write(p)
}

// Boot applies the persisted display state and shows the splash screen, the
// way the board comes up after power-on.
func (b *Backpack) Boot() error {
	st := b.reg.Settings()
	if err := b.disp.SetContrast(st.Contrast); err != nil {
		return fmt.Errorf("openlcd: %w", err)
	}
	if err := b.disp.SetBacklight(st.Backlight[settings.Red], st.Backlight[settings.Green], st.Backlight[settings.Blue]); err != nil {
		return fmt.Errorf("openlcd: %w", err)
	}
	for slot := range st.Glyphs {
		if err := b.disp.LoadGlyph(byte(slot), st.Glyphs[slot]); err != nil {
			return fmt.Errorf("openlcd: %w", err)
		}
	}
	if st.SplashEnabled {
		if err := b.showSplash(); err != nil {
			return err
		}
	}
	if err := b.disp.Clear(); err != nil {
		return fmt.Errorf("openlcd: %w", err)
	}
	return nil
}

func (b *Backpack) showSplash() error {
	st := b.reg.Settings()
	if err := b.disp.Clear(); err != nil {
		return fmt.Errorf("openlcd: %w", err)
	}
	for row := 0; row < int(st.Lines); row++ {
		line := st.SplashContent[row*splashStride : row*splashStride+int(st.Width)]
		if blank(line) {
			continue
		}
		if err := b.disp.SetCursor(row, 0); err != nil {
			return fmt.Errorf("openlcd: %w", err)
		}
		for _, c := range line {
			if err := b.disp.WriteChar(c); err != nil {
				return fmt.Errorf("openlcd: %w", err)
			}
		}
	}
	b.sleep(SplashDelay)
	return nil
}

func blank(line []byte) bool {
	for _, c := range line {
		if c != ' ' {
			return false
		}
	}
	return true
}

// Run pumps the transport until EOF or ctx cancellation. A reader goroutine
// moves bytes into the receive buffer so a slow display cannot stall the
// wire; overflow drops the oldest bytes, like the serial ISR on the real
// board. The reader blocks in Read, so close the transport to unblock it
// after cancellation.
func (b *Backpack) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, command.BufferSize)
		for {
			n, err := b.in.Read(buf)
			for i := 0; i < n; i++ {
				b.ring.Put(buf[i])
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.ring.Wake():
			b.drain()
		case err := <-errc:
			b.drain()
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("openlcd: %w", err)
		}
	}
}

func (b *Backpack) drain() {
	for {
		c, ok := b.ring.Get()
		if !ok {
			return
		}
		b.intr.Feed(c)
	}
}
