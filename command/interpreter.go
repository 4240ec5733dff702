// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package command

import (
	"github.com/GermanBionicSystems/openlcd/settings"
)

type state int

const (
	stateText state = iota
	stateAwaitOpcode
	stateAwaitKind
	stateAwaitOperands
)

// Interpreter is the byte-stream state machine. It consumes one byte per
// Feed call, classifies it against the escape bytes and the kind table, and
// dispatches resolved commands to the settings Registry and the Display.
//
// The interpreter is single-consumer; Feed must not be called concurrently.
type Interpreter struct {
	reg  *settings.Registry
	disp Display
	tr   Transport

	st   state
	kind byte
	need int
	n    int
	ops  [settings.SplashContentSize]byte
}

// New returns an Interpreter in text state. tr may be nil when there is no
// reconfigurable transport, for example when driving the emulated panel
// from a fixed stream.
func New(reg *settings.Registry, disp Display, tr Transport) *Interpreter {
	return &Interpreter{reg: reg, disp: disp, tr: tr}
}

// Feed consumes one byte. Every state transition completes within the
// processing of a single byte; nothing blocks.
func (in *Interpreter) Feed(b byte) {
	switch in.st {
	case stateText:
		switch b {
		case EscapeCommand:
			in.st = stateAwaitOpcode
		case EscapeSetting:
			in.st = stateAwaitKind
		default:
			// The deaf-mode flag suppresses display text only. Escapes
			// stay recognized above so the flag remains clearable.
			if in.reg.Settings().IgnoreRX {
				return
			}
			_ = in.disp.WriteChar(b)
		}
	case stateAwaitOpcode:
		// Pass-through: the controller rejects malformed opcodes itself.
		in.st = stateText
		_ = in.disp.Command(b)
	case stateAwaitKind:
		in.st = stateText
		kr := lookupKind(b)
		if kr == nil {
			// Unrecognized kind: abandon the escape and render the byte as
			// literal text, even when it carries an escape value. Fail
			// open, never wedge, never reinterpret.
			if !in.reg.Settings().IgnoreRX {
				_ = in.disp.WriteChar(b)
			}
			return
		}
		if kr.operands == 0 {
			kr.apply(in, b, nil)
			return
		}
		in.st = stateAwaitOperands
		in.kind = b
		in.need = kr.operands
		in.n = 0
	case stateAwaitOperands:
		in.ops[in.n] = b
		in.n++
		if in.n == in.need {
			in.st = stateText
			lookupKind(in.kind).apply(in, in.kind, in.ops[:in.n])
		}
	}
}

// Write feeds every byte of p, implementing io.Writer so the interpreter
// can sit behind anything that writes a byte stream.
func (in *Interpreter) Write(p []byte) (int, error) {
	for _, b := range p {
		in.Feed(b)
	}
	return len(p), nil
}

func (in *Interpreter) reconfigure() {
	if in.tr == nil {
		return
	}
	s := in.reg.Settings()
	_ = in.tr.Reconfigure(s.Baud, s.TWIAddress)
}

func applyBaud(in *Interpreter, _ byte, ops []byte) {
	// Persist first: the store must reflect the new rate even if the line
	// change eats the acknowledgment.
	if err := in.reg.SetBaud(settings.Baud(ops[0])); err != nil {
		return // silent ignore, prior rate retained
	}
	in.reconfigure()
}

func applyTWIAddress(in *Interpreter, _ byte, ops []byte) {
	if err := in.reg.SetTWIAddress(ops[0]); err != nil {
		return
	}
	in.reconfigure()
}

func applyContrast(in *Interpreter, _ byte, ops []byte) {
	in.reg.SetContrast(ops[0])
	_ = in.disp.SetContrast(ops[0])
}

func applyLines(in *Interpreter, _ byte, ops []byte) {
	_ = in.reg.SetLines(ops[0])
}

func applyWidth(in *Interpreter, _ byte, ops []byte) {
	_ = in.reg.SetWidth(ops[0])
}

func applySplashToggle(in *Interpreter, _ byte, _ []byte) {
	in.reg.SetSplashEnabled(!in.reg.Settings().SplashEnabled)
}

func applySplashSet(in *Interpreter, _ byte, ops []byte) {
	_ = in.reg.SetSplashContent(ops)
}

func applyIgnoreRX(in *Interpreter, _ byte, ops []byte) {
	in.reg.SetIgnoreRX(ops[0] != 0)
}

func applyGlyphSet(in *Interpreter, _ byte, ops []byte) {
	var bitmap [settings.GlyphSize]byte
	copy(bitmap[:], ops[1:])
	if err := in.reg.SetGlyph(ops[0], bitmap); err != nil {
		return
	}
	_ = in.disp.LoadGlyph(ops[0], bitmap)
}

func applyBacklightRGB(in *Interpreter, _ byte, ops []byte) {
	in.reg.SetBacklight(ops[0], ops[1], ops[2])
	_ = in.disp.SetBacklight(ops[0], ops[1], ops[2])
}

func applyBacklightBand(in *Interpreter, kind byte, _ []byte) {
	ch, intensity := bandChannel(kind)
	in.reg.SetChannel(ch, intensity)
	bl := in.reg.Settings().Backlight
	_ = in.disp.SetBacklight(bl[settings.Red], bl[settings.Green], bl[settings.Blue])
}

func applyClear(in *Interpreter, _ byte, _ []byte) {
	_ = in.disp.Clear()
}

func applyFactoryReset(in *Interpreter, _ byte, _ []byte) {
	in.reg.FactoryReset()
	s := in.reg.Settings()
	_ = in.disp.Clear()
	_ = in.disp.SetContrast(s.Contrast)
	bl := s.Backlight
	_ = in.disp.SetBacklight(bl[settings.Red], bl[settings.Green], bl[settings.Blue])
	for slot := range s.Glyphs {
		_ = in.disp.LoadGlyph(byte(slot), s.Glyphs[slot])
	}
	in.reconfigure()
}
