// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termlcd

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCharRendersText(t *testing.T) {
	buf := &bytes.Buffer{}
	d := New(&Opts{Writer: buf})
	for _, c := range []byte("Hi") {
		if err := d.WriteChar(c); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(buf.String(), "Hi") {
		t.Error("frame does not contain the written text")
	}
}

func TestWriteCharWraps(t *testing.T) {
	d := New(&Opts{Writer: &bytes.Buffer{}, Rows: 2, Cols: 4})
	for i := 0; i < 5; i++ {
		if err := d.WriteChar('a' + byte(i)); err != nil {
			t.Fatal(err)
		}
	}
	if got := string(d.cells[0]); got != "abcd" {
		t.Errorf("row 0 = %q, want \"abcd\"", got)
	}
	if got := string(d.cells[1]); got != "e   " {
		t.Errorf("row 1 = %q, want \"e   \"", got)
	}
}

func TestCommandAddressing(t *testing.T) {
	d := New(&Opts{Writer: &bytes.Buffer{}})
	// DDRAM address 64 is row 1, column 0.
	if err := d.Command(0x80 | 64); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteChar('x'); err != nil {
		t.Fatal(err)
	}
	if d.cells[1][0] != 'x' {
		t.Errorf("cell 1,0 = %q, want 'x'", d.cells[1][0])
	}
	// Home.
	if err := d.Command(0x02); err != nil {
		t.Fatal(err)
	}
	if d.row != 0 || d.col != 0 {
		t.Errorf("cursor = %d,%d after home", d.row, d.col)
	}
}

func TestClear(t *testing.T) {
	buf := &bytes.Buffer{}
	d := New(&Opts{Writer: buf})
	if err := d.WriteChar('z'); err != nil {
		t.Fatal(err)
	}
	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	if d.cells[0][0] != ' ' || d.row != 0 || d.col != 0 {
		t.Error("clear must blank cells and home the cursor")
	}
}

func TestSetCursorRange(t *testing.T) {
	d := New(&Opts{Writer: &bytes.Buffer{}})
	if err := d.SetCursor(1, 15); err != nil {
		t.Fatal(err)
	}
	if err := d.SetCursor(2, 0); err == nil {
		t.Error("SetCursor(2, 0) on a 2-row panel must fail")
	}
}

func TestBacklightChangesFrame(t *testing.T) {
	buf := &bytes.Buffer{}
	d := New(&Opts{Writer: buf})
	if err := d.SetBacklight(255, 0, 0); err != nil {
		t.Fatal(err)
	}
	red := buf.String()
	buf.Reset()
	if err := d.SetBacklight(0, 0, 255); err != nil {
		t.Fatal(err)
	}
	if red == buf.String() {
		t.Error("different backlight colors should render differently")
	}
}

func TestContrastShown(t *testing.T) {
	buf := &bytes.Buffer{}
	d := New(&Opts{Writer: buf})
	if err := d.SetContrast(42); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "contrast=42") {
		t.Error("frame does not show the contrast level")
	}
}

func TestGlyphPlaceholder(t *testing.T) {
	buf := &bytes.Buffer{}
	d := New(&Opts{Writer: buf})
	if err := d.LoadGlyph(3, [8]byte{}); err != nil {
		t.Fatal(err)
	}
	if err := d.LoadGlyph(8, [8]byte{}); err == nil {
		t.Error("slot 8 must be rejected")
	}
	if err := d.WriteChar(3); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "#") {
		t.Error("glyph codes should render as a placeholder")
	}
}
