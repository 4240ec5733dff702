// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdglyph renders a character into a 5x8 custom glyph bitmap and prints
// the escape sequence that programs it into a glyph slot. Pipe the bytes to
// the display to use characters the controller's ROM does not have:
//
//	lcdglyph -char é -slot 0
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/GermanBionicSystems/openlcd/command"
)

// Rendering scale: each of the 5x8 glyph dots is sampled from a cell of
// this many pixels.
const cell = 8

const (
	glyphCols = 5
	glyphRows = 8
)

// rasterize draws r with the Go mono font and downsamples the coverage
// into the controller's 5x8 dot matrix.
func rasterize(r rune) ([glyphRows]byte, error) {
	var bitmap [glyphRows]byte
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return bitmap, err
	}
	dc := gg.NewContext(glyphCols*cell, glyphRows*cell)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: glyphRows * cell}))
	dc.DrawStringAnchored(string(r), glyphCols*cell/2, glyphRows*cell/2, 0.5, 0.5)

	img := dc.Image()
	for row := 0; row < glyphRows; row++ {
		for col := 0; col < glyphCols; col++ {
			if covered(img, col, row) {
				// Bit 4 is the leftmost dot.
				bitmap[row] |= 1 << (glyphCols - 1 - col)
			}
		}
	}
	return bitmap, nil
}

// covered reports whether enough of the cell is inked to light the dot.
func covered(img image.Image, col, row int) bool {
	dark := 0
	for y := row * cell; y < (row+1)*cell; y++ {
		for x := col * cell; x < (col+1)*cell; x++ {
			if r, g, b, _ := img.At(x, y).RGBA(); r+g+b < 3*0x8000 {
				dark++
			}
		}
	}
	return dark*3 >= cell*cell
}

func preview(bitmap [glyphRows]byte) string {
	out := ""
	for _, row := range bitmap {
		for col := glyphCols - 1; col >= 0; col-- {
			if row&(1<<col) != 0 {
				out += "#"
			} else {
				out += "."
			}
		}
		out += "\n"
	}
	return out
}

func run(char string, slot int) error {
	r, size := utf8.DecodeRuneInString(char)
	if size == 0 || len(char) != size {
		return fmt.Errorf("-char wants exactly one character, got %q", char)
	}
	if slot < 0 || slot > 7 {
		return fmt.Errorf("slot %d out of range 0-7", slot)
	}
	bitmap, err := rasterize(r)
	if err != nil {
		return err
	}
	fmt.Printf("%q in slot %d:\n%s\n", r, slot, preview(bitmap))
	for _, b := range command.GlyphSequence(byte(slot), bitmap) {
		fmt.Printf("0x%02X ", b)
	}
	fmt.Println()
	return nil
}

func main() {
	char := flag.String("char", "", "character to render")
	slot := flag.Int("slot", 0, "glyph slot, 0-7")
	flag.Parse()
	if err := run(*char, *slot); err != nil {
		fmt.Fprintln(os.Stderr, "lcdglyph:", err)
		os.Exit(1)
	}
}
