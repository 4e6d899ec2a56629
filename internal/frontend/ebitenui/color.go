package ebitenui

import (
	"image/color"
	"strconv"
	"strings"
)

// parseHexColor decodes "#rgb" and "#rrggbb" strings. Malformed values fall
// back to mid gray so a bad document never blanks the canvas.
func parseHexColor(s string) color.RGBA {
	fallback := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}
