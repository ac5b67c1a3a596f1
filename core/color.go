package core

import (
	"fmt"
	"strings"
)

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Body palette, cycled by the placement UI
var (
	RGBBlack  = RGB{0, 0, 0}
	RGBWhite  = RGB{255, 255, 255}
	RGBSun    = RGB{255, 200, 80}
	RGBOcean  = RGB{80, 160, 255}
	RGBRust   = RGB{220, 100, 60}
	RGBMoss   = RGB{120, 200, 120}
	RGBViolet = RGB{190, 120, 255}
)

// BodyPalette is the default cycle of body colors
var BodyPalette = []RGB{RGBSun, RGBOcean, RGBRust, RGBMoss, RGBViolet, RGBWhite}

// PaletteColor returns palette entry i, wrapping
func PaletteColor(i int) RGB {
	if i < 0 {
		i = -i
	}
	return BodyPalette[i%len(BodyPalette)]
}

// Scale multiplies each channel by factor (for fading effects)
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// Hex formats as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb (leading # optional)
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
