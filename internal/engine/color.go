package engine

import (
	"image/color"
	"math"
	"strings"

	"github.com/tartampluch/go-planner/internal/config"
)

// Color is one entry of the closed event palette.
type Color int

const (
	ColorBlue Color = iota
	ColorRed
	ColorGreen
	ColorOrange
	ColorPurple
	ColorPink
	ColorYellow
	ColorGray
)

// DefaultColor is assigned to new and imported events.
const DefaultColor = ColorBlue

// Palette lists every color in display order.
var Palette = []Color{
	ColorBlue, ColorRed, ColorGreen, ColorOrange,
	ColorPurple, ColorPink, ColorYellow, ColorGray,
}

// RGBA holds color components in the 0..1 range, as stored in documents.
type RGBA struct {
	R, G, B, A float64
}

var paletteRGBA = [...]RGBA{
	ColorBlue:   {0, 0.478, 1, 1},
	ColorRed:    {1, 0.231, 0.188, 1},
	ColorGreen:  {0.204, 0.78, 0.349, 1},
	ColorOrange: {1, 0.584, 0, 1},
	ColorPurple: {0.686, 0.322, 0.871, 1},
	ColorPink:   {1, 0.176, 0.333, 1},
	ColorYellow: {1, 0.8, 0, 1},
	ColorGray:   {0.557, 0.557, 0.576, 1},
}

var paletteNames = [...]string{
	ColorBlue:   config.ColorNameBlue,
	ColorRed:    config.ColorNameRed,
	ColorGreen:  config.ColorNameGreen,
	ColorOrange: config.ColorNameOrange,
	ColorPurple: config.ColorNamePurple,
	ColorPink:   config.ColorNamePink,
	ColorYellow: config.ColorNameYellow,
	ColorGray:   config.ColorNameGray,
}

// Valid reports whether c is a palette entry.
func (c Color) Valid() bool {
	return c >= ColorBlue && c <= ColorGray
}

// String returns the palette name. Out-of-range values report the default color's name.
func (c Color) String() string {
	if !c.Valid() {
		return paletteNames[DefaultColor]
	}
	return paletteNames[c]
}

// RGBA returns the normalized components of c.
func (c Color) RGBA() RGBA {
	if !c.Valid() {
		return paletteRGBA[DefaultColor]
	}
	return paletteRGBA[c]
}

// NRGBA converts c for canvas drawing.
func (c Color) NRGBA() color.NRGBA {
	v := c.RGBA()
	return color.NRGBA{
		R: channel(v.R),
		G: channel(v.G),
		B: channel(v.B),
		A: channel(v.A),
	}
}

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// ParseColor resolves a palette name (case-insensitive). "grey" is accepted.
func ParseColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "grey" {
		return ColorGray, true
	}
	for i, n := range paletteNames {
		if n == name {
			return Color(i), true
		}
	}
	return DefaultColor, false
}

// NearestColor maps arbitrary components to the closest palette entry
// (squared euclidean distance on RGB, alpha ignored).
func NearestColor(v RGBA) Color {
	best := DefaultColor
	bestDist := math.MaxFloat64
	for _, c := range Palette {
		p := paletteRGBA[c]
		dr, dg, db := p.R-v.R, p.G-v.G, p.B-v.B
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
