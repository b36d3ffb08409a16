package connection

import (
	"fmt"
	"image/color"
)

var (
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Neutral = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// Ratio band limits.
const (
	RatioLimit     = 1.0
	RatioTolerance = 1.1
)

// ColorForRatio maps a capacity ratio to the display colour:
// below 1.0 green, 1.0 to 1.1 orange, above 1.1 red.
func ColorForRatio(ratio float64) color.RGBA {
	switch {
	case ratio < RatioLimit:
		return Green
	case ratio <= RatioTolerance:
		return Orange
	}
	return Red
}

// LegendEntry is one band of the ratio legend.
type LegendEntry struct {
	Label string
	Color color.RGBA
}

// Legend lists the ratio bands from compliant to non-compliant.
var Legend = []LegendEntry{
	{Label: "< 1.0", Color: Green},
	{Label: "1.0 - 1.1", Color: Orange},
	{Label: "> 1.1", Color: Red},
}

// Hex formats a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
