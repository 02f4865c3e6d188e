package dashboard

import "fmt"

// Fixed saturation/lightness so every location color sits in the same
// palette range; only the hue varies per name.
const (
	colorSaturation = 70
	colorLightness  = 50
)

// Color is an HSL color derived deterministically from a location name.
// The same name always yields the same color, across renders and across the
// chart and tile views.
type Color struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Lightness  int `json:"lightness"`
}

// String renders the color as a CSS hsl() value.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.Hue, c.Saturation, c.Lightness)
}

// ColorFor returns the stable color for a location name.
func ColorFor(name string) Color {
	return Color{Hue: hueFor(name), Saturation: colorSaturation, Lightness: colorLightness}
}

// hueFor derives a 0-359 hue from name via an order-dependent accumulating
// hash in 32-bit arithmetic. Two names may map to the same hue; that is
// accepted.
func hueFor(name string) int {
	var h int32
	for _, r := range name {
		h = int32(r) + (h << 5) - h
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v % 360)
}
