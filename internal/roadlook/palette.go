package roadlook

import (
	"fmt"
	"math"
	"strings"

	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Color is an RGBA color used by map viewers for a road look.
type Color struct {
	R byte `json:"r"` // red component
	G byte `json:"g"` // green component
	B byte `json:"b"` // blue component
	A byte `json:"a"` // alpha component
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// classColors are the fill colors of the classified looks.
var classColors = map[Class]Color{
	Highway:    {R: 220, G: 140, B: 60, A: 255},
	Express:    {R: 220, G: 200, B: 90, A: 255},
	Local:      {R: 200, G: 200, B: 200, A: 255},
	NoVehicles: {R: 120, G: 120, B: 120, A: 255},
}

// oneWayTint is blended into the fill of looks with lanes on one side only.
var (
	oneWayTint   = Color{R: 200, G: 70, B: 70, A: 255}
	oneWayAmount = 1.0 / 3
)

// Palette returns the fill and outline colors for a road look.
func Palette(l *RoadLook) (fill Color, outline Color) {
	c, ok := classColors[l.Class()]
	if !ok {
		c = hashColor(strings.ToLower(l.Name + "/" + l.Token.String()))
	}

	if !l.IsBidirectional() {
		c = tint(c, oneWayTint, oneWayAmount)
	}

	return c, darkenAndSaturate(c, 0.7, 1.25)
}

// tint moves c towards with by amount in [0, 1]. The result is opaque.
func tint(c, with Color, amount float64) Color {
	amount = math.Max(0, math.Min(1, amount))
	blend := func(a, b byte) byte {
		return byte(math.Round(float64(a) + (float64(b)-float64(a))*amount))
	}

	return Color{R: blend(c.R, with.R), G: blend(c.G, with.G), B: blend(c.B, with.B), A: 255}
}

// hashColor hashes a name to a color.
func hashColor(name string) Color {
	h := token.Hash32(name)
	r := byte(60 + (h&0xff)%160)
	g := byte(60 + ((h>>8)&0xff)%160)
	b := byte(60 + ((h>>16)&0xff)%160)
	avg := (int(r) + int(g) + int(b)) / 3
	r = clampByte(avg + int(float64(int(r)-avg)*1.2))
	g = clampByte(avg + int(float64(int(g)-avg)*1.2))
	b = clampByte(avg + int(float64(int(b)-avg)*1.2))

	return Color{R: r, G: g, B: b, A: 255}
}

// darkenAndSaturate darkens and saturates a color.
func darkenAndSaturate(c Color, darken float64, sat float64) Color {
	avg := (int(c.R) + int(c.G) + int(c.B)) / 3
	r := clampByte(int(float64(int(c.R)-avg)*sat) + avg)
	g := clampByte(int(float64(int(c.G)-avg)*sat) + avg)
	b := clampByte(int(float64(int(c.B)-avg)*sat) + avg)
	r = clampByte(int(float64(r) * darken))
	g = clampByte(int(float64(g) * darken))
	b = clampByte(int(float64(b) * darken))

	return Color{R: r, G: g, B: b, A: 255}
}

// clampByte clamps a channel into the readable range.
func clampByte(v int) byte {
	if v < 40 {
		return 40
	}
	if v > 220 {
		return 220
	}

	return byte(v)
}
