// This file implements color parsing and manipulation for stroke and
// background colors supplied by user scripts and configuration.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// NamedColors maps CSS color names to their RGBA values so scripts can say
// plot("red", f) instead of spelling out a hex triplet.
var NamedColors = map[string]color.RGBA{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"pink":    {R: 255, G: 192, B: 203, A: 255},
	"brown":   {R: 165, G: 42, B: 42, A: 255},
	"gold":    {R: 255, G: 215, B: 0, A: 255},
	"indigo":  {R: 75, G: 0, B: 130, A: 255},
	"violet":  {R: 238, G: 130, B: 238, A: 255},
	"crimson": {R: 220, G: 20, B: 60, A: 255},

	"darkblue":   {R: 0, G: 0, B: 139, A: 255},
	"darkgreen":  {R: 0, G: 100, B: 0, A: 255},
	"darkred":    {R: 139, G: 0, B: 0, A: 255},
	"darkorange": {R: 255, G: 140, B: 0, A: 255},
	"lightblue":  {R: 173, G: 216, B: 230, A: 255},
	"lightgreen": {R: 144, G: 238, B: 144, A: 255},
	"lightgray":  {R: 211, G: 211, B: 211, A: 255},
	"lightgrey":  {R: 211, G: 211, B: 211, A: 255},
	"darkgray":   {R: 169, G: 169, B: 169, A: 255},
	"darkgrey":   {R: 169, G: 169, B: 169, A: 255},

	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color string and returns an RGBA color.
// Supported formats:
//   - Named colors: "red", "blue", "darkgreen", ...
//   - Hex, with or without #: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA"
//   - Function syntax: "rgb(255, 0, 0)", "rgba(255, 0, 0, 0.5)"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	if clr, ok := NamedColors[strings.ToLower(s)]; ok {
		return clr, nil
	}

	if strings.HasPrefix(s, "#") || isHexString(s) {
		return parseHexColor(s)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgba(") {
		return parseColorFunc(s, 5, true)
	}
	if strings.HasPrefix(lower, "rgb(") {
		return parseColorFunc(s, 4, false)
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParseColor parses a color string and panics if parsing fails.
// Use this only for known-good color values in initialization code.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHexString(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// parseHexColor parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA, with the #
// optional.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	var digits []string
	switch len(s) {
	case 3, 4: // shorthand: each digit doubled
		for i := 0; i < len(s); i++ {
			digits = append(digits, s[i:i+1]+s[i:i+1])
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			digits = append(digits, s[i:i+2])
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	var comps [4]uint8
	comps[3] = 255
	for i, d := range digits {
		v, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex component %q: %w", d, err)
		}
		comps[i] = uint8(v)
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// parseColorFunc parses "rgb(r, g, b)" and "rgba(r, g, b, a)" syntax.
// prefixLen is the length of the function name plus the opening paren.
func parseColorFunc(s string, prefixLen int, hasAlpha bool) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid color function: %q", s)
	}

	parts := strings.Split(s[prefixLen:len(s)-1], ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return color.RGBA{}, fmt.Errorf("color function requires %d values, got %d", want, len(parts))
	}

	var comps [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color component %q: %w", parts[i], err)
		}
		comps[i] = uint8(v)
	}

	a := uint8(255)
	if hasAlpha {
		var err error
		a, err = parseAlphaComponent(strings.TrimSpace(parts[3]))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha value: %w", err)
		}
	}
	return color.RGBA{R: comps[0], G: comps[1], B: comps[2], A: a}, nil
}

// parseAlphaComponent accepts both 0-255 integers and 0.0-1.0 floats.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if val < 0 {
			val = 0
		}
		if val > 1 {
			val = 1
		}
		return uint8(val * 255), nil
	}

	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// ToHex converts a color to a hex string with # prefix.
// Format: #RRGGBB, or #RRGGBBAA if alpha is not 255.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// WithAlpha returns the color with the specified alpha value.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Blend mixes two colors with the specified ratio (0.0-1.0).
// A ratio of 0.0 returns c1, 1.0 returns c2, 0.5 an even mix.
func Blend(c1, c2 color.RGBA, ratio float64) color.RGBA {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
	}
	return color.RGBA{
		R: mix(c1.R, c2.R),
		G: mix(c1.G, c2.G),
		B: mix(c1.B, c2.B),
		A: mix(c1.A, c2.A),
	}
}

// Lighten moves the color toward white. Amount 0.0 is the original color,
// 1.0 is white.
func Lighten(c color.RGBA, amount float64) color.RGBA {
	return Blend(c, color.RGBA{R: 255, G: 255, B: 255, A: c.A}, clamp01(amount))
}

// Darken moves the color toward black. Amount 0.0 is the original color,
// 1.0 is black.
func Darken(c color.RGBA, amount float64) color.RGBA {
	return Blend(c, color.RGBA{A: c.A}, clamp01(amount))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
