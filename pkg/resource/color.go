package resource

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a parsed CSS color.
type Color struct {
	colorful.Color
	Alpha float64
}

// Hex returns the upper-case Android color literal: #RRGGBB for opaque
// colors and #AARRGGBB otherwise.
func (c Color) Hex() string {
	rgb := strings.ToUpper(c.Clamped().Hex()[1:])
	if c.Alpha >= 1 {
		return "#" + rgb
	}
	a := uint8(math.Round(c.Alpha * 255))
	return fmt.Sprintf("#%02X%s", a, rgb)
}

// Transparent reports whether the color has no alpha.
func (c Color) Transparent() bool { return c.Alpha <= 0 }

// ParseColor parses the CSS color syntaxes a computed style produces:
// rgb(), rgba(), hsl(), hsla(), #rgb, #rgba, #rrggbb, #rrggbbaa and the
// named colors of [NamedColors].
func ParseColor(v string) (Color, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "transparent":
		return Color{}, nil
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "rgb"):
		args, err := colorArgs(v)
		if err != nil {
			return Color{}, err
		}
		c := Color{Color: colorful.Color{R: args[0] / 255, G: args[1] / 255, B: args[2] / 255}, Alpha: args[3]}
		return c, nil
	case strings.HasPrefix(v, "hsl"):
		args, err := colorArgs(v)
		if err != nil {
			return Color{}, err
		}
		return Color{Color: colorful.Hsl(args[0], args[1]/100, args[2]/100), Alpha: args[3]}, nil
	}
	if hex, ok := namedHex[v]; ok {
		return parseHex(hex)
	}
	return Color{}, fmt.Errorf("unsupported color %q", v)
}

func parseHex(v string) (Color, error) {
	h := v[1:]
	alpha := 1.0
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	switch len(h) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse alpha of %q: %w", v, err)
		}
		alpha = float64(a) / 255
		h = h[:6]
	default:
		return Color{}, fmt.Errorf("unsupported color %q", v)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Color{}, fmt.Errorf("parse %q: %w", v, err)
	}
	return Color{Color: c, Alpha: alpha}, nil
}

// colorArgs returns the three channels and alpha of a functional color.
func colorArgs(v string) ([4]float64, error) {
	out := [4]float64{0, 0, 0, 1}
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return out, fmt.Errorf("unsupported color %q", v)
	}
	body := strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : end])
	fields := strings.Fields(body)
	if len(fields) != 3 && len(fields) != 4 {
		return out, fmt.Errorf("unsupported color %q", v)
	}
	for i, f := range fields {
		pct := strings.HasSuffix(f, "%")
		n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(f, "%"), "deg"), 64)
		if err != nil {
			return out, fmt.Errorf("parse %q: %w", v, err)
		}
		switch {
		case i == 3 && pct:
			n /= 100
		case pct && strings.HasPrefix(v, "rgb"):
			n = n * 255 / 100
		}
		out[i] = n
	}
	return out, nil
}

// NamedColors maps resource names to the reference colors used for
// nearest-name lookup.
var NamedColors = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"gray":    "#808080",
	"silver":  "#C0C0C0",
	"red":     "#FF0000",
	"maroon":  "#800000",
	"orange":  "#FFA500",
	"yellow":  "#FFFF00",
	"olive":   "#808000",
	"lime":    "#00FF00",
	"green":   "#008000",
	"teal":    "#008080",
	"cyan":    "#00FFFF",
	"blue":    "#0000FF",
	"navy":    "#000080",
	"purple":  "#800080",
	"magenta": "#FF00FF",
	"pink":    "#FFC0CB",
	"brown":   "#A52A2A",
	"beige":   "#F5F5DC",
}

var namedHex = func() map[string]string {
	m := make(map[string]string, len(NamedColors)+2)
	for k, v := range NamedColors {
		m[k] = v
	}
	m["grey"] = NamedColors["gray"]
	m["aqua"] = NamedColors["cyan"]
	m["fuchsia"] = NamedColors["magenta"]
	return m
}()

// NearestName returns the name of the closest reference color in CIE Lab
// space. Ties resolve to the alphabetically first name.
func NearestName(c Color) string {
	best, bestDist := "", math.Inf(1)
	for name, hex := range NamedColors {
		ref, err := colorful.Hex(strings.ToLower(hex))
		if err != nil {
			continue
		}
		d := c.Clamped().DistanceLab(ref)
		if d < bestDist || (d == bestDist && name < best) {
			best, bestDist = name, d
		}
	}
	return best
}
