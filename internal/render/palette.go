package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/banshee-data/matview/internal/matview"
)

// viridisStops are the ten hex stops of the viridis ramp, the same list the
// echarts visual maps use. The PNG backend interpolates them to a full
// palette.
var viridisStops = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

const paletteColors = 256

// Colormap resolves a colormap name to a palette. The empty name selects
// "viridis". Unknown names are a configuration error, reported before any
// drawing happens.
func Colormap(name string) (palette.Palette, error) {
	switch name {
	case "", "viridis":
		return rampPalette(viridisStops, paletteColors), nil
	case "gray", "grey":
		return grayPalette(paletteColors), nil
	case "heat":
		return palette.Heat(paletteColors, 1), nil
	case "smooth_blue_red":
		return moreland.SmoothBlueRed().Palette(paletteColors), nil
	case "kindlmann":
		return moreland.Kindlmann().Palette(paletteColors), nil
	case "extended_kindlmann":
		return moreland.ExtendedKindlmann().Palette(paletteColors), nil
	case "black_body":
		return moreland.BlackBody().Palette(paletteColors), nil
	case "extended_black_body":
		return moreland.ExtendedBlackBody().Palette(paletteColors), nil
	}
	return nil, &matview.ConfigError{Reason: fmt.Sprintf("unknown colormap %q", name)}
}

// colorList is a fixed palette over a precomputed color slice.
type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

// binaryPalette maps the two binary intensities: 0 to black, 1 to white.
func binaryPalette() palette.Palette {
	return colorList{color.Black, color.White}
}

func grayPalette(n int) palette.Palette {
	cs := make(colorList, n)
	for i := range cs {
		v := uint8(i * 255 / (n - 1))
		cs[i] = color.Gray{Y: v}
	}
	return cs
}

// rampPalette linearly interpolates hex stops into an n-color palette.
func rampPalette(stops []string, n int) palette.Palette {
	anchors := make([]color.NRGBA, len(stops))
	for i, s := range stops {
		anchors[i] = parseHexColor(s)
	}
	cs := make(colorList, n)
	for i := range cs {
		t := float64(i) / float64(n-1) * float64(len(anchors)-1)
		lo := int(t)
		if lo >= len(anchors)-1 {
			cs[i] = anchors[len(anchors)-1]
			continue
		}
		frac := t - float64(lo)
		a, b := anchors[lo], anchors[lo+1]
		cs[i] = color.NRGBA{
			R: lerp8(a.R, b.R, frac),
			G: lerp8(a.G, b.G, frac),
			B: lerp8(a.B, b.B, frac),
			A: 255,
		}
	}
	return cs
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func parseHexColor(s string) color.NRGBA {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// hexRamp samples a palette down to n hex stops for the echarts visual map.
func hexRamp(p palette.Palette, n int) []string {
	cs := p.Colors()
	if len(cs) == 0 {
		return nil
	}
	if n > len(cs) {
		n = len(cs)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		idx := i * (len(cs) - 1) / max(n-1, 1)
		r, g, b, _ := cs[idx].RGBA()
		out[i] = fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	return out
}
