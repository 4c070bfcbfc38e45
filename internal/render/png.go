// Package render implements the rendering backends for matview frames: a
// gonum/plot heatmap backend producing PNG images and a go-echarts backend
// producing self-contained HTML pages.
package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/matview/internal/matview"
)

// titleHeight is the canvas strip reserved for the figure title.
const titleHeight = 0.4 * vg.Inch

// PNG is a matview.Backend that rasterizes frames to PNG via gonum/plot.
type PNG struct {
	W io.Writer
}

func (p PNG) Name() string { return "png" }

func (p PNG) Draw(f *matview.Frame) error { return WritePNG(f, p.W) }

// WritePNG renders the frame as a grid of heatmap sub-plots on a single
// canvas and writes the encoded PNG to w. Each tile becomes one sub-plot
// titled with its grid index; the figure title, when set, is drawn in a
// header strip above the grid. Output is deterministic for identical
// frames.
func WritePNG(f *matview.Frame, w io.Writer) error {
	pal, err := framePalette(f)
	if err != nil {
		return err
	}

	img := vgimg.New(vg.Length(f.FigWidth)*vg.Inch, vg.Length(f.FigHeight)*vg.Inch)
	dc := draw.New(img)

	tileArea := dc
	if f.Title != "" {
		height := dc.Max.Y - dc.Min.Y
		header := draw.Crop(dc, 0, 0, height-titleHeight, 0)
		tileArea = draw.Crop(dc, 0, 0, 0, -titleHeight)

		tp := plot.New()
		tp.HideAxes()
		tp.BackgroundColor = color.Transparent
		tp.Title.Text = f.Title
		tp.Draw(header)
	}

	plots := make([][]*plot.Plot, f.GridRows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, f.GridCols)
	}

	colors := pal.Colors()
	for _, t := range f.Tiles {
		p := plot.New()
		p.HideAxes()
		if len(f.Tiles) > 1 {
			p.Title.Text = fmt.Sprintf("(%d,%d)", t.Row, t.Col)
			p.Title.TextStyle.Font.Size = vg.Points(9)
		}

		h := plotter.NewHeatMap(newTileGrid(f, t), pal)
		// Scale every tile against the frame range, not its own data, and
		// clamp out-of-range values to the palette ends.
		h.Min, h.Max = f.VMin, f.VMax
		h.Underflow = colors[0]
		h.Overflow = colors[len(colors)-1]
		p.Add(h)

		plots[t.Row][t.Col] = p
	}

	tiles := draw.Tiles{
		Rows: f.GridRows, Cols: f.GridCols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, tileArea)
	for i := 0; i < f.GridRows; i++ {
		for j := 0; j < f.GridCols; j++ {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func framePalette(f *matview.Frame) (palette.Palette, error) {
	if f.Mode == matview.ModeBinary {
		return binaryPalette(), nil
	}
	return Colormap(f.Cmap)
}
