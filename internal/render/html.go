package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/matview/internal/matview"
)

// HTML is a matview.Backend that renders frames as go-echarts heatmap
// pages. The output is a standalone HTML document with one interactive
// chart per tile.
type HTML struct {
	W io.Writer
}

func (h HTML) Name() string { return "html" }

func (h HTML) Draw(f *matview.Frame) error { return WriteHTML(f, h.W) }

// WriteHTML renders the frame as a page of echarts heatmaps, one chart per
// tile in row-major order.
func WriteHTML(f *matview.Frame, w io.Writer) error {
	ramp, err := frameRamp(f)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	for i := range f.Tiles {
		page.AddCharts(tileChart(f, f.Tiles[i], ramp))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// frameRamp picks the visual map color stops: black/white for binary mode,
// a sampled ramp of the configured colormap otherwise.
func frameRamp(f *matview.Frame) ([]string, error) {
	if f.Mode == matview.ModeBinary {
		return []string{"#000000", "#ffffff"}, nil
	}
	pal, err := Colormap(f.Cmap)
	if err != nil {
		return nil, err
	}
	return hexRamp(pal, 10), nil
}

func tileChart(f *matview.Frame, t matview.Tile, ramp []string) *charts.HeatMap {
	rows, cols := t.Data.Dims()

	title := fmt.Sprintf("(%d,%d)", t.Row, t.Col)
	if len(f.Tiles) == 1 && f.Title != "" {
		title = f.Title
	}
	subtitle := ""
	if len(f.Tiles) > 1 && t.Row == 0 && t.Col == 0 && f.Title != "" {
		subtitle = f.Title
	}

	// Size each chart so the whole grid matches the configured figure size
	// at 96 DPI.
	width := int(f.FigWidth / float64(f.GridCols) * 96)
	height := int(f.FigHeight / float64(f.GridRows) * 96)

	grid := newTileGrid(f, t)
	data := make([]opts.HeatMapData, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, grid.Z(c, r)}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", width),
			Height: fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(f.VMin),
			Max:        float32(f.VMax),
			InRange:    &opts.VisualMapInRange{Color: ramp},
		}),
	)
	hm.AddSeries("matrix", data)
	return hm
}
