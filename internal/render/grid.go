package render

import (
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/matview/internal/matview"
)

// tileGrid adapts one tile's matrix view to the plotter.GridXYZ interface.
// Rows are flipped so matrix row 0 renders at the top of the plot, the way
// image-style matrix displays are read. In binary mode values are
// thresholded at zero into the two display intensities.
type tileGrid struct {
	m      mat.Matrix
	binary bool
}

func (g tileGrid) Dims() (c, r int) {
	rr, cc := g.m.Dims()
	return cc, rr
}

func (g tileGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	v := g.m.At(rows-1-r, c)
	if g.binary {
		if v > 0 {
			return 1
		}
		return 0
	}
	return v
}

func (g tileGrid) X(c int) float64 { return float64(c) }
func (g tileGrid) Y(r int) float64 { return float64(r) }

func newTileGrid(f *matview.Frame, t matview.Tile) tileGrid {
	return tileGrid{m: t.Data, binary: f.Mode == matview.ModeBinary}
}
