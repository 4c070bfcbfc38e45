package matview

import "gonum.org/v1/gonum/mat"

// Span is a half-open index range [Start, End) along one matrix axis.
type Span struct {
	Start, End int
}

// Len returns the number of indices the span covers.
func (s Span) Len() int { return s.End - s.Start }

// PartitionAxis splits n indices into g contiguous balanced spans. Span i
// covers [i*n/g, (i+1)*n/g); when g does not divide n evenly the later
// spans are one index longer, so the remainder is absorbed deterministically
// and the spans always reconstruct [0, n) without gaps or overlap.
// Callers must ensure 0 < g <= n.
func PartitionAxis(n, g int) []Span {
	spans := make([]Span, g)
	for i := 0; i < g; i++ {
		spans[i] = Span{Start: i * n / g, End: (i + 1) * n / g}
	}
	return spans
}

// Tile is one rectangular sub-region of the input matrix, addressed by its
// (Row, Col) position in the tile grid. Tiles are computed per render call
// and discarded afterwards; Data is a read-only view into the caller's
// matrix, not a copy.
type Tile struct {
	Row, Col int
	RowSpan  Span
	ColSpan  Span
	Data     mat.Matrix
}

// subMatrix is a read-only rectangular view into an arbitrary mat.Matrix.
// mat.Dense has Slice, but Plan accepts any mat.Matrix implementation.
type subMatrix struct {
	m      mat.Matrix
	r0, c0 int
	r1, c1 int
}

func (s subMatrix) Dims() (r, c int)    { return s.r1 - s.r0, s.c1 - s.c0 }
func (s subMatrix) At(i, j int) float64 { return s.m.At(s.r0+i, s.c0+j) }
func (s subMatrix) T() mat.Matrix       { return mat.Transpose{Matrix: s} }

// partition builds the row-major tile list for an already validated grid.
func partition(m mat.Matrix, rows, cols, gridRows, gridCols int) []Tile {
	rowSpans := PartitionAxis(rows, gridRows)
	colSpans := PartitionAxis(cols, gridCols)

	tiles := make([]Tile, 0, gridRows*gridCols)
	for i, rs := range rowSpans {
		for j, cs := range colSpans {
			tiles = append(tiles, Tile{
				Row:     i,
				Col:     j,
				RowSpan: rs,
				ColSpan: cs,
				Data:    subMatrix{m: m, r0: rs.Start, c0: cs.Start, r1: rs.End, c1: cs.End},
			})
		}
	}
	return tiles
}
