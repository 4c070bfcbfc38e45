// Package matview renders 2D numeric matrices as images for visual
// inspection during development, optionally tiling large matrices into a
// grid of sub-plots.
//
// The package itself is a validation-and-dispatch layer: Plan checks the
// inputs and computes the tile partition, and a Backend (see
// internal/render) turns the resulting Frame into pixels. Matrices are any
// gonum mat.Matrix; the renderer only reads values.
package matview

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Frame is a resolved render plan: a validated configuration plus the tile
// partition and display range for one matrix. Frames are produced by Plan
// and consumed by backends; they hold views into the caller's matrix and
// are not retained across calls.
type Frame struct {
	Mode  Mode
	Title string
	Cmap  string

	GridRows, GridCols  int
	FigWidth, FigHeight float64

	// Rows and Cols are the dimensions of the source matrix.
	Rows, Cols int

	// Tiles lists the grid partition in row-major order. A render without
	// tiling has a single tile covering the whole matrix.
	Tiles []Tile

	// VMin and VMax are the resolved display range: [0, 1] in binary mode,
	// the configured or computed global range in color mode.
	VMin, VMax float64
}

// Backend is the external rendering collaborator: it owns colormaps,
// rasterization and figure layout. Draw must not be called with an invalid
// frame; Plan guarantees the frames it returns are valid.
type Backend interface {
	// Name identifies the backend in errors ("png", "html").
	Name() string
	// Draw renders the frame to the backend's output.
	Draw(f *Frame) error
}

// Plan validates the matrix and configuration and computes the tile
// partition. It returns a ShapeError for a nil or empty matrix, a
// ConfigError for invalid options and a TilingError when the grid cannot
// partition the matrix. No drawing happens here; a returned Frame is ready
// for any backend.
func Plan(m mat.Matrix, cfg Config) (*Frame, error) {
	if m == nil {
		return nil, &ShapeError{}
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, &ShapeError{Rows: rows, Cols: cols}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gridRows, gridCols := cfg.GridRows, cfg.GridCols
	if gridRows == 0 {
		gridRows = 1
	}
	if gridCols == 0 {
		gridCols = 1
	}
	if gridRows > rows || gridCols > cols {
		return nil, &TilingError{Rows: rows, Cols: cols, GridRows: gridRows, GridCols: gridCols}
	}

	figW, figH := cfg.FigWidth, cfg.FigHeight
	if figW == 0 {
		figW = 6
	}
	if figH == 0 {
		figH = 6
	}

	f := &Frame{
		Mode:      cfg.Mode,
		Title:     cfg.Title,
		Cmap:      cfg.Cmap,
		GridRows:  gridRows,
		GridCols:  gridCols,
		FigWidth:  figW,
		FigHeight: figH,
		Rows:      rows,
		Cols:      cols,
		Tiles:     partition(m, rows, cols, gridRows, gridCols),
	}

	switch cfg.Mode {
	case ModeBinary:
		f.VMin, f.VMax = 0, 1
	case ModeColor:
		vmin, vmax, err := colorRange(m, cfg)
		if err != nil {
			return nil, err
		}
		f.VMin, f.VMax = vmin, vmax
	}
	return f, nil
}

// colorRange resolves the display range for color mode: configured bounds
// win, otherwise the global min/max of the entire matrix so every tile is
// scaled consistently. A single configured bound can invert the resolved
// range (a VMin above the matrix maximum, say); that is rejected here so an
// unusable range never reaches a backend. A degenerate range (all values
// equal) is widened by 0.5 on each side so the colormap stays well defined.
func colorRange(m mat.Matrix, cfg Config) (vmin, vmax float64, err error) {
	vmin, vmax = mat.Min(m), mat.Max(m)
	if cfg.VMin != nil {
		vmin = *cfg.VMin
	}
	if cfg.VMax != nil {
		vmax = *cfg.VMax
	}
	if vmin > vmax {
		return 0, 0, &ConfigError{Reason: fmt.Sprintf("resolved color range is inverted: vmin (%g) exceeds vmax (%g)", vmin, vmax)}
	}
	if vmin == vmax {
		vmin -= 0.5
		vmax += 0.5
	}
	return vmin, vmax, nil
}

// Render plans the frame and draws it with the given backend. Validation
// failures are reported before any drawing occurs; backend failures are
// wrapped in a BackendError unless the backend already reported a
// configuration problem (an unknown colormap name, for example).
func Render(m mat.Matrix, cfg Config, b Backend) error {
	f, err := Plan(m, cfg)
	if err != nil {
		return err
	}
	if b == nil {
		return &ConfigError{Reason: "no backend configured"}
	}
	if err := b.Draw(f); err != nil {
		var ce *ConfigError
		var be *BackendError
		if errors.As(err, &ce) || errors.As(err, &be) {
			return err
		}
		return &BackendError{Backend: b.Name(), Err: err}
	}
	return nil
}
