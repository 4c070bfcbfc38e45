package matview

import "fmt"

// ShapeError reports a matrix that cannot be displayed because it is nil or
// has zero rows or zero columns.
type ShapeError struct {
	Rows, Cols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("matview: matrix must be non-empty, got %dx%d", e.Rows, e.Cols)
}

// ConfigError reports an invalid display configuration: unknown mode,
// non-positive grid dimensions, an inverted value range, or a colormap
// request the selected mode cannot honour.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "matview: invalid config: " + e.Reason
}

// TilingError reports grid dimensions that cannot partition the matrix:
// more tile rows than matrix rows, or more tile columns than matrix columns,
// would leave empty tiles.
type TilingError struct {
	Rows, Cols         int
	GridRows, GridCols int
}

func (e *TilingError) Error() string {
	return fmt.Sprintf("matview: cannot partition %dx%d matrix into %dx%d grid",
		e.Rows, e.Cols, e.GridRows, e.GridCols)
}

// BackendError wraps a failure reported by a rendering backend. The
// underlying cause is available through Unwrap.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("matview: %s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
