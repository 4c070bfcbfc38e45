package matview

import "fmt"

// Mode selects how matrix values map to pixels.
type Mode int

const (
	// ModeBinary maps values > 0 to the high display intensity (white) and
	// values <= 0 to the low display intensity (black).
	ModeBinary Mode = iota
	// ModeColor passes raw values through a colormap, optionally clamped to
	// [VMin, VMax].
	ModeColor
)

func (m Mode) String() string {
	switch m {
	case ModeBinary:
		return "binary"
	case ModeColor:
		return "color"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts the wire/CLI form of a mode ("binary" or "color") into
// a Mode value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "binary":
		return ModeBinary, nil
	case "color":
		return ModeColor, nil
	}
	return 0, &ConfigError{Reason: fmt.Sprintf("mode must be %q or %q, got %q", "binary", "color", s)}
}

// Config bundles the display options for a render call. The zero value is
// not usable directly; start from DefaultConfig and override fields.
type Config struct {
	// Mode selects binary or color display.
	Mode Mode

	// GridRows and GridCols give the tile grid dimensions. Zero means 1
	// (no tiling on that axis). Negative values are rejected.
	GridRows int
	GridCols int

	// FigWidth and FigHeight give the total figure size in inches for the
	// whole tile grid.
	FigWidth  float64
	FigHeight float64

	// Cmap names the colormap for color mode. Empty selects "viridis".
	// Setting Cmap in binary mode is a configuration error.
	Cmap string

	// VMin and VMax clamp the display range in color mode. When nil the
	// range is computed from the entire matrix, not per tile. Ignored in
	// binary mode, where the range is fixed to [0, 1].
	VMin *float64
	VMax *float64

	// Title is an optional label for the whole figure.
	Title string
}

// DefaultConfig returns the documented defaults: binary mode, no tiling and
// a 6x6 inch figure.
func DefaultConfig() Config {
	return Config{Mode: ModeBinary, FigWidth: 6, FigHeight: 6}
}

// validate checks the mode, grid, size and range options. Shape and tiling
// compatibility are checked later by Plan, which knows the matrix.
func (c Config) validate() error {
	if c.Mode != ModeBinary && c.Mode != ModeColor {
		return &ConfigError{Reason: fmt.Sprintf("unknown mode %v", c.Mode)}
	}
	if c.GridRows < 0 || c.GridCols < 0 {
		return &ConfigError{Reason: fmt.Sprintf("grid dimensions must be positive, got %dx%d", c.GridRows, c.GridCols)}
	}
	if c.FigWidth < 0 || c.FigHeight < 0 {
		return &ConfigError{Reason: fmt.Sprintf("figure size must be positive, got %gx%g", c.FigWidth, c.FigHeight)}
	}
	if c.VMin != nil && c.VMax != nil && *c.VMin > *c.VMax {
		return &ConfigError{Reason: fmt.Sprintf("vmin (%g) must not exceed vmax (%g)", *c.VMin, *c.VMax)}
	}
	if c.Mode == ModeBinary && c.Cmap != "" {
		return &ConfigError{Reason: fmt.Sprintf("colormap %q is not applicable in binary mode", c.Cmap)}
	}
	return nil
}
