package matview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// emptyMatrix reports the given dimensions without holding data. mat.NewDense
// panics on zero dimensions, so degenerate shapes need a stub.
type emptyMatrix struct{ rows, cols int }

func (e emptyMatrix) Dims() (r, c int)    { return e.rows, e.cols }
func (e emptyMatrix) At(i, j int) float64 { panic("empty matrix has no elements") }
func (e emptyMatrix) T() mat.Matrix       { return mat.Transpose{Matrix: e} }

func onesMatrix(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(rows, cols, data)
}

// coordMatrix holds row*100+col at each position.
func coordMatrix(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, float64(i*100+j))
		}
	}
	return m
}

// alternatingSigns returns a checkerboard of +1/-1 starting with +1 at (0,0).
func alternatingSigns(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if (i+j)%2 == 0 {
				m.Set(i, j, 1)
			} else {
				m.Set(i, j, -1)
			}
		}
	}
	return m
}

func floatPtr(v float64) *float64 { return &v }

func TestPlanDefaultsSingleTile(t *testing.T) {
	t.Parallel()

	f, err := Plan(onesMatrix(10, 8), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, f.GridRows)
	assert.Equal(t, 1, f.GridCols)
	require.Len(t, f.Tiles, 1)
	r, c := f.Tiles[0].Data.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 8, c)
	assert.Equal(t, 0.0, f.VMin)
	assert.Equal(t, 1.0, f.VMax)
	assert.Equal(t, 6.0, f.FigWidth)
	assert.Equal(t, 6.0, f.FigHeight)
}

func TestPlanShapeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    mat.Matrix
	}{
		{"nil matrix", nil},
		{"zero rows", emptyMatrix{0, 5}},
		{"zero cols", emptyMatrix{5, 0}},
		{"zero both", emptyMatrix{0, 0}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Plan(tt.m, DefaultConfig())
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
		})
	}
}

func TestPlanConfigErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = Mode(42) }},
		{"negative grid rows", func(c *Config) { c.GridRows = -1 }},
		{"negative grid cols", func(c *Config) { c.GridCols = -2 }},
		{"negative figsize", func(c *Config) { c.FigWidth = -6 }},
		{"vmin above vmax", func(c *Config) {
			c.Mode = ModeColor
			c.VMin = floatPtr(2)
			c.VMax = floatPtr(1)
		}},
		{"cmap in binary mode", func(c *Config) { c.Cmap = "viridis" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mut(&cfg)
			_, err := Plan(onesMatrix(4, 4), cfg)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestPlanVMinVMaxPairs(t *testing.T) {
	t.Parallel()

	// The matrix spans [1, 7], so single-sided bounds resolve against
	// those extremes.
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 7})

	cases := []struct {
		name       string
		vmin, vmax *float64
		wantErr    bool
	}{
		{name: "both valid", vmin: floatPtr(0), vmax: floatPtr(1)},
		{name: "both equal", vmin: floatPtr(-5), vmax: floatPtr(-5)},
		{name: "both inverted", vmin: floatPtr(1), vmax: floatPtr(0), wantErr: true},
		{name: "both barely inverted", vmin: floatPtr(0.001), vmax: floatPtr(0), wantErr: true},
		{name: "both negative inverted", vmin: floatPtr(-1), vmax: floatPtr(-2), wantErr: true},
		{name: "vmin only inside range", vmin: floatPtr(2)},
		{name: "vmax only inside range", vmax: floatPtr(5)},
		{name: "vmin only above matrix max", vmin: floatPtr(10), wantErr: true},
		{name: "vmax only below matrix min", vmax: floatPtr(0), wantErr: true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.Mode = ModeColor
			cfg.VMin = tt.vmin
			cfg.VMax = tt.vmax
			f, err := Plan(m, cfg)
			if tt.wantErr {
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.LessOrEqual(t, f.VMin, f.VMax)
		})
	}
}

func TestPlanTilingErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name               string
		rows, cols         int
		gridRows, gridCols int
	}{
		{"more tile rows than rows", 4, 4, 5, 1},
		{"more tile cols than cols", 4, 4, 1, 5},
		{"both oversized", 2, 2, 3, 3},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.GridRows = tt.gridRows
			cfg.GridCols = tt.gridCols
			_, err := Plan(onesMatrix(tt.rows, tt.cols), cfg)
			var tilingErr *TilingError
			require.ErrorAs(t, err, &tilingErr)
		})
	}
}

func TestPlanEvenPartitionReconstructs(t *testing.T) {
	t.Parallel()

	m := coordMatrix(8, 12)
	cfg := DefaultConfig()
	cfg.GridRows = 4
	cfg.GridCols = 3

	f, err := Plan(m, cfg)
	require.NoError(t, err)
	require.Len(t, f.Tiles, 12)

	// Every source element appears in exactly one tile.
	seen := make(map[float64]int)
	for _, tile := range f.Tiles {
		r, c := tile.Data.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				seen[tile.Data.At(i, j)]++
			}
		}
	}
	assert.Len(t, seen, 8*12)
	for v, n := range seen {
		assert.Equal(t, 1, n, "value %g covered %d times", v, n)
	}
}

func TestPlanUnevenPartitionDeterministic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.GridRows = 3
	cfg.GridCols = 3
	m := coordMatrix(10, 11)

	first, err := Plan(m, cfg)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Plan(m, cfg)
		require.NoError(t, err)
		for k := range first.Tiles {
			assert.Equal(t, first.Tiles[k].RowSpan, again.Tiles[k].RowSpan)
			assert.Equal(t, first.Tiles[k].ColSpan, again.Tiles[k].ColSpan)
		}
	}
}

func TestPlanColorRange(t *testing.T) {
	t.Parallel()

	m := mat.NewDense(2, 2, []float64{-3, 0, 7, 2})

	t.Run("computed from whole matrix", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Mode = ModeColor
		f, err := Plan(m, cfg)
		require.NoError(t, err)
		assert.Equal(t, -3.0, f.VMin)
		assert.Equal(t, 7.0, f.VMax)
	})

	t.Run("configured bounds win", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Mode = ModeColor
		cfg.VMin = floatPtr(0)
		cfg.VMax = floatPtr(5)
		f, err := Plan(m, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.0, f.VMin)
		assert.Equal(t, 5.0, f.VMax)
	})

	t.Run("degenerate range widened", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Mode = ModeColor
		f, err := Plan(onesMatrix(3, 3), cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.5, f.VMin)
		assert.Equal(t, 1.5, f.VMax)
	})
}

func TestPlanAlternatingSignScenario(t *testing.T) {
	t.Parallel()

	// 4x4 checkerboard in a 2x2 grid: four 2x2 tiles, each with two
	// positive and two non-positive cells.
	cfg := DefaultConfig()
	cfg.GridRows = 2
	cfg.GridCols = 2

	f, err := Plan(alternatingSigns(4, 4), cfg)
	require.NoError(t, err)
	require.Len(t, f.Tiles, 4)

	for _, tile := range f.Tiles {
		r, c := tile.Data.Dims()
		require.Equal(t, 2, r)
		require.Equal(t, 2, c)

		high := 0
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if tile.Data.At(i, j) > 0 {
					high++
				}
			}
		}
		assert.Equal(t, 2, high, "tile (%d,%d)", tile.Row, tile.Col)
	}
}

// recordingBackend counts draws and optionally fails.
type recordingBackend struct {
	draws  int
	frames []*Frame
	err    error
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) Draw(f *Frame) error {
	b.draws++
	b.frames = append(b.frames, f)
	return b.err
}

func TestRenderDispatch(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{}
	require.NoError(t, Render(onesMatrix(4, 4), DefaultConfig(), b))
	assert.Equal(t, 1, b.draws)
	require.Len(t, b.frames, 1)
	assert.Equal(t, 4, b.frames[0].Rows)
}

func TestRenderFailsBeforeDrawing(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{}
	cfg := DefaultConfig()
	cfg.GridRows = 9
	err := Render(onesMatrix(4, 4), cfg, b)

	var tilingErr *TilingError
	require.ErrorAs(t, err, &tilingErr)
	assert.Zero(t, b.draws, "backend must not be invoked after a validation failure")
}

func TestRenderWrapsBackendFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("canvas unavailable")
	b := &recordingBackend{err: cause}
	err := Render(onesMatrix(4, 4), DefaultConfig(), b)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "recording", backendErr.Backend)
	assert.ErrorIs(t, err, cause)
}

func TestRenderPreservesConfigErrorFromBackend(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{err: &ConfigError{Reason: "unknown colormap \"plasma\""}}
	err := Render(onesMatrix(4, 4), DefaultConfig(), b)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	var backendErr *BackendError
	assert.False(t, errors.As(err, &backendErr))
}

func TestRenderNilBackend(t *testing.T) {
	t.Parallel()

	err := Render(onesMatrix(2, 2), DefaultConfig(), nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
