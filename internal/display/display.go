// Package display provides explicit live-update display handles and the
// HTTP viewer that serves them. A Display replaces the implicit
// process-global "current figure" of typical plotting tools: callers hold
// the handle, re-render into it from their loop, and any number of browser
// viewers follow along.
package display

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/matview/internal/history"
	"github.com/banshee-data/matview/internal/matview"
	"github.com/banshee-data/matview/internal/render"
)

// Display is one live display surface. Render swaps the served frame in
// place; the layout a viewer sees is preserved because every frame is
// redrawn in full from its plan. Displays are safe for one renderer and
// many concurrent viewers.
type Display struct {
	id   uuid.UUID
	name string

	history *history.DB

	mu         sync.RWMutex
	seq        int64
	renderedAt time.Time
	rows, cols int
	png        []byte
	html       []byte
}

// ID returns the display's unique identifier.
func (d *Display) ID() string { return d.id.String() }

// Name returns the human-readable display name.
func (d *Display) Name() string { return d.name }

// Seq returns the number of frames rendered into this display.
func (d *Display) Seq() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.seq
}

// Render plans and draws a new frame for the matrix and swaps it into the
// display. Validation failures leave the previous frame untouched. When a
// history store is attached the frame is also recorded; history failures
// are logged but do not fail the render.
func (d *Display) Render(m mat.Matrix, cfg matview.Config) error {
	f, err := matview.Plan(m, cfg)
	if err != nil {
		return err
	}

	var pngBuf, htmlBuf bytes.Buffer
	if err := render.WritePNG(f, &pngBuf); err != nil {
		return wrapBackend("png", err)
	}
	if err := render.WriteHTML(f, &htmlBuf); err != nil {
		return wrapBackend("html", err)
	}

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.renderedAt = time.Now()
	d.rows, d.cols = f.Rows, f.Cols
	d.png = pngBuf.Bytes()
	d.html = htmlBuf.Bytes()
	d.mu.Unlock()

	if d.history != nil {
		rec := &history.FrameRecord{
			Display:  d.name,
			Seq:      seq,
			Rows:     f.Rows,
			Cols:     f.Cols,
			GridRows: f.GridRows,
			GridCols: f.GridCols,
			Mode:     f.Mode.String(),
			VMin:     f.VMin,
			VMax:     f.VMax,
			Title:    f.Title,
			PNG:      pngBuf.Bytes(),
		}
		if _, err := d.history.RecordFrame(rec); err != nil {
			log.Printf("display %s: failed to record frame %d: %v", d.name, seq, err)
		}
	}
	return nil
}

// Frame returns the latest PNG bytes, or nil if nothing has been rendered.
func (d *Display) Frame() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.png
}

// Chart returns the latest echarts HTML, or nil if nothing has been
// rendered.
func (d *Display) Chart() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.html
}

func wrapBackend(name string, err error) error {
	var ce *matview.ConfigError
	var be *matview.BackendError
	if errors.As(err, &ce) || errors.As(err, &be) {
		return err
	}
	return &matview.BackendError{Backend: name, Err: err}
}
