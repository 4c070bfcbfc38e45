// Package history persists rendered frames to SQLite so a development
// session's live updates can be inspected after the run.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the frame history database.
type DB struct {
	*sql.DB
}

// FrameRecord is one rendered frame: the render metadata plus the encoded
// PNG. List results omit the PNG to keep payloads small; fetch a single
// frame to get the image bytes.
type FrameRecord struct {
	ID       int64     `json:"id"`
	Display  string    `json:"display"`
	Seq      int64     `json:"seq"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	GridRows int       `json:"grid_rows"`
	GridCols int       `json:"grid_cols"`
	Mode     string    `json:"mode"`
	VMin     float64   `json:"vmin"`
	VMax     float64   `json:"vmax"`
	Title    string    `json:"title,omitempty"`
	PNG      []byte    `json:"-"`
	Recorded time.Time `json:"recorded"`
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS frames (
			frame_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			display     TEXT NOT NULL,
			seq         BIGINT NOT NULL,
			rows        INT NOT NULL,
			cols        INT NOT NULL,
			grid_rows   INT NOT NULL,
			grid_cols   INT NOT NULL,
			mode        TEXT NOT NULL,
			vmin        DOUBLE NOT NULL,
			vmax        DOUBLE NOT NULL,
			title       TEXT,
			png         BLOB,
			timestamp   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_frames_display ON frames(display, seq);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &DB{db}, nil
}

// RecordFrame inserts one rendered frame and returns its row ID.
func (db *DB) RecordFrame(r *FrameRecord) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO frames (display, seq, rows, cols, grid_rows, grid_cols, mode, vmin, vmax, title, png)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Display, r.Seq, r.Rows, r.Cols, r.GridRows, r.GridCols, r.Mode, r.VMin, r.VMax, r.Title, r.PNG)
	if err != nil {
		return 0, fmt.Errorf("record frame: %w", err)
	}
	return res.LastInsertId()
}

// ListFrames returns the most recent frames for a display, newest first,
// without image bytes. A limit of 0 means 100.
func (db *DB) ListFrames(display string, limit int) ([]FrameRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT frame_id, display, seq, rows, cols, grid_rows, grid_cols, mode, vmin, vmax, title, timestamp
		FROM frames WHERE display = ? ORDER BY seq DESC LIMIT ?`, display, limit)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var out []FrameRecord
	for rows.Next() {
		var r FrameRecord
		var title sql.NullString
		if err := rows.Scan(&r.ID, &r.Display, &r.Seq, &r.Rows, &r.Cols,
			&r.GridRows, &r.GridCols, &r.Mode, &r.VMin, &r.VMax, &title, &r.Recorded); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		r.Title = title.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Frame fetches a single frame, including its PNG bytes.
func (db *DB) Frame(id int64) (*FrameRecord, error) {
	var r FrameRecord
	var title sql.NullString
	err := db.QueryRow(`
		SELECT frame_id, display, seq, rows, cols, grid_rows, grid_cols, mode, vmin, vmax, title, png, timestamp
		FROM frames WHERE frame_id = ?`, id).
		Scan(&r.ID, &r.Display, &r.Seq, &r.Rows, &r.Cols,
			&r.GridRows, &r.GridCols, &r.Mode, &r.VMin, &r.VMax, &title, &r.PNG, &r.Recorded)
	if err != nil {
		return nil, fmt.Errorf("fetch frame %d: %w", id, err)
	}
	r.Title = title.String
	return &r, nil
}
