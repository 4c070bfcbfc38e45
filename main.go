// Command matview renders a 2D numeric matrix as an image for visual
// inspection, optionally tiling it into a grid of sub-plots.
//
// One-shot rendering writes a PNG or an interactive HTML page:
//
//	matview -input data.csv -mode color -cmap viridis -o out.png
//	matview -input data.csv -grid-rows 2 -grid-cols 2 -html out.html
//
// With -listen the matrix is served as a live display instead; combined
// with -watch the input file is polled and the display updates in place
// whenever the file changes:
//
//	matview -input data.csv -listen :8080 -watch 500ms -db frames.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/matview/internal/display"
	"github.com/banshee-data/matview/internal/history"
	"github.com/banshee-data/matview/internal/matview"
	"github.com/banshee-data/matview/internal/render"
)

var (
	input    = flag.String("input", "", "CSV file containing the matrix (required)")
	mode     = flag.String("mode", "binary", "Display mode: binary or color")
	gridRows = flag.Int("grid-rows", 0, "Tile grid rows (0 = no tiling)")
	gridCols = flag.Int("grid-cols", 0, "Tile grid columns (0 = no tiling)")
	figsize  = flag.String("figsize", "6x6", "Figure size in inches, WxH")
	cmap     = flag.String("cmap", "", "Colormap name for color mode")
	vmin     = flag.Float64("vmin", math.NaN(), "Lower bound of the color range")
	vmax     = flag.Float64("vmax", math.NaN(), "Upper bound of the color range")
	title    = flag.String("title", "", "Figure title")
	outPNG   = flag.String("o", "", "Write a PNG to this path")
	outHTML  = flag.String("html", "", "Write an interactive HTML page to this path")
	listen   = flag.String("listen", "", "Serve a live display on this address instead of writing files")
	watch    = flag.Duration("watch", 0, "Poll the input file at this interval and update the live display")
	dbPath   = flag.String("db", "", "Record rendered frames to this SQLite file")
)

func buildConfig() (matview.Config, error) {
	cfg := matview.DefaultConfig()

	m, err := matview.ParseMode(*mode)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = m
	cfg.GridRows = *gridRows
	cfg.GridCols = *gridCols
	cfg.Cmap = *cmap
	cfg.Title = *title

	if cfg.FigWidth, cfg.FigHeight, err = parseFigSize(*figsize); err != nil {
		return cfg, err
	}
	if !math.IsNaN(*vmin) {
		v := *vmin
		cfg.VMin = &v
	}
	if !math.IsNaN(*vmax) {
		v := *vmax
		cfg.VMax = &v
	}
	return cfg, nil
}

// parseFigSize parses a "WxH" figure size in inches. Both parts must be
// numbers and nothing may trail the height.
func parseFigSize(s string) (w, h float64, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("figsize must be WxH, got %q", s)
	}
	if w, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("figsize must be WxH, got %q", s)
	}
	if h, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("figsize must be WxH, got %q", s)
	}
	return w, h, nil
}

func renderFiles(cfg matview.Config) error {
	m, err := loadCSVMatrix(*input)
	if err != nil {
		return err
	}
	if *outPNG != "" {
		f, err := os.Create(*outPNG)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := matview.Render(m, cfg, render.PNG{W: f}); err != nil {
			return err
		}
		log.Printf("wrote %s", *outPNG)
	}
	if *outHTML != "" {
		f, err := os.Create(*outHTML)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := matview.Render(m, cfg, render.HTML{W: f}); err != nil {
			return err
		}
		log.Printf("wrote %s", *outHTML)
	}
	return nil
}

func serveLive(ctx context.Context, cfg matview.Config) error {
	var hist *history.DB
	if *dbPath != "" {
		var err error
		if hist, err = history.Open(*dbPath); err != nil {
			return err
		}
		defer hist.Close()
		log.Printf("recording frames to %s", *dbPath)
	}

	server := display.NewServer(display.ServerConfig{Address: *listen, History: hist})
	d := server.NewDisplay("main")

	m, err := loadCSVMatrix(*input)
	if err != nil {
		return err
	}
	if err := d.Render(m, cfg); err != nil {
		return err
	}
	log.Printf("display ready: http://localhost%s/display/%s", *listen, d.ID())

	if *watch > 0 {
		go watchInput(ctx, d, cfg, *watch)
	}
	return server.Start(ctx)
}

// watchInput polls the input file's mtime and re-renders the display in
// place whenever the file changes.
func watchInput(ctx context.Context, d *display.Display, cfg matview.Config, interval time.Duration) {
	var lastMod time.Time
	if fi, err := os.Stat(*input); err == nil {
		lastMod = fi.ModTime()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		fi, err := os.Stat(*input)
		if err != nil || !fi.ModTime().After(lastMod) {
			continue
		}
		lastMod = fi.ModTime()

		m, err := loadCSVMatrix(*input)
		if err != nil {
			log.Printf("reload %s: %v", *input, err)
			continue
		}
		if err := d.Render(m, cfg); err != nil {
			log.Printf("render %s: %v", *input, err)
			continue
		}
		log.Printf("updated display from %s (frame %d)", *input, d.Seq())
	}
}

func main() {
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *listen != "" {
		ctx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()
		if err := serveLive(ctx, cfg); err != nil {
			log.Fatalf("live display failed: %v", err)
		}
		return
	}

	if *outPNG == "" && *outHTML == "" {
		log.Fatal("nothing to do: pass -o, -html or -listen")
	}
	if err := renderFiles(cfg); err != nil {
		log.Fatalf("render failed: %v", err)
	}
}
