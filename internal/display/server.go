package display

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/matview/internal/history"
)

// ServerConfig contains configuration options for the display server.
type ServerConfig struct {
	// Address to listen on, e.g. ":8080".
	Address string
	// History optionally records every rendered frame and enables the
	// /history endpoints.
	History *history.DB
	// Refresh is the viewer auto-refresh interval. Zero means one second.
	Refresh time.Duration
}

// Server serves live displays over HTTP: an index of displays, the latest
// frame of each as PNG or echarts HTML, and (with a history store) the
// recorded frames of past renders.
type Server struct {
	address string
	refresh time.Duration
	history *history.DB
	server  *http.Server

	mu       sync.RWMutex
	displays map[uuid.UUID]*Display
}

// NewServer creates a display server with the provided configuration.
func NewServer(config ServerConfig) *Server {
	refresh := config.Refresh
	if refresh == 0 {
		refresh = time.Second
	}
	s := &Server{
		address:  config.Address,
		refresh:  refresh,
		history:  config.History,
		displays: make(map[uuid.UUID]*Display),
	}
	s.server = &http.Server{
		Addr:    s.address,
		Handler: s.setupRoutes(),
	}
	return s
}

// NewDisplay registers a new named display and returns its handle. Multiple
// displays can be live at the same time; each has its own URL.
func (s *Server) NewDisplay(name string) *Display {
	d := &Display{
		id:      uuid.New(),
		name:    name,
		history: s.history,
	}
	s.mu.Lock()
	s.displays[d.id] = d
	s.mu.Unlock()
	return d
}

func (s *Server) display(id string) *Display {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displays[parsed]
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /display/{id}", s.handleDisplay)
	mux.HandleFunc("GET /display/{id}/frame.png", s.handleFrame)
	mux.HandleFunc("GET /display/{id}/chart", s.handleChart)
	mux.HandleFunc("GET /display/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /frame/{frameID}", s.handleHistoryFrame)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	list := make([]*Display, 0, len(s.displays))
	for _, d := range s.displays {
		list = append(list, d)
	}
	s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>matview displays</title></head><body><h1>Displays</h1><ul>")
	for _, d := range list {
		fmt.Fprintf(w, `<li><a href="/display/%s">%s</a> (%d frames)</li>`, d.ID(), d.Name(), d.Seq())
	}
	fmt.Fprintf(w, "</ul></body></html>")
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	d := s.display(r.PathValue("id"))
	if d == nil {
		s.writeJSONError(w, http.StatusNotFound, "unknown display")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><head><title>%s</title>`, d.Name())
	fmt.Fprintf(w, `<meta http-equiv="refresh" content="%g"></head><body>`, s.refresh.Seconds())
	fmt.Fprintf(w, `<img src="/display/%s/frame.png" alt="%s">`, d.ID(), d.Name())
	fmt.Fprintf(w, `<p><a href="/display/%s/chart">interactive chart</a></p></body></html>`, d.ID())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	d := s.display(r.PathValue("id"))
	if d == nil {
		s.writeJSONError(w, http.StatusNotFound, "unknown display")
		return
	}
	frame := d.Frame()
	if frame == nil {
		s.writeJSONError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(frame)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	d := s.display(r.PathValue("id"))
	if d == nil {
		s.writeJSONError(w, http.StatusNotFound, "unknown display")
		return
	}
	chart := d.Chart()
	if chart == nil {
		s.writeJSONError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(chart)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSONError(w, http.StatusNotFound, "no history store configured")
		return
	}
	d := s.display(r.PathValue("id"))
	if d == nil {
		s.writeJSONError(w, http.StatusNotFound, "unknown display")
		return
	}
	frames, err := s.history.ListFrames(d.Name(), 0)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(frames)
}

func (s *Server) handleHistoryFrame(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSONError(w, http.StatusNotFound, "no history store configured")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("frameID"), 10, 64)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid frame id")
		return
	}
	rec, err := s.history.Frame(id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(rec.PNG)
}

// Start begins serving in a goroutine and blocks until ctx is cancelled,
// then shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		log.Printf("Starting display server on %s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start display server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down display server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("display server shutdown error: %v", err)
		return s.server.Close()
	}
	return nil
}
