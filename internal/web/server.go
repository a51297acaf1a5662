// Package web serves the event logger's status page and log file over HTTP.
package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/sweeney/event-logger/internal/status"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	logPath    string
}

// New creates a Server that reads state from the given tracker. logPath is
// the event log served at /events.txt.
func New(addr string, tracker *status.Tracker, logPath string) *Server {
	s := &Server{tracker: tracker, logPath: logPath}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/events.txt", s.handleEvents)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderHTML(w, snap); err != nil {
		log.Printf("web: render: %v", err)
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleEvents streams the log file. Once storage has failed the file may
// be stale or gone, so nothing is served.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !s.tracker.StorageReady() {
		http.Error(w, "event log unavailable", http.StatusServiceUnavailable)
		return
	}
	f, err := os.Open(s.logPath)
	if err != nil {
		log.Printf("web: open log: %v", err)
		http.Error(w, "event log unavailable", http.StatusServiceUnavailable)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeContent(w, r, "events.txt", fi.ModTime(), f)
}
