package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"
)

// Server publishes a layout tree as JSON.
type Server struct {
	root *Layout
}

func NewServer(root *Layout) *Server {
	return &Server{root: root}
}

// Routes returns a router exposing
//
//	GET /telemetry           the whole tree
//	GET /telemetry/{layout}  one top level child
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Get("/telemetry", s.getAll)
	r.Get("/telemetry/{layout}", s.getLayout)
	return r
}

func (s *Server) getAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.root.Snapshot())
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "layout")
	snap := s.root.Snapshot()
	for _, c := range snap.Children {
		if c.Name == name {
			writeJSON(w, c)
			return
		}
	}
	http.Error(w, "no such layout: "+name, http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("telemetry request")
	})
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes()}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("telemetry server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
