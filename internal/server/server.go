// Package server serves the life calendar as a web page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/san-kum/lifecal/internal/birthdate"
	"github.com/san-kum/lifecal/internal/render"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger
	Theme  render.Theme
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server owns one timeline state. Every handler applies at most one event
// and renders from scratch.
type Server struct {
	mu    sync.Mutex
	state timeline.State
	kv    storage.KV
	rng   timeline.IntNer

	logger *zap.Logger
	theme  render.Theme
	now    func() time.Time
	router *chi.Mux
}

func New(state timeline.State, kv storage.KV, rng timeline.IntNer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.ThemeClassic
	}

	s := &Server{
		state:  state,
		kv:     kv,
		rng:    rng,
		logger: opts.Logger,
		theme:  opts.Theme,
		now:    opts.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/scale/{scale}", s.handleScale)
	r.Post("/birth", s.handleBirth)
	r.Post("/death", s.handleDeath)
	r.Get("/grid.json", s.handleJSON)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// State returns a copy of the current state.
func (s *Server) State() timeline.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run listens on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) apply(ev timeline.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := timeline.Apply(s.state, ev)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Server) page(status int, w http.ResponseWriter, prompt bool, message string) {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	grid, err := st.Build(s.now())
	if err != nil {
		s.logger.Error("build grid", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err = render.HTML(w, render.Page{
		Grid:     grid,
		Scale:    st.Scale,
		Years:    st.Years,
		Birthday: st.Start.Format(time.DateOnly),
		Prompt:   prompt,
		Message:  message,
		Theme:    s.theme,
	})
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.page(http.StatusOK, w, false, "")
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	scale, err := timeline.ParseScale(chi.URLParam(r, "scale"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := s.apply(timeline.ScaleSelected{Scale: scale}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleBirth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := birthdate.Save(r.Context(), s.kv, r.PostFormValue("birthday"))
	if errors.Is(err, birthdate.ErrInvalid) {
		s.page(http.StatusUnprocessableEntity, w, true, birthdate.Message)
		return
	}
	if err != nil {
		s.logger.Error("save birthday", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.apply(timeline.BirthEntered{Date: start}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("birthday changed", zap.Time("start", start))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeath(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	years := timeline.Lifespan(s.rng)
	s.mu.Unlock()

	if err := s.apply(timeline.DeathRerolled{Years: years}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("lifespan rerolled", zap.Int("years", years))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	st := s.State()
	grid, err := st.Build(s.now())
	if err != nil {
		http.Error(w, fmt.Sprintf("build grid: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := render.JSON(w, st, grid); err != nil {
		s.logger.Error("encode grid", zap.Error(err))
	}
}
