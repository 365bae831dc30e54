package http

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shaped-ai/relay/pkg/usecase"
	"github.com/shaped-ai/relay/pkg/utils/logging"
	"github.com/shaped-ai/relay/pkg/utils/safe"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	staticFS fs.FS
}

type Options func(*Server)

// WithStaticFS serves a demo app frontend from the given filesystem,
// with SPA fallback to index.html for unknown paths.
func WithStaticFS(staticFS fs.FS) Options {
	return func(s *Server) {
		s.staticFS = staticFS
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware(uc.Interaction))

		r.Get("/search", s.handleSearchGet)
		r.Post("/search", s.handleSearchPost)
		r.Post("/retrieve", s.handleRetrieve)
		r.Post("/similar_items", s.handleSimilarItems)
		r.Post("/track", s.handleTrack)

		r.Get("/session", s.handleSession)
		r.Get("/interactions", s.handleInteractions)
		r.Post("/interactions/clear", s.handleInteractionsClear)

		r.Get("/apps", s.handleApps)

		// Refactor endpoint only when an LLM backend is configured
		if uc.Refactor != nil {
			r.Post("/refactor", s.handleRefactor)
		}
	})

	if s.staticFS != nil {
		r.Get("/*", spaHandler(s.staticFS))
	}

	return s, nil
}

// spaHandler serves static files and falls back to index.html so
// client-side routes resolve on hard reloads
func spaHandler(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := strings.TrimPrefix(r.URL.Path, "/")
		if urlPath == "" {
			urlPath = "index.html"
		}

		file, err := staticFS.Open(urlPath)
		if err != nil {
			if indexFile, err := staticFS.Open("index.html"); err == nil {
				defer safe.Close(r.Context(), indexFile)
				w.Header().Set("Content-Type", "text/html")
				safe.Copy(r.Context(), w, indexFile)
				return
			}

			http.NotFound(w, r)
			return
		}
		safe.Close(r.Context(), file)

		fileServer.ServeHTTP(w, r)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// respondData writes the success envelope
func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": data}); err != nil {
		logging.Default().Error("failed to write response", "error", err.Error())
	}
}

// handleApps lists the configured catalog apps
func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	type appResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type response struct {
		Apps []appResponse `json:"apps"`
	}

	apps := s.uc.Catalog().Apps()
	resp := response{Apps: make([]appResponse, len(apps))}
	for i, app := range apps {
		resp.Apps[i] = appResponse{
			ID:   app.ID.String(),
			Name: app.Name,
		}
	}

	respondData(w, http.StatusOK, resp)
}
