// Package api serves the bintree pipeline over HTTP.
//
// Routes:
//
//	GET  /health                 liveness probe
//	GET  /                       input format help (HTML, or Markdown on Accept: text/markdown)
//	POST /api/parse              positioned tree as JSON
//	POST /api/render             drawing in one output format
//	GET  /api/artifacts/{id}     drawing stored by an earlier render
//
// Input errors are answered with 422 and a body of the form
// {"error": {"code": "INVALID_TOKEN", "title": "Invalid Input", "message": "..."}}.
package api

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bintree/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 2 << 20

// HeaderArtifactID names the response header carrying a stored artifact's id.
const HeaderArtifactID = "X-Artifact-ID"

// Options configures a Server.
type Options struct {
	// Defaults seeds every request's pipeline options; request fields
	// override it.
	Defaults pipeline.Options

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Server is the HTTP API server for bintree.
type Server struct {
	router   chi.Router
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	info     []byte
}

// NewServer creates and configures the HTTP server.
func NewServer(runner *pipeline.Runner, logger *log.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = runner.Logger
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	info, err := renderInfoPage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		runner:   runner,
		logger:   logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
		info:     info,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleInfo)

	r.Route("/api", func(r chi.Router) {
		r.Use(BodyLimit(s.maxBody))
		r.Post("/parse", s.handleParse)
		r.Post("/render", s.handleRender)
		r.Get("/artifacts/{id}", s.handleArtifact)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleInfo serves the input format help as HTML, or as the Markdown
// source when the client asks for text/markdown.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/markdown") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(InfoMarkdown()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.info)
}
