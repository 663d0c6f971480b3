package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/pipeline"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

// layoutOptions overrides the server's layout constants for one request.
type layoutOptions struct {
	HorizontalSpacing float64  `json:"horizontal_spacing,omitempty"`
	VerticalSpacing   float64  `json:"vertical_spacing,omitempty"`
	Padding           *float64 `json:"padding,omitempty"`
	MaxHeight         int      `json:"max_height,omitempty"`
}

type parseRequest struct {
	Input   string        `json:"input"`
	Options layoutOptions `json:"options"`
}

type parseResponse struct {
	Kind   string       `json:"kind"`
	Cached bool         `json:"cached"`
	Layout graph.Layout `json:"layout"`
}

type renderRequest struct {
	Input    string        `json:"input"`
	Format   string        `json:"format,omitempty"`
	Style    string        `json:"style,omitempty"`
	NodeSize float64       `json:"node_size,omitempty"`
	Engine   string        `json:"engine,omitempty"`
	Options  layoutOptions `json:"options"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// storedArtifact is the blob kept for GET /api/artifacts/{id}.
type storedArtifact struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.runner.Parse(r.Context(), s.options(req.Input, req.Options))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Kind:   res.Kind(),
		Cached: res.CacheInfo.LayoutHit,
		Layout: res.Layout,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.options(req.Input, req.Options)
	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
		if len(s.defaults.Formats) > 0 {
			format = s.defaults.Formats[0]
		}
	}
	opts.Formats = []string{format}
	if req.Style != "" {
		opts.Style = req.Style
	}
	if req.NodeSize > 0 {
		opts.NodeSize = req.NodeSize
	}
	if req.Engine != "" {
		opts.Engine = req.Engine
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := res.Artifacts[format]

	id := uuid.NewString()
	if blob, err := json.Marshal(storedArtifact{Format: format, Data: data}); err == nil {
		if err := s.runner.StoreArtifact(r.Context(), id, blob); err != nil {
			s.logger.Warn("store artifact", "id", id, "error", err)
			id = ""
		}
	}

	if id != "" {
		w.Header().Set(HeaderArtifactID, id)
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blob, err := s.runner.LoadArtifact(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var a storedArtifact
	if err := json.Unmarshal(blob, &a); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode artifact %s", id))
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[a.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// =============================================================================
// Helpers
// =============================================================================

// options merges request overrides into the server defaults. Requests may
// lower the height cap but never raise it.
func (s *Server) options(input string, lo layoutOptions) pipeline.Options {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	opts.Input = input
	opts.Logger = s.logger

	if lo.HorizontalSpacing > 0 {
		opts.HorizontalSpacing = lo.HorizontalSpacing
	}
	if lo.VerticalSpacing > 0 {
		opts.VerticalSpacing = lo.VerticalSpacing
	}
	if lo.Padding != nil {
		opts.Padding = lo.Padding
	}
	if lo.MaxHeight > 0 && (opts.MaxHeight == 0 || lo.MaxHeight < opts.MaxHeight) {
		opts.MaxHeight = lo.MaxHeight
	}
	return opts
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeInputTooLarge,
				"request body too large (max %d bytes)", tooLarge.Limit))
			return false
		}
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return false
	}
	return true
}

// writeError answers with the status for err's code. Uncoded errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	detail := errorDetail{
		Code:    string(code),
		Title:   errors.UserTitle(err),
		Message: errors.UserMessage(err),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		detail = errorDetail{
			Code:    string(errors.ErrCodeInternal),
			Title:   "Internal Error",
			Message: fmt.Sprintf("%s failed", r.URL.Path),
		}
	}
	writeJSON(w, status, errorResponse{Error: detail})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidToken, errors.ErrCodeOutOfRange, errors.ErrCodeTreeTooDeep:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
