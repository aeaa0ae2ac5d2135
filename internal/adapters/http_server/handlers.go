// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"movie_review/internal/adapters/observability"
	"movie_review/internal/app"
	"movie_review/internal/domain"
)

// maxPayload caps the generate-review request body.
const maxPayload = 1 << 20

type Handlers struct {
	Q *app.QueryService
	G *app.GenerationService
	// ReadTimeout bounds the list/get routes; zero means 15s.
	ReadTimeout time.Duration
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	rt := h.ReadTimeout
	if rt <= 0 {
		rt = 15 * time.Second
	}

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { writeStatus(w, http.StatusOK, "ok") })
	s.mux.Get("/readyz", h.ready)
	s.mux.Post("/generate-review", h.generateReview)
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(rt))
		r.Get("/reviews", h.listReviews)
		r.Get("/reviews/{id}", h.getReview)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// writeError maps the domain error kinds onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rl  *domain.RateLimitError
		bad *domain.MalformedPayloadError
	)
	switch {
	case errors.As(err, &rl):
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", rl.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("webhook unavailable")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "review generator is unavailable")
	case errors.As(err, &bad):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("malformed webhook payload")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", bad.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "Invalid review ID")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "Review not found")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable writes v with an ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); etag != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func isJSONObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{' && json.Valid(b)
}

func (h *Handlers) generateReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body exceeds 1 MiB")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Bad Request", "could not read request body")
		return
	}
	if !isJSONObject(body) {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid payload", "request body must be a JSON object")
		return
	}

	// The generation outlives a dropped client connection; only the
	// webhook timeout bounds it.
	ctx := context.WithoutCancel(r.Context())
	rv, err := h.G.Generate(ctx, json.RawMessage(body))
	observability.ObserveGeneration(domain.Kind(err))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rv.View()); err != nil {
		log.Error().Err(err).Msg("failed to write generateReview body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.ListReviews(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]domain.ReviewView, 0, len(rs))
	for _, rv := range rs {
		out = append(out, rv.View())
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Q.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, rv.View())
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Q.Ping(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", "store unreachable")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}
