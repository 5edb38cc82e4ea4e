package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bena_places/internal/app"
	"bena_places/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/places", h.searchPlaces)
		r.Get("/places/{id}", h.getPlace)
		r.Get("/places/{id}/nearby", h.nearby)
		r.Get("/categories", h.categories)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeStoreError maps repository errors onto problem responses.
func writeStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("store read failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON sends v with a weak ETag, or 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getPlace(w http.ResponseWriter, r *http.Request) {
	p, err := h.Q.GetPlace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "place")
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) searchPlaces(w http.ResponseWriter, r *http.Request) {
	q := domain.PlacesQuery{
		Q:        r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = l
	}
	out, err := h.Q.SearchPlaces(r.Context(), q)
	if err != nil {
		writeStoreError(w, err, "places")
		return
	}
	writeJSON(w, r, map[string]any{"items": out})
}

func (h *Handlers) nearby(w http.ResponseWriter, r *http.Request) {
	radius := 1.0
	if rs := r.URL.Query().Get("radius"); rs != "" {
		v, err := strconv.ParseFloat(rs, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be a number of kilometres in (0, 100]")
			return
		}
		radius = v
	}
	out, err := h.Q.Nearby(r.Context(), chi.URLParam(r, "id"), radius)
	if err != nil {
		writeStoreError(w, err, "place")
		return
	}
	writeJSON(w, r, map[string]any{"radius_km": radius, "items": out})
}

func (h *Handlers) categories(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Categories(r.Context())
	if err != nil {
		writeStoreError(w, err, "categories")
		return
	}
	writeJSON(w, r, map[string]any{"items": out})
}
