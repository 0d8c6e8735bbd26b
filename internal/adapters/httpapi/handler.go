// Package httpapi exposes the cross service over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"morphcore/internal/adapters/reports"
	"morphcore/internal/core"
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
	"morphcore/pkg/genetics"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the HTTP API.
type Handler struct {
	Service  *core.Service
	Archive  *reports.Archiver
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// NewHandler constructs a handler over svc. Report endpoints answer 404
// until Archive is set and /metrics is only mounted when Gatherer is set.
func NewHandler(svc *core.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{Service: svc, Logger: logger}
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/species", h.handleSpecies)
		r.Get("/species/{species}/loci", h.handleLoci)
		r.Post("/crosses", h.handleCross)
		r.Post("/crosses/reports", h.handleCrossReport)
		r.Get("/reports/{id}", h.handleReport)
		r.Get("/reports/{id}/{format}", h.handleReportArtifact)
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		h.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) handleSpecies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"species": h.Service.Species()})
}

func (h *Handler) handleLoci(w http.ResponseWriter, r *http.Request) {
	species := domain.Species(chi.URLParam(r, "species"))
	loci, err := h.Service.Loci(r.Context(), species)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"species": species, "loci": loci})
}

type geneInput struct {
	Locus  string `json:"locus"`
	Copies int    `json:"copies"`
}

// crossRequest accepts parents either as explicit entries or as genotype
// shorthand ("pastel, het albino"). Shorthand wins when both are given.
type crossRequest struct {
	Species        domain.Species `json:"species"`
	Father         []geneInput    `json:"father"`
	Mother         []geneInput    `json:"mother"`
	FatherGenotype string         `json:"father_genotype"`
	MotherGenotype string         `json:"mother_genotype"`
}

func (h *Handler) decodeCross(w http.ResponseWriter, r *http.Request) (core.CrossRequest, bool) {
	var req crossRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid cross request payload")
		return core.CrossRequest{}, false
	}
	if req.Species == "" {
		writeError(w, http.StatusBadRequest, "species required")
		return core.CrossRequest{}, false
	}
	father, err := h.parent(r, req.Species, req.FatherGenotype, req.Father)
	if err != nil {
		h.writeServiceError(w, err)
		return core.CrossRequest{}, false
	}
	mother, err := h.parent(r, req.Species, req.MotherGenotype, req.Mother)
	if err != nil {
		h.writeServiceError(w, err)
		return core.CrossRequest{}, false
	}
	return core.CrossRequest{Species: req.Species, Father: father, Mother: mother}, true
}

func (h *Handler) parent(r *http.Request, species domain.Species, text string, genes []geneInput) ([]domain.GeneEntry, error) {
	if text != "" {
		return h.Service.ParseGenotype(r.Context(), species, text)
	}
	out := make([]domain.GeneEntry, len(genes))
	for i, g := range genes {
		out[i] = domain.GeneEntry{Locus: g.Locus, Copies: g.Copies}
	}
	return out, nil
}

func (h *Handler) handleCross(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCross(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Cross(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleCrossReport(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "report archive not configured")
		return
	}
	req, ok := h.decodeCross(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Cross(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	record, err := h.Archive.Archive(r.Context(), report)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": report, "archive": record})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "report archive not configured")
		return
	}
	record, err := h.Archive.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleReportArtifact(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "report archive not configured")
		return
	}
	format := reports.Format(chi.URLParam(r, "format"))
	artifact, rc, err := h.Archive.Open(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", artifact.ContentType)
	if artifact.ETag != "" {
		w.Header().Set("ETag", artifact.ETag)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warn("stream report artifact", "key", artifact.Key, "error", err)
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidRequest), errors.Is(err, reports.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, genetics.ErrTooManyActiveLoci):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrUnknownSpecies),
		errors.Is(err, reports.ErrNotFound),
		errors.Is(err, reports.ErrUnsupportedFormat):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
