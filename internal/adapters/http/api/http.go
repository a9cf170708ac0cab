// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/drape/internal/adapters/blob"
	"github.com/okian/drape/internal/adapters/repository"
	service "github.com/okian/drape/internal/app"
	"github.com/okian/drape/internal/domain/skintone"
	"github.com/okian/drape/pkg/logger"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

const noOutfitsSuggestion = "Please try uploading a different photo or check your internet connection."

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	CatalogDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	sessionHandler *SessionHandler
	catalogHandler *CatalogHandler
}

// NewServer creates a new API server with all handlers. Request bodies
// larger than maxUploadBytes are rejected; zero or less uses
// DefaultMaxUploadBytes.
func NewServer(deps Dependencies, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		sessionHandler: NewSessionHandler(deps, maxUploadBytes),
		catalogHandler: NewCatalogHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/analyze", MetricsMiddleware(s.sessionHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/api/recommendations", MetricsMiddleware(s.sessionHandler.HandleRecommendations, "recommendations"))
	mux.HandleFunc("/api/feedback", MetricsMiddleware(s.sessionHandler.HandleFeedback, "feedback"))
	mux.HandleFunc("/api/history", MetricsMiddleware(s.sessionHandler.HandleHistory, "history"))
	mux.HandleFunc("/api/end", MetricsMiddleware(s.sessionHandler.HandleEnd, "end"))
	mux.HandleFunc("/api/photo", MetricsMiddleware(s.sessionHandler.HandlePhoto, "photo"))
	mux.HandleFunc("/api/catalog/search", MetricsMiddleware(s.catalogHandler.HandleSearch, "catalog_search"))
	mux.HandleFunc("/api/catalog/genders", MetricsMiddleware(s.catalogHandler.HandleGenders, "catalog_genders"))
}

type errorResponse struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Debug      *noOutfitsInfo `json:"debug_info,omitempty"`
}

type noOutfitsInfo struct {
	DatasetSize int      `json:"dataset_size"`
	Gender      string   `json:"gender"`
	ColorsTried []string `json:"colors_tried"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads a JSON body of at most limit bytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// respondError maps domain and service errors to status codes. Unexpected
// errors are logged and answered with a generic message.
func respondError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var noOutfits *service.NoOutfitsError
	switch {
	case errors.As(err, &noOutfits):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:       "no_outfits",
			Message:    "No suitable outfits found",
			Suggestion: noOutfitsSuggestion,
			Debug: &noOutfitsInfo{
				DatasetSize: noOutfits.DatasetSize,
				Gender:      noOutfits.Gender,
				ColorsTried: noOutfits.ColorsTried,
			},
		})
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrTooLarge, err))
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrMissingImage),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrMissingSession),
		errors.Is(err, service.ErrMissingOutfit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrOutfitNotFound):
		writeError(w, http.StatusNotFound, "outfit_not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrPhotoNotArchived), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, "photo_not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, skintone.ErrNoSkinDetected):
		writeError(w, http.StatusUnprocessableEntity, "no_skin_detected", Wrap(op, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		logger.Get().Named("api").Error(ctx, "request failed",
			logger.String("op", op),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
