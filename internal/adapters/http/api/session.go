package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/drape/internal/app"
)

// SessionDependencies defines the styling session operations.
type SessionDependencies interface {
	Analyze(ctx context.Context, in service.AnalyzeInput) (service.AnalyzeResult, error)
	Recommendations(ctx context.Context, sessionID string) (service.RecommendationsResult, error)
	Feedback(ctx context.Context, in service.FeedbackInput) (service.FeedbackResult, error)
	History(ctx context.Context, sessionID string) (service.HistoryResult, error)
	End(ctx context.Context, sessionID string) (service.EndResult, error)
	Photo(ctx context.Context, sessionID string) ([]byte, error)
}

// SessionHandler handles the chat session endpoints.
type SessionHandler struct {
	deps           SessionDependencies
	maxUploadBytes int64
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// feedbackRequest keeps liked optional so a missing field is rejected
// instead of read as a dislike.
type feedbackRequest struct {
	SessionID string `json:"session_id"`
	OutfitID  string `json:"outfit_id"`
	Liked     *bool  `json:"liked"`
	EventID   string `json:"event_id"`
}

// HandleAnalyze handles POST /api/analyze requests.
func (h *SessionHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req service.AnalyzeInput
	if err := decodeBody(w, r, h.maxUploadBytes, &req); err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	res, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRecommendations handles POST /api/recommendations requests.
func (h *SessionHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendations"
	sessionID, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.Recommendations(r.Context(), sessionID)
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleFeedback handles POST /api/feedback requests.
func (h *SessionHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.feedback"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req feedbackRequest
	if err := decodeBody(w, r, h.maxUploadBytes, &req); err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.OutfitID) == "" || req.Liked == nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Feedback(r.Context(), service.FeedbackInput{
		SessionID: req.SessionID,
		OutfitID:  req.OutfitID,
		Liked:     *req.Liked,
		EventID:   req.EventID,
	})
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleHistory handles POST /api/history requests.
func (h *SessionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	sessionID, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.History(r.Context(), sessionID)
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleEnd handles POST /api/end requests.
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.end"
	sessionID, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.End(r.Context(), sessionID)
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePhoto handles POST /api/photo requests. The archived upload is
// returned with its sniffed content type.
func (h *SessionHandler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	const op = "api.photo"
	sessionID, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	data, err := h.deps.Photo(r.Context(), sessionID)
	if err != nil {
		respondError(r.Context(), w, op, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sessionID decodes a {"session_id"} body. It writes the error response
// itself and reports false when the request cannot be served.
func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return "", false
	}
	var req sessionRequest
	if err := decodeBody(w, r, h.maxUploadBytes, &req); err != nil {
		respondError(r.Context(), w, op, err)
		return "", false
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, service.ErrMissingSession))
		return "", false
	}
	return req.SessionID, true
}
