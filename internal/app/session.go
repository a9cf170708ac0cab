package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/drape/internal/adapters/narrator"
	"github.com/okian/drape/internal/adapters/repository"
	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/internal/domain/palette"
	"github.com/okian/drape/internal/domain/preference"
	"github.com/okian/drape/internal/domain/recommend"
	"github.com/okian/drape/internal/domain/skintone"
	"github.com/okian/drape/pkg/logger"
	"github.com/okian/drape/pkg/metrics"
)

const (
	defaultGender      = "Men"
	alternativeMessage = "Here are some alternative options that might be more your style:"
	duplicateMessage   = "Thanks, I already have that feedback."
)

// AnalyzeInput is a photo upload for a (possibly new) session.
type AnalyzeInput struct {
	ImageData string `json:"image"`
	Gender    string `json:"gender"`
	SessionID string `json:"session_id"`
}

// AnalysisSummary is the user-facing part of a skin analysis.
type AnalysisSummary struct {
	SkinTone   skintone.SkinTone   `json:"skin_tone"`
	Undertone  skintone.Undertone  `json:"undertone"`
	Season     palette.Season      `json:"season"`
	Confidence skintone.Confidence `json:"confidence"`
	Palette    palette.Palette     `json:"palette"`
}

// AnalyzeResult answers an upload.
type AnalyzeResult struct {
	SessionID string          `json:"session_id"`
	Analysis  AnalysisSummary `json:"analysis"`
	Greeting  string          `json:"greeting"`
}

// SkinInfo echoes the stored analysis next to recommendations.
type SkinInfo struct {
	SkinTone  string `json:"skin_tone"`
	Season    string `json:"season"`
	Undertone string `json:"undertone"`
}

// RecommendationsResult is the outfits shown for a session.
type RecommendationsResult struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Message         string                 `json:"message"`
	SkinInfo        SkinInfo               `json:"skin_info"`
	Tier            recommend.Tier         `json:"tier"`
}

// FeedbackInput is a like or dislike of a shown outfit. EventID makes
// retries idempotent.
type FeedbackInput struct {
	SessionID string `json:"session_id"`
	OutfitID  string `json:"outfit_id"`
	Liked     bool   `json:"liked"`
	EventID   string `json:"event_id,omitempty"`
}

// FeedbackResult is the stylist's answer to feedback.
type FeedbackResult struct {
	Message            string                 `json:"message"`
	Alternatives       []model.Recommendation `json:"alternatives,omitempty"`
	AlternativeMessage string                 `json:"alternative_message,omitempty"`
	Duplicate          bool                   `json:"duplicate,omitempty"`
}

// HistoryResult is the conversation of a session.
type HistoryResult struct {
	Conversation []model.Message        `json:"conversation_history"`
	Current      []model.Recommendation `json:"current_recommendations"`
}

// EndResult closes a session.
type EndResult struct {
	FinalMessage string `json:"final_message"`
}

// Analyze decodes and archives an upload, classifies the skin tone and
// opens the chat session with a greeting.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	rec, err := s.components()
	if err != nil {
		return AnalyzeResult{}, err
	}
	raw, img, contentType, err := decodeUpload(in.ImageData)
	if err != nil {
		return AnalyzeResult{}, err
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}
	gender := in.Gender
	if gender == "" {
		gender = defaultGender
	}

	imageKey := s.archiveUpload(ctx, "skin_analysis_"+sessionID+".jpg", contentType, raw)

	start := time.Now()
	a, err := rec.Analyze(img)
	if err != nil {
		if errors.Is(err, skintone.ErrNoSkinDetected) {
			metrics.RecordNoSkinDetected()
		}
		return AnalyzeResult{}, err
	}
	c := a.Classification
	metrics.RecordAnalysis(string(c.Season), string(c.Confidence), sinceMs(start))

	err = s.store.SaveAnalysis(ctx, model.SkinAnalysis{
		SessionID:  sessionID,
		ImageKey:   imageKey,
		SkinTone:   string(c.SkinTone),
		Undertone:  string(c.Undertone),
		Season:     string(c.Season),
		Confidence: string(c.Confidence),
		RGB:        a.Sample.RGB(),
		HSV:        a.Sample.HSV(),
		CreatedAt:  s.now(),
	})
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("save analysis: %w", err)
	}

	sess, err := s.openSession(ctx, sessionID, gender)
	if err != nil {
		return AnalyzeResult{}, err
	}

	greeting := s.narrator.Greeting(ctx, narrator.Subject{
		Gender:   sess.Gender,
		SkinTone: string(c.SkinTone),
		Season:   string(c.Season),
	})
	if _, err := s.store.AppendMessage(ctx, sessionID, s.assistant(greeting), nil); err != nil {
		return AnalyzeResult{}, fmt.Errorf("append greeting: %w", err)
	}

	s.logger.Info(ctx, "skin tone analysed",
		logger.String("session_id", sessionID),
		logger.String("skin_tone", string(c.SkinTone)),
		logger.String("season", string(c.Season)),
		logger.Int("pixels", a.Sample.Pixels),
	)

	return AnalyzeResult{
		SessionID: sessionID,
		Analysis: AnalysisSummary{
			SkinTone:   c.SkinTone,
			Undertone:  c.Undertone,
			Season:     c.Season,
			Confidence: c.Confidence,
			Palette:    a.Palette,
		},
		Greeting: greeting,
	}, nil
}

// Recommendations composes outfits for the session, keeps the best
// displayCount and makes them the session's current recommendations.
func (s *Service) Recommendations(ctx context.Context, sessionID string) (RecommendationsResult, error) {
	rec, err := s.components()
	if err != nil {
		return RecommendationsResult{}, err
	}
	a, sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return RecommendationsResult{}, err
	}
	history, err := s.store.ListPreferences(ctx, sessionID)
	if err != nil {
		return RecommendationsResult{}, fmt.Errorf("list preferences: %w", err)
	}

	start := time.Now()
	res, err := rec.Recommend(ctx, recommend.Request{
		Gender:  sess.Gender,
		Season:  palette.ParseSeason(a.Season),
		History: history,
		Count:   s.recommendCount,
	})
	if errors.Is(err, recommend.ErrNoOutfits) {
		metrics.RecordRecommendationEmpty()
		return RecommendationsResult{}, &NoOutfitsError{
			Gender:      sess.Gender,
			ColorsTried: res.ColorsTried,
			DatasetSize: rec.Catalog().Current().Len(),
		}
	}
	if err != nil {
		return RecommendationsResult{}, err
	}

	shown := res.Outfits[:min(s.displayCount, len(res.Outfits))]
	subject := subjectOf(a, sess)
	recs := s.present(ctx, shown, subject)

	message := fmt.Sprintf("Hey there! I've analyzed your skin tone and found that you're a %s (%s season). Here are %d professional outfits that'll make you shine at your interview!",
		strings.ReplaceAll(a.SkinTone, "_", " "), a.Season, len(recs))
	if _, err := s.store.AppendMessage(ctx, sessionID, s.assistant(message), recs); err != nil {
		return RecommendationsResult{}, fmt.Errorf("append recommendations: %w", err)
	}
	metrics.RecordRecommendation(string(res.Tier), len(recs), sinceMs(start))

	return RecommendationsResult{
		Recommendations: recs,
		Message:         message,
		SkinInfo:        SkinInfo{SkinTone: a.SkinTone, Season: a.Season, Undertone: a.Undertone},
		Tier:            res.Tier,
	}, nil
}

// Feedback records a like or dislike on every item of a current outfit.
// A dislike is answered with alternatives avoiding the outfit's colors.
func (s *Service) Feedback(ctx context.Context, in FeedbackInput) (FeedbackResult, error) {
	rec, err := s.components()
	if err != nil {
		return FeedbackResult{}, err
	}
	if in.OutfitID == "" {
		return FeedbackResult{}, ErrMissingOutfit
	}
	if in.SessionID == "" {
		return FeedbackResult{}, ErrMissingSession
	}

	if in.EventID != "" && s.deduper.SeenAndRecord(ctx, in.EventID) {
		s.logger.Debug(ctx, "duplicate feedback skipped", logger.String("event_id", in.EventID))
		return FeedbackResult{Message: duplicateMessage, Duplicate: true}, nil
	}

	res, err := s.feedback(ctx, rec, in)
	if err != nil && in.EventID != "" {
		s.deduper.Unrecord(ctx, in.EventID)
	}
	return res, err
}

func (s *Service) feedback(ctx context.Context, rec *recommend.Service, in FeedbackInput) (FeedbackResult, error) {
	a, sess, err := s.loadSession(ctx, in.SessionID)
	if err != nil {
		return FeedbackResult{}, err
	}
	chosen, ok := sess.FindRecommendation(in.OutfitID)
	if !ok {
		return FeedbackResult{}, ErrOutfitNotFound
	}

	for _, it := range chosen.Items {
		err := s.store.UpsertPreference(ctx, in.SessionID, in.OutfitID+"_"+it.Category, preference.Record{
			Liked:    in.Liked,
			Color:    it.Color,
			Category: it.Category,
			Brand:    it.Brand,
		})
		if err != nil {
			return FeedbackResult{}, fmt.Errorf("save preference: %w", err)
		}
	}
	metrics.RecordFeedback(in.Liked)

	history, err := s.store.ListPreferences(ctx, in.SessionID)
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("list preferences: %w", err)
	}
	subject := subjectOf(a, sess)
	reply := s.narrator.FeedbackReply(ctx, in.Liked, subject) + " " + preference.Message(preference.Aggregate(history))
	if _, err := s.store.AppendMessage(ctx, in.SessionID, s.assistant(reply), nil); err != nil {
		return FeedbackResult{}, fmt.Errorf("append reply: %w", err)
	}
	out := FeedbackResult{Message: reply}

	if !in.Liked {
		alts, err := rec.Alternatives(ctx, recommend.AlternativesRequest{
			Gender:  sess.Gender,
			Avoided: itemColors(chosen.Outfit),
			Season:  palette.ParseSeason(a.Season),
			Count:   s.alternativesCount,
		})
		if err != nil {
			return FeedbackResult{}, err
		}
		if len(alts.Outfits) > 0 {
			out.Alternatives = s.present(ctx, alts.Outfits, subject)
			out.AlternativeMessage = alternativeMessage
			if _, err := s.store.AppendMessage(ctx, in.SessionID, s.assistant(alternativeMessage), out.Alternatives); err != nil {
				return FeedbackResult{}, fmt.Errorf("append alternatives: %w", err)
			}
		}
	}

	s.publish(ctx, in, chosen.Outfit)
	return out, nil
}

// History returns the conversation and current recommendations.
func (s *Service) History(ctx context.Context, sessionID string) (HistoryResult, error) {
	if _, err := s.components(); err != nil {
		return HistoryResult{}, err
	}
	if sessionID == "" {
		return HistoryResult{}, ErrMissingSession
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return HistoryResult{}, err
	}
	return HistoryResult{
		Conversation: nonNil(sess.Conversation),
		Current:      nonNil(sess.Current),
	}, nil
}

// End closes the session with a motivational message.
func (s *Service) End(ctx context.Context, sessionID string) (EndResult, error) {
	if _, err := s.components(); err != nil {
		return EndResult{}, err
	}
	if sessionID == "" {
		return EndResult{}, ErrMissingSession
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return EndResult{}, err
	}
	final := s.narrator.Closing(ctx, narrator.Subject{Gender: sess.Gender}, len(sess.Current))
	if _, err := s.store.AppendMessage(ctx, sessionID, s.assistant(final), nil); err != nil {
		return EndResult{}, fmt.Errorf("append closing: %w", err)
	}
	return EndResult{FinalMessage: final}, nil
}

// Photo returns the upload archived for a session. Sessions whose upload
// could not be archived report ErrPhotoNotArchived.
func (s *Service) Photo(ctx context.Context, sessionID string) ([]byte, error) {
	if _, err := s.components(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	a, err := s.store.GetAnalysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if a.ImageKey == "" {
		return nil, ErrPhotoNotArchived
	}
	data, err := s.archive.Get(ctx, a.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("load photo %s: %w", a.ImageKey, err)
	}
	return data, nil
}

// openSession returns the existing chat session or creates one.
func (s *Service) openSession(ctx context.Context, sessionID, gender string) (model.Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Session{}, fmt.Errorf("load session: %w", err)
	}
	now := s.now()
	sess = model.Session{ID: sessionID, Gender: gender, CreatedAt: now, UpdatedAt: now}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// loadSession returns both halves of a session. Either missing yields
// repository.ErrNotFound.
func (s *Service) loadSession(ctx context.Context, sessionID string) (model.SkinAnalysis, model.Session, error) {
	if sessionID == "" {
		return model.SkinAnalysis{}, model.Session{}, ErrMissingSession
	}
	a, err := s.store.GetAnalysis(ctx, sessionID)
	if err != nil {
		return model.SkinAnalysis{}, model.Session{}, err
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.SkinAnalysis{}, model.Session{}, err
	}
	return a, sess, nil
}

// present attaches an explanation and a compliment to each outfit.
func (s *Service) present(ctx context.Context, outfits []outfit.Outfit, subject narrator.Subject) []model.Recommendation {
	recs := make([]model.Recommendation, len(outfits))
	for i, o := range outfits {
		recs[i] = model.Recommendation{
			Outfit:      o,
			Explanation: s.narrator.Explain(ctx, o, subject),
			Compliment:  s.narrator.Compliment(ctx, o, subject),
		}
	}
	return recs
}

// archiveUpload stores the raw upload and returns its key, or "" when
// archiving failed. Failures never fail the analysis.
func (s *Service) archiveUpload(ctx context.Context, key, contentType string, data []byte) string {
	if err := s.archive.Put(ctx, key, contentType, data); err != nil {
		metrics.RecordArchiveUpload(false)
		s.logger.Warn(ctx, "failed to archive upload",
			logger.String("key", key),
			logger.Error(err),
		)
		return ""
	}
	metrics.RecordArchiveUpload(true)
	return key
}

// publish hands a feedback event to the workers. A full queue drops the
// event; the feedback itself is already stored.
func (s *Service) publish(ctx context.Context, in FeedbackInput, o outfit.Outfit) { //nolint:gocritic // hugeParam: value semantics
	eventID := in.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	e := model.FeedbackEvent{
		EventID:   eventID,
		SessionID: in.SessionID,
		OutfitID:  in.OutfitID,
		Liked:     in.Liked,
		Colors:    o.Colors(),
		TS:        s.now(),
	}
	for _, it := range o.Items {
		e.Categories = append(e.Categories, it.Category)
		e.Brands = append(e.Brands, it.Brand)
	}
	if err := s.eventQueue.Enqueue(ctx, e); err != nil {
		s.logger.Warn(ctx, "feedback event dropped",
			logger.String("event_id", eventID),
			logger.Error(err),
		)
	}
}

func (s *Service) assistant(content string) model.Message {
	return model.Message{Role: model.RoleAssistant, Content: content, Timestamp: s.now()}
}

func subjectOf(a model.SkinAnalysis, sess model.Session) narrator.Subject { //nolint:gocritic // hugeParam: value semantics
	return narrator.Subject{Gender: sess.Gender, SkinTone: a.SkinTone, Season: a.Season}
}

func itemColors(o outfit.Outfit) []string {
	colors := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		colors = append(colors, it.Color)
	}
	return colors
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
