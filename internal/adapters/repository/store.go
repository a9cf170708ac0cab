// Package repository persists styling sessions, skin analyses and
// preference feedback.
package repository

import (
	"context"

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/preference"
)

// Store provides read/write access to session state.
type Store interface {
	// SaveAnalysis stores the analysis of a session, replacing any earlier one.
	SaveAnalysis(ctx context.Context, a model.SkinAnalysis) error
	// GetAnalysis returns ErrNotFound when the session was never analysed.
	GetAnalysis(ctx context.Context, sessionID string) (model.SkinAnalysis, error)

	// SaveSession creates or replaces a chat session.
	SaveSession(ctx context.Context, s model.Session) error
	// GetSession returns ErrNotFound for unknown sessions.
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	// AppendMessage adds m to the conversation. Non-empty recs become the
	// current recommendations.
	AppendMessage(ctx context.Context, sessionID string, m model.Message, recs []model.Recommendation) (model.Session, error)

	// UpsertPreference records feedback on one product, replacing earlier
	// feedback on the same product.
	UpsertPreference(ctx context.Context, sessionID, productID string, r preference.Record) error
	// ListPreferences returns the session's feedback in first-recorded order.
	ListPreferences(ctx context.Context, sessionID string) ([]preference.Record, error)

	Close() error
}
