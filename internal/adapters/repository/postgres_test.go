package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/preference"
)

// Runs against a live database when DRAPE_TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DRAPE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DRAPE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	m, err := NewMigrator(dsn)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	if err := m.Up(); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	_ = m.Close()

	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	id := uuid.NewString()
	if _, err := s.GetSession(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveAnalysis(ctx, model.SkinAnalysis{SessionID: id, SkinTone: "fair_warm", Undertone: "warm", Season: "spring", HSV: [3]int{10, 20, 90}}); err != nil {
		t.Fatalf("save analysis: %v", err)
	}
	a, err := s.GetAnalysis(ctx, id)
	if err != nil || a.HSV != [3]int{10, 20, 90} {
		t.Fatalf("get analysis: %+v %v", a, err)
	}

	if err := s.SaveSession(ctx, model.Session{ID: id, Gender: "Women"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	sess, err := s.AppendMessage(ctx, id, model.Message{Role: model.RoleAssistant, Content: "hello"}, nil)
	if err != nil || len(sess.Conversation) != 1 {
		t.Fatalf("append: %+v %v", sess, err)
	}

	_ = s.UpsertPreference(ctx, id, "o1_Tops", preference.Record{Liked: true, Color: "Navy"})
	_ = s.UpsertPreference(ctx, id, "o1_Tops", preference.Record{Liked: false, Color: "Navy"})
	prefs, err := s.ListPreferences(ctx, id)
	if err != nil || len(prefs) != 1 || prefs[0].Liked {
		t.Fatalf("preferences: %+v %v", prefs, err)
	}
}
