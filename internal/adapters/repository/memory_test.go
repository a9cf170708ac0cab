package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/internal/domain/preference"
)

var fixed = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStore() *MemoryStore {
	return NewMemoryStore(WithClock(func() time.Time { return fixed }))
}

func TestMemoryStore_Analysis(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	if _, err := s.GetAnalysis(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveAnalysis(ctx, model.SkinAnalysis{}); !errors.Is(err, ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession, got %v", err)
	}

	a := model.SkinAnalysis{SessionID: "s1", SkinTone: "medium_warm", Season: "spring", RGB: [3]int{200, 150, 100}}
	if err := s.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.GetAnalysis(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Season != "spring" || got.RGB != [3]int{200, 150, 100} {
		t.Errorf("unexpected analysis %+v", got)
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("expected created_at %v, got %v", fixed, got.CreatedAt)
	}

	a.Season = "autumn"
	_ = s.SaveAnalysis(ctx, a)
	got, _ = s.GetAnalysis(ctx, "s1")
	if got.Season != "autumn" {
		t.Errorf("expected replaced analysis, got %s", got.Season)
	}
}

func TestMemoryStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	if _, err := s.AppendMessage(ctx, "missing", model.Message{Role: model.RoleAssistant}, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveSession(ctx, model.Session{ID: "s1", Gender: "Men"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs := []model.Recommendation{{
		Outfit:      outfit.Outfit{ID: "o1", Items: []catalog.Item{{Category: "Shirts", Color: "Navy"}}},
		Explanation: "works",
	}}
	sess, err := s.AppendMessage(ctx, "s1", model.Message{Role: model.RoleAssistant, Content: "hi"}, recs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Conversation) != 1 || len(sess.Current) != 1 {
		t.Fatalf("unexpected session %+v", sess)
	}
	if !sess.Conversation[0].Timestamp.Equal(fixed) {
		t.Errorf("expected stamped message")
	}

	// A plain message keeps the current recommendations.
	if _, err := s.AppendMessage(ctx, "s1", model.Message{Role: model.RoleUser, Content: "thanks"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating a returned value must not leak into the store.
	sess.Current[0].Items[0].Color = "Red"
	stored, err := s.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored.Conversation) != 2 {
		t.Errorf("expected 2 messages, got %d", len(stored.Conversation))
	}
	if stored.Current[0].Items[0].Color != "Navy" {
		t.Errorf("store aliased caller memory: %s", stored.Current[0].Items[0].Color)
	}
	if _, ok := stored.FindRecommendation("o1"); !ok {
		t.Error("expected o1 among current recommendations")
	}
}

func TestMemoryStore_Preferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	empty, err := s.ListPreferences(ctx, "s1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v %v", empty, err)
	}
	if err := s.UpsertPreference(ctx, "s1", "", preference.Record{}); !errors.Is(err, ErrEmptyProduct) {
		t.Fatalf("expected ErrEmptyProduct, got %v", err)
	}

	_ = s.UpsertPreference(ctx, "s1", "o1_Shirts", preference.Record{Liked: true, Color: "Navy"})
	_ = s.UpsertPreference(ctx, "s1", "o1_Shoes", preference.Record{Liked: true, Color: "Black"})
	_ = s.UpsertPreference(ctx, "s1", "o1_Shirts", preference.Record{Liked: false, Color: "Navy"})

	got, err := s.ListPreferences(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Color != "Navy" || got[0].Liked {
		t.Errorf("expected replaced first record, got %+v", got[0])
	}
	if got[1].Color != "Black" {
		t.Errorf("expected insertion order, got %+v", got[1])
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected memory store, got %T", s)
	}
	if _, err := Open(context.Background(), "redis", ""); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/drape?sslmode=disable": "pgx5://u:p@db:5432/drape?sslmode=disable",
		"postgresql://db/drape":                        "pgx5://db/drape",
		"pgx5://db/drape":                              "pgx5://db/drape",
	}
	for in, want := range cases {
		if got := migrateURL(in); got != want {
			t.Errorf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) < 2 || len(entries)%2 != 0 {
		t.Errorf("expected paired up/down migrations, got %d files", len(entries))
	}
}
