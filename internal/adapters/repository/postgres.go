package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/preference"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 15 * time.Minute
	pingTimeout     = 5 * time.Second
)

// PostgresStore persists state in PostgreSQL through database/sql.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens and pings the database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an open handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, a model.SkinAnalysis) error { //nolint:gocritic // hugeParam: value semantics
	if a.SessionID == "" {
		return ErrEmptySession
	}
	rgb, err := json.Marshal(a.RGB)
	if err != nil {
		return fmt.Errorf("encode rgb: %w", err)
	}
	hsv, err := json.Marshal(a.HSV)
	if err != nil {
		return fmt.Errorf("encode hsv: %w", err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	const q = `
		INSERT INTO skin_analyses (session_id, image_key, skin_tone, undertone, season, confidence, rgb_values, hsv_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_id) DO UPDATE SET
			image_key = EXCLUDED.image_key,
			skin_tone = EXCLUDED.skin_tone,
			undertone = EXCLUDED.undertone,
			season = EXCLUDED.season,
			confidence = EXCLUDED.confidence,
			rgb_values = EXCLUDED.rgb_values,
			hsv_values = EXCLUDED.hsv_values`
	if _, err := s.db.ExecContext(ctx, q, a.SessionID, a.ImageKey, a.SkinTone, a.Undertone, a.Season, a.Confidence, rgb, hsv, a.CreatedAt); err != nil {
		return fmt.Errorf("save analysis %s: %w", a.SessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, sessionID string) (model.SkinAnalysis, error) {
	const q = `
		SELECT session_id, image_key, skin_tone, undertone, season, confidence, rgb_values, hsv_values, created_at
		FROM skin_analyses WHERE session_id = $1`

	var (
		a        model.SkinAnalysis
		rgb, hsv []byte
	)
	err := s.db.QueryRowContext(ctx, q, sessionID).Scan(
		&a.SessionID, &a.ImageKey, &a.SkinTone, &a.Undertone, &a.Season, &a.Confidence, &rgb, &hsv, &a.CreatedAt,
	)
	if err != nil {
		return model.SkinAnalysis{}, mapError(err)
	}
	if err := json.Unmarshal(rgb, &a.RGB); err != nil {
		return model.SkinAnalysis{}, fmt.Errorf("decode rgb: %w", err)
	}
	if err := json.Unmarshal(hsv, &a.HSV); err != nil {
		return model.SkinAnalysis{}, fmt.Errorf("decode hsv: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, sess model.Session) error { //nolint:gocritic // hugeParam: value semantics
	if sess.ID == "" {
		return ErrEmptySession
	}
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = now
	}
	return saveSession(ctx, s.db, sess)
}

func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	return loadSession(ctx, s.db, sessionID, false)
}

func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID string, m model.Message, recs []model.Recommendation) (model.Session, error) { //nolint:gocritic // hugeParam: value semantics
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return withTx(ctx, s.db, func(tx *sql.Tx) (model.Session, error) {
		sess, err := loadSession(ctx, tx, sessionID, true)
		if err != nil {
			return model.Session{}, err
		}
		sess.Append(m, recs)
		if err := saveSession(ctx, tx, sess); err != nil {
			return model.Session{}, err
		}
		return sess, nil
	})
}

func (s *PostgresStore) UpsertPreference(ctx context.Context, sessionID, productID string, r preference.Record) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	if productID == "" {
		return ErrEmptyProduct
	}
	const q = `
		INSERT INTO user_preferences (session_id, product_id, liked, color, category, brand)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, product_id) DO UPDATE SET
			liked = EXCLUDED.liked,
			color = EXCLUDED.color,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand`
	if _, err := s.db.ExecContext(ctx, q, sessionID, productID, r.Liked, r.Color, r.Category, r.Brand); err != nil {
		return fmt.Errorf("upsert preference %s/%s: %w", sessionID, productID, err)
	}
	return nil
}

func (s *PostgresStore) ListPreferences(ctx context.Context, sessionID string) ([]preference.Record, error) {
	const q = `
		SELECT liked, color, category, brand
		FROM user_preferences WHERE session_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list preferences %s: %w", sessionID, err)
	}
	defer rows.Close()

	out := make([]preference.Record, 0)
	for rows.Next() {
		var r preference.Record
		if err := rows.Scan(&r.Liked, &r.Color, &r.Category, &r.Brand); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list preferences %s: %w", sessionID, err)
	}
	return out, nil
}

// Close closes the database handle.
func (s *PostgresStore) Close() error { return s.db.Close() }

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func loadSession(ctx context.Context, q querier, sessionID string, forUpdate bool) (model.Session, error) {
	query := `
		SELECT session_id, gender, conversation_history, current_recommendations, created_at, updated_at
		FROM chat_sessions WHERE session_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		sess       model.Session
		convo, cur []byte
	)
	err := q.QueryRowContext(ctx, query, sessionID).Scan(
		&sess.ID, &sess.Gender, &convo, &cur, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		return model.Session{}, mapError(err)
	}
	if err := json.Unmarshal(convo, &sess.Conversation); err != nil {
		return model.Session{}, fmt.Errorf("decode conversation: %w", err)
	}
	if err := json.Unmarshal(cur, &sess.Current); err != nil {
		return model.Session{}, fmt.Errorf("decode recommendations: %w", err)
	}
	return sess, nil
}

func saveSession(ctx context.Context, e executor, sess model.Session) error { //nolint:gocritic // hugeParam: value semantics
	convo, err := json.Marshal(nonNil(sess.Conversation))
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	cur, err := json.Marshal(nonNil(sess.Current))
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	const q = `
		INSERT INTO chat_sessions (session_id, gender, conversation_history, current_recommendations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			conversation_history = EXCLUDED.conversation_history,
			current_recommendations = EXCLUDED.current_recommendations,
			updated_at = EXCLUDED.updated_at`
	if _, err := e.ExecContext(ctx, q, sess.ID, sess.Gender, convo, cur, sess.CreatedAt, sess.UpdatedAt); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func withTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
