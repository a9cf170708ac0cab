package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/internal/domain/preference"
)

type preferences struct {
	order   []string
	records map[string]preference.Record
}

// MemoryStore keeps all state in process memory. Values are copied on the
// way in and out.
type MemoryStore struct {
	mu          sync.RWMutex
	analyses    map[string]model.SkinAnalysis
	sessions    map[string]model.Session
	preferences map[string]*preferences
	now         func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		analyses:    make(map[string]model.SkinAnalysis),
		sessions:    make(map[string]model.Session),
		preferences: make(map[string]*preferences),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) SaveAnalysis(_ context.Context, a model.SkinAnalysis) error { //nolint:gocritic // hugeParam: value semantics
	if a.SessionID == "" {
		return ErrEmptySession
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.mu.Lock()
	s.analyses[a.SessionID] = a
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetAnalysis(_ context.Context, sessionID string) (model.SkinAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.analyses[sessionID]
	if !ok {
		return model.SkinAnalysis{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, sess model.Session) error { //nolint:gocritic // hugeParam: value semantics
	if sess.ID == "" {
		return ErrEmptySession
	}
	now := s.now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = now
	}
	s.mu.Lock()
	s.sessions[sess.ID] = cloneSession(sess)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, sessionID string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return cloneSession(sess), nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, m model.Message, recs []model.Recommendation) (model.Session, error) { //nolint:gocritic // hugeParam: value semantics
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	sess = cloneSession(sess)
	sess.Append(m, recs)
	s.sessions[sessionID] = sess
	return cloneSession(sess), nil
}

func (s *MemoryStore) UpsertPreference(_ context.Context, sessionID, productID string, r preference.Record) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	if productID == "" {
		return ErrEmptyProduct
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[sessionID]
	if !ok {
		p = &preferences{records: make(map[string]preference.Record)}
		s.preferences[sessionID] = p
	}
	if _, seen := p.records[productID]; !seen {
		p.order = append(p.order, productID)
	}
	p.records[productID] = r
	return nil
}

func (s *MemoryStore) ListPreferences(_ context.Context, sessionID string) ([]preference.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.preferences[sessionID]
	if !ok {
		return []preference.Record{}, nil
	}
	out := make([]preference.Record, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.records[id])
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func cloneSession(s model.Session) model.Session { //nolint:gocritic // hugeParam: value semantics
	s.Conversation = append([]model.Message(nil), s.Conversation...)
	recs := make([]model.Recommendation, len(s.Current))
	for i, r := range s.Current {
		r.Items = append(r.Items[:0:0], r.Items...)
		r.PrimaryColors = append([]string(nil), r.PrimaryColors...)
		recs[i] = r
	}
	s.Current = recs
	return s
}
