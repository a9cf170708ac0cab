// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/drape/internal/domain/outfit"
)

// FeedbackEvent is published whenever a user likes or dislikes an outfit.
type FeedbackEvent struct {
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	OutfitID   string    `json:"outfit_id"`
	Liked      bool      `json:"liked"`
	Colors     []string  `json:"colors,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Brands     []string  `json:"brands,omitempty"`
	TS         time.Time `json:"ts"`
}

// RoutingKey returns the topic the event is published under.
func (e FeedbackEvent) RoutingKey() string {
	if e.Liked {
		return "feedback.liked"
	}
	return "feedback.disliked"
}

// Role identifies the author of a chat message.
type Role string

// Roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a styling conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is an outfit shown to the user with its stylist notes.
type Recommendation struct {
	outfit.Outfit
	Explanation string `json:"explanation"`
	Compliment  string `json:"compliment"`
}

// Session is the conversation state of one styling session.
type Session struct {
	ID           string           `json:"session_id"`
	Gender       string           `json:"gender"`
	Conversation []Message        `json:"conversation_history"`
	Current      []Recommendation `json:"current_recommendations"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Append adds a message. Non-empty recs replace the current recommendations.
func (s *Session) Append(m Message, recs []Recommendation) {
	s.Conversation = append(s.Conversation, m)
	if len(recs) > 0 {
		s.Current = append([]Recommendation(nil), recs...)
	}
	s.UpdatedAt = m.Timestamp
}

// FindRecommendation returns the current recommendation with the outfit id.
func (s *Session) FindRecommendation(outfitID string) (Recommendation, bool) {
	for _, r := range s.Current {
		if r.ID == outfitID {
			return r, true
		}
	}
	return Recommendation{}, false
}

// SkinAnalysis is the stored result of analysing a session photo.
type SkinAnalysis struct {
	SessionID  string    `json:"session_id"`
	ImageKey   string    `json:"image_key"`
	SkinTone   string    `json:"skin_tone"`
	Undertone  string    `json:"undertone"`
	Season     string    `json:"season"`
	Confidence string    `json:"confidence"`
	RGB        [3]int    `json:"rgb_values"`
	HSV        [3]int    `json:"hsv_values"`
	CreatedAt  time.Time `json:"created_at"`
}
