// Package narrator writes the stylist's side of a conversation.
package narrator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/pkg/metrics"
)

// Narration sources reported to metrics.
const (
	SourceGenAI    = "genai"
	SourceTemplate = "template"
)

// Subject describes the person being styled.
type Subject struct {
	Gender   string
	SkinTone string
	Season   string
}

// Narrator produces stylist messages.
type Narrator interface {
	Greeting(ctx context.Context, s Subject) string
	Explain(ctx context.Context, o outfit.Outfit, s Subject) string
	Compliment(ctx context.Context, o outfit.Outfit, s Subject) string
	FeedbackReply(ctx context.Context, liked bool, s Subject) string
	Closing(ctx context.Context, s Subject, shown int) string
}

var compliments = []string{
	"You'll look absolutely stunning and confident in this outfit!",
	"This combination will make you shine with professional elegance!",
	"You're going to impress everyone with this polished, sophisticated look!",
	"This outfit perfectly balances professionalism with your personal style!",
	"You'll feel empowered and ready to conquer that interview!",
	"This look will highlight your best features and boost your confidence!",
	"You're going to look like the accomplished professional you are!",
	"This ensemble will make you feel unstoppable and interview-ready!",
}

var likeReplies = []string{
	"Wonderful choice! I can see you have great taste. Let me find more options in similar styles and colors.",
	"Perfect! I love that you're drawn to these colors - they really suit you beautifully.",
	"Excellent! I'll remember your preference for these types of pieces and colors.",
	"Great selection! Your instincts are spot-on for what works with your coloring.",
}

var dislikeReplies = []string{
	"No worries at all! Everyone has different style preferences. Let me show you some alternatives.",
	"That's perfectly fine! Let me find some different options that might be more your style.",
	"I understand - personal style is so important! Let me try a different approach.",
	"Thanks for the feedback! Let me explore some other color combinations for you.",
}

var closings = []string{
	"You've got this! With these %d amazing outfit options, you're fully prepared to make a fantastic first impression. Remember, confidence is your best accessory - wear it proudly!",
	"I'm so excited for your interview! Any of these %d outfits will help you look polished and professional. Trust in your abilities and let your personality shine through!",
	"You're going to do wonderfully! These outfit choices will help you feel confident and comfortable, which is exactly what you need to succeed. Best of luck with your interview!",
	"Perfect! You now have %d interview-ready looks that complement your natural beauty. Remember, you've got the skills and the style - now go show them what you're made of!",
}

// Option configures a TemplateNarrator.
type Option func(*TemplateNarrator)

// WithRand sets the source used to pick among canned lines.
func WithRand(rng *rand.Rand) Option {
	return func(t *TemplateNarrator) {
		if rng != nil {
			t.rng = rng
		}
	}
}

// TemplateNarrator answers from fixed texts.
type TemplateNarrator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemplateNarrator creates a TemplateNarrator.
func NewTemplateNarrator(opts ...Option) *TemplateNarrator {
	t := &TemplateNarrator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // message variety only
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Greeting welcomes the user with their analysis result.
func (t *TemplateNarrator) Greeting(_ context.Context, s Subject) string {
	metrics.RecordNarration(SourceTemplate)
	return fmt.Sprintf("Hello! I'm your AI Style Advisor. I've analyzed your skin tone and found that you have beautiful %s undertones, perfect for %s colors! I'm excited to help you find the perfect interview outfits that will make you look confident and professional. Let me show you some amazing options!",
		displayTone(s.SkinTone), s.Season)
}

// Explain says why the outfit suits the user.
func (t *TemplateNarrator) Explain(_ context.Context, o outfit.Outfit, s Subject) string {
	metrics.RecordNarration(SourceTemplate)
	primary := "neutral"
	if len(o.PrimaryColors) > 0 {
		primary = o.PrimaryColors[0]
	}
	return fmt.Sprintf("This %s combination beautifully complements your %s coloring and creates a polished, professional look that's perfect for interviews. The color harmony will enhance your natural features and project confidence.",
		primary, s.Season)
}

// Compliment picks an encouraging line.
func (t *TemplateNarrator) Compliment(_ context.Context, _ outfit.Outfit, _ Subject) string {
	metrics.RecordNarration(SourceTemplate)
	return t.pick(compliments)
}

// FeedbackReply acknowledges a like or dislike.
func (t *TemplateNarrator) FeedbackReply(_ context.Context, liked bool, _ Subject) string {
	metrics.RecordNarration(SourceTemplate)
	if liked {
		return t.pick(likeReplies)
	}
	return t.pick(dislikeReplies)
}

// Closing ends the session with a motivational note.
func (t *TemplateNarrator) Closing(_ context.Context, _ Subject, shown int) string {
	metrics.RecordNarration(SourceTemplate)
	line := t.pick(closings)
	if strings.Contains(line, "%d") {
		return fmt.Sprintf(line, shown)
	}
	return line
}

func (t *TemplateNarrator) pick(lines []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lines[t.rng.Intn(len(lines))]
}

func displayTone(tone string) string {
	return strings.ReplaceAll(tone, "_", " ")
}
