package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/pkg/logger"
	"github.com/okian/drape/pkg/metrics"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const generateTimeout = 20 * time.Second

const persona = `You are Style Advisor, a friendly and knowledgeable AI fashion stylist specializing in professional interview attire.
You have expertise in color theory, skin tone analysis, and professional dress codes.
You are warm, encouraging, professional but approachable, and you keep explanations accessible.`

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAINarrator writes greetings and explanations with Gemini. Every
// failure or empty answer is served by the fallback narrator.
type GenAINarrator struct {
	models   generator
	model    string
	fallback *TemplateNarrator
	logger   logger.Logger
}

// NewGenAINarrator connects to the Gemini API with apiKey.
func NewGenAINarrator(ctx context.Context, apiKey, model string, fallback *TemplateNarrator) (*GenAINarrator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGenAINarrator(client.Models, model, fallback), nil
}

func newGenAINarrator(g generator, model string, fallback *TemplateNarrator) *GenAINarrator {
	if model == "" {
		model = DefaultModel
	}
	if fallback == nil {
		fallback = NewTemplateNarrator()
	}
	return &GenAINarrator{
		models:   g,
		model:    model,
		fallback: fallback,
		logger:   logger.Get().Named("narrator"),
	}
}

// Greeting welcomes the user with their analysis result.
func (n *GenAINarrator) Greeting(ctx context.Context, s Subject) string {
	prompt := fmt.Sprintf(`%s

Generate a warm, welcoming greeting for a %s user who has just uploaded their photo for skin tone analysis.
Their skin tone is %s and their season is %s.
Welcome them, briefly mention the result, and set expectations for the outfit recommendations.
Keep it conversational and under 100 words.`, persona, strings.ToLower(s.Gender), displayTone(s.SkinTone), s.Season)

	if text, ok := n.generate(ctx, "greeting", prompt); ok {
		return text
	}
	return n.fallback.Greeting(ctx, s)
}

// Explain says why the outfit suits the user.
func (n *GenAINarrator) Explain(ctx context.Context, o outfit.Outfit, s Subject) string {
	pieces := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		pieces = append(pieces, fmt.Sprintf("%s %s from %s", it.Color, strings.ToLower(it.Category), it.Brand))
	}
	prompt := fmt.Sprintf(`%s

Explain why this outfit works for a %s with %s skin tone (%s season):
Outfit: %s
Total price: $%.2f
Reference how the colors complement their skin tone and why it suits an interview.
Keep it to 2-3 sentences.`, persona, strings.ToLower(s.Gender), displayTone(s.SkinTone), s.Season,
		strings.Join(pieces, ", "), o.TotalPrice)

	if text, ok := n.generate(ctx, "explanation", prompt); ok {
		return text
	}
	return n.fallback.Explain(ctx, o, s)
}

// Compliment picks an encouraging line.
func (n *GenAINarrator) Compliment(ctx context.Context, o outfit.Outfit, s Subject) string {
	return n.fallback.Compliment(ctx, o, s)
}

// FeedbackReply acknowledges a like or dislike.
func (n *GenAINarrator) FeedbackReply(ctx context.Context, liked bool, s Subject) string {
	return n.fallback.FeedbackReply(ctx, liked, s)
}

// Closing ends the session with a motivational note.
func (n *GenAINarrator) Closing(ctx context.Context, s Subject, shown int) string {
	return n.fallback.Closing(ctx, s, shown)
}

func (n *GenAINarrator) generate(ctx context.Context, kind, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := n.models.GenerateContent(ctx, n.model, genai.Text(prompt), nil)
	if err != nil {
		n.logger.Warn(ctx, "generation failed, using template",
			logger.String("kind", kind),
			logger.Error(err),
		)
		return "", false
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		n.logger.Warn(ctx, "empty generation, using template", logger.String("kind", kind))
		return "", false
	}
	metrics.RecordNarration(SourceGenAI)
	return text, true
}
