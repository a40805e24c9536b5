// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/notecards-app/notecards-api/internal/config"
	"github.com/notecards-app/notecards-api/internal/generation"
)

const (
	// maxRetries is the number of additional attempts after a transient failure.
	maxRetries = 3

	// baseRetryDelay is the backoff unit; attempt n waits roughly baseRetryDelay * 2^n.
	baseRetryDelay = 2 * time.Second
)

// promptTemplateText instructs the model to answer with a strict JSON
// object so the response can be unmarshalled directly.
const promptTemplateText = `You are helping an author of a flashcard deck.
Suggest up to {{.Count}} flashcards for the topic below. Each flashcard has a
short "front" (a question or prompt) and a "back" (the answer).

Topic: {{.Topic}}

Respond with JSON only, in exactly this shape:
{"cards": [{"front": "...", "back": "..."}]}`

// promptData represents the data passed to the prompt template
type promptData struct {
	Topic string
	Count int
}

// responseSchema represents the expected structure of the Gemini response
type responseSchema struct {
	Cards []cardSchema `json:"cards"`
}

// cardSchema represents a single suggested flashcard in the API response
type cardSchema struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Verify interface compliance at compile time
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator from the suggestion
// configuration. It fails with generation.ErrInvalidConfig when the API
// key or model name is missing.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.SuggestConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("suggest").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// SuggestCards implements generation.Generator.SuggestCards.
func (g *GeminiGenerator) SuggestCards(
	ctx context.Context,
	topic string,
	count int,
) ([]generation.CardSuggestion, error) {
	prompt, err := g.createPrompt(ctx, topic, count)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, count)
}

// createPrompt renders the prompt template for the given topic.
func (g *GeminiGenerator) createPrompt(ctx context.Context, topic string, count int) (string, error) {
	if topic == "" {
		return "", generation.ErrEmptyTopic
	}
	if count < 1 {
		count = 1
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"topic_length", len(topic),
		"prompt_length", promptBuffer.Len())
	return promptBuffer.String(), nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff for
// transient errors. Permanent errors (blocked content, malformed
// responses) are returned immediately.
func (g *GeminiGenerator) callGeminiWithRetry(
	ctx context.Context,
	prompt string,
) (*responseSchema, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, err := g.callGemini(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseRetryDelay) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitterFactor)

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single API call and parses the JSON payload.
func (g *GeminiGenerator) callGemini(ctx context.Context, prompt string) (*responseSchema, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		// API-level failures are treated as transient and retried.
		return nil, fmt.Errorf("gemini API call error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: blocked by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// parseResponse converts the response into suggestions, dropping
// incomplete entries and truncating to count.
func (g *GeminiGenerator) parseResponse(
	ctx context.Context,
	response *responseSchema,
	count int,
) ([]generation.CardSuggestion, error) {
	if response == nil || len(response.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	suggestions := make([]generation.CardSuggestion, 0, len(response.Cards))
	for _, card := range response.Cards {
		if card.Front == "" || card.Back == "" {
			continue
		}
		suggestions = append(suggestions, generation.CardSuggestion{
			Front: card.Front,
			Back:  card.Back,
		})
		if count > 0 && len(suggestions) == count {
			break
		}
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: no usable cards in response", generation.ErrInvalidResponse)
	}

	g.logger.DebugContext(ctx, "suggestions parsed",
		"returned", len(suggestions),
		"raw", len(response.Cards))
	return suggestions, nil
}
