// Package generation provides the interface for suggesting flashcards
// with an external LLM service. It abstracts the details of the LLM API
// integration (Gemini), so the rest of the application depends only on
// the Generator boundary.
package generation

import "context"

// CardSuggestion is a proposed front/back pair for a deck. Suggestions
// are returned to the caller for review, never persisted directly.
type CardSuggestion struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for suggesting flashcards for a topic.
type Generator interface {
	// SuggestCards proposes up to count flashcards for the given topic.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - topic: Free-form description of what the deck covers
	//   - count: Maximum number of suggestions to produce
	//
	// Returns:
	//   - The suggested cards
	//   - An error if generation fails (see errors.go for specific types)
	SuggestCards(ctx context.Context, topic string, count int) ([]CardSuggestion, error)
}
