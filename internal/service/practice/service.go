// Package practice provides the store-facing orchestration for the
// card-selection and answer-scoring engine: it resolves deck ownership,
// loads the cards involved, runs the engine, and persists the resulting
// score changes.
package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notecards-app/notecards-api/internal/domain"
	enginepkg "github.com/notecards-app/notecards-api/internal/domain/practice"
)

// Answer represents a user's submitted answer for a presented card.
type Answer struct {
	CardID uuid.UUID `json:"card_id"`
	Answer string    `json:"answer"`
}

// AnswerResult is the outcome of grading a submitted answer. Answer
// carries the back text of the card that was presented, so the client
// can show the expected answer alongside the verdict.
type AnswerResult struct {
	Answer string           `json:"answer"`
	Result enginepkg.Result `json:"result"`
}

// PracticeService exposes the practice operations for a deck's owner.
type PracticeService interface {
	// GetPracticeCard returns a card from the deck using score-weighted
	// random selection.
	//
	// Returns:
	//   - (card, nil) on success
	//   - (nil, ErrDeckNotFound) if the deck does not exist or is not
	//     owned by userID
	//   - (nil, ErrNoCards) if the deck has no cards
	GetPracticeCard(ctx context.Context, userID, deckID uuid.UUID) (*domain.Card, error)

	// GetWeakCard returns a card from the deck picked uniformly among
	// the cards at or below the weak-score threshold.
	//
	// Returns:
	//   - (card, nil) on success
	//   - (nil, ErrDeckNotFound) if the deck does not exist or is not
	//     owned by userID
	//   - (nil, ErrNoCards) if the deck has no cards
	//   - (nil, ErrNoWeakCards) if no card is weak enough to drill
	GetWeakCard(ctx context.Context, userID, deckID uuid.UUID) (*domain.Card, error)

	// SubmitAnswer grades the submitted answer against the presented
	// card's front-sharing set and persists the resulting score changes
	// in one transaction.
	//
	// Returns:
	//   - (result, nil) on success, correct or wrong
	//   - (nil, ErrDeckNotFound) if the deck does not exist or is not
	//     owned by userID
	//   - (nil, ErrCardNotFound) if the presented card does not exist or
	//     belongs to a different deck
	SubmitAnswer(ctx context.Context, userID, deckID uuid.UUID, answer Answer) (*AnswerResult, error)
}

// Common error types for PracticeService. Empty-selection conditions
// reuse the engine's sentinels so callers can errors.Is against either
// package.
var (
	// ErrDeckNotFound indicates the deck does not exist or is not owned
	// by the requesting user. The two cases are deliberately
	// indistinguishable.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the presented card does not exist in the
	// deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrNoCards indicates the deck has no cards to practice.
	ErrNoCards = enginepkg.ErrNoCards

	// ErrNoWeakCards indicates no card in the deck is weak enough to
	// drill.
	ErrNoWeakCards = enginepkg.ErrNoWeakCards
)

// ServiceError wraps errors from the practice service with additional
// context. Consumers differentiate failure modes with errors.As instead
// of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_practice_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
