// Package deck provides deck and card management: creation under the
// per-author limit, editing, cloning, listing with pagination, and the
// deck detail view with score aggregates.
package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notecards-app/notecards-api/internal/domain"
)

// DefaultPageSize is the number of decks returned per listing page.
const DefaultPageSize = 50

// CreateDeckInput carries the caller-supplied fields for a new deck.
type CreateDeckInput struct {
	Title       string
	Description string
	Published   bool
}

// UpdateDeckInput carries the caller-supplied fields for a deck edit.
type UpdateDeckInput struct {
	Title       string
	Description string
	Published   bool
}

// CardInput carries the caller-supplied fields for a new or edited card.
type CardInput struct {
	Front string
	Back  string
}

// DeckDetail is a deck together with aggregate card statistics.
// MinScore and MaxScore are nil when the deck has no cards.
type DeckDetail struct {
	Deck      *domain.Deck
	CardCount int
	MinScore  *int
	MaxScore  *int
}

// DeckService exposes deck and card management operations.
//
// Operations taking a requesterID apply the visibility rule: an
// unpublished deck is only visible to its author, and a deck that is
// not visible is reported exactly like a missing one. requesterID may
// be uuid.Nil for anonymous access.
type DeckService interface {
	// CreateDeck creates a deck for the author. Fails with
	// ErrDeckLimitReached once the author owns the maximum number of
	// decks, and with ErrDuplicateTitle if the author already has a
	// deck with this title.
	CreateDeck(ctx context.Context, authorID uuid.UUID, input CreateDeckInput) (*domain.Deck, error)

	// GetDeck returns a visible deck with its card count and score
	// aggregates.
	GetDeck(ctx context.Context, requesterID, deckID uuid.UUID) (*DeckDetail, error)

	// UpdateDeck edits a deck owned by authorID.
	UpdateDeck(ctx context.Context, authorID, deckID uuid.UUID, input UpdateDeckInput) (*domain.Deck, error)

	// DeleteDeck removes a deck owned by authorID together with its
	// cards.
	DeleteDeck(ctx context.Context, authorID, deckID uuid.UUID) error

	// CloneDeck copies another author's visible deck, cards included,
	// into a new unpublished deck owned by userID. Copied cards start
	// at score zero. Cloning your own deck fails with ErrCloneOwnDeck.
	CloneDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListPublished returns published decks, newest first, in 1-based
	// pages of DefaultPageSize.
	ListPublished(ctx context.Context, page int) ([]*domain.Deck, error)

	// ListUserDecks returns an author's decks. Requesters other than
	// the author see published decks only.
	ListUserDecks(ctx context.Context, requesterID, authorID uuid.UUID, page int) ([]*domain.Deck, error)

	// ListCards returns all cards of a visible deck.
	ListCards(ctx context.Context, requesterID, deckID uuid.UUID) ([]*domain.Card, error)

	// AddCard creates a card in a deck owned by authorID. New cards
	// start at score zero.
	AddCard(ctx context.Context, authorID, deckID uuid.UUID, input CardInput) (*domain.Card, error)

	// UpdateCard edits the front and back of a card whose deck is owned
	// by authorID. The score is untouched.
	UpdateCard(ctx context.Context, authorID, cardID uuid.UUID, input CardInput) (*domain.Card, error)

	// DeleteCard removes a card whose deck is owned by authorID.
	DeleteCard(ctx context.Context, authorID, cardID uuid.UUID) error
}

// Common error types for DeckService
var (
	// ErrDeckNotFound indicates the deck does not exist or is not
	// visible to the requester. The two cases are deliberately
	// indistinguishable.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the card does not exist or its deck is
	// not owned by the requester.
	ErrCardNotFound = errors.New("card not found")

	// ErrDuplicateTitle indicates the author already owns a deck with
	// this title.
	ErrDuplicateTitle = errors.New("a deck with this title already exists")

	// ErrDeckLimitReached indicates the author owns the maximum number
	// of decks.
	ErrDeckLimitReached = errors.New("deck limit reached")

	// ErrCloneOwnDeck indicates an attempt to clone a deck the user
	// already owns.
	ErrCloneOwnDeck = errors.New("cannot clone your own deck")
)

// ServiceError wraps errors from the deck service with additional
// context for errors.As-based handling.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_deck")
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
