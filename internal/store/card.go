package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/notecards-app/notecards-api/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create saves a single card.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards. Run it within a transaction
	// (WithTx under RunInTransaction) so a failed clone does not leave a
	// partially copied deck behind.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns all cards in a deck. Order is unspecified.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// ListByFront returns every card in the deck whose front text equals
	// front exactly. Deliberately plural: duplicate fronts are a normal
	// artifact of cloning and the scoring engine updates the whole set.
	ListByFront(ctx context.Context, deckID uuid.UUID, front string) ([]*domain.Card, error)

	// UpdateContent modifies a card's front and back text. The score is
	// not touched. Returns ErrCardNotFound if the card does not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error

	// UpdateScore sets a card's score to an absolute value. Returns
	// ErrCardNotFound if the card does not exist.
	UpdateScore(ctx context.Context, id uuid.UUID, score int) error

	// Delete removes a card. Returns ErrCardNotFound if the card does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByDeck returns the number of cards in a deck.
	CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error)

	// MinMaxScore returns the minimum and maximum card score in a deck.
	// Returns ErrDeckEmpty if the deck has no cards.
	MinMaxScore(ctx context.Context, deckID uuid.UUID) (minScore, maxScore int, err error)

	// WithTx returns a CardStore that runs its operations on the given
	// transaction.
	WithTx(tx *sql.Tx) CardStore
}
