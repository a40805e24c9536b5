package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/notecards-app/notecards-api/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck. It enforces the per-author deck limit
	// and per-author title uniqueness inside one transaction, returning
	// ErrDeckLimitReached or ErrTitleExists respectively.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck regardless of ownership. Intended for
	// public reads of published decks; callers must check Published
	// themselves. Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetOwned retrieves a deck only if it is owned by the given author.
	// A deck that exists but belongs to someone else is reported with
	// the same ErrDeckNotFound as a missing one, so existence cannot be
	// probed across users.
	GetOwned(ctx context.Context, id, authorID uuid.UUID) (*domain.Deck, error)

	// Update persists changes to a deck's mutable fields (title, slug,
	// description, published). Returns ErrDeckNotFound if the deck does
	// not exist and ErrTitleExists on a title collision.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck owned by the given author. Cards are removed
	// by the schema's ON DELETE CASCADE. Returns ErrDeckNotFound if the
	// deck does not exist or is not owned by authorID.
	Delete(ctx context.Context, id, authorID uuid.UUID) error

	// ListPublished returns published decks, newest first, using
	// 1-based pages of pageSize decks.
	ListPublished(ctx context.Context, page, pageSize int) ([]*domain.Deck, error)

	// ListByAuthor returns an author's decks, newest first. When
	// publishedOnly is true, unpublished decks are omitted (the view a
	// non-owner gets).
	ListByAuthor(ctx context.Context, authorID uuid.UUID, publishedOnly bool, page, pageSize int) ([]*domain.Deck, error)

	// CountByAuthor returns the number of decks the author owns.
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)

	// WithTx returns a DeckStore that runs its operations on the given
	// transaction. The transaction is created and managed by the caller,
	// typically via RunInTransaction.
	WithTx(tx *sql.Tx) DeckStore
}
