package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	"github.com/notecards-app/notecards-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. If logger is nil, the default logger is used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

const deckColumns = "id, author_id, title, slug, description, published, created_at, updated_at"

// Create implements store.DeckStore.Create. The per-author deck count
// check and the insert run against the same DBTX; run Create inside a
// transaction (WithTx) to make the limit check race-free.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	count, err := s.CountByAuthor(ctx, deck.AuthorID)
	if err != nil {
		return err
	}
	if count >= domain.MaxDecksPerAuthor {
		log.Warn("deck limit reached",
			slog.String("author_id", deck.AuthorID.String()),
			slog.Int("count", count))
		return store.ErrDeckLimitReached
	}

	query := `
		INSERT INTO decks (id, author_id, title, slug, description, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.ExecContext(ctx, query,
		deck.ID,
		deck.AuthorID,
		deck.Title,
		deck.Slug,
		deck.Description,
		deck.Published,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTitleExists
		}
		log.Error("failed to create deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create deck: %w", mapError(err))
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`
	return s.scanDeck(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetOwned implements store.DeckStore.GetOwned. A deck owned by someone
// else is indistinguishable from a missing deck.
func (s *PostgresDeckStore) GetOwned(ctx context.Context, id, authorID uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1 AND author_id = $2`
	return s.scanDeck(ctx, s.db.QueryRowContext(ctx, query, id, authorID))
}

// Update implements store.DeckStore.Update.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE decks
		SET title = $1, slug = $2, description = $3, published = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		deck.Title,
		deck.Slug,
		deck.Description,
		deck.Published,
		deck.UpdatedAt,
		deck.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTitleExists
		}
		log.Error("failed to update deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update deck: %w", mapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrDeckNotFound
	}

	return nil
}

// Delete implements store.DeckStore.Delete. Cards go with the deck via
// the schema's ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	query := `DELETE FROM decks WHERE id = $1 AND author_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", mapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrDeckNotFound
	}

	return nil
}

// ListPublished implements store.DeckStore.ListPublished.
func (s *PostgresDeckStore) ListPublished(ctx context.Context, page, pageSize int) ([]*domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE published = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return s.queryDecks(ctx, query, pageSize, pageOffset(page, pageSize))
}

// ListByAuthor implements store.DeckStore.ListByAuthor.
func (s *PostgresDeckStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	publishedOnly bool,
	page, pageSize int,
) ([]*domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE author_id = $1 AND (published = TRUE OR $2 = FALSE)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	return s.queryDecks(ctx, query, authorID, publishedOnly, pageSize, pageOffset(page, pageSize))
}

// CountByAuthor implements store.DeckStore.CountByAuthor.
func (s *PostgresDeckStore) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM decks WHERE author_id = $1`
	if err := s.db.QueryRowContext(ctx, query, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", mapError(err))
	}
	return count, nil
}

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// pageOffset converts a 1-based page number to a row offset.
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func (s *PostgresDeckStore) scanDeck(ctx context.Context, row *sql.Row) (*domain.Deck, error) {
	var deck domain.Deck
	err := row.Scan(
		&deck.ID,
		&deck.AuthorID,
		&deck.Title,
		&deck.Slug,
		&deck.Description,
		&deck.Published,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", mapError(err))
	}
	return &deck, nil
}

func (s *PostgresDeckStore) queryDecks(ctx context.Context, query string, args ...any) ([]*domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.AuthorID,
			&deck.Title,
			&deck.Slug,
			&deck.Description,
			&deck.Published,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}
