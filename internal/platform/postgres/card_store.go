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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. If logger is nil, the default logger is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = "id, deck_id, front, back, score, created_at, updated_at"

const insertCardQuery = `
	INSERT INTO cards (id, deck_id, front, back, score, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Create implements store.CardStore.Create.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertCardQuery,
		card.ID,
		card.DeckID,
		card.Front,
		card.Back,
		card.Score,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("deck_id", card.DeckID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create card: %w", mapError(err))
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple. Use WithTx
// under store.RunInTransaction so a mid-batch failure rolls back the
// whole batch.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	stmt, err := s.db.PrepareContext(ctx, insertCardQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", mapError(err))
	}
	defer func() { _ = stmt.Close() }()

	for _, card := range cards {
		if _, err := stmt.ExecContext(ctx,
			card.ID,
			card.DeckID,
			card.Front,
			card.Back,
			card.Score,
			card.CreatedAt,
			card.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create card %s: %w", card.ID, mapError(err))
		}
	}

	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Score,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", mapError(err))
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1`
	return s.queryCards(ctx, query, deckID)
}

// ListByFront implements store.CardStore.ListByFront.
func (s *PostgresCardStore) ListByFront(ctx context.Context, deckID uuid.UUID, front string) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 AND front = $2`
	return s.queryCards(ctx, query, deckID, front)
}

// UpdateContent implements store.CardStore.UpdateContent. The score
// column is deliberately absent from the SET list.
func (s *PostgresCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	query := `
		UPDATE cards
		SET front = $1, back = $2, updated_at = NOW()
		WHERE id = $3
	`
	return s.execExpectingRow(ctx, "update card content", query, front, back, id)
}

// UpdateScore implements store.CardStore.UpdateScore. The new score is
// absolute, so concurrent submissions resolve to a single well-defined
// value rather than compounding read-modify-write races.
func (s *PostgresCardStore) UpdateScore(ctx context.Context, id uuid.UUID, score int) error {
	query := `
		UPDATE cards
		SET score = $1, updated_at = NOW()
		WHERE id = $2
	`
	return s.execExpectingRow(ctx, "update card score", query, score, id)
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM cards WHERE id = $1`
	return s.execExpectingRow(ctx, "delete card", query, id)
}

// CountByDeck implements store.CardStore.CountByDeck.
func (s *PostgresCardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM cards WHERE deck_id = $1`
	if err := s.db.QueryRowContext(ctx, query, deckID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", mapError(err))
	}
	return count, nil
}

// MinMaxScore implements store.CardStore.MinMaxScore.
func (s *PostgresCardStore) MinMaxScore(ctx context.Context, deckID uuid.UUID) (int, int, error) {
	var minScore, maxScore sql.NullInt64
	query := `SELECT MIN(score), MAX(score) FROM cards WHERE deck_id = $1`
	if err := s.db.QueryRowContext(ctx, query, deckID).Scan(&minScore, &maxScore); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate scores: %w", mapError(err))
	}

	// Aggregates over zero rows come back NULL, not as an error.
	if !minScore.Valid || !maxScore.Valid {
		return 0, 0, store.ErrDeckEmpty
	}

	return int(minScore.Int64), int(maxScore.Int64), nil
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.Score,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// execExpectingRow runs an exec that must affect at least one row,
// mapping the zero-row case to ErrCardNotFound.
func (s *PostgresCardStore) execExpectingRow(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, mapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrCardNotFound
	}

	return nil
}
