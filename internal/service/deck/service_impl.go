package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	"github.com/notecards-app/notecards-api/internal/store"
)

// Verify interface compliance at compile time
var _ DeckService = (*deckServiceImpl)(nil)

// txRunner executes fn within a transaction. Injectable so unit tests
// can run the function without a database.
type txRunner func(ctx context.Context, fn store.TxFn) error

// deckServiceImpl implements the DeckService interface.
type deckServiceImpl struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	runInTx   txRunner
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService implementation backed by the
// given database handle.
func NewDeckService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	logger *slog.Logger,
) DeckService {
	if db == nil {
		panic("db cannot be nil")
	}
	return newDeckService(
		func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		deckStore, cardStore, logger,
	)
}

func newDeckService(
	runInTx txRunner,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	logger *slog.Logger,
) *deckServiceImpl {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deckStore: deckStore,
		cardStore: cardStore,
		runInTx:   runInTx,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
}

// mapDeckStoreError translates store sentinels into service sentinels.
func mapDeckStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrDeckLimitReached):
		return ErrDeckLimitReached
	case errors.Is(err, store.ErrTitleExists):
		return ErrDuplicateTitle
	case store.IsNotFoundError(err):
		return ErrDeckNotFound
	default:
		return err
	}
}

// getVisibleDeck fetches a deck and applies the visibility rule: an
// unpublished deck is only visible to its author.
func (s *deckServiceImpl) getVisibleDeck(
	ctx context.Context,
	deckStore store.DeckStore,
	requesterID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := deckStore.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	if !deck.Published && deck.AuthorID != requesterID {
		return nil, ErrDeckNotFound
	}
	return deck, nil
}

// CreateDeck implements DeckService.CreateDeck.
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	authorID uuid.UUID,
	input CreateDeckInput,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(authorID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	deck.Published = input.Published

	// The limit check and the insert share one transaction so two
	// concurrent creates cannot both pass the count.
	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.deckStore.WithTx(tx).Create(ctx, deck)
	})
	if err != nil {
		mapped := mapDeckStoreError(err)
		if errors.Is(mapped, ErrDeckLimitReached) || errors.Is(mapped, ErrDuplicateTitle) {
			log.Debug("deck creation rejected",
				slog.String("author_id", authorID.String()),
				slog.String("reason", mapped.Error()))
			return nil, mapped
		}
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("author_id", authorID.String()))
		return nil, &ServiceError{Operation: "create_deck", Message: "failed to create deck", Err: err}
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("author_id", authorID.String()))
	return deck, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckServiceImpl) GetDeck(
	ctx context.Context,
	requesterID, deckID uuid.UUID,
) (*DeckDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.getVisibleDeck(ctx, s.deckStore, requesterID, deckID)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		log.Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "get_deck", Message: "failed to get deck", Err: err}
	}

	count, err := s.cardStore.CountByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to count deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "get_deck", Message: "failed to count cards", Err: err}
	}

	detail := &DeckDetail{Deck: deck, CardCount: count}
	if count > 0 {
		minScore, maxScore, err := s.cardStore.MinMaxScore(ctx, deckID)
		if err != nil && !errors.Is(err, store.ErrDeckEmpty) {
			log.Error("failed to aggregate deck scores",
				slog.String("error", err.Error()),
				slog.String("deck_id", deckID.String()))
			return nil, &ServiceError{Operation: "get_deck", Message: "failed to aggregate scores", Err: err}
		}
		if err == nil {
			detail.MinScore = &minScore
			detail.MaxScore = &maxScore
		}
	}
	return detail, nil
}

// UpdateDeck implements DeckService.UpdateDeck.
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	authorID, deckID uuid.UUID,
	input UpdateDeckInput,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetOwned(ctx, deckID, authorID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		log.Error("failed to get deck for update",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "update_deck", Message: "failed to get deck", Err: err}
	}

	if err := deck.UpdateDetails(input.Title, input.Description, input.Published); err != nil {
		return nil, err
	}

	if err := s.deckStore.Update(ctx, deck); err != nil {
		mapped := mapDeckStoreError(err)
		if errors.Is(mapped, ErrDuplicateTitle) || errors.Is(mapped, ErrDeckNotFound) {
			return nil, mapped
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "update_deck", Message: "failed to update deck", Err: err}
	}

	log.Info("deck updated", slog.String("deck_id", deckID.String()))
	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck.
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, authorID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.deckStore.Delete(ctx, deckID, authorID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrDeckNotFound
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return &ServiceError{Operation: "delete_deck", Message: "failed to delete deck", Err: err}
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("author_id", authorID.String()))
	return nil
}

// CloneDeck implements DeckService.CloneDeck.
// The copy and its cards are created in one transaction so a failed
// clone leaves nothing behind.
func (s *deckServiceImpl) CloneDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	source, err := s.getVisibleDeck(ctx, s.deckStore, userID, deckID)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		log.Error("failed to get deck for clone",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "clone_deck", Message: "failed to get deck", Err: err}
	}
	if source.AuthorID == userID {
		return nil, ErrCloneOwnDeck
	}

	clone, err := domain.NewDeck(userID, source.Title, source.Description)
	if err != nil {
		return nil, err
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		deckStore := s.deckStore.WithTx(tx)
		cardStore := s.cardStore.WithTx(tx)

		if err := deckStore.Create(ctx, clone); err != nil {
			return err
		}

		sourceCards, err := cardStore.ListByDeck(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to list source cards: %w", err)
		}
		if len(sourceCards) == 0 {
			return nil
		}

		copies := make([]*domain.Card, 0, len(sourceCards))
		for _, c := range sourceCards {
			copied, err := domain.NewCard(clone.ID, c.Front, c.Back)
			if err != nil {
				return fmt.Errorf("failed to copy card: %w", err)
			}
			copies = append(copies, copied)
		}
		return cardStore.CreateMultiple(ctx, copies)
	})
	if err != nil {
		mapped := mapDeckStoreError(err)
		if errors.Is(mapped, ErrDeckLimitReached) || errors.Is(mapped, ErrDuplicateTitle) {
			log.Debug("clone rejected",
				slog.String("deck_id", deckID.String()),
				slog.String("user_id", userID.String()),
				slog.String("reason", mapped.Error()))
			return nil, mapped
		}
		log.Error("failed to clone deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "clone_deck", Message: "failed to clone deck", Err: err}
	}

	log.Info("deck cloned",
		slog.String("source_deck_id", deckID.String()),
		slog.String("clone_deck_id", clone.ID.String()),
		slog.String("user_id", userID.String()))
	return clone, nil
}

// ListPublished implements DeckService.ListPublished.
func (s *deckServiceImpl) ListPublished(ctx context.Context, page int) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}
	decks, err := s.deckStore.ListPublished(ctx, page, DefaultPageSize)
	if err != nil {
		log.Error("failed to list published decks",
			slog.String("error", err.Error()),
			slog.Int("page", page))
		return nil, &ServiceError{Operation: "list_published", Message: "failed to list decks", Err: err}
	}
	return decks, nil
}

// ListUserDecks implements DeckService.ListUserDecks.
func (s *deckServiceImpl) ListUserDecks(
	ctx context.Context,
	requesterID, authorID uuid.UUID,
	page int,
) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}
	publishedOnly := requesterID != authorID
	decks, err := s.deckStore.ListByAuthor(ctx, authorID, publishedOnly, page, DefaultPageSize)
	if err != nil {
		log.Error("failed to list author decks",
			slog.String("error", err.Error()),
			slog.String("author_id", authorID.String()))
		return nil, &ServiceError{Operation: "list_user_decks", Message: "failed to list decks", Err: err}
	}
	return decks, nil
}

// ListCards implements DeckService.ListCards.
func (s *deckServiceImpl) ListCards(
	ctx context.Context,
	requesterID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getVisibleDeck(ctx, s.deckStore, requesterID, deckID); err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "list_cards", Message: "failed to get deck", Err: err}
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "list_cards", Message: "failed to list cards", Err: err}
	}
	return cards, nil
}

// AddCard implements DeckService.AddCard.
func (s *deckServiceImpl) AddCard(
	ctx context.Context,
	authorID, deckID uuid.UUID,
	input CardInput,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.deckStore.GetOwned(ctx, deckID, authorID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, &ServiceError{Operation: "add_card", Message: "failed to get deck", Err: err}
	}

	card, err := domain.NewCard(deckID, input.Front, input.Back)
	if err != nil {
		return nil, err
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "add_card", Message: "failed to create card", Err: err}
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// getOwnedCard fetches a card and verifies the requester owns its deck.
// Both a missing card and someone else's card map to ErrCardNotFound.
func (s *deckServiceImpl) getOwnedCard(
	ctx context.Context,
	authorID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if _, err := s.deckStore.GetOwned(ctx, card.DeckID, authorID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return card, nil
}

// UpdateCard implements DeckService.UpdateCard.
func (s *deckServiceImpl) UpdateCard(
	ctx context.Context,
	authorID, cardID uuid.UUID,
	input CardInput,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.getOwnedCard(ctx, authorID, cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "update_card", Message: "failed to get card", Err: err}
	}

	if err := card.UpdateContent(input.Front, input.Back); err != nil {
		return nil, err
	}

	if err := s.cardStore.UpdateContent(ctx, cardID, card.Front, card.Back); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{Operation: "update_card", Message: "failed to update card", Err: err}
	}

	log.Info("card updated", slog.String("card_id", cardID.String()))
	return card, nil
}

// DeleteCard implements DeckService.DeleteCard.
func (s *deckServiceImpl) DeleteCard(ctx context.Context, authorID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedCard(ctx, authorID, cardID); err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return err
		}
		return &ServiceError{Operation: "delete_card", Message: "failed to get card", Err: err}
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return &ServiceError{Operation: "delete_card", Message: "failed to delete card", Err: err}
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}
