package practice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/notecards-app/notecards-api/internal/domain"
	enginepkg "github.com/notecards-app/notecards-api/internal/domain/practice"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	"github.com/notecards-app/notecards-api/internal/store"
)

// Verify interface compliance at compile time
var _ PracticeService = (*practiceServiceImpl)(nil)

// txRunner executes fn within a transaction. Injectable so unit tests
// can run the function without a database.
type txRunner func(ctx context.Context, fn store.TxFn) error

// practiceServiceImpl implements the PracticeService interface.
type practiceServiceImpl struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	engine    enginepkg.Service
	runInTx   txRunner
	logger    *slog.Logger
}

// NewPracticeService creates a new PracticeService implementation backed
// by the given database handle.
func NewPracticeService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	engine enginepkg.Service,
	logger *slog.Logger,
) PracticeService {
	if db == nil {
		panic("db cannot be nil")
	}
	return newPracticeService(
		func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		deckStore, cardStore, engine, logger,
	)
}

func newPracticeService(
	runInTx txRunner,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	engine enginepkg.Service,
	logger *slog.Logger,
) *practiceServiceImpl {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &practiceServiceImpl{
		deckStore: deckStore,
		cardStore: cardStore,
		engine:    engine,
		runInTx:   runInTx,
		logger:    logger.With(slog.String("component", "practice_service")),
	}
}

// loadOwnedDeckCards verifies ownership and returns the deck's cards.
func (s *practiceServiceImpl) loadOwnedDeckCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	if _, err := s.deckStore.GetOwned(ctx, deckID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck cards: %w", err)
	}
	return cards, nil
}

// GetPracticeCard implements PracticeService.GetPracticeCard.
func (s *practiceServiceImpl) GetPracticeCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("selecting practice card",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()))

	cards, err := s.loadOwnedDeckCards(ctx, userID, deckID)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			log.Debug("deck not found for practice",
				slog.String("user_id", userID.String()),
				slog.String("deck_id", deckID.String()))
			return nil, err
		}
		log.Error("failed to load deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "get_practice_card", Message: "failed to load deck cards", Err: err}
	}

	card, err := s.engine.SelectCard(cards)
	if err != nil {
		log.Debug("no practice card available",
			slog.String("deck_id", deckID.String()),
			slog.String("reason", err.Error()))
		return nil, err
	}

	log.Debug("selected practice card",
		slog.String("deck_id", deckID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("score", card.Score))
	return card, nil
}

// GetWeakCard implements PracticeService.GetWeakCard.
func (s *practiceServiceImpl) GetWeakCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("selecting weak card",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()))

	cards, err := s.loadOwnedDeckCards(ctx, userID, deckID)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		log.Error("failed to load deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "get_weak_card", Message: "failed to load deck cards", Err: err}
	}

	card, err := s.engine.SelectWeakCard(cards)
	if err != nil {
		log.Debug("no weak card available",
			slog.String("deck_id", deckID.String()),
			slog.String("reason", err.Error()))
		return nil, err
	}

	log.Debug("selected weak card",
		slog.String("deck_id", deckID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("score", card.Score))
	return card, nil
}

// SubmitAnswer implements PracticeService.SubmitAnswer.
// Grading and the resulting score writes happen in one transaction so
// concurrent submissions against the same front-sharing set cannot leave
// the set half-updated.
func (s *practiceServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, deckID uuid.UUID,
	answer Answer,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing answer",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.String("card_id", answer.CardID.String()))

	var result *AnswerResult
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		deckStore := s.deckStore.WithTx(tx)
		cardStore := s.cardStore.WithTx(tx)

		if _, err := deckStore.GetOwned(ctx, deckID, userID); err != nil {
			if store.IsNotFoundError(err) {
				return ErrDeckNotFound
			}
			return fmt.Errorf("failed to get deck: %w", err)
		}

		presented, err := cardStore.GetByID(ctx, answer.CardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		// A card id from another deck must look exactly like a missing one.
		if presented.DeckID != deckID {
			return ErrCardNotFound
		}

		frontSet, err := cardStore.ListByFront(ctx, deckID, presented.Front)
		if err != nil {
			return fmt.Errorf("failed to list front-sharing cards: %w", err)
		}

		verdict, changes := s.engine.GradeAnswer(frontSet, answer.Answer)
		for _, change := range changes {
			if err := cardStore.UpdateScore(ctx, change.CardID, change.NewScore); err != nil {
				return fmt.Errorf("failed to update card score: %w", err)
			}
		}

		result = &AnswerResult{Answer: presented.Back, Result: verdict}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrDeckNotFound) || errors.Is(err, ErrCardNotFound) {
			log.Debug("answer rejected",
				slog.String("deck_id", deckID.String()),
				slog.String("card_id", answer.CardID.String()),
				slog.String("reason", err.Error()))
			return nil, err
		}

		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.String("card_id", answer.CardID.String()))
		return nil, &ServiceError{Operation: "submit_answer", Message: "failed to process answer", Err: err}
	}

	log.Debug("answer processed",
		slog.String("deck_id", deckID.String()),
		slog.String("card_id", answer.CardID.String()),
		slog.String("result", string(result.Result)))
	return result, nil
}
