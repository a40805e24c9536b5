package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/notecards-app/notecards-api/internal/api/shared"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	practiceservice "github.com/notecards-app/notecards-api/internal/service/practice"
)

// PracticeHandler handles practice session HTTP requests.
type PracticeHandler struct {
	practiceService practiceservice.PracticeService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(
	practiceService practiceservice.PracticeService,
	logger *slog.Logger,
) *PracticeHandler {
	if practiceService == nil {
		panic("practiceService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PracticeHandler{
		practiceService: practiceService,
		validator:       validator.New(),
		logger:          logger.With(slog.String("component", "practice_handler")),
	}
}

// GetPracticeCard handles GET /decks/{deckID}/practice requests. It
// returns a card picked by score-weighted random selection, or 204 when
// the deck has no cards.
func (h *PracticeHandler) GetPracticeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	card, err := h.practiceService.GetPracticeCard(r.Context(), userID, deckID)
	if errors.Is(err, practiceservice.ErrNoCards) {
		log.Debug("no cards to practice", slog.String("deck_id", deckID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get practice card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// GetWeakCard handles GET /decks/{deckID}/practice/weak requests. It
// returns a card from the weak set, or 204 when nothing is due for
// drilling.
func (h *PracticeHandler) GetWeakCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	card, err := h.practiceService.GetWeakCard(r.Context(), userID, deckID)
	if errors.Is(err, practiceservice.ErrNoCards) || errors.Is(err, practiceservice.ErrNoWeakCards) {
		log.Debug("no weak cards to drill", slog.String("deck_id", deckID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get weak card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitAnswer handles POST /decks/{deckID}/practice/answer requests.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.practiceService.SubmitAnswer(r.Context(), userID, deckID, practiceservice.Answer{
		CardID: req.CardID,
		Answer: req.Answer,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer submitted via API",
		slog.String("deck_id", deckID.String()),
		slog.String("card_id", req.CardID.String()),
		slog.String("result", string(result.Result)))
	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Answer: result.Answer,
		Result: string(result.Result),
	})
}
