package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/notecards-app/notecards-api/internal/api/shared"
	"github.com/notecards-app/notecards-api/internal/generation"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
)

// defaultSuggestionCount is used when the request does not ask for a
// specific number of cards.
const defaultSuggestionCount = 10

// SuggestHandler handles card suggestion HTTP requests.
type SuggestHandler struct {
	deckService deckservice.DeckService
	generator   generation.Generator
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(
	deckService deckservice.DeckService,
	generator generation.Generator,
	logger *slog.Logger,
) *SuggestHandler {
	if deckService == nil {
		panic("deckService cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestHandler{
		deckService: deckService,
		generator:   generator,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "suggest_handler")),
	}
}

// SuggestCards handles POST /decks/{deckID}/suggest requests. The deck
// must be owned by the caller; suggestions are returned for review, not
// persisted.
func (h *SuggestHandler) SuggestCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req SuggestRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	if req.Count == 0 {
		req.Count = defaultSuggestionCount
	}

	// Ownership gate before spending an LLM call. A published deck
	// someone else owns is treated like a missing one.
	detail, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}
	if detail.Deck.AuthorID != userID {
		HandleAPIError(w, r, deckservice.ErrDeckNotFound, "")
		return
	}

	suggestions, err := h.generator.SuggestCards(r.Context(), req.Topic, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest cards")
		return
	}

	log.Debug("cards suggested via API",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(suggestions)))
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestResponse{Suggestions: suggestions})
}
