package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/notecards-app/notecards-api/internal/api/shared"
	"github.com/notecards-app/notecards-api/internal/platform/logger"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
)

// DeckHandler handles deck-related HTTP requests.
type DeckHandler struct {
	deckService deckservice.DeckService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService deckservice.DeckService, logger *slog.Logger) *DeckHandler {
	if deckService == nil {
		panic("deckService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		deckService: deckService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), userID, deckservice.CreateDeckInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	log.Debug("deck created via API", slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// GetDeck handles GET /decks/{deckID} requests. Anonymous requests see
// published decks only.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	requesterID := optionalUserIDFromContext(r)
	detail, err := h.deckService.GetDeck(r.Context(), requesterID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckDetailToResponse(detail))
}

// UpdateDeck handles PUT /decks/{deckID} requests.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), userID, deckID, deckservice.UpdateDeckInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{deckID} requests.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloneDeck handles POST /decks/{deckID}/clone requests.
func (h *DeckHandler) CloneDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	clone, err := h.deckService.CloneDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to clone deck")
		return
	}

	log.Debug("deck cloned via API",
		slog.String("source_deck_id", deckID.String()),
		slog.String("clone_deck_id", clone.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(clone))
}

// ListPublishedDecks handles GET /decks requests.
func (h *DeckHandler) ListPublishedDecks(w http.ResponseWriter, r *http.Request) {
	page := getPageParam(r)

	decks, err := h.deckService.ListPublished(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decksToListResponse(decks, page))
}

// ListUserDecks handles GET /users/{userID}/decks requests. Requesters
// other than the author see published decks only.
func (h *DeckHandler) ListUserDecks(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	requesterID := optionalUserIDFromContext(r)
	page := getPageParam(r)

	decks, err := h.deckService.ListUserDecks(r.Context(), requesterID, authorID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decksToListResponse(decks, page))
}

// ListDeckCards handles GET /decks/{deckID}/cards requests.
func (h *DeckHandler) ListDeckCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	requesterID := optionalUserIDFromContext(r)
	cards, err := h.deckService.ListCards(r.Context(), requesterID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToListResponse(cards))
}
