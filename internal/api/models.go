package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/generation"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// DeckRequest defines the payload for deck create and update endpoints.
type DeckRequest struct {
	Title       string `json:"title"       validate:"required,max=256"`
	Description string `json:"description" validate:"max=2000"`
	Published   bool   `json:"published"`
}

// DeckResponse represents a deck in API responses.
type DeckResponse struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckDetailResponse is a deck with aggregate card statistics.
type DeckDetailResponse struct {
	DeckResponse
	CardCount int  `json:"card_count"`
	MinScore  *int `json:"min_score,omitempty"`
	MaxScore  *int `json:"max_score,omitempty"`
}

// DeckListResponse is a page of decks.
type DeckListResponse struct {
	Decks []DeckResponse `json:"decks"`
	Page  int            `json:"page"`
}

// CardRequest defines the payload for card create and update endpoints.
type CardRequest struct {
	Front string `json:"front" validate:"required,max=512"`
	Back  string `json:"back"  validate:"required,max=512"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardListResponse is the full card dump of a deck.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
}

// AnswerRequest defines the payload for the answer submission endpoint.
type AnswerRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Answer string    `json:"answer"  validate:"max=512"`
}

// AnswerResponse carries the grading verdict together with the back text
// of the presented card.
type AnswerResponse struct {
	Answer string `json:"answer"`
	Result string `json:"result"`
}

// SuggestRequest defines the payload for the card suggestion endpoint.
type SuggestRequest struct {
	Topic string `json:"topic" validate:"required,max=2000"`
	Count int    `json:"count" validate:"omitempty,min=1,max=20"`
}

// SuggestResponse carries LLM-proposed cards for review by the author.
type SuggestResponse struct {
	Suggestions []generation.CardSuggestion `json:"suggestions"`
}

// deckToResponse converts a domain deck to its API representation.
func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		AuthorID:    deck.AuthorID,
		Title:       deck.Title,
		Slug:        deck.Slug,
		Description: deck.Description,
		Published:   deck.Published,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// decksToListResponse converts a page of decks to its API representation.
func decksToListResponse(decks []*domain.Deck, page int) DeckListResponse {
	out := make([]DeckResponse, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckToResponse(d))
	}
	return DeckListResponse{Decks: out, Page: page}
}

// deckDetailToResponse converts a deck detail to its API representation.
func deckDetailToResponse(detail *deckservice.DeckDetail) DeckDetailResponse {
	return DeckDetailResponse{
		DeckResponse: deckToResponse(detail.Deck),
		CardCount:    detail.CardCount,
		MinScore:     detail.MinScore,
		MaxScore:     detail.MaxScore,
	}
}

// cardToResponse converts a domain card to its API representation.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		DeckID:    card.DeckID,
		Front:     card.Front,
		Back:      card.Back,
		Score:     card.Score,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// cardsToListResponse converts cards to their API representation.
func cardsToListResponse(cards []*domain.Card) CardListResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return CardListResponse{Cards: out}
}
