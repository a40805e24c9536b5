package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/generation"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
)

// mockGenerator is a mock implementation of the Generator interface
type mockGenerator struct {
	suggestCardsFn func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error)
}

func (m *mockGenerator) SuggestCards(
	ctx context.Context,
	topic string,
	count int,
) ([]generation.CardSuggestion, error) {
	return m.suggestCardsFn(ctx, topic, count)
}

func ownedDeckService(deck *domain.Deck) *mockDeckService {
	return &mockDeckService{
		getDeckFn: func(ctx context.Context, requesterID, deckID uuid.UUID) (*deckservice.DeckDetail, error) {
			return &deckservice.DeckDetail{Deck: deck}, nil
		},
	}
}

func TestSuggestCardsHandler(t *testing.T) {
	userID := uuid.New()
	deck := testDeck(userID, "European Capitals", false)

	t.Run("returns suggestions for owned deck", func(t *testing.T) {
		gen := &mockGenerator{
			suggestCardsFn: func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error) {
				assert.Equal(t, "European capitals", topic)
				assert.Equal(t, 5, count)
				return []generation.CardSuggestion{
					{Front: "capital of France", Back: "Paris"},
					{Front: "capital of Spain", Back: "Madrid"},
				}, nil
			},
		}
		handler := NewSuggestHandler(ownedDeckService(deck), gen, nil)

		body, _ := json.Marshal(SuggestRequest{Topic: "European capitals", Count: 5})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+deck.ID.String()+"/suggest", body, userID, "deckID", deck.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SuggestResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Suggestions, 2)
		assert.Equal(t, "Paris", resp.Suggestions[0].Back)
	})

	t.Run("omitted count defaults", func(t *testing.T) {
		gen := &mockGenerator{
			suggestCardsFn: func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error) {
				assert.Equal(t, defaultSuggestionCount, count)
				return []generation.CardSuggestion{{Front: "f", Back: "b"}}, nil
			},
		}
		handler := NewSuggestHandler(ownedDeckService(deck), gen, nil)

		body, _ := json.Marshal(SuggestRequest{Topic: "European capitals"})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+deck.ID.String()+"/suggest", body, userID, "deckID", deck.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("someone else's published deck returns 404", func(t *testing.T) {
		otherAuthor := uuid.New()
		published := testDeck(otherAuthor, "Their Deck", true)
		gen := &mockGenerator{
			suggestCardsFn: func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error) {
				t.Fatal("generator must not be called for decks the caller does not own")
				return nil, nil
			},
		}
		handler := NewSuggestHandler(ownedDeckService(published), gen, nil)

		body, _ := json.Marshal(SuggestRequest{Topic: "anything"})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+published.ID.String()+"/suggest", body, userID, "deckID", published.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("blocked content returns 422", func(t *testing.T) {
		gen := &mockGenerator{
			suggestCardsFn: func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error) {
				return nil, generation.ErrContentBlocked
			},
		}
		handler := NewSuggestHandler(ownedDeckService(deck), gen, nil)

		body, _ := json.Marshal(SuggestRequest{Topic: "something disallowed"})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+deck.ID.String()+"/suggest", body, userID, "deckID", deck.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("upstream failure returns 502", func(t *testing.T) {
		gen := &mockGenerator{
			suggestCardsFn: func(ctx context.Context, topic string, count int) ([]generation.CardSuggestion, error) {
				return nil, generation.ErrTransientFailure
			},
		}
		handler := NewSuggestHandler(ownedDeckService(deck), gen, nil)

		body, _ := json.Marshal(SuggestRequest{Topic: "European capitals"})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+deck.ID.String()+"/suggest", body, userID, "deckID", deck.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing topic fails validation", func(t *testing.T) {
		handler := NewSuggestHandler(&mockDeckService{}, &mockGenerator{}, nil)

		body, _ := json.Marshal(SuggestRequest{})
		req := newDeckRequest(http.MethodPost, "/api/decks/"+deck.ID.String()+"/suggest", body, userID, "deckID", deck.ID.String())
		rec := httptest.NewRecorder()
		handler.SuggestCards(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
