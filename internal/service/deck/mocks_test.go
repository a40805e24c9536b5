package deck

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/store"
)

// mockDeckStore is a testify mock of store.DeckStore.
type mockDeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*mockDeckStore)(nil)

func (m *mockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *mockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	deck, _ := args.Get(0).(*domain.Deck)
	return deck, args.Error(1)
}

func (m *mockDeckStore) GetOwned(ctx context.Context, id, authorID uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id, authorID)
	deck, _ := args.Get(0).(*domain.Deck)
	return deck, args.Error(1)
}

func (m *mockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *mockDeckStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	return m.Called(ctx, id, authorID).Error(0)
}

func (m *mockDeckStore) ListPublished(ctx context.Context, page, pageSize int) ([]*domain.Deck, error) {
	args := m.Called(ctx, page, pageSize)
	decks, _ := args.Get(0).([]*domain.Deck)
	return decks, args.Error(1)
}

func (m *mockDeckStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	publishedOnly bool,
	page, pageSize int,
) ([]*domain.Deck, error) {
	args := m.Called(ctx, authorID, publishedOnly, page, pageSize)
	decks, _ := args.Get(0).([]*domain.Deck)
	return decks, args.Error(1)
}

func (m *mockDeckStore) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *mockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// mockCardStore is a testify mock of store.CardStore.
type mockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *mockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return m.Called(ctx, cards).Error(0)
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID)
	cards, _ := args.Get(0).([]*domain.Card)
	return cards, args.Error(1)
}

func (m *mockCardStore) ListByFront(
	ctx context.Context,
	deckID uuid.UUID,
	front string,
) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID, front)
	cards, _ := args.Get(0).([]*domain.Card)
	return cards, args.Error(1)
}

func (m *mockCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	return m.Called(ctx, id, front, back).Error(0)
}

func (m *mockCardStore) UpdateScore(ctx context.Context, id uuid.UUID, score int) error {
	return m.Called(ctx, id, score).Error(0)
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Error(1)
}

func (m *mockCardStore) MinMaxScore(ctx context.Context, deckID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
