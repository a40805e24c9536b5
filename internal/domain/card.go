package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors. Each wraps ErrValidation so callers
// can errors.Is against the family without naming every sentinel.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = fmt.Errorf("%w: card deck ID cannot be empty", ErrValidation)

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrCardTextTooLong is returned when a card's front or back text
	// exceeds MaxCardTextLength.
	ErrCardTextTooLong = fmt.Errorf("%w: card text cannot exceed 512 characters", ErrValidation)
)

// MaxCardTextLength is the maximum length, in characters, of a card's
// front or back text.
const MaxCardTextLength = 512

// Card represents a single front/back flashcard belonging to a deck.
// The Score field is a bounded proficiency counter maintained by the
// practice engine; it is never modified by content edits.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck with the given front and
// back text. New cards always start with a score of zero.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, front, back string) (*Card, error) {
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		Score:     0,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	if len([]rune(c.Front)) > MaxCardTextLength || len([]rune(c.Back)) > MaxCardTextLength {
		return ErrCardTextTooLong
	}

	return nil
}

// UpdateContent replaces the card's front and back text and bumps the
// UpdatedAt timestamp. The score is deliberately left untouched: editing
// a card does not reset the owner's practice history for it.
// The card is unchanged if the new content fails validation.
func (c *Card) UpdateContent(front, back string) error {
	origFront, origBack := c.Front, c.Back
	c.Front = front
	c.Back = back

	if err := c.Validate(); err != nil {
		c.Front = origFront
		c.Back = origBack
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
