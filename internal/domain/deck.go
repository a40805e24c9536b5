package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Deck-specific validation errors. Each wraps ErrValidation so callers
// can errors.Is against the family without naming every sentinel.
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = fmt.Errorf("%w: deck ID cannot be empty", ErrValidation)

	// ErrDeckAuthorIDEmpty is returned when a deck's author ID is empty or nil.
	ErrDeckAuthorIDEmpty = fmt.Errorf("%w: deck author ID cannot be empty", ErrValidation)

	// ErrDeckTitleEmpty is returned when a deck's title is empty.
	ErrDeckTitleEmpty = fmt.Errorf("%w: deck title cannot be empty", ErrValidation)

	// ErrDeckTitleTooLong is returned when a deck's title exceeds MaxDeckTitleLength.
	ErrDeckTitleTooLong = fmt.Errorf("%w: deck title cannot exceed 256 characters", ErrValidation)
)

const (
	// MaxDeckTitleLength is the maximum length, in characters, of a deck title.
	MaxDeckTitleLength = 256

	// MaxDecksPerAuthor is the maximum number of decks a single author may own.
	// Creation beyond this limit fails with store.ErrDeckLimitReached.
	MaxDecksPerAuthor = 100
)

// Deck is a named collection of cards owned by one user. Titles are
// unique per author; the slug is display metadata derived from the title
// and carries no identity.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new unpublished Deck owned by the given author.
// The slug is derived from the title. Returns an error if validation fails.
func NewDeck(authorID uuid.UUID, title, description string) (*Deck, error) {
	deck := &Deck{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       title,
		Slug:        Slugify(title),
		Description: description,
		Published:   false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.AuthorID == uuid.Nil {
		return ErrDeckAuthorIDEmpty
	}

	if strings.TrimSpace(d.Title) == "" {
		return ErrDeckTitleEmpty
	}

	if len([]rune(d.Title)) > MaxDeckTitleLength {
		return ErrDeckTitleTooLong
	}

	return nil
}

// UpdateDetails replaces the deck's title, description, and published
// flag, re-deriving the slug from the new title. The deck is unchanged
// if the new data fails validation.
func (d *Deck) UpdateDetails(title, description string, published bool) error {
	orig := *d

	d.Title = title
	d.Slug = Slugify(title)
	d.Description = description
	d.Published = published

	if err := d.Validate(); err != nil {
		*d = orig
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Slugify converts a title into a lowercase hyphen-separated slug.
// Runs of non-alphanumeric characters collapse into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
