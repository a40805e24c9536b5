// Package practice implements the adaptive card-selection and
// answer-scoring algorithm. Selection biases toward cards the user finds
// difficult; scoring maintains a bounded per-card proficiency counter.
package practice

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/notecards-app/notecards-api/internal/domain"
)

// Common errors
var (
	// ErrNoCards indicates selection was requested against a deck with
	// no cards at all.
	ErrNoCards = errors.New("deck has no cards")

	// ErrNoWeakCards indicates no card in the deck is at or below the
	// weak threshold, so there is nothing to drill.
	ErrNoWeakCards = errors.New("no weak cards to drill")
)

// Result is the outcome of grading a submitted answer.
type Result string

const (
	ResultCorrect Result = "correct"
	ResultWrong   Result = "wrong"
)

// ScoreChange records the new score to persist for a single card.
type ScoreChange struct {
	CardID   uuid.UUID
	NewScore int
}

// Service defines the selection and scoring operations of the practice
// engine. All methods are pure with respect to storage: they operate on
// card slices the caller fetched and report score changes for the caller
// to persist.
type Service interface {
	// SelectCard picks a practice card using score-weighted random
	// selection: a threshold drawn uniformly between the deck's minimum
	// and maximum score, then a uniform pick among cards at or below it.
	// Returns ErrNoCards if the slice is empty.
	SelectCard(cards []*domain.Card) (*domain.Card, error)

	// SelectWeakCard picks uniformly among cards at or below the weak
	// threshold. Returns ErrNoWeakCards if no card qualifies and
	// ErrNoCards if the slice is empty.
	SelectWeakCard(cards []*domain.Card) (*domain.Card, error)

	// GradeAnswer evaluates the submitted answer against the presented
	// card's front-sharing set and returns the result plus the score
	// changes to persist.
	GradeAnswer(frontSet []*domain.Card, answer string) (Result, []ScoreChange)
}

type defaultService struct {
	rng    *rand.Rand
	params *Params
}

// NewService creates a practice Service using the given random source.
// A nil rng falls back to a time-seeded source; tests pass a seeded
// generator for deterministic outcomes.
func NewService(rng *rand.Rand) Service {
	return NewServiceWithParams(rng, NewDefaultParams())
}

// NewServiceWithParams creates a practice Service with custom parameters.
func NewServiceWithParams(rng *rand.Rand, params *Params) Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{rng: rng, params: params}
}

// SelectCard implements Service.SelectCard.
func (s *defaultService) SelectCard(cards []*domain.Card) (*domain.Card, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return selectCard(cards, s.rng), nil
}

// SelectWeakCard implements Service.SelectWeakCard.
func (s *defaultService) SelectWeakCard(cards []*domain.Card) (*domain.Card, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	card := selectWeakCard(cards, s.rng, s.params)
	if card == nil {
		return nil, ErrNoWeakCards
	}
	return card, nil
}

// GradeAnswer implements Service.GradeAnswer.
func (s *defaultService) GradeAnswer(frontSet []*domain.Card, answer string) (Result, []ScoreChange) {
	return gradeAnswer(frontSet, answer, s.params)
}
