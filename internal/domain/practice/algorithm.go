package practice

import (
	"math/rand"

	"github.com/notecards-app/notecards-api/internal/domain"
)

// scoreBounds returns the minimum and maximum score across the given
// cards. Callers must ensure the slice is non-empty.
func scoreBounds(cards []*domain.Card) (minScore, maxScore int) {
	minScore, maxScore = cards[0].Score, cards[0].Score
	for _, c := range cards[1:] {
		if c.Score < minScore {
			minScore = c.Score
		}
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	return minScore, maxScore
}

// filterAtMost returns the cards whose score does not exceed threshold.
func filterAtMost(cards []*domain.Card, threshold int) []*domain.Card {
	eligible := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.Score <= threshold {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

// selectCard implements score-weighted random selection. A threshold is
// drawn uniformly from [minScore, maxScore] and a card is then picked
// uniformly among the cards at or below it. Low-score cards satisfy more
// threshold draws than high-score cards do, so they are over-represented
// in proportion to the deck's score spread, without cumulative-weight
// sampling.
//
// The eligible set is never empty: the card achieving minScore always
// qualifies. Callers must ensure the slice is non-empty.
func selectCard(cards []*domain.Card, rng *rand.Rand) *domain.Card {
	minScore, maxScore := scoreBounds(cards)
	threshold := minScore + rng.Intn(maxScore-minScore+1)
	eligible := filterAtMost(cards, threshold)
	return eligible[rng.Intn(len(eligible))]
}

// selectWeakCard picks uniformly among the cards with score at or below
// params.WeakThreshold. Returns nil if no card qualifies.
func selectWeakCard(cards []*domain.Card, rng *rand.Rand, params *Params) *domain.Card {
	weak := filterAtMost(cards, params.WeakThreshold)
	if len(weak) == 0 {
		return nil
	}
	return weak[rng.Intn(len(weak))]
}

// gradeAnswer evaluates a submitted answer against the full front-sharing
// set of the presented card and computes the resulting score changes.
//
// Every card whose back matches the answer is treated as correct and its
// score incremented, clamped at params.MaxScore. If no card in the set
// matches, every card in the set has its score reset to params.ResetScore.
// Operating on the whole set keeps duplicate-front cards (a clone
// artifact) converging to the same score no matter which copy was
// presented.
func gradeAnswer(frontSet []*domain.Card, answer string, params *Params) (Result, []ScoreChange) {
	var changes []ScoreChange
	matched := false

	for _, c := range frontSet {
		if c.Back != answer {
			continue
		}
		matched = true
		if c.Score < params.MaxScore {
			changes = append(changes, ScoreChange{CardID: c.ID, NewScore: c.Score + 1})
		}
	}

	if matched {
		return ResultCorrect, changes
	}

	// Wrong answer: absolute reset for the whole front-sharing set.
	changes = make([]ScoreChange, 0, len(frontSet))
	for _, c := range frontSet {
		changes = append(changes, ScoreChange{CardID: c.ID, NewScore: params.ResetScore})
	}
	return ResultWrong, changes
}
