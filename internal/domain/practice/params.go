package practice

// Params defines all configurable parameters for the selection and
// scoring algorithm.
type Params struct {
	// WeakThreshold is the highest score a card may have and still be
	// considered "weak" (due for focused drilling).
	WeakThreshold int

	// MaxScore is the ceiling a card's score is clamped to. A correct
	// answer on a card already at MaxScore is a no-op.
	MaxScore int

	// ResetScore is the absolute value a card's score is set to after a
	// wrong answer, regardless of its prior value.
	ResetScore int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		WeakThreshold: 3,
		MaxScore:      5,
		ResetScore:    1,
	}
}
