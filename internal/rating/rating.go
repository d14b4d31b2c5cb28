package rating

import "math"

const (
	// DefaultRating is the rating assigned to a player who has never played.
	DefaultRating = 1200
	// DefaultKFactor caps how many points a single match can move a rating.
	DefaultKFactor = 32
	// DefaultFloor keeps losing streaks from driving a rating toward zero.
	DefaultFloor = 100
)

// Engine computes fixed-K ELO updates. The zero value is not usable; use New.
type Engine struct {
	k     int
	floor int
}

// New creates an Engine with the given K-factor and rating floor.
func New(kFactor, floor int) *Engine {
	return &Engine{k: kFactor, floor: floor}
}

// Default returns an Engine with the standard K=32 / floor=100 policy.
func Default() *Engine {
	return New(DefaultKFactor, DefaultFloor)
}

// ExpectedScore returns the probability that a player rated a beats a player
// rated b: 1 / (1 + 10^((b-a)/400)).
func ExpectedScore(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/400.0))
}

// Update returns the new ratings for both players after a decided match.
// aWon reports whether player A took the win; draws have no update formula
// here and must be handled by the caller. The update is pure: the same inputs
// always produce the same outputs.
func (e *Engine) Update(ratingA, ratingB int, aWon bool) (int, int) {
	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := 1 - expectedA

	actualA, actualB := 1.0, 0.0
	if !aWon {
		actualA, actualB = 0.0, 1.0
	}

	// math.Round rounds half away from zero, which keeps the exchange
	// symmetric for both players.
	newA := ratingA + int(math.Round(float64(e.k)*(actualA-expectedA)))
	newB := ratingB + int(math.Round(float64(e.k)*(actualB-expectedB)))

	return e.clamp(newA), e.clamp(newB)
}

func (e *Engine) clamp(r int) int {
	if r < e.floor {
		return e.floor
	}
	return r
}
