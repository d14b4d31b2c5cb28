package achievements

// DefaultCatalog returns the built-in achievement set seeded at startup.
// Seeding is idempotent, so redeploys with an unchanged catalog are no-ops.
func DefaultCatalog() []Achievement {
	return []Achievement{
		{ID: "first-win", Name: "First Win", Kind: KindWins, Threshold: 1},
		{ID: "ten-wins", Name: "Double Digits", Kind: KindWins, Threshold: 10},
		{ID: "fifty-wins", Name: "Gym Rat", Kind: KindWins, Threshold: 50},
		{ID: "rated-1400", Name: "Contender", Kind: KindElo, Threshold: 1400},
		{ID: "rated-1600", Name: "Baller", Kind: KindElo, Threshold: 1600},
		{ID: "ten-matches", Name: "Regular", Kind: KindMatches, Threshold: 10},
		{ID: "hundred-matches", Name: "Court Veteran", Kind: KindMatches, Threshold: 100},
		{ID: "streak-three", Name: "Heating Up", Kind: KindStreak, Threshold: 3},
		{ID: "streak-seven", Name: "On Fire", Kind: KindStreak, Threshold: 7},
	}
}
