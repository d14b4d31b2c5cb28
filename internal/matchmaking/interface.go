package matchmaking

// Matchmaker defines the candidate search operation exposed to the
// application layer.
type Matchmaker interface {
	FindCandidates(req Request) ([]Candidate, error)
}
