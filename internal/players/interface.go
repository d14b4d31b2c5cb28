package players

// PlayerStore defines the interface for interacting with player data.
type PlayerStore interface {
	UpsertPlayers(players []PlayerInfo) error
	GetPlayer(playerID string) (*PlayerInfo, error)
	GetPlayers(playerIDs []string) ([]PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	IsKnownPlayer(playerID string) bool
	Leaderboard() ([]PlayerInfo, error)
	Clear()
}
