package models

// Game statuses as stored in the lobby table.
const (
	GameStatusOpen       = "open"
	GameStatusInProgress = "in progress"
)

// Game is a lobby record. Live game state stays in the engine session and
// is never persisted.
type Game struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

type GameCreateDto struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type VerifyGameDto struct {
	Code string `query:"code"`
}

// GameSummary is a lobby listing entry enriched with the live player count
// from the presence cache.
type GameSummary struct {
	Game
	Players int `json:"players"`
}
