package protocol

import (
	"encoding/json"
	"fmt"
)

// ChatMessage is one chat entry, in the global or a lobby scope.
type ChatMessage struct {
	Poster  string `json:"poster"`
	Message string `json:"message"`
}

// LobbySummary is one lobby's row in a /lobbiesGeneralUpdate frame.
type LobbySummary struct {
	PlayerCapacity   int         `json:"player_capacity"`
	PlayerNames      []string    `json:"player_names"`
	Status           LobbyStatus `json:"status"`
	NextStartingTime int64       `json:"next_starting_time"`
}

// RosterEntry is one connected player. It marshals as a two-element array
// [name, lobby_id|null] rather than an object.
type RosterEntry struct {
	Name  string
	Lobby *int
}

func (e RosterEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.Lobby})
}

func (e *RosterEntry) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("roster entry is not a pair: %w", err)
	}
	if err := json.Unmarshal(raw[0], &e.Name); err != nil {
		return fmt.Errorf("roster entry name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Lobby); err != nil {
		return fmt.Errorf("roster entry lobby: %w", err)
	}
	return nil
}

// LobbiesUpdate is the /lobbiesGeneralUpdate payload: every lobby plus the
// full connected-player roster.
type LobbiesUpdate struct {
	Lobbies          []LobbySummary `json:"lobbies"`
	ConnectedPlayers []RosterEntry  `json:"connected_players"`
}

// TileUpdate is one tile of a per-player fog-of-war view.
type TileUpdate struct {
	Status     TileStatus `json:"status"`
	TileType   TileType   `json:"tile_type"`
	PlayerName *string    `json:"player_name"`
	NbTroops   int        `json:"nb_troops"`
	Hidden     bool       `json:"hidden"`
}

// PlayerScore is one scoreboard row, keyed by display name in GameUpdate.
type PlayerScore struct {
	TotalTroops    int   `json:"total_troops"`
	TotalPositions int   `json:"total_positions"`
	Color          Color `json:"color"`
}

// PlayerMoves mirrors a player's pending queue and current coordinate.
type PlayerMoves struct {
	QueuedMoves []Direction `json:"queued_moves"`
	XY          [2]int      `json:"xy"`
}

// GameUpdate is the per-tick, per-player view of one lobby's game.
type GameUpdate struct {
	BoardGame  [][]TileUpdate         `json:"board_game"`
	ScoreBoard map[string]PlayerScore `json:"score_board"`
	Moves      PlayerMoves            `json:"moves"`
	Tick       uint64                 `json:"tick"`
}
