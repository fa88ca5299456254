package gamedto

// PlayerInfo is a single player's record inside a room snapshot.
type PlayerInfo struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Color     string `json:"color"`
	Connected bool   `json:"connected"`
}

// MoveRecord is one entry of the append-only move history.
type MoveRecord struct {
	Move      string `json:"move"`
	Player    string `json:"player"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// RoomSnapshot is the wire representation of a room's state at one instant.
type RoomSnapshot struct {
	RoomID      string       `json:"room_id"`
	Mode        string       `json:"mode"`
	Status      string       `json:"status"`
	Players     []PlayerInfo `json:"players"`
	CurrentTurn string       `json:"current_turn"`
	Board       string       `json:"board"`
	GameOver    bool         `json:"game_over"`
	Winner      string       `json:"winner,omitempty"`
	MoveHistory []MoveRecord `json:"move_history"`
}
