package gamedto

type AIStartRequest struct {
	Level string `json:"level"`
}

type AIStartResponse struct {
	GameID string        `json:"game_id"`
	Status *AIGameStatus `json:"status"`
}

type AIMoveRequest struct {
	UCI string `json:"uci"`
}

type AIControlRequest struct {
	Action string `json:"action"`
}

type AIHintResponse struct {
	Hint string `json:"hint"`
}

// AIGameStatus is the board state returned after every exchange with the
// engine opponent.
type AIGameStatus struct {
	Board       string   `json:"board"`
	CurrentTurn string   `json:"current_turn"`
	GameOver    bool     `json:"game_over"`
	Winner      string   `json:"winner,omitempty"`
	MoveHistory []string `json:"move_history"`
	LastAIMove  string   `json:"last_ai_move,omitempty"`
}
