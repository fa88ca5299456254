package gamedto

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Elo      int    `json:"elo,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *UserProfile `json:"user,omitempty"`
}

type UserProfile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Elo      int    `json:"elo"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

type LeaderboardRow struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

type LeaderboardResponse struct {
	Success     bool             `json:"success"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

type CreateRoomRequest struct {
	Mode string `json:"mode"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type MoveRequest struct {
	Move string `json:"move"`
}

// RoomResponse is the common success-flag envelope for multiplayer calls.
type RoomResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	RoomID  string        `json:"room_id,omitempty"`
	Room    *RoomSnapshot `json:"room,omitempty"`
}

// MatchResponse reports the result of a find-random poll.
type MatchResponse struct {
	Success bool          `json:"success"`
	Matched bool          `json:"matched"`
	Status  string        `json:"status,omitempty"`
	RoomID  string        `json:"room_id,omitempty"`
	Room    *RoomSnapshot `json:"room,omitempty"`
}
