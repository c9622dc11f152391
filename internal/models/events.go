package models

// Outbound event payloads. Field names follow the wire format the web
// client already speaks.

type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

type RoomJoinedPayload struct {
	RoomCode string `json:"roomCode"`
	IsHost   bool   `json:"isHost"`
}

type LobbyUpdatePayload struct {
	Players []PlayerView `json:"players"`
	Host    string       `json:"host"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PlayerView is a single player as seen by a specific recipient. Role is
// empty unless the recipient is allowed to see it.
type PlayerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAlive  bool   `json:"isAlive"`
	Role     Role   `json:"role,omitempty"`
}

type RoleAssignedPayload struct {
	Role    Role         `json:"role"`
	Players []PlayerView `json:"players"`
}

// EliminatedPlayer identifies a casualty in a phase_change or day_result
type EliminatedPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
}

type PhaseChangePayload struct {
	Phase            GamePhase         `json:"phase"`
	DayCount         int               `json:"dayCount"`
	TimeLeft         int               `json:"timeLeft"`
	EliminatedPlayer *EliminatedPlayer `json:"eliminatedPlayer"`
}

type VoteUpdatePayload struct {
	VoteCount  int `json:"voteCount"`
	TotalAlive int `json:"totalAlive"`
}

type WerewolfVoteUpdatePayload struct {
	Voter           string `json:"voter"`
	Target          string `json:"target"`
	VoteCount       int    `json:"voteCount"`
	TotalWerewolves int    `json:"totalWerewolves"`
}

type SeerResultPayload struct {
	TargetUsername string `json:"targetUsername"`
	IsWerewolf     bool   `json:"isWerewolf"`
}

type DoctorResultPayload struct {
	TargetUsername string `json:"targetUsername"`
}

type ReceiveMessagePayload struct {
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	IsWerewolfChat bool   `json:"isWerewolfChat"`
}

type DayResultPayload struct {
	EliminatedPlayer *EliminatedPlayer `json:"eliminatedPlayer"`
}

type GameOverPayload struct {
	Winner      string       `json:"winner"`
	RoleReveal  []PlayerView `json:"roleReveal"`
	RoleHistory []RoleRecord `json:"roleHistory"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	NewHost  string `json:"newHost"`
}
