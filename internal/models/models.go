package models

// GamePhase represents the current phase of a room
type GamePhase string

const (
	PhaseLobby    GamePhase = "LOBBY"
	PhaseNight    GamePhase = "NIGHT"
	PhaseDay      GamePhase = "DAY"
	PhaseGameOver GamePhase = "GAME_OVER"
)

// Role represents player roles in the game
type Role string

const (
	RoleWerewolf Role = "WEREWOLF"
	RoleSeer     Role = "SEER"
	RoleDoctor   Role = "DOCTOR"
	RoleVillager Role = "VILLAGER"
)

// Winner tags for a finished game
const (
	WinnerVillagers  = "VILLAGERS"
	WinnerWerewolves = "WEREWOLVES"
)

// Player represents a player in a room. A Player is owned by its room:
// it is created on join, receives a role once at game start, and its
// IsAlive flag flips exactly once on elimination.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"` // empty until game start, hidden from other players
	IsAlive  bool   `json:"isAlive"`
	IsReady  bool   `json:"isReady"`
}

// Message is a chat message kept in the room log
type Message struct {
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	IsWerewolfChat bool   `json:"isWerewolfChat"`
}

// RoleRecord is one entry of the end-game reveal: who was eliminated,
// what they were, and on which day
type RoleRecord struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Role          Role   `json:"role"`
	DayEliminated int    `json:"dayEliminated"`
}

// GameRoom represents a game room and all state scoped to it
type GameRoom struct {
	Code              string             `json:"roomCode"`
	HostID            string             `json:"host"`
	Players           map[string]*Player `json:"players"`
	Phase             GamePhase          `json:"phase"`
	DayCount          int                `json:"dayCount"`
	Votes             map[string]string  `json:"votes"`         // voter id -> target id
	WerewolfVotes     map[string]string  `json:"werewolfVotes"` // werewolf voter id -> target id
	DoctorSave        string             `json:"doctorSave,omitempty"`
	SeerChecks        map[string]Role    `json:"seerChecks,omitempty"` // target id -> revealed role
	EliminatedTonight string             `json:"eliminatedTonight,omitempty"`
	Messages          []Message          `json:"messages"`
	RoleHistory       []RoleRecord       `json:"roleHistory"`
	Winner            string             `json:"gameWinner,omitempty"`
}

// WSMessage represents a WebSocket message envelope
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Inbound event types (client -> server)
const (
	EventCreateRoom   = "create_room"
	EventJoinLobby    = "join_lobby"
	EventStartGame    = "start_game"
	EventDayVote      = "day_vote"
	EventWerewolfVote = "werewolf_vote"
	EventSeerCheck    = "seer_check"
	EventDoctorSave   = "doctor_save"
	EventSendMessage  = "send_message"
)

// Outbound event types (server -> client)
const (
	EventRoomCreated        = "room_created"
	EventRoomJoined         = "room_joined"
	EventLobbyUpdate        = "lobby_update"
	EventError              = "error"
	EventRoleAssigned       = "role_assigned"
	EventPhaseChange        = "phase_change"
	EventVoteUpdate         = "vote_update"
	EventWerewolfVoteUpdate = "werewolf_vote_update"
	EventSeerResult         = "seer_result"
	EventDoctorResult       = "doctor_result"
	EventReceiveMessage     = "receive_message"
	EventDayResult          = "day_result"
	EventGameOver           = "game_over"
	EventPlayerLeft         = "player_left"
)
