package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/werewolf-game/server/internal/models"
)

const roomCodeLength = 4

// Timings holds the phase durations. Tests shrink these; production uses
// DefaultTimings.
type Timings struct {
	Night time.Duration // night phase length before night actions resolve
	Day   time.Duration // day phase length before the execution vote resolves
	Dusk  time.Duration // pause between a resolved day and the next night
}

func DefaultTimings() Timings {
	return Timings{
		Night: 30 * time.Second,
		Day:   2 * time.Minute,
		Dusk:  5 * time.Second,
	}
}

// GameManager owns every room and the player -> room index. All access to
// room state goes through the manager's mutex; timer callbacks re-acquire
// it and re-check phase before acting.
type GameManager struct {
	mu          sync.Mutex
	rooms       map[string]*models.GameRoom
	playerRooms map[string]string
	notifier    Notifier
	timings     Timings
}

// NewGameManager creates a manager that reports events through n.
func NewGameManager(n Notifier) *GameManager {
	if n == nil {
		n = NopNotifier{}
	}
	return &GameManager{
		rooms:       make(map[string]*models.GameRoom),
		playerRooms: make(map[string]string),
		notifier:    n,
		timings:     DefaultTimings(),
	}
}

// SetTimings overrides the default phase durations. Call before any game
// starts.
func (gm *GameManager) SetTimings(t Timings) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.timings = t
}

// CreateRoom creates a new room with the creator as host and sole player
// and returns its code.
func (gm *GameManager) CreateRoom(playerID, username string) string {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// a player belongs to at most one room
	if _, inRoom := gm.playerRooms[playerID]; inRoom {
		return ""
	}

	code := gm.generateRoomCode()
	room := &models.GameRoom{
		Code:          code,
		HostID:        playerID,
		Players:       make(map[string]*models.Player),
		Phase:         models.PhaseLobby,
		DayCount:      0,
		Votes:         make(map[string]string),
		WerewolfVotes: make(map[string]string),
		SeerChecks:    make(map[string]models.Role),
	}
	room.Players[playerID] = &models.Player{
		ID:       playerID,
		Username: username,
		IsAlive:  true,
	}

	gm.rooms[code] = room
	gm.playerRooms[playerID] = code

	log.Info().Str("room", code).Str("player", playerID).Str("username", username).Msg("room created")
	return code
}

// JoinRoom adds a player to an existing lobby. On success the joining
// player receives room_joined and the whole room a lobby_update.
func (gm *GameManager) JoinRoom(playerID, username, code string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, inRoom := gm.playerRooms[playerID]; inRoom {
		return nil
	}

	code = strings.ToUpper(code)
	room, exists := gm.rooms[code]
	if !exists {
		return ErrRoomNotFound
	}
	if room.Phase != models.PhaseLobby {
		return ErrGameAlreadyStarted
	}

	room.Players[playerID] = &models.Player{
		ID:       playerID,
		Username: username,
		IsAlive:  true,
	}
	gm.playerRooms[playerID] = code

	log.Info().Str("room", code).Str("player", playerID).Str("username", username).Msg("player joined")

	gm.notifier.ToPlayer(playerID, models.EventRoomJoined, models.RoomJoinedPayload{
		RoomCode: code,
		IsHost:   playerID == room.HostID,
	})
	gm.notifier.ToRoom(code, models.EventLobbyUpdate, models.LobbyUpdatePayload{
		Players: lobbyView(room),
		Host:    room.HostID,
	})
	return nil
}

// StartGame assigns roles and moves the room into its first night. Only
// the host may start; a non-host request is dropped.
func (gm *GameManager) StartGame(playerID, code string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	code = strings.ToUpper(code)
	room, exists := gm.rooms[code]
	if !exists {
		return nil
	}
	if room.Phase != models.PhaseLobby || playerID != room.HostID {
		return nil
	}
	if len(room.Players) < minPlayers {
		return ErrInsufficientPlayers
	}

	assignRoles(room)
	room.DayCount = 1

	log.Info().Str("room", code).Int("players", len(room.Players)).Msg("game started")

	gm.notifyRoles(room)
	gm.startNightPhase(room)
	return nil
}

// RemovePlayer handles a disconnect. The player leaves their room; an
// empty room is destroyed; a departing host is replaced; a departure
// mid-game counts as an elimination and re-runs the win check.
func (gm *GameManager) RemovePlayer(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	code, ok := gm.playerRooms[playerID]
	if !ok {
		return
	}
	room, exists := gm.rooms[code]
	if !exists {
		delete(gm.playerRooms, playerID)
		return
	}

	player := room.Players[playerID]
	delete(room.Players, playerID)
	delete(gm.playerRooms, playerID)

	if len(room.Players) == 0 {
		delete(gm.rooms, code)
		log.Info().Str("room", code).Msg("room destroyed")
		return
	}

	// Go map iteration order is randomized, so pick the replacement host
	// deterministically: lowest remaining player id.
	if room.HostID == playerID {
		newHost := ""
		for id := range room.Players {
			if newHost == "" || id < newHost {
				newHost = id
			}
		}
		room.HostID = newHost
	}

	// Only a living player's departure counts as an elimination; a dead
	// player is already in the history and cannot change the win state.
	if room.Phase != models.PhaseLobby && player != nil && player.IsAlive {
		if player.Role != "" {
			room.RoleHistory = append(room.RoleHistory, models.RoleRecord{
				ID:            player.ID,
				Username:      player.Username,
				Role:          player.Role,
				DayEliminated: room.DayCount,
			})
		}
		gm.checkGameOver(room)
	}

	username := ""
	if player != nil {
		username = player.Username
	}
	log.Info().Str("room", code).Str("player", playerID).Str("username", username).Msg("player left")

	gm.notifier.ToRoom(code, models.EventPlayerLeft, models.PlayerLeftPayload{
		PlayerID: playerID,
		Username: username,
		NewHost:  room.HostID,
	})
}

// RoomSummary is the sanitized room projection for the REST surface.
// Roles are never included.
type RoomSummary struct {
	RoomCode string              `json:"roomCode"`
	Phase    models.GamePhase    `json:"phase"`
	DayCount int                 `json:"dayCount"`
	Players  []models.PlayerView `json:"players"`
}

// GetRoomSummary returns a role-free view of a room.
func (gm *GameManager) GetRoomSummary(code string) (RoomSummary, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	code = strings.ToUpper(code)
	room, exists := gm.rooms[code]
	if !exists {
		return RoomSummary{}, false
	}

	return RoomSummary{
		RoomCode: room.Code,
		Phase:    room.Phase,
		DayCount: room.DayCount,
		Players:  lobbyView(room),
	}, true
}

// generateRoomCode draws 4 uppercase letters, retrying on collision with a
// live room. Caller must hold the lock.
func (gm *GameManager) generateRoomCode() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for {
		b := make([]byte, roomCodeLength)
		for i := range b {
			b[i] = chars[rand.Intn(len(chars))]
		}
		code := string(b)
		if _, taken := gm.rooms[code]; !taken {
			return code
		}
	}
}

// lobbyView projects the room's players without roles, for any payload
// every member receives alike.
func lobbyView(room *models.GameRoom) []models.PlayerView {
	views := make([]models.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		views = append(views, models.PlayerView{
			ID:       p.ID,
			Username: p.Username,
			IsAlive:  p.IsAlive,
		})
	}
	return views
}

// Custom errors. These are the only failures ever surfaced to a player;
// everything else invalid is silently dropped.
var (
	ErrRoomNotFound        = &GameError{"Room does not exist"}
	ErrGameAlreadyStarted  = &GameError{"Game has already started"}
	ErrInsufficientPlayers = &GameError{"Need at least 4 players to start"}
)

type GameError struct {
	message string
}

func (e *GameError) Error() string {
	return e.message
}
