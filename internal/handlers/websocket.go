package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/werewolf-game/server/internal/game"
	"github.com/werewolf-game/server/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

// Client is one WebSocket connection. Its ID doubles as the player id for
// the lifetime of the connection.
type Client struct {
	ID       string
	RoomCode string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Hub tracks connected clients and delivers outbound events. It implements
// game.Notifier and must never call back into the game manager.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	log.Debug().Str("player", c.ID).Msg("client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.Send)
	}
	h.mu.Unlock()
	log.Debug().Str("player", c.ID).Msg("client disconnected")
}

func (h *Hub) setRoom(clientID, roomCode string) {
	h.mu.Lock()
	if c, ok := h.clients[clientID]; ok {
		c.RoomCode = roomCode
	}
	h.mu.Unlock()
}

// ToPlayer implements game.Notifier for a single recipient.
func (h *Hub) ToPlayer(playerID, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[playerID]; ok {
		c.deliver(data)
	}
}

// ToRoom implements game.Notifier for every member of a room.
func (h *Hub) ToRoom(roomCode, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.RoomCode == roomCode {
			c.deliver(data)
		}
	}
}

// deliver queues data without blocking; a client that cannot keep up loses
// the event rather than stalling the room.
func (c *Client) deliver(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

func marshalEvent(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(models.WSMessage{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal failed")
	}
	return data, err
}

// Inbound message envelope and payloads. Field names match the wire
// format of the web client.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomPayload struct {
	Username string `json:"username"`
}

type joinLobbyPayload struct {
	Username string `json:"username"`
	RoomCode string `json:"roomCode"`
}

type roomPayload struct {
	RoomCode string `json:"roomCode"`
}

type targetPayload struct {
	RoomCode string `json:"roomCode"`
	TargetID string `json:"targetId"`
}

type chatPayload struct {
	RoomCode       string `json:"roomCode"`
	Message        string `json:"message"`
	IsWerewolfChat bool   `json:"isWerewolfChat"`
}

// HandleWebSocket upgrades the connection, assigns it a player id, and
// pumps events between the socket and the game manager.
func HandleWebSocket(hub *Hub, gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			ID:   uuid.New().String(),
			Conn: conn,
			Send: make(chan []byte, 256),
		}

		hub.register(client)

		go client.writePump()
		client.readPump(hub, gm)
	}
}

func (c *Client) readPump(hub *Hub, gm *game.GameManager) {
	defer func() {
		hub.unregister(c)
		c.Conn.Close()
		gm.RemovePlayer(c.ID)
	}()

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("player", c.ID).Msg("websocket read error")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("player", c.ID).Msg("bad message")
			continue
		}

		c.dispatch(hub, gm, msg)
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) dispatch(hub *Hub, gm *game.GameManager, msg inboundMessage) {
	switch msg.Type {
	case models.EventCreateRoom:
		var p createRoomPayload
		if json.Unmarshal(msg.Payload, &p) != nil || c.RoomCode != "" {
			return
		}
		code := gm.CreateRoom(c.ID, p.Username)
		if code == "" {
			return
		}
		hub.setRoom(c.ID, code)
		hub.ToPlayer(c.ID, models.EventRoomCreated, models.RoomCreatedPayload{RoomCode: code})

	case models.EventJoinLobby:
		var p joinLobbyPayload
		if json.Unmarshal(msg.Payload, &p) != nil || c.RoomCode != "" {
			return
		}
		// Membership must be visible to the hub before the join events go
		// out, so the joiner receives the lobby_update too.
		hub.setRoom(c.ID, normalizeCode(p.RoomCode))
		if err := gm.JoinRoom(c.ID, p.Username, p.RoomCode); err != nil {
			hub.setRoom(c.ID, "")
			hub.ToPlayer(c.ID, models.EventError, models.ErrorPayload{Message: err.Error()})
		}

	case models.EventStartGame:
		var p roomPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		if err := gm.StartGame(c.ID, p.RoomCode); err != nil {
			hub.ToPlayer(c.ID, models.EventError, models.ErrorPayload{Message: err.Error()})
		}

	case models.EventDayVote:
		var p targetPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		gm.HandleDayVote(c.ID, p.RoomCode, p.TargetID)

	case models.EventWerewolfVote:
		var p targetPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		gm.HandleWerewolfVote(c.ID, p.RoomCode, p.TargetID)

	case models.EventSeerCheck:
		var p targetPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		gm.HandleSeerCheck(c.ID, p.RoomCode, p.TargetID)

	case models.EventDoctorSave:
		var p targetPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		gm.HandleDoctorSave(c.ID, p.RoomCode, p.TargetID)

	case models.EventSendMessage:
		var p chatPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		gm.HandleChatMessage(c.ID, p.RoomCode, p.Message, p.IsWerewolfChat)
	}
}
