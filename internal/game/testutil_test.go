package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/werewolf-game/server/internal/models"
)

// sentEvent is one delivery captured by the recording notifier. Room is
// empty for direct sends, To is empty for room broadcasts.
type sentEvent struct {
	To      string
	Room    string
	Event   string
	Payload interface{}
}

// recordingNotifier captures everything the core emits so tests can assert
// on recipients and payloads.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (n *recordingNotifier) ToPlayer(playerID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEvent{To: playerID, Event: event, Payload: payload})
}

func (n *recordingNotifier) ToRoom(roomCode, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEvent{Room: roomCode, Event: event, Payload: payload})
}

// byEvent returns every captured delivery of the given event type.
func (n *recordingNotifier) byEvent(event string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.sent {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// lastToPlayer returns the most recent direct send of event to playerID.
func (n *recordingNotifier) lastToPlayer(playerID, event string) (sentEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].To == playerID && n.sent[i].Event == event {
			return n.sent[i], true
		}
	}
	return sentEvent{}, false
}

// sentCopy returns a snapshot of everything captured so far.
func (n *recordingNotifier) sentCopy() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.sent...)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// slowTimings keeps every scheduled timer far beyond the test's lifetime
// so phase resolution only happens when a test calls it directly.
func slowTimings() Timings {
	return Timings{
		Night: time.Hour,
		Day:   time.Hour,
		Dusk:  time.Hour,
	}
}

// newTestRoom creates a manager and a room of n players with ids p1..pn
// and usernames user1..usern. p1 is the host.
func newTestRoom(n int) (*GameManager, *recordingNotifier, string, []string) {
	notifier := &recordingNotifier{}
	gm := NewGameManager(notifier)
	gm.SetTimings(slowTimings())

	ids := make([]string, 0, n)
	code := gm.CreateRoom("p1", "user1")
	ids = append(ids, "p1")
	for i := 2; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		gm.JoinRoom(id, fmt.Sprintf("user%d", i), code)
		ids = append(ids, id)
	}
	return gm, notifier, code, ids
}

// setRoles pins roles directly so tests do not depend on the shuffle.
// Pass id -> role; unlisted players become villagers.
func (gm *GameManager) setRoles(code string, roles map[string]models.Role) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	room := gm.rooms[code]
	for id, p := range room.Players {
		if r, ok := roles[id]; ok {
			p.Role = r
		} else {
			p.Role = models.RoleVillager
		}
	}
}

// forceStart pins roles and enters the first night through the real
// transition, skipping only the shuffle that StartGame would run.
func (gm *GameManager) forceStart(code string, roles map[string]models.Role) {
	gm.setRoles(code, roles)
	gm.mu.Lock()
	defer gm.mu.Unlock()
	room := gm.rooms[code]
	room.DayCount = 1
	gm.startNightPhase(room)
}

// setPhase forces a room phase without running the normal transition.
func (gm *GameManager) setPhase(code string, phase models.GamePhase) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.rooms[code].Phase = phase
}

// roomState returns a direct handle to the room for assertions. Tests must
// not mutate through it while timers are live.
func (gm *GameManager) roomState(code string) *models.GameRoom {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.rooms[code]
}
