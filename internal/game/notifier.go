package game

// Notifier is the boundary between the game core and whatever transport
// delivers events to players. ToPlayer targets a single connection by
// player id, ToRoom every member of a room. Implementations must not call
// back into the GameManager.
type Notifier interface {
	ToPlayer(playerID, event string, payload interface{})
	ToRoom(roomCode, event string, payload interface{})
}

// NopNotifier discards every event. Useful as a default and in tests that
// do not care about outbound traffic.
type NopNotifier struct{}

func (NopNotifier) ToPlayer(string, string, interface{}) {}
func (NopNotifier) ToRoom(string, string, interface{})   {}
