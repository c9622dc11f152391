package game

import (
	"strings"

	"github.com/werewolf-game/server/internal/models"
)

// Player actions. Anything invalid here (wrong phase, dead player, wrong
// role, unknown target) is dropped without a reply; the phase machine's
// authority over hidden state makes an ignored action harmless.

// HandleDayVote records or overwrites a living player's execution vote
// during the day and reports the aggregate tally to the room. Individual
// choices are never broadcast.
func (gm *GameManager) HandleDayVote(playerID, code, targetID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[strings.ToUpper(code)]
	if !exists || room.Phase != models.PhaseDay {
		return
	}
	player := room.Players[playerID]
	if player == nil || !player.IsAlive {
		return
	}

	room.Votes[playerID] = targetID

	gm.notifier.ToRoom(room.Code, models.EventVoteUpdate, models.VoteUpdatePayload{
		VoteCount:  len(room.Votes),
		TotalAlive: countAlive(room),
	})
}

// HandleWerewolfVote records or overwrites a living werewolf's kill vote
// during the night. The voter, intended target, and running tally go to
// every living werewolf and to no one else.
func (gm *GameManager) HandleWerewolfVote(playerID, code, targetID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[strings.ToUpper(code)]
	if !exists || room.Phase != models.PhaseNight {
		return
	}
	player := room.Players[playerID]
	if player == nil || !player.IsAlive || player.Role != models.RoleWerewolf {
		return
	}

	room.WerewolfVotes[playerID] = targetID

	payload := models.WerewolfVoteUpdatePayload{
		Voter:           player.Username,
		Target:          usernameOf(room, targetID),
		VoteCount:       len(room.WerewolfVotes),
		TotalWerewolves: countAliveWerewolves(room),
	}
	for id, p := range room.Players {
		if p.Role == models.RoleWerewolf && p.IsAlive {
			gm.notifier.ToPlayer(id, models.EventWerewolfVoteUpdate, payload)
		}
	}
}

// HandleSeerCheck reveals a target's alignment privately to a living seer
// during the night. Repeat checks overwrite the cached result.
func (gm *GameManager) HandleSeerCheck(playerID, code, targetID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[strings.ToUpper(code)]
	if !exists || room.Phase != models.PhaseNight {
		return
	}
	player := room.Players[playerID]
	target := room.Players[targetID]
	if player == nil || !player.IsAlive || player.Role != models.RoleSeer || target == nil {
		return
	}

	room.SeerChecks[targetID] = target.Role

	gm.notifier.ToPlayer(playerID, models.EventSeerResult, models.SeerResultPayload{
		TargetUsername: target.Username,
		IsWerewolf:     target.Role == models.RoleWerewolf,
	})
}

// HandleDoctorSave sets the single pending save target for a living doctor
// during the night, overwriting any previous choice. Nothing stops the
// doctor from saving themselves.
func (gm *GameManager) HandleDoctorSave(playerID, code, targetID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[strings.ToUpper(code)]
	if !exists || room.Phase != models.PhaseNight {
		return
	}
	player := room.Players[playerID]
	if player == nil || !player.IsAlive || player.Role != models.RoleDoctor {
		return
	}

	room.DoctorSave = targetID

	gm.notifier.ToPlayer(playerID, models.EventDoctorResult, models.DoctorResultPayload{
		TargetUsername: usernameOf(room, targetID),
	})
}

// HandleChatMessage routes chat. The werewolf channel is open to living
// werewolves at night and delivered only to living werewolves; the public
// channel is open to living players during the day and delivered to the
// whole room. Every other combination is dropped.
func (gm *GameManager) HandleChatMessage(playerID, code, content string, isWerewolfChat bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[strings.ToUpper(code)]
	if !exists {
		return
	}
	player := room.Players[playerID]
	if player == nil || !player.IsAlive {
		return
	}

	if isWerewolfChat {
		if player.Role != models.RoleWerewolf || room.Phase != models.PhaseNight {
			return
		}
		room.Messages = append(room.Messages, models.Message{
			Sender:         player.Username,
			Content:        content,
			IsWerewolfChat: true,
		})
		payload := models.ReceiveMessagePayload{
			Sender:         player.Username,
			Content:        content,
			IsWerewolfChat: true,
		}
		for id, p := range room.Players {
			if p.Role == models.RoleWerewolf && p.IsAlive {
				gm.notifier.ToPlayer(id, models.EventReceiveMessage, payload)
			}
		}
		return
	}

	if room.Phase != models.PhaseDay {
		return
	}
	room.Messages = append(room.Messages, models.Message{
		Sender:  player.Username,
		Content: content,
	})
	gm.notifier.ToRoom(room.Code, models.EventReceiveMessage, models.ReceiveMessagePayload{
		Sender:  player.Username,
		Content: content,
	})
}

func usernameOf(room *models.GameRoom, playerID string) string {
	if p := room.Players[playerID]; p != nil {
		return p.Username
	}
	return ""
}

func countAlive(room *models.GameRoom) int {
	n := 0
	for _, p := range room.Players {
		if p.IsAlive {
			n++
		}
	}
	return n
}

func countAliveWerewolves(room *models.GameRoom) int {
	n := 0
	for _, p := range room.Players {
		if p.IsAlive && p.Role == models.RoleWerewolf {
			n++
		}
	}
	return n
}
