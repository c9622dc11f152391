package game

import (
	"math/rand"
	"sort"

	"github.com/werewolf-game/server/internal/models"
)

// minPlayers is the smallest game the role table supports: one werewolf,
// one seer, two villagers.
const minPlayers = 4

// werewolfCount returns max(1, playerCount/4).
func werewolfCount(playerCount int) int {
	n := playerCount / 4
	if n < 1 {
		n = 1
	}
	return n
}

// assignRoles deals roles to every player in the room: werewolves first
// off a shuffled id list, then the seer, then a doctor for games of six or
// more, villagers for the rest. Caller must hold the manager lock.
func assignRoles(room *models.GameRoom) {
	ids := make([]string, 0, len(room.Players))
	for id := range room.Players {
		ids = append(ids, id)
	}
	// Map order is randomized but not uniformly; sort first so the shuffle
	// is the only source of randomness.
	sort.Strings(ids)
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	i := 0
	for n := werewolfCount(len(ids)); n > 0; n-- {
		room.Players[ids[i]].Role = models.RoleWerewolf
		i++
	}
	room.Players[ids[i]].Role = models.RoleSeer
	i++
	if len(ids) >= 6 {
		room.Players[ids[i]].Role = models.RoleDoctor
		i++
	}
	for ; i < len(ids); i++ {
		room.Players[ids[i]].Role = models.RoleVillager
	}
}

// roleView projects the room's player list for one viewer. Werewolves see
// which other players are werewolves; everyone else sees no roles at all.
func roleView(room *models.GameRoom, viewerID string) []models.PlayerView {
	viewer := room.Players[viewerID]
	views := make([]models.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		view := models.PlayerView{
			ID:       p.ID,
			Username: p.Username,
			IsAlive:  p.IsAlive,
		}
		if viewer != nil && viewer.Role == models.RoleWerewolf && p.Role == models.RoleWerewolf {
			view.Role = models.RoleWerewolf
		}
		views = append(views, view)
	}
	return views
}

// notifyRoles sends each player their own role plus the conditionally
// revealed player list. Caller must hold the manager lock.
func (gm *GameManager) notifyRoles(room *models.GameRoom) {
	for id, p := range room.Players {
		gm.notifier.ToPlayer(id, models.EventRoleAssigned, models.RoleAssignedPayload{
			Role:    p.Role,
			Players: roleView(room, id),
		})
	}
}
