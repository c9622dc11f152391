package game

import (
	"github.com/rs/zerolog/log"
	"github.com/werewolf-game/server/internal/models"
)

// checkGameOver runs the win conditions after an elimination: villagers
// win when no werewolf is left alive, werewolves win when they equal or
// outnumber everyone else. Returns true when the game ended. Caller must
// hold the manager lock.
func (gm *GameManager) checkGameOver(room *models.GameRoom) bool {
	aliveWerewolves := 0
	aliveOthers := 0
	for _, p := range room.Players {
		if !p.IsAlive {
			continue
		}
		if p.Role == models.RoleWerewolf {
			aliveWerewolves++
		} else {
			aliveOthers++
		}
	}

	switch {
	case aliveWerewolves == 0:
		room.Winner = models.WinnerVillagers
	case aliveWerewolves >= aliveOthers:
		room.Winner = models.WinnerWerewolves
	default:
		return false
	}

	gm.endGame(room)
	return true
}

// endGame moves the room to its terminal phase and broadcasts the winner
// together with the full role reveal and elimination history. No timer is
// scheduled past this point; anything already pending no-ops on the phase
// guard.
func (gm *GameManager) endGame(room *models.GameRoom) {
	room.Phase = models.PhaseGameOver

	log.Info().Str("room", room.Code).Str("winner", room.Winner).Msg("game over")

	reveal := make([]models.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		reveal = append(reveal, models.PlayerView{
			ID:       p.ID,
			Username: p.Username,
			IsAlive:  p.IsAlive,
			Role:     p.Role,
		})
	}

	gm.notifier.ToRoom(room.Code, models.EventGameOver, models.GameOverPayload{
		Winner:      room.Winner,
		RoleReveal:  reveal,
		RoleHistory: room.RoleHistory,
	})
}
