package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/werewolf-game/server/internal/models"
)

// The phase machine is LOBBY -> NIGHT -> DAY -> NIGHT ... with GAME_OVER
// terminal. Phases always run their full timer; there is no early-advance.
// Timers are never cancelled: a stale callback no-ops because it re-checks
// that the room still exists and is still in the phase it was scheduled
// for.

// startNightPhase clears all per-phase state and schedules the night
// resolution. Caller must hold the manager lock.
func (gm *GameManager) startNightPhase(room *models.GameRoom) {
	room.Votes = make(map[string]string)
	room.WerewolfVotes = make(map[string]string)
	room.DoctorSave = ""
	room.EliminatedTonight = ""
	room.Phase = models.PhaseNight

	log.Debug().Str("room", room.Code).Int("day", room.DayCount).Msg("night falls")

	gm.notifier.ToRoom(room.Code, models.EventPhaseChange, models.PhaseChangePayload{
		Phase:    models.PhaseNight,
		DayCount: room.DayCount,
		TimeLeft: int(gm.timings.Night.Seconds()),
	})

	code := room.Code
	time.AfterFunc(gm.timings.Night, func() {
		gm.resolveNightPhase(code)
	})
}

// resolveNightPhase fires when the night timer runs out: the werewolf kill
// is tallied, the doctor may cancel it, the casualty (if any) is recorded,
// and the room moves to day.
func (gm *GameManager) resolveNightPhase(code string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[code]
	if !exists || room.Phase != models.PhaseNight {
		return
	}

	room.EliminatedTonight = resolveVotes(room.WerewolfVotes)

	if room.EliminatedTonight != "" && room.DoctorSave == room.EliminatedTonight {
		log.Debug().Str("room", code).Str("target", room.EliminatedTonight).Msg("doctor save cancelled the kill")
		room.EliminatedTonight = ""
	}

	if room.EliminatedTonight != "" {
		victim := room.Players[room.EliminatedTonight]
		if victim == nil || !victim.IsAlive {
			// target left the room or died before the night resolved; a
			// player is never eliminated twice
			room.EliminatedTonight = ""
		} else {
			victim.IsAlive = false
			room.RoleHistory = append(room.RoleHistory, models.RoleRecord{
				ID:            victim.ID,
				Username:      victim.Username,
				Role:          victim.Role,
				DayEliminated: room.DayCount,
			})
			log.Info().Str("room", code).Str("victim", victim.Username).Msg("night kill")
		}
	}

	gm.startDayPhase(room)

	if gm.checkGameOver(room) {
		return
	}
	time.AfterFunc(gm.timings.Day, func() {
		gm.resolveDayPhase(code)
	})
}

// startDayPhase reports the night's casualty and opens the execution vote.
// The day-resolution timer is scheduled by the caller so a game that ended
// overnight schedules nothing. Caller must hold the manager lock.
func (gm *GameManager) startDayPhase(room *models.GameRoom) {
	room.Phase = models.PhaseDay
	room.Votes = make(map[string]string)

	var eliminated *models.EliminatedPlayer
	if room.EliminatedTonight != "" {
		if victim := room.Players[room.EliminatedTonight]; victim != nil {
			eliminated = &models.EliminatedPlayer{
				ID:       victim.ID,
				Username: victim.Username,
			}
		}
	}

	gm.notifier.ToRoom(room.Code, models.EventPhaseChange, models.PhaseChangePayload{
		Phase:            models.PhaseDay,
		DayCount:         room.DayCount,
		TimeLeft:         int(gm.timings.Day.Seconds()),
		EliminatedPlayer: eliminated,
	})
}

// resolveDayPhase fires when the day timer runs out: the execution vote is
// tallied, the plurality target is eliminated with their role revealed,
// and unless the game ended the day counter advances and the next night is
// scheduled after the dusk pause.
func (gm *GameManager) resolveDayPhase(code string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, exists := gm.rooms[code]
	if !exists || room.Phase != models.PhaseDay {
		return
	}

	if targetID := resolveVotes(room.Votes); targetID != "" {
		// a plurality on a departed or already-dead id fizzles
		if target := room.Players[targetID]; target != nil && target.IsAlive {
			target.IsAlive = false
			room.RoleHistory = append(room.RoleHistory, models.RoleRecord{
				ID:            target.ID,
				Username:      target.Username,
				Role:          target.Role,
				DayEliminated: room.DayCount,
			})
			log.Info().Str("room", code).Str("executed", target.Username).Str("role", string(target.Role)).Msg("day execution")

			gm.notifier.ToRoom(code, models.EventDayResult, models.DayResultPayload{
				EliminatedPlayer: &models.EliminatedPlayer{
					ID:       target.ID,
					Username: target.Username,
					Role:     target.Role,
				},
			})
		}
	}

	if gm.checkGameOver(room) {
		return
	}

	room.DayCount++
	time.AfterFunc(gm.timings.Dusk, func() {
		gm.mu.Lock()
		defer gm.mu.Unlock()
		room, exists := gm.rooms[code]
		if !exists || room.Phase != models.PhaseDay {
			return
		}
		gm.startNightPhase(room)
	})
}
