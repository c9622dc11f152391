package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/werewolf-game/server/internal/models"
)

func fourPlayerRoles() map[string]models.Role {
	return map[string]models.Role{
		"p1": models.RoleWerewolf,
		"p2": models.RoleSeer,
	}
}

func TestNightResolutionKill(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(5)
	gm.forceStart(code, fourPlayerRoles())
	notifier.reset()

	gm.HandleWerewolfVote("p1", code, "p3")
	gm.resolveNightPhase(code)

	room := gm.roomState(code)
	assert.Equal(t, models.PhaseDay, room.Phase)
	assert.Equal(t, 1, room.DayCount, "the first day keeps dayCount 1")
	assert.False(t, room.Players["p3"].IsAlive)
	require.Len(t, room.RoleHistory, 1)
	assert.Equal(t, "p3", room.RoleHistory[0].ID)
	assert.Equal(t, 1, room.RoleHistory[0].DayEliminated)

	changes := notifier.byEvent(models.EventPhaseChange)
	require.Len(t, changes, 1)
	payload := changes[0].Payload.(models.PhaseChangePayload)
	assert.Equal(t, models.PhaseDay, payload.Phase)
	require.NotNil(t, payload.EliminatedPlayer)
	assert.Equal(t, "p3", payload.EliminatedPlayer.ID)
	assert.Equal(t, "user3", payload.EliminatedPlayer.Username)
	assert.Empty(t, payload.EliminatedPlayer.Role, "night casualties are reported without a role")
}

func TestNightResolutionDoctorSaveCancelsKill(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(6)
	roles := fourPlayerRoles()
	roles["p3"] = models.RoleDoctor
	gm.forceStart(code, roles)
	notifier.reset()

	gm.HandleWerewolfVote("p1", code, "p4")
	gm.HandleDoctorSave("p3", code, "p4")
	gm.resolveNightPhase(code)

	room := gm.roomState(code)
	assert.True(t, room.Players["p4"].IsAlive)
	assert.Empty(t, room.RoleHistory)

	changes := notifier.byEvent(models.EventPhaseChange)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Payload.(models.PhaseChangePayload).EliminatedPlayer)
}

func TestNightResolutionDoctorSelfSave(t *testing.T) {
	gm, _, code, _ := newTestRoom(6)
	roles := fourPlayerRoles()
	roles["p3"] = models.RoleDoctor
	gm.forceStart(code, roles)

	gm.HandleWerewolfVote("p1", code, "p3")
	gm.HandleDoctorSave("p3", code, "p3")
	gm.resolveNightPhase(code)

	assert.True(t, gm.roomState(code).Players["p3"].IsAlive)
}

func TestNightResolutionAllAbstain(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())
	notifier.reset()

	gm.resolveNightPhase(code)

	room := gm.roomState(code)
	assert.Equal(t, models.PhaseDay, room.Phase)
	for _, p := range room.Players {
		assert.True(t, p.IsAlive)
	}
	changes := notifier.byEvent(models.EventPhaseChange)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Payload.(models.PhaseChangePayload).EliminatedPlayer)
}

func TestNightResolutionTargetAlreadyLeft(t *testing.T) {
	gm, _, code, _ := newTestRoom(5)
	gm.forceStart(code, fourPlayerRoles())

	gm.HandleWerewolfVote("p1", code, "p3")
	gm.RemovePlayer("p3")
	gm.resolveNightPhase(code)

	room := gm.roomState(code)
	assert.Equal(t, models.PhaseDay, room.Phase)
	// p3's departure is the only history entry; the kill fizzled
	require.Len(t, room.RoleHistory, 1)
	assert.Equal(t, "p3", room.RoleHistory[0].ID)
}

func TestNightResolutionTargetAlreadyDead(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(5)
	gm.forceStart(code, fourPlayerRoles())

	// night 1 kills p3, the day passes without a vote
	gm.HandleWerewolfVote("p1", code, "p3")
	gm.resolveNightPhase(code)
	gm.resolveDayPhase(code)
	gm.setPhase(code, models.PhaseNight)
	notifier.reset()

	// night 2: the werewolf mauls the corpse again
	gm.HandleWerewolfVote("p1", code, "p3")
	gm.resolveNightPhase(code)

	room := gm.roomState(code)
	assert.Equal(t, models.PhaseDay, room.Phase)
	require.Len(t, room.RoleHistory, 1, "a player dies at most once")
	assert.Equal(t, "p3", room.RoleHistory[0].ID)

	changes := notifier.byEvent(models.EventPhaseChange)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Payload.(models.PhaseChangePayload).EliminatedPlayer)
}

func TestNightResolutionStaleTimerIsNoop(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())
	gm.setPhase(code, models.PhaseDay)
	notifier.reset()

	gm.resolveNightPhase(code)

	assert.Equal(t, models.PhaseDay, gm.roomState(code).Phase)
	assert.Empty(t, notifier.byEvent(models.EventPhaseChange))
}

func TestNightResolutionDestroyedRoomIsNoop(t *testing.T) {
	gm, _, code, ids := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())
	for _, id := range ids {
		gm.RemovePlayer(id)
	}

	gm.resolveNightPhase(code) // must not panic
}

func TestDayResolutionExecutesPluralityTarget(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(5)
	gm.forceStart(code, fourPlayerRoles())
	gm.resolveNightPhase(code)
	notifier.reset()

	// C -> D, D -> D: two votes on p4
	gm.HandleDayVote("p3", code, "p4")
	gm.HandleDayVote("p4", code, "p4")
	gm.resolveDayPhase(code)

	room := gm.roomState(code)
	assert.False(t, room.Players["p4"].IsAlive)
	require.Len(t, room.RoleHistory, 1)
	assert.Equal(t, "p4", room.RoleHistory[0].ID)
	assert.Equal(t, 1, room.RoleHistory[0].DayEliminated)
	assert.Equal(t, 2, room.DayCount, "a survived day advances the counter")

	results := notifier.byEvent(models.EventDayResult)
	require.Len(t, results, 1)
	payload := results[0].Payload.(models.DayResultPayload)
	require.NotNil(t, payload.EliminatedPlayer)
	assert.Equal(t, "p4", payload.EliminatedPlayer.ID)
	assert.Equal(t, models.RoleVillager, payload.EliminatedPlayer.Role, "executions reveal the role")
}

func TestDayResolutionIgnoresDeadTarget(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(6)
	gm.forceStart(code, fourPlayerRoles())
	gm.HandleWerewolfVote("p1", code, "p3")
	gm.resolveNightPhase(code)
	notifier.reset()

	// the village piles its votes onto the overnight casualty
	gm.HandleDayVote("p4", code, "p3")
	gm.HandleDayVote("p5", code, "p3")
	gm.resolveDayPhase(code)

	room := gm.roomState(code)
	require.Len(t, room.RoleHistory, 1, "a player dies at most once")
	assert.Equal(t, "p3", room.RoleHistory[0].ID)
	assert.Equal(t, 2, room.DayCount)
	assert.Empty(t, notifier.byEvent(models.EventDayResult))
}

func TestDayResolutionNoVotes(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())
	gm.resolveNightPhase(code)
	notifier.reset()

	gm.resolveDayPhase(code)

	room := gm.roomState(code)
	for _, p := range room.Players {
		assert.True(t, p.IsAlive)
	}
	assert.Equal(t, 2, room.DayCount)
	assert.Empty(t, notifier.byEvent(models.EventDayResult))
}

func TestDayResolutionWinSkipsDayIncrement(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())
	gm.resolveNightPhase(code)
	notifier.reset()

	// everyone votes out the lone werewolf
	gm.HandleDayVote("p2", code, "p1")
	gm.HandleDayVote("p3", code, "p1")
	gm.HandleDayVote("p4", code, "p1")
	gm.resolveDayPhase(code)

	room := gm.roomState(code)
	assert.Equal(t, models.PhaseGameOver, room.Phase)
	assert.Equal(t, models.WinnerVillagers, room.Winner)
	assert.Equal(t, 1, room.DayCount, "a game-ending day does not advance the counter")
	assert.NotEmpty(t, notifier.byEvent(models.EventGameOver))
}

func TestDayResolutionStaleTimerIsNoop(t *testing.T) {
	gm, _, code, _ := newTestRoom(4)
	gm.forceStart(code, fourPlayerRoles())

	gm.resolveDayPhase(code) // room is in NIGHT

	assert.Equal(t, models.PhaseNight, gm.roomState(code).Phase)
}

func TestDuskLeadsIntoNextNight(t *testing.T) {
	gm, _, code, _ := newTestRoom(5)
	gm.SetTimings(Timings{Night: time.Hour, Day: time.Hour, Dusk: 10 * time.Millisecond})
	gm.forceStart(code, fourPlayerRoles())
	gm.resolveNightPhase(code)

	gm.HandleDayVote("p3", code, "p4")
	gm.resolveDayPhase(code)

	require.Eventually(t, func() bool {
		return gm.roomState(code).Phase == models.PhaseNight
	}, time.Second, 5*time.Millisecond)

	room := gm.roomState(code)
	assert.Equal(t, 2, room.DayCount)
	assert.Empty(t, room.Votes, "night entry clears day votes")
	assert.Empty(t, room.WerewolfVotes)
	assert.Empty(t, room.DoctorSave)
	assert.Empty(t, room.EliminatedTonight)
}

// Full 4-player game mirroring the reference flow: night kill, then the
// village executes the lone werewolf.
func TestFourPlayerGameScenario(t *testing.T) {
	gm, notifier, code, _ := newTestRoom(4)
	require.NoError(t, gm.StartGame("p1", code))
	gm.setRoles(code, fourPlayerRoles())
	notifier.reset()

	// night 1: the werewolf takes out the seer
	gm.HandleWerewolfVote("p1", code, "p2")
	update, ok := notifier.lastToPlayer("p1", models.EventWerewolfVoteUpdate)
	require.True(t, ok)
	wolfUpdate := update.Payload.(models.WerewolfVoteUpdatePayload)
	assert.Equal(t, "user1", wolfUpdate.Voter)
	assert.Equal(t, "user2", wolfUpdate.Target)
	assert.Equal(t, 1, wolfUpdate.VoteCount)
	assert.Equal(t, 1, wolfUpdate.TotalWerewolves)

	gm.resolveNightPhase(code)
	room := gm.roomState(code)
	assert.False(t, room.Players["p2"].IsAlive)
	assert.Equal(t, models.PhaseDay, room.Phase)
	assert.Equal(t, 1, room.DayCount)

	// day 1: the survivors vote out the werewolf and the village wins
	gm.HandleDayVote("p3", code, "p1")
	gm.HandleDayVote("p4", code, "p1")
	votes := notifier.byEvent(models.EventVoteUpdate)
	require.Len(t, votes, 2)
	last := votes[1].Payload.(models.VoteUpdatePayload)
	assert.Equal(t, 2, last.VoteCount)
	assert.Equal(t, 3, last.TotalAlive)

	gm.resolveDayPhase(code)
	room = gm.roomState(code)
	assert.Equal(t, models.PhaseGameOver, room.Phase)
	assert.Equal(t, models.WinnerVillagers, room.Winner)

	overs := notifier.byEvent(models.EventGameOver)
	require.Len(t, overs, 1)
	payload := overs[0].Payload.(models.GameOverPayload)
	assert.Equal(t, models.WinnerVillagers, payload.Winner)
	assert.Len(t, payload.RoleReveal, 4)
	require.Len(t, payload.RoleHistory, 2)
	assert.Equal(t, "p2", payload.RoleHistory[0].ID)
	assert.Equal(t, "p1", payload.RoleHistory[1].ID)
}
