package access

import (
	"testing"
	"time"

	"orgvote-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fixture() (models.Election, models.ElectionSession, []models.VotingItem, []models.VotingOption) {
	election := models.Election{
		ID:     primitive.NewObjectID(),
		Name:   "Board election 2026",
		TeamID: "team-abc",
		Status: models.StatusUpcoming,
	}
	session := models.ElectionSession{
		ID:         primitive.NewObjectID(),
		ElectionID: election.ID,
		Name:       "General assembly",
		Status:     models.StatusUpcoming,
	}
	items := []models.VotingItem{
		{ID: primitive.NewObjectID(), SessionID: session.ID, Title: "Chair"},
		{ID: primitive.NewObjectID(), SessionID: session.ID, Title: "Treasurer"},
	}
	options := []models.VotingOption{
		{ID: primitive.NewObjectID(), VotingItemID: items[0].ID, Value: "Alice"},
		{ID: primitive.NewObjectID(), VotingItemID: items[0].ID, Value: "Bob"},
		{ID: primitive.NewObjectID(), VotingItemID: items[1].ID, Value: "Carol"},
	}
	return election, session, items, options
}

func TestPlanStartGrantsVoterRead(t *testing.T) {
	election, session, items, options := fixture()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	plan, err := PlanStart(election, session, items, options, now)
	require.NoError(t, err)

	assert.Equal(t, models.StatusOngoing, plan.SessionStatus)
	assert.Equal(t, models.StatusOngoing, plan.ElectionStatus)
	require.NotNil(t, plan.StartTime)
	assert.Equal(t, now, *plan.StartTime)
	assert.Nil(t, plan.EndTime)

	require.Len(t, plan.ItemPermissions, 2)
	require.Len(t, plan.OptionPermissions, 3)
	for _, perms := range plan.ItemPermissions {
		assert.Contains(t, perms, `read("team:team-abc/voter")`)
		assert.Contains(t, perms, `update("team:team-abc/owner")`)
	}
}

func TestPlanStartIsIdempotent(t *testing.T) {
	election, session, items, options := fixture()
	startedAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	first, err := PlanStart(election, session, items, options, startedAt)
	require.NoError(t, err)

	// Same session after the first start has been applied.
	ongoing := session
	ongoing.Status = models.StatusOngoing
	ongoing.StartTime = first.StartTime

	second, err := PlanStart(election, ongoing, items, options, startedAt.Add(5*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first.ItemPermissions, second.ItemPermissions)
	assert.Equal(t, first.OptionPermissions, second.OptionPermissions)
	// The original start time survives a repeated start.
	assert.Equal(t, first.StartTime, second.StartTime)
}

func TestPlanStopRevokesVoterRead(t *testing.T) {
	election, session, items, options := fixture()
	session.Status = models.StatusOngoing
	startedAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	session.StartTime = &startedAt
	now := startedAt.Add(2 * time.Hour)

	plan, err := PlanStop(election, session, items, options, now)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPast, plan.SessionStatus)
	require.NotNil(t, plan.EndTime)
	assert.Equal(t, now, *plan.EndTime)
	assert.Equal(t, &startedAt, plan.StartTime)

	for _, perms := range plan.ItemPermissions {
		assert.NotContains(t, perms, `read("team:team-abc/voter")`)
		assert.Contains(t, perms, `read("team:team-abc/owner")`)
		assert.Contains(t, perms, `delete("team:team-abc/owner")`)
	}
	for _, perms := range plan.OptionPermissions {
		assert.NotContains(t, perms, `read("team:team-abc/voter")`)
	}
}

func TestInvalidTransitions(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		status models.LifecycleStatus
		stop   bool
	}{
		{name: "stop an upcoming session", status: models.StatusUpcoming, stop: true},
		{name: "stop a past session", status: models.StatusPast, stop: true},
		{name: "start a past session", status: models.StatusPast, stop: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			election, session, items, options := fixture()
			session.Status = tc.status

			var err error
			if tc.stop {
				_, err = PlanStop(election, session, items, options, now)
			} else {
				_, err = PlanStart(election, session, items, options, now)
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestPlanFailsClosedWithoutTeam(t *testing.T) {
	election, session, items, options := fixture()
	election.TeamID = ""

	_, err := PlanStart(election, session, items, options, time.Now())
	assert.ErrorIs(t, err, ErrMissingTeam)
}

func TestPlanRejectsForeignSession(t *testing.T) {
	election, session, items, options := fixture()
	session.ElectionID = primitive.NewObjectID()

	_, err := PlanStart(election, session, items, options, time.Now())
	assert.ErrorIs(t, err, ErrElectionMismatch)
}

func TestPermissionsAreSortedAndStable(t *testing.T) {
	first := Permissions("team-abc", models.StatusOngoing)
	second := Permissions("team-abc", models.StatusOngoing)

	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)

	past := Permissions("team-abc", models.StatusPast)
	assert.Len(t, past, 3)
	assert.Len(t, first, 4)
}

func TestPlanWithEmptySession(t *testing.T) {
	election, session, _, _ := fixture()

	plan, err := PlanStart(election, session, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, plan.ItemPermissions)
	assert.Empty(t, plan.OptionPermissions)
}
