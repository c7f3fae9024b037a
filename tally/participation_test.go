package tally

import (
	"testing"
	"time"

	"orgvote-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func roster(weights ...float64) []models.Voter {
	voters := make([]models.Voter, 0, len(weights))
	for i, w := range weights {
		voters = append(voters, models.Voter{
			ID:         primitive.NewObjectID(),
			VoterID:    string(rune('a' + i)),
			CanVote:    true,
			VoteWeight: w,
		})
	}
	return voters
}

func TestParticipationHeadCount(t *testing.T) {
	electionID := primitive.NewObjectID()
	voters := roster(1, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	// 7 votes from 4 distinct voters; repeat ballots do not inflate turnout.
	item := primitive.NewObjectID()
	option := primitive.NewObjectID()
	var votes []models.Vote
	for _, voterID := range []string{"a", "a", "b", "b", "b", "c", "d"} {
		votes = append(votes, vote(item, option, voterID, 0))
	}

	p := Participation(electionID, voters, votes)

	assert.Equal(t, electionID, p.ElectionID)
	assert.Equal(t, 10, p.TotalVoters)
	assert.Equal(t, 4, p.ParticipatedVoters)
}

func TestParticipationEmptyElection(t *testing.T) {
	p := Participation(primitive.NewObjectID(), nil, nil)
	assert.Zero(t, p.TotalVoters)
	assert.Zero(t, p.ParticipatedVoters)
}

func TestStatsZeroVotes(t *testing.T) {
	voters := roster(1, 1, 2)

	stats := Stats(voters, nil)

	assert.Equal(t, float64(4), stats.TotalEligibleWeight)
	assert.Zero(t, stats.WeightedTotalVotes)
	assert.Zero(t, stats.UniqueVoters)
	// No voters yet is a normal state, not a division error.
	assert.Zero(t, stats.ParticipationRate)
}

func TestStatsWeightedRate(t *testing.T) {
	voters := roster(1, 1, 2)

	item := primitive.NewObjectID()
	option := primitive.NewObjectID()
	votes := []models.Vote{vote(item, option, "c", 0)} // the weight-2 voter

	stats := Stats(voters, votes)

	assert.Equal(t, float64(4), stats.TotalEligibleWeight)
	assert.Equal(t, float64(2), stats.WeightedTotalVotes)
	assert.Equal(t, 1, stats.UniqueVoters)
	assert.InDelta(t, 0.5, stats.ParticipationRate, 1e-9)
}

func TestStatsEmptyRoster(t *testing.T) {
	item := primitive.NewObjectID()
	option := primitive.NewObjectID()

	// Orphan votes with no roster still produce a defined rate of 0.
	stats := Stats(nil, []models.Vote{vote(item, option, "ghost", 0)})

	assert.Zero(t, stats.TotalEligibleWeight)
	assert.Equal(t, float64(1), stats.WeightedTotalVotes)
	assert.Equal(t, 1, stats.UniqueVoters)
	assert.Zero(t, stats.ParticipationRate)
}

func TestStatsDistinctFromHeadCount(t *testing.T) {
	voters := roster(1, 3)
	item := primitive.NewObjectID()
	option := primitive.NewObjectID()
	votes := []models.Vote{
		vote(item, option, "a", 0),
		vote(item, option, "a", 0),
	}

	p := Participation(primitive.NewObjectID(), voters, votes)
	stats := Stats(voters, votes)

	assert.Equal(t, 1, p.ParticipatedVoters)
	assert.Equal(t, 1, stats.UniqueVoters)
	// Head count says 1 of 2; weighted rate says 1 of 4.
	assert.InDelta(t, 0.25, stats.ParticipationRate, 1e-9)
}

func TestTrendOrdersByStartTime(t *testing.T) {
	voters := roster(1, 1, 2)

	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)

	sessionLate := models.ElectionSession{ID: primitive.NewObjectID(), Name: "Board vote", StartTime: &late}
	sessionEarly := models.ElectionSession{ID: primitive.NewObjectID(), Name: "Statute vote", StartTime: &early}
	sessionNeverStarted := models.ElectionSession{ID: primitive.NewObjectID(), Name: "Draft"}

	item := primitive.NewObjectID()
	option := primitive.NewObjectID()
	votes := []models.Vote{
		{VotingSessionID: sessionEarly.ID, VotingItemID: item, OptionID: option, VoterID: "a"},
		{VotingSessionID: sessionEarly.ID, VotingItemID: item, OptionID: option, VoterID: "b"},
		{VotingSessionID: sessionLate.ID, VotingItemID: item, OptionID: option, VoterID: "c"},
	}

	points := Trend([]models.ElectionSession{sessionLate, sessionNeverStarted, sessionEarly}, voters, votes)

	require.Len(t, points, 3)
	assert.Equal(t, sessionEarly.ID, points[0].SessionID)
	assert.Equal(t, sessionLate.ID, points[1].SessionID)
	assert.Equal(t, sessionNeverStarted.ID, points[2].SessionID)

	assert.InDelta(t, 0.5, points[0].ParticipationRate, 1e-9)  // a+b = 2 of 4
	assert.InDelta(t, 0.5, points[1].ParticipationRate, 1e-9)  // c   = 2 of 4
	assert.Zero(t, points[2].ParticipationRate)
}

func TestTrendEmptyElectorate(t *testing.T) {
	session := models.ElectionSession{ID: primitive.NewObjectID(), Name: "Empty"}

	points := Trend([]models.ElectionSession{session}, nil, nil)

	require.Len(t, points, 1)
	assert.Zero(t, points[0].ParticipationRate)
}
