package tally

import (
	"sort"
	"time"

	"orgvote-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoterParticipation is the simple head-count turnout for an election.
// ParticipatedVoters counts distinct voterIds with at least one vote,
// regardless of how many votes each cast.
type VoterParticipation struct {
	ElectionID         primitive.ObjectID `json:"electionId"`
	TotalVoters        int                `json:"totalVoters"`
	ParticipatedVoters int                `json:"participatedVoters"`
}

// ElectionStats is the weighted form used by the statistics dashboard.
// ParticipationRate is the summed roster weight of distinct participating
// voters divided by the total eligible weight, 0 when the electorate is empty.
type ElectionStats struct {
	TotalEligibleWeight float64 `json:"totalEligibleWeight"`
	WeightedTotalVotes  float64 `json:"weightedTotalVotes"`
	UniqueVoters        int     `json:"uniqueVoters"`
	ParticipationRate   float64 `json:"participationRate"`
}

// TrendPoint is one per-session sample of weighted participation, for
// time-series display.
type TrendPoint struct {
	SessionID         primitive.ObjectID `json:"sessionId"`
	SessionName       string             `json:"sessionName"`
	StartTime         *time.Time         `json:"startTime,omitempty"`
	ParticipationRate float64            `json:"participationRate"`
}

// Participation computes head-count turnout: roster size versus distinct
// voters who cast at least one vote.
func Participation(electionID primitive.ObjectID, roster []models.Voter, votes []models.Vote) VoterParticipation {
	seen := make(map[string]struct{})
	for _, vote := range votes {
		seen[vote.VoterID] = struct{}{}
	}
	return VoterParticipation{
		ElectionID:         electionID,
		TotalVoters:        len(roster),
		ParticipatedVoters: len(seen),
	}
}

// Stats computes the weighted election statistics. This is a separate
// operation from Participation on purpose: the turnout widget wants plain
// head counts, the dashboard wants weight-adjusted rates, and the two must
// not be conflated.
func Stats(roster []models.Voter, votes []models.Vote) ElectionStats {
	weights := VoterWeights(roster)

	var totalEligible float64
	for _, voter := range roster {
		totalEligible += voter.Weight()
	}

	var weightedVotes float64
	seen := make(map[string]struct{})
	for _, vote := range votes {
		inc := vote.Weight
		if inc <= 0 {
			if w, ok := weights[vote.VoterID]; ok {
				inc = w
			} else {
				inc = 1
			}
		}
		weightedVotes += inc
		seen[vote.VoterID] = struct{}{}
	}

	var participatedWeight float64
	for voterID := range seen {
		if w, ok := weights[voterID]; ok {
			participatedWeight += w
		} else {
			participatedWeight += 1
		}
	}

	stats := ElectionStats{
		TotalEligibleWeight: totalEligible,
		WeightedTotalVotes:  weightedVotes,
		UniqueVoters:        len(seen),
	}
	if totalEligible > 0 {
		stats.ParticipationRate = participatedWeight / totalEligible
	}
	return stats
}

// Trend produces one weighted participation point per session, ordered by
// startTime ascending (sessions that never started sort last).
func Trend(sessions []models.ElectionSession, roster []models.Voter, votes []models.Vote) []TrendPoint {
	weights := VoterWeights(roster)

	var totalEligible float64
	for _, voter := range roster {
		totalEligible += voter.Weight()
	}

	votersBySession := make(map[primitive.ObjectID]map[string]struct{})
	for _, vote := range votes {
		seen, ok := votersBySession[vote.VotingSessionID]
		if !ok {
			seen = make(map[string]struct{})
			votersBySession[vote.VotingSessionID] = seen
		}
		seen[vote.VoterID] = struct{}{}
	}

	ordered := make([]models.ElectionSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].StartTime, ordered[j].StartTime
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	points := make([]TrendPoint, 0, len(ordered))
	for _, session := range ordered {
		var participatedWeight float64
		for voterID := range votersBySession[session.ID] {
			if w, ok := weights[voterID]; ok {
				participatedWeight += w
			} else {
				participatedWeight += 1
			}
		}

		point := TrendPoint{
			SessionID:   session.ID,
			SessionName: session.Name,
			StartTime:   session.StartTime,
		}
		if totalEligible > 0 {
			point.ParticipationRate = participatedWeight / totalEligible
		}
		points = append(points, point)
	}
	return points
}
