package tally

import (
	"orgvote-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DetailedResult is one aggregated row per (voting item, option) pair that
// received at least one vote. Items or options without votes produce no row;
// callers that need zero-filled rows must join against the live option set.
type DetailedResult struct {
	VotingItemID primitive.ObjectID `json:"votingItemId"`
	OptionID     primitive.ObjectID `json:"optionId"`
	VoteCount    float64            `json:"voteCount"`
}

// Tally groups a flat vote list into per-(item, option) counts in a single
// pass. The increment for each vote is its snapshotted weight when set,
// otherwise the voter's roster weight from voterWeights, otherwise 1.
// Votes referencing deleted items or options are counted as-is; they are
// recorded history, not subject to validation here. Output order is
// unspecified.
func Tally(votes []models.Vote, voterWeights map[string]float64) []DetailedResult {
	byItem := make(map[primitive.ObjectID]map[primitive.ObjectID]float64)

	for _, vote := range votes {
		inc := vote.Weight
		if inc <= 0 {
			if w, ok := voterWeights[vote.VoterID]; ok && w > 0 {
				inc = w
			} else {
				inc = 1
			}
		}

		byOption, ok := byItem[vote.VotingItemID]
		if !ok {
			byOption = make(map[primitive.ObjectID]float64)
			byItem[vote.VotingItemID] = byOption
		}
		byOption[vote.OptionID] += inc
	}

	results := make([]DetailedResult, 0, len(byItem))
	for itemID, options := range byItem {
		for optionID, count := range options {
			results = append(results, DetailedResult{
				VotingItemID: itemID,
				OptionID:     optionID,
				VoteCount:    count,
			})
		}
	}
	return results
}

// VoterWeights builds the voterId -> weight lookup used by Tally and the
// participation statistics. Unset weights default to 1.
func VoterWeights(roster []models.Voter) map[string]float64 {
	weights := make(map[string]float64, len(roster))
	for _, voter := range roster {
		weights[voter.VoterID] = voter.Weight()
	}
	return weights
}

// TotalCount sums the vote counts across all result rows.
func TotalCount(results []DetailedResult) float64 {
	var total float64
	for _, r := range results {
		total += r.VoteCount
	}
	return total
}
