package tally

import (
	"math/rand"
	"testing"

	"orgvote-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func vote(itemID, optionID primitive.ObjectID, voterID string, weight float64) models.Vote {
	return models.Vote{
		ID:           primitive.NewObjectID(),
		VotingItemID: itemID,
		OptionID:     optionID,
		VoterID:      voterID,
		Weight:       weight,
	}
}

func TestTallyGroupsByItemAndOption(t *testing.T) {
	item := primitive.NewObjectID()
	optionA := primitive.NewObjectID()
	optionB := primitive.NewObjectID()

	votes := []models.Vote{
		vote(item, optionA, "v1", 0),
		vote(item, optionA, "v2", 0),
		vote(item, optionA, "v3", 0),
		vote(item, optionB, "v4", 0),
	}

	results := Tally(votes, nil)

	assert.ElementsMatch(t, []DetailedResult{
		{VotingItemID: item, OptionID: optionA, VoteCount: 3},
		{VotingItemID: item, OptionID: optionB, VoteCount: 1},
	}, results)
}

func TestTallyWeightResolution(t *testing.T) {
	item := primitive.NewObjectID()
	option := primitive.NewObjectID()

	tests := []struct {
		name     string
		votes    []models.Vote
		weights  map[string]float64
		expected float64
	}{
		{
			name:     "snapshotted vote weight wins",
			votes:    []models.Vote{vote(item, option, "v1", 2.5)},
			weights:  map[string]float64{"v1": 7},
			expected: 2.5,
		},
		{
			name:     "falls back to roster weight",
			votes:    []models.Vote{vote(item, option, "v1", 0)},
			weights:  map[string]float64{"v1": 3},
			expected: 3,
		},
		{
			name:     "unknown voter defaults to 1",
			votes:    []models.Vote{vote(item, option, "stranger", 0)},
			weights:  map[string]float64{"v1": 3},
			expected: 1,
		},
		{
			name:     "nil lookup table defaults to 1",
			votes:    []models.Vote{vote(item, option, "v1", 0)},
			expected: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results := Tally(tc.votes, tc.weights)
			require.Len(t, results, 1)
			assert.Equal(t, tc.expected, results[0].VoteCount)
		})
	}
}

func TestTallyConservation(t *testing.T) {
	items := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	options := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	rng := rand.New(rand.NewSource(42))
	var votes []models.Vote
	var expectedTotal float64
	for i := 0; i < 200; i++ {
		w := float64(rng.Intn(3)) // 0 means unset, counts as 1
		v := vote(items[rng.Intn(len(items))], options[rng.Intn(len(options))], "voter", w)
		votes = append(votes, v)
		if w <= 0 {
			expectedTotal++
		} else {
			expectedTotal += w
		}
	}

	results := Tally(votes, nil)
	assert.InDelta(t, expectedTotal, TotalCount(results), 1e-9)
}

func TestTallyOrderIndependence(t *testing.T) {
	item := primitive.NewObjectID()
	optionA := primitive.NewObjectID()
	optionB := primitive.NewObjectID()

	votes := []models.Vote{
		vote(item, optionA, "v1", 1),
		vote(item, optionB, "v2", 2),
		vote(item, optionA, "v3", 1),
		vote(item, optionB, "v4", 1),
		vote(item, optionA, "v5", 3),
	}

	baseline := Tally(votes, nil)

	shuffled := make([]models.Vote, len(votes))
	copy(shuffled, votes)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assert.ElementsMatch(t, baseline, Tally(shuffled, nil))
}

func TestTallyZeroVoteItemsProduceNoRows(t *testing.T) {
	votedItem := primitive.NewObjectID()
	votedOption := primitive.NewObjectID()
	silentOption := primitive.NewObjectID()

	results := Tally([]models.Vote{vote(votedItem, votedOption, "v1", 0)}, nil)

	require.Len(t, results, 1)
	for _, r := range results {
		assert.NotEqual(t, silentOption, r.OptionID)
	}
}

func TestTallyOrphanReferencesAreCounted(t *testing.T) {
	// Votes referencing deleted items/options are history; they still count.
	deletedItem := primitive.NewObjectID()
	deletedOption := primitive.NewObjectID()

	results := Tally([]models.Vote{vote(deletedItem, deletedOption, "v1", 0)}, nil)

	require.Len(t, results, 1)
	assert.Equal(t, deletedItem, results[0].VotingItemID)
	assert.Equal(t, float64(1), results[0].VoteCount)
}

func TestTallyEmptyInput(t *testing.T) {
	assert.Empty(t, Tally(nil, nil))
	assert.Zero(t, TotalCount(nil))
}

func TestVoterWeightsDefaults(t *testing.T) {
	roster := []models.Voter{
		{VoterID: "a", VoteWeight: 2},
		{VoterID: "b"}, // unset weight counts as 1
	}

	weights := VoterWeights(roster)
	assert.Equal(t, float64(2), weights["a"])
	assert.Equal(t, float64(1), weights["b"])
}
