package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func option(value string) VotingOption {
	return VotingOption{ID: primitive.NewObjectID(), Value: value}
}

func TestReconcileAbstainOptions(t *testing.T) {
	abstain := option(AbstainValue)
	extraAbstain := option(AbstainValue)
	yes := option("Yes")
	no := option("No")

	tests := []struct {
		name         string
		existing     []VotingOption
		allowAbstain bool
		wantCreate   []string
		wantRemove   []primitive.ObjectID
	}{
		{
			name:         "enable with none present",
			existing:     []VotingOption{yes, no},
			allowAbstain: true,
			wantCreate:   []string{AbstainValue},
		},
		{
			name:         "enable with one already present",
			existing:     []VotingOption{yes, no, abstain},
			allowAbstain: true,
		},
		{
			name:         "enable prunes duplicates down to one",
			existing:     []VotingOption{yes, abstain, extraAbstain},
			allowAbstain: true,
			wantRemove:   []primitive.ObjectID{extraAbstain.ID},
		},
		{
			name:         "disable removes all",
			existing:     []VotingOption{yes, no, abstain, extraAbstain},
			allowAbstain: false,
			wantRemove:   []primitive.ObjectID{abstain.ID, extraAbstain.ID},
		},
		{
			name:         "disable with none present is a no-op",
			existing:     []VotingOption{yes, no},
			allowAbstain: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			create, remove := ReconcileAbstainOptions(tc.existing, tc.allowAbstain)
			assert.Equal(t, tc.wantCreate, create)
			assert.ElementsMatch(t, tc.wantRemove, remove)
		})
	}
}

func TestAbstainToggleRoundTrip(t *testing.T) {
	// false -> true -> false ends with zero Abstain options, and at no point
	// does the item hold more than one.
	options := []VotingOption{option("Yes"), option("No")}

	create, remove := ReconcileAbstainOptions(options, true)
	assert.Len(t, create, 1)
	assert.Empty(t, remove)
	for _, label := range create {
		options = append(options, option(label))
	}

	create, remove = ReconcileAbstainOptions(options, true)
	assert.Empty(t, create)
	assert.Empty(t, remove)

	create, remove = ReconcileAbstainOptions(options, false)
	assert.Empty(t, create)
	assert.Len(t, remove, 1)
}

func TestDefaultStatuteOptions(t *testing.T) {
	assert.Equal(t, []string{"Yes", "No"}, DefaultStatuteOptions())
}

func TestVoterWeightDefault(t *testing.T) {
	assert.Equal(t, float64(1), Voter{}.Weight())
	assert.Equal(t, float64(1), Voter{VoteWeight: -2}.Weight())
	assert.Equal(t, float64(2.5), Voter{VoteWeight: 2.5}.Weight())
}
