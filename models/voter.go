package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Voter is one eligible participant in an election. Existence implies
// eligibility; CanVote=false suspends the voter without deleting the record.
type Voter struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ElectionID primitive.ObjectID `bson:"electionId" json:"electionId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	VoterID    string             `bson:"voter_id" json:"voter_id"`
	CanVote    bool               `bson:"canVote" json:"canVote"`
	VoteWeight float64            `bson:"voteWeight" json:"voteWeight"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Weight returns the voter's ballot multiplier, defaulting to 1 when unset.
func (v Voter) Weight() float64 {
	if v.VoteWeight <= 0 {
		return 1
	}
	return v.VoteWeight
}
