package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Vote is one cast ballot. Votes are immutable once inserted; there is no
// update or delete path. Weight is snapshotted from the voter at cast time.
type Vote struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OptionID        primitive.ObjectID `bson:"optionId" json:"optionId"`
	VoterID         string             `bson:"voterId" json:"voterId"`
	ElectionID      primitive.ObjectID `bson:"electionId" json:"electionId"`
	VotingSessionID primitive.ObjectID `bson:"votingSessionId" json:"votingSessionId"`
	VotingItemID    primitive.ObjectID `bson:"votingItemId" json:"votingItemId"`
	Weight          float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureVoteIndexes creates the compound indexes on the vote collection.
// Under the "reject" duplicate policy the (optionId, voterId) index is unique,
// so the database itself refuses a second ballot on the same option. The
// per-item maxSelections cap stays in the handler; a unique per-item index
// would break multi-selection items.
func EnsureVoteIndexes(collection *mongo.Collection, unique bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "optionId", Value: 1}, {Key: "voterId", Value: 1}},
			Options: options.Index().SetUnique(unique),
		},
		{
			Keys: bson.D{{Key: "votingItemId", Value: 1}, {Key: "voterId", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexModels)
	return err
}
