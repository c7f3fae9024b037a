package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VotingOption is one selectable answer attached to a voting item.
type VotingOption struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VotingItemID primitive.ObjectID `bson:"votingItemId" json:"votingItemId"`
	Value        string             `bson:"value" json:"value"`
	Description  string             `bson:"description" json:"description"`
	Permissions  []string           `bson:"permissions" json:"permissions"`
}
