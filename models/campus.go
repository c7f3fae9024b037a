package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campus is a lookup record referenced by Election.Campus.
type Campus struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	City      string             `bson:"city" json:"city"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
