package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElectionSession is a time-boxed voting window within an election.
// StartTime and EndTime stay nil until the session is started/stopped.
type ElectionSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ElectionID  primitive.ObjectID `bson:"electionId" json:"electionId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	StartTime   *time.Time         `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime     *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Status      LifecycleStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
