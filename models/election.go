package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LifecycleStatus enum shared by elections and voting sessions
type LifecycleStatus string

const (
	StatusUpcoming LifecycleStatus = "upcoming"
	StatusOngoing  LifecycleStatus = "ongoing"
	StatusPast     LifecycleStatus = "past"
)

// Election is the root document; sessions, items, options and voters
// are all scoped to one election.
type Election struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	Campus      string             `bson:"campus" json:"campus"`
	TeamID      string             `bson:"teamId" json:"teamId"`
	Status      LifecycleStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
