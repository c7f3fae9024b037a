package controllers

import (
	"orgvote-be/config"

	"go.mongodb.org/mongo-driver/mongo"
)

var electionCollection *mongo.Collection = config.GetCollection("elections")
var sessionCollection *mongo.Collection = config.GetCollection("election_sessions")
var itemCollection *mongo.Collection = config.GetCollection("voting_item")
var optionCollection *mongo.Collection = config.GetCollection("voting_option")
var voterCollection *mongo.Collection = config.GetCollection("election_users")
var voteCollection *mongo.Collection = config.GetCollection("election_vote")
var campusCollection *mongo.Collection = config.GetCollection("campus")
var userCollection *mongo.Collection = config.GetCollection("users")
