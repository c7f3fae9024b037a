package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DuplicateVotePolicy returns how repeat ballots per (item, voter) are
// handled: "reject" (default) refuses them, "allow" records every ballot and
// leaves deduplication to the participation counters.
func DuplicateVotePolicy() string {
	policy := os.Getenv("DUPLICATE_VOTE_POLICY")
	if policy != "allow" {
		return "reject"
	}
	return policy
}

// CastVote records a ballot. The voter authenticates with the voter_id
// credential issued at roster registration, not with a portal account.
func CastVote(c *gin.Context) {
	var input struct {
		VoterID  string `json:"voterId" binding:"required"`
		OptionID string `json:"optionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	optionID, err := primitive.ObjectIDFromHex(input.OptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var option models.VotingOption
	err = optionCollection.FindOne(ctx, bson.M{"_id": optionID}).Decode(&option)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Option not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve option"})
		}
		return
	}

	var item models.VotingItem
	err = itemCollection.FindOne(ctx, bson.M{"_id": option.VotingItemID}).Decode(&item)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Option is not attached to a live voting item"})
		return
	}

	var session models.ElectionSession
	err = sessionCollection.FindOne(ctx, bson.M{"_id": item.SessionID}).Decode(&session)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Voting item is not attached to a live session"})
		return
	}

	if session.Status != models.StatusOngoing {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not open for voting"})
		return
	}

	var voter models.Voter
	err = voterCollection.FindOne(ctx, bson.M{
		"voter_id":   input.VoterID,
		"electionId": session.ElectionID,
	}).Decode(&voter)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown voter credential"})
		return
	}

	if !voter.CanVote {
		c.JSON(http.StatusForbidden, gin.H{"error": "Voter is suspended"})
		return
	}

	if DuplicateVotePolicy() == "reject" {
		maxSelections := item.MaxSelections
		if maxSelections < 1 {
			maxSelections = 1
		}

		existing, err := voteCollection.CountDocuments(ctx, bson.M{
			"votingItemId": item.ID,
			"voterId":      voter.VoterID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing votes"})
			return
		}
		if existing >= int64(maxSelections) {
			c.JSON(http.StatusConflict, gin.H{"error": "Vote limit reached for this item"})
			return
		}

		sameOption, err := voteCollection.CountDocuments(ctx, bson.M{
			"optionId": option.ID,
			"voterId":  voter.VoterID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing votes"})
			return
		}
		if sameOption > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Already voted for this option"})
			return
		}
	}

	vote := models.Vote{
		ID:              primitive.NewObjectID(),
		OptionID:        option.ID,
		VoterID:         voter.VoterID,
		ElectionID:      session.ElectionID,
		VotingSessionID: session.ID,
		VotingItemID:    item.ID,
		Weight:          voter.Weight(),
		CreatedAt:       time.Now(),
	}

	if _, err := voteCollection.InsertOne(ctx, vote); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	// Cached tallies are stale the moment a ballot lands; drop them so the
	// next read rebuilds from the store.
	invalidateResultsCache(session.ElectionID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vote cast successfully",
		"voteId":  vote.ID,
	})
}
