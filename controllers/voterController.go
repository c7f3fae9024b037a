package controllers

import (
	"context"
	"net/http"
	"time"

	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddVoter registers an eligible voter on an election and issues the
// voter_id credential used to cast ballots.
func AddVoter(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	var input struct {
		Name       string  `json:"name" binding:"required,max=100"`
		Email      string  `json:"email" binding:"required,email"`
		VoteWeight float64 `json:"voteWeight"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.VoteWeight < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteWeight cannot be negative"})
		return
	}
	if input.VoteWeight == 0 {
		input.VoteWeight = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := electionCollection.CountDocuments(ctx, bson.M{"_id": electionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check election"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		return
	}

	existing, err := voterCollection.CountDocuments(ctx, bson.M{"electionId": electionID, "email": input.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing voter"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Voter with this email already registered"})
		return
	}

	voter := models.Voter{
		ID:         primitive.NewObjectID(),
		ElectionID: electionID,
		Name:       input.Name,
		Email:      input.Email,
		VoterID:    uuid.NewString(),
		CanVote:    true,
		VoteWeight: input.VoteWeight,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if _, err := voterCollection.InsertOne(ctx, voter); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register voter"})
		return
	}

	c.JSON(http.StatusCreated, voter)
}

// GetVoters returns the roster for an election
func GetVoters(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := voterCollection.Find(ctx, bson.M{"electionId": electionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voters"})
		return
	}
	defer cursor.Close(ctx)

	voters := make([]models.Voter, 0)
	if err := cursor.All(ctx, &voters); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode voters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voters":      voters,
		"totalVoters": len(voters),
	})
}

// UpdateVoter updates a voter's suspension flag or weight
func UpdateVoter(c *gin.Context) {
	idParam := c.Param("id")
	voterDocID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voter ID"})
		return
	}

	var input struct {
		Name       *string  `json:"name,omitempty"`
		CanVote    *bool    `json:"canVote,omitempty"`
		VoteWeight *float64 `json:"voteWeight,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.CanVote != nil {
		update["canVote"] = *input.CanVote
	}
	if input.VoteWeight != nil {
		if *input.VoteWeight <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "voteWeight must be positive"})
			return
		}
		update["voteWeight"] = *input.VoteWeight
	}

	result, err := voterCollection.UpdateOne(ctx, bson.M{"_id": voterDocID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update voter"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Voter not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voter updated successfully"})
}

// DeleteVoter removes a voter from the roster. Cast votes are kept; they are
// recorded history and still count in past tallies.
func DeleteVoter(c *gin.Context) {
	idParam := c.Param("id")
	voterDocID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voter ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var voter models.Voter
	err = voterCollection.FindOne(ctx, bson.M{"_id": voterDocID}).Decode(&voter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voter not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voter"})
		}
		return
	}

	if _, err := voterCollection.DeleteOne(ctx, bson.M{"_id": voterDocID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete voter"})
		return
	}

	invalidateResultsCache(voter.ElectionID)

	c.JSON(http.StatusOK, gin.H{"message": "Voter removed successfully"})
}
