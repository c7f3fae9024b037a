package controllers

import (
	"context"
	"net/http"
	"time"

	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateVotingOption adds an option to a ballot item. The "Abstain" label is
// reserved for the allowAbstain flag and cannot be created by hand.
func CreateVotingOption(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input struct {
		Value       string `json:"value" binding:"required,max=200"`
		Description string `json:"description" binding:"max=1000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Value == models.AbstainValue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Abstain options are managed through the allowAbstain flag"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.VotingItem
	err = itemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voting item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voting item"})
		}
		return
	}

	option := models.VotingOption{
		ID:           primitive.NewObjectID(),
		VotingItemID: itemID,
		Value:        input.Value,
		Description:  input.Description,
		Permissions:  item.Permissions,
	}

	if _, err := optionCollection.InsertOne(ctx, option); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create option"})
		return
	}

	c.JSON(http.StatusCreated, option)
}

// UpdateVotingOption updates an option's value or description
func UpdateVotingOption(c *gin.Context) {
	idParam := c.Param("id")
	optionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
		return
	}

	var input struct {
		Value       *string `json:"value,omitempty"`
		Description *string `json:"description,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Value != nil && *input.Value == models.AbstainValue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Abstain options are managed through the allowAbstain flag"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{}
	if input.Value != nil {
		update["value"] = *input.Value
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	result, err := optionCollection.UpdateOne(ctx, bson.M{"_id": optionID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update option"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Option not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option updated successfully"})
}

// DeleteVotingOption deletes an option
func DeleteVotingOption(c *gin.Context) {
	idParam := c.Param("id")
	optionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := optionCollection.DeleteOne(ctx, bson.M{"_id": optionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete option"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Option not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option deleted successfully"})
}
