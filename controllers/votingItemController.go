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

// CreateVotingItem creates a ballot item under a session. Statute items get
// "Yes"/"No" options automatically; allowAbstain adds an "Abstain" option.
func CreateVotingItem(c *gin.Context) {
	idParam := c.Param("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var input struct {
		Title         string `json:"title" binding:"required,max=200"`
		Type          string `json:"type" binding:"required"`
		AllowAbstain  bool   `json:"allowAbstain"`
		MaxSelections int    `json:"maxSelections"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Type {
	case string(models.ItemStatute), string(models.ItemPosition):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item type"})
		return
	}

	if input.MaxSelections < 1 {
		input.MaxSelections = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := sessionCollection.CountDocuments(ctx, bson.M{"_id": sessionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check session"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	item := models.VotingItem{
		ID:            primitive.NewObjectID(),
		SessionID:     sessionID,
		Title:         input.Title,
		Type:          models.VotingItemType(input.Type),
		AllowAbstain:  input.AllowAbstain,
		MaxSelections: input.MaxSelections,
		Permissions:   []string{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if _, err := itemCollection.InsertOne(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create voting item"})
		return
	}

	var autoLabels []string
	if item.Type == models.ItemStatute {
		autoLabels = models.DefaultStatuteOptions()
	}
	if item.AllowAbstain {
		autoLabels = append(autoLabels, models.AbstainValue)
	}

	options := make([]models.VotingOption, 0, len(autoLabels))
	for _, label := range autoLabels {
		option := models.VotingOption{
			ID:           primitive.NewObjectID(),
			VotingItemID: item.ID,
			Value:        label,
			Permissions:  []string{},
		}
		if _, err := optionCollection.InsertOne(ctx, option); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create default options"})
			return
		}
		options = append(options, option)
	}

	c.JSON(http.StatusCreated, gin.H{
		"item":    item,
		"options": options,
	})
}

// GetVotingItem retrieves a ballot item with its options
func GetVotingItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
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

	options, err := optionsForItem(ctx, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve options"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":    item,
		"options": options,
	})
}

// UpdateVotingItem updates a ballot item. Toggling allowAbstain reconciles
// the "Abstain" option so at most one exists, and none when disabled.
func UpdateVotingItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input struct {
		Title         *string `json:"title,omitempty"`
		AllowAbstain  *bool   `json:"allowAbstain,omitempty"`
		MaxSelections *int    `json:"maxSelections,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.MaxSelections != nil {
		if *input.MaxSelections < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxSelections must be at least 1"})
			return
		}
		update["maxSelections"] = *input.MaxSelections
	}

	if input.AllowAbstain != nil {
		update["allowAbstain"] = *input.AllowAbstain

		existing, err := optionsForItem(ctx, itemID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve options"})
			return
		}

		create, remove := models.ReconcileAbstainOptions(existing, *input.AllowAbstain)
		if len(remove) > 0 {
			if _, err := optionCollection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": remove}}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove abstain option"})
				return
			}
		}
		for _, label := range create {
			option := models.VotingOption{
				ID:           primitive.NewObjectID(),
				VotingItemID: itemID,
				Value:        label,
				Permissions:  item.Permissions,
			}
			if _, err := optionCollection.InsertOne(ctx, option); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create abstain option"})
				return
			}
		}
	}

	if _, err := itemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update voting item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voting item updated successfully"})
}

// DeleteVotingItem deletes a ballot item and its options, options first.
func DeleteVotingItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
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

	if _, err := optionCollection.DeleteMany(ctx, bson.M{"votingItemId": itemID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete options"})
		return
	}

	if _, err := itemCollection.DeleteOne(ctx, bson.M{"_id": itemID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete voting item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voting item deleted successfully"})
}

func optionsForItem(ctx context.Context, itemID primitive.ObjectID) ([]models.VotingOption, error) {
	cursor, err := optionCollection.Find(ctx, bson.M{"votingItemId": itemID})
	if err != nil {
		return nil, err
	}
	var options []models.VotingOption
	if err := cursor.All(ctx, &options); err != nil {
		return nil, err
	}
	return options, nil
}
