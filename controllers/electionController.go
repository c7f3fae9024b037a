package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateElection handles the creation of a new election
func CreateElection(c *gin.Context) {
	if _, exists := c.Get("user_id"); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Name        string    `json:"name" binding:"required,max=200"`
		Description string    `json:"description" binding:"max=1000"`
		Date        time.Time `json:"date" binding:"required"`
		Campus      string    `json:"campus" binding:"required,max=100"`
		TeamID      string    `json:"teamId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	election := models.Election{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		Campus:      input.Campus,
		TeamID:      input.TeamID,
		Status:      models.StatusUpcoming,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := electionCollection.InsertOne(ctx, election)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create election"})
		return
	}

	c.JSON(http.StatusCreated, election)
}

// GetAllElections retrieves elections with filtering, search and pagination
func GetAllElections(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	campus := c.Query("campus")
	status := c.Query("status")
	search := c.Query("search")
	sortParam := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}

	if campus != "" && campus != "all" {
		filter["campus"] = campus
	}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sortParam {
	case "oldest":
		sortOptions = bson.D{{Key: "date", Value: 1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "date", Value: -1}}
	}

	totalCount, err := electionCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count elections"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := electionCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve elections"})
		return
	}
	defer cursor.Close(ctx)

	var elections []models.Election
	if err := cursor.All(ctx, &elections); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode elections"})
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"elections":      elections,
		"totalElections": totalCount,
		"totalPages":     totalPages,
		"currentPage":    page,
	})
}

// GetElection retrieves an election by its ID together with its sessions
func GetElection(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var election models.Election
	err = electionCollection.FindOne(ctx, bson.M{"_id": electionID}).Decode(&election)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election"})
		}
		return
	}

	cursor, err := sessionCollection.Find(ctx, bson.M{"electionId": electionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}
	defer cursor.Close(ctx)

	var sessions []models.ElectionSession
	if err := cursor.All(ctx, &sessions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sessions"})
		return
	}

	voterCount, err := voterCollection.CountDocuments(ctx, bson.M{"electionId": electionID})
	if err != nil {
		voterCount = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          election.ID,
		"name":        election.Name,
		"description": election.Description,
		"date":        election.Date,
		"campus":      election.Campus,
		"teamId":      election.TeamID,
		"status":      election.Status,
		"sessions":    sessions,
		"voterCount":  voterCount,
		"createdAt":   election.CreatedAt,
		"updatedAt":   election.UpdatedAt,
	})
}

// UpdateElection allows updating election details
func UpdateElection(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	var input struct {
		Name        *string    `json:"name,omitempty"`
		Description *string    `json:"description,omitempty"`
		Date        *time.Time `json:"date,omitempty"`
		Campus      *string    `json:"campus,omitempty"`
		TeamID      *string    `json:"teamId,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var election models.Election
	err = electionCollection.FindOne(ctx, bson.M{"_id": electionID}).Decode(&election)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election"})
		}
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Date != nil {
		update["date"] = *input.Date
	}
	if input.Campus != nil {
		update["campus"] = *input.Campus
	}
	if input.TeamID != nil {
		if *input.TeamID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team ID cannot be empty"})
			return
		}
		update["teamId"] = *input.TeamID
	}

	_, err = electionCollection.UpdateOne(ctx, bson.M{"_id": electionID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update election"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Election updated successfully"})
}

// DeleteElection deletes an election and all documents scoped to it.
// Children are removed first so a failed run never leaves an election
// pointing at missing data; the election document itself goes last.
func DeleteElection(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var election models.Election
	err = electionCollection.FindOne(ctx, bson.M{"_id": electionID}).Decode(&election)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election"})
		}
		return
	}

	cursor, err := sessionCollection.Find(ctx, bson.M{"electionId": electionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}
	var sessions []models.ElectionSession
	if err := cursor.All(ctx, &sessions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sessions"})
		return
	}

	for _, session := range sessions {
		if err := deleteSessionChildren(ctx, session.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session contents"})
			return
		}
	}

	if _, err := sessionCollection.DeleteMany(ctx, bson.M{"electionId": electionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sessions"})
		return
	}
	if _, err := voteCollection.DeleteMany(ctx, bson.M{"electionId": electionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete votes"})
		return
	}
	if _, err := voterCollection.DeleteMany(ctx, bson.M{"electionId": electionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete voters"})
		return
	}

	if _, err := electionCollection.DeleteOne(ctx, bson.M{"_id": electionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete election"})
		return
	}

	invalidateResultsCache(election.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Election deleted successfully"})
}
