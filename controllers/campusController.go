package controllers

import (
	"context"
	"net/http"
	"time"

	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCampuses lists the campuses available when creating an election
func GetCampuses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := campusCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve campuses"})
		return
	}
	defer cursor.Close(ctx)

	campuses := make([]models.Campus, 0)
	if err := cursor.All(ctx, &campuses); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode campuses"})
		return
	}

	c.JSON(http.StatusOK, campuses)
}

// CreateCampus adds a campus record
func CreateCampus(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required,max=100"`
		City string `json:"city" binding:"required,max=100"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := campusCollection.CountDocuments(ctx, bson.M{"name": input.Name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing campus"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campus already exists"})
		return
	}

	campus := models.Campus{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		City:      input.City,
		CreatedAt: time.Now(),
	}

	if _, err := campusCollection.InsertOne(ctx, campus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campus"})
		return
	}

	c.JSON(http.StatusCreated, campus)
}
