package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"orgvote-be/config"
	"orgvote-be/models"
	"orgvote-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}

	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	// Unique vote index only under the reject policy; "allow" keeps the
	// index non-unique so repeat ballots can land.
	uniqueVotes := os.Getenv("DUPLICATE_VOTE_POLICY") != "allow"
	if err := models.EnsureVoteIndexes(config.GetCollection("election_vote"), uniqueVotes); err != nil {
		log.Fatalf("Failed to ensure vote indexes: %v", err)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r)
	routes.ElectionRoutes(r)
	routes.VoteRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
