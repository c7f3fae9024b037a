package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"orgvote-be/config"
	"orgvote-be/models"
	"orgvote-be/tally"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const resultsCacheTTL = 60 * time.Second

func resultsCacheKey(electionID primitive.ObjectID) string {
	return "results:" + electionID.Hex()
}

// invalidateResultsCache drops the cached tally for an election. Readers see
// locally-known state until the next fetch rebuilds from the store.
func invalidateResultsCache(electionID primitive.ObjectID) {
	if config.RedisClient == nil {
		return
	}
	if err := config.RedisClient.Del(config.Ctx, resultsCacheKey(electionID)).Err(); err != nil {
		log.Println("Failed to invalidate results cache:", err)
	}
}

// resultRow is one tally row enriched with display labels. Rows whose item or
// option no longer resolves keep their counts and are flagged as orphaned.
type resultRow struct {
	VotingItemID string  `json:"votingItemId"`
	ItemTitle    string  `json:"itemTitle,omitempty"`
	OptionID     string  `json:"optionId"`
	OptionValue  string  `json:"optionValue,omitempty"`
	VoteCount    float64 `json:"voteCount"`
	Orphaned     bool    `json:"orphaned,omitempty"`
}

// GetDetailedResults returns the per-(item, option) vote counts for an
// election. Results are cached in Redis and invalidated on every write that
// can change them.
func GetDetailedResults(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(config.Ctx, resultsCacheKey(electionID)).Result()
		if err == nil {
			var rows []resultRow
			if json.Unmarshal([]byte(cached), &rows) == nil {
				c.JSON(http.StatusOK, gin.H{"results": rows, "cached": true})
				return
			}
		} else if err != redis.Nil {
			log.Println("Results cache read failed:", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// A missing election is fatal here; never report empty results for an
	// election that does not exist.
	count, err := electionCollection.CountDocuments(ctx, bson.M{"_id": electionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check election"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		return
	}

	votes, roster, err := votesAndRoster(ctx, electionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election data"})
		return
	}

	results := tally.Tally(votes, tally.VoterWeights(roster))

	rows, err := enrichResults(ctx, results)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve result labels"})
		return
	}

	if config.RedisClient != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := config.RedisClient.Set(config.Ctx, resultsCacheKey(electionID), payload, resultsCacheTTL).Err(); err != nil {
				log.Println("Results cache write failed:", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    rows,
		"totalVotes": tally.TotalCount(results),
	})
}

// GetVoterParticipation returns head-count turnout for an election
func GetVoterParticipation(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := requireElection(ctx, electionID); err != nil {
		respondElectionErr(c, err)
		return
	}

	votes, roster, err := votesAndRoster(ctx, electionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election data"})
		return
	}

	c.JSON(http.StatusOK, tally.Participation(electionID, roster, votes))
}

// GetElectionStats returns the weighted statistics for the dashboard
func GetElectionStats(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := requireElection(ctx, electionID); err != nil {
		respondElectionErr(c, err)
		return
	}

	votes, roster, err := votesAndRoster(ctx, electionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election data"})
		return
	}

	c.JSON(http.StatusOK, tally.Stats(roster, votes))
}

// GetParticipationTrend returns one weighted participation point per session
func GetParticipationTrend(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := requireElection(ctx, electionID); err != nil {
		respondElectionErr(c, err)
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

	votes, roster, err := votesAndRoster(ctx, electionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": tally.Trend(sessions, roster, votes)})
}

func requireElection(ctx context.Context, electionID primitive.ObjectID) error {
	err := electionCollection.FindOne(ctx, bson.M{"_id": electionID}).Err()
	return err
}

func respondElectionErr(c *gin.Context, err error) {
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Election not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check election"})
}

func votesAndRoster(ctx context.Context, electionID primitive.ObjectID) ([]models.Vote, []models.Voter, error) {
	voteCursor, err := voteCollection.Find(ctx, bson.M{"electionId": electionID})
	if err != nil {
		return nil, nil, err
	}
	var votes []models.Vote
	if err := voteCursor.All(ctx, &votes); err != nil {
		return nil, nil, err
	}

	voterCursor, err := voterCollection.Find(ctx, bson.M{"electionId": electionID})
	if err != nil {
		return nil, nil, err
	}
	var roster []models.Voter
	if err := voterCursor.All(ctx, &roster); err != nil {
		return nil, nil, err
	}
	return votes, roster, nil
}

// enrichResults joins tally rows against the live item/option documents.
// Rows referencing deleted documents are kept and flagged as orphaned.
func enrichResults(ctx context.Context, results []tally.DetailedResult) ([]resultRow, error) {
	itemIDs := make([]primitive.ObjectID, 0, len(results))
	optionIDs := make([]primitive.ObjectID, 0, len(results))
	for _, r := range results {
		itemIDs = append(itemIDs, r.VotingItemID)
		optionIDs = append(optionIDs, r.OptionID)
	}

	itemTitles := make(map[primitive.ObjectID]string)
	if len(itemIDs) > 0 {
		cursor, err := itemCollection.Find(ctx, bson.M{"_id": bson.M{"$in": itemIDs}})
		if err != nil {
			return nil, err
		}
		var items []models.VotingItem
		if err := cursor.All(ctx, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			itemTitles[item.ID] = item.Title
		}
	}

	optionValues := make(map[primitive.ObjectID]string)
	if len(optionIDs) > 0 {
		cursor, err := optionCollection.Find(ctx, bson.M{"_id": bson.M{"$in": optionIDs}})
		if err != nil {
			return nil, err
		}
		var options []models.VotingOption
		if err := cursor.All(ctx, &options); err != nil {
			return nil, err
		}
		for _, option := range options {
			optionValues[option.ID] = option.Value
		}
	}

	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		title, itemOK := itemTitles[r.VotingItemID]
		value, optOK := optionValues[r.OptionID]
		rows = append(rows, resultRow{
			VotingItemID: r.VotingItemID.Hex(),
			ItemTitle:    title,
			OptionID:     r.OptionID.Hex(),
			OptionValue:  value,
			VoteCount:    r.VoteCount,
			Orphaned:     !itemOK || !optOK,
		})
	}
	return rows, nil
}
