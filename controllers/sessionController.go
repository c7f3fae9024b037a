package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"orgvote-be/access"
	"orgvote-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateSession creates a voting session under an election
func CreateSession(c *gin.Context) {
	idParam := c.Param("id")
	electionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid election ID"})
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required,max=200"`
		Description string `json:"description" binding:"max=1000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
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

	session := models.ElectionSession{
		ID:          primitive.NewObjectID(),
		ElectionID:  electionID,
		Name:        input.Name,
		Description: input.Description,
		Status:      models.StatusUpcoming,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := sessionCollection.InsertOne(ctx, session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession retrieves a session with its voting items
func GetSession(c *gin.Context) {
	idParam := c.Param("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var session models.ElectionSession
	err = sessionCollection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	cursor, err := itemCollection.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voting items"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.VotingItem
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode voting items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          session.ID,
		"electionId":  session.ElectionID,
		"name":        session.Name,
		"description": session.Description,
		"startTime":   session.StartTime,
		"endTime":     session.EndTime,
		"status":      session.Status,
		"items":       items,
		"createdAt":   session.CreatedAt,
		"updatedAt":   session.UpdatedAt,
	})
}

// UpdateSession updates name/description of an upcoming session
func UpdateSession(c *gin.Context) {
	idParam := c.Param("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var input struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
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
	if input.Description != nil {
		update["description"] = *input.Description
	}

	result, err := sessionCollection.UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session updated successfully"})
}

// DeleteSession deletes a session and its items/options, children first
func DeleteSession(c *gin.Context) {
	idParam := c.Param("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var session models.ElectionSession
	err = sessionCollection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	if err := deleteSessionChildren(ctx, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session contents"})
		return
	}

	if _, err := sessionCollection.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	invalidateResultsCache(session.ElectionID)

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// StartSession starts a voting session: voter read access is granted on the
// session's items and options, then the session flips to ongoing and the
// parent election is marked ongoing. Permission writes land before the status
// flip so a voter can never see an ongoing session with pre-grant ACLs.
func StartSession(c *gin.Context) {
	applyTransition(c, access.PlanStart)
}

// StopSession stops a voting session: the session flips to past first, then
// voter read access is revoked from its items and options.
func StopSession(c *gin.Context) {
	applyTransition(c, access.PlanStop)
}

type planFunc func(models.Election, models.ElectionSession, []models.VotingItem, []models.VotingOption, time.Time) (*access.Plan, error)

func applyTransition(c *gin.Context, planTransition planFunc) {
	idParam := c.Param("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var session models.ElectionSession
	err = sessionCollection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	var election models.Election
	err = electionCollection.FindOne(ctx, bson.M{"_id": session.ElectionID}).Decode(&election)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "Parent election not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve election"})
		}
		return
	}

	items, options, err := sessionContents(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session contents"})
		return
	}

	plan, err := planTransition(election, session, items, options, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, access.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, access.ErrMissingTeam), errors.Is(err, access.ErrElectionMismatch):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to plan transition"})
		}
		return
	}

	if err := applyPlan(ctx, plan); err != nil {
		// Nothing after the failed write was applied; the fixed write order
		// makes a retry of the same transition safe.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply transition"})
		return
	}

	invalidateResultsCache(election.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Session transition applied",
		"sessionId": plan.SessionID,
		"status":    plan.SessionStatus,
		"startTime": plan.StartTime,
		"endTime":   plan.EndTime,
	})
}

// applyPlan writes a transition plan against the store. Mongo cannot commit
// the whole set atomically, so writes follow a fixed order: when granting
// (start) the option and item ACLs land before the session status; when
// revoking (stop) the session status lands first. Either way a voter never
// observes an ongoing session whose items lack the voter grant.
func applyPlan(ctx context.Context, plan *access.Plan) error {
	granting := plan.SessionStatus == models.StatusOngoing

	if granting {
		if err := writePermissions(ctx, plan); err != nil {
			return err
		}
	}

	sessionUpdate := bson.M{
		"status":    plan.SessionStatus,
		"updatedAt": time.Now(),
	}
	if plan.StartTime != nil {
		sessionUpdate["startTime"] = plan.StartTime
	}
	if plan.EndTime != nil {
		sessionUpdate["endTime"] = plan.EndTime
	}
	if _, err := sessionCollection.UpdateOne(ctx, bson.M{"_id": plan.SessionID}, bson.M{"$set": sessionUpdate}); err != nil {
		return err
	}

	if _, err := electionCollection.UpdateOne(ctx, bson.M{"_id": plan.ElectionID}, bson.M{"$set": bson.M{
		"status":    plan.ElectionStatus,
		"updatedAt": time.Now(),
	}}); err != nil {
		return err
	}

	if !granting {
		if err := writePermissions(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}

func writePermissions(ctx context.Context, plan *access.Plan) error {
	for optionID, perms := range plan.OptionPermissions {
		if _, err := optionCollection.UpdateOne(ctx, bson.M{"_id": optionID}, bson.M{"$set": bson.M{"permissions": perms}}); err != nil {
			return err
		}
	}
	for itemID, perms := range plan.ItemPermissions {
		if _, err := itemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": bson.M{"permissions": perms}}); err != nil {
			return err
		}
	}
	return nil
}

// sessionContents loads all items of a session and all options of those items.
func sessionContents(ctx context.Context, sessionID primitive.ObjectID) ([]models.VotingItem, []models.VotingOption, error) {
	cursor, err := itemCollection.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return nil, nil, err
	}
	var items []models.VotingItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, nil, err
	}

	if len(items) == 0 {
		return items, nil, nil
	}

	itemIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	optCursor, err := optionCollection.Find(ctx, bson.M{"votingItemId": bson.M{"$in": itemIDs}})
	if err != nil {
		return nil, nil, err
	}
	var opts []models.VotingOption
	if err := optCursor.All(ctx, &opts); err != nil {
		return nil, nil, err
	}
	return items, opts, nil
}

// deleteSessionChildren removes a session's options first, then its items.
func deleteSessionChildren(ctx context.Context, sessionID primitive.ObjectID) error {
	items, _, err := sessionContents(ctx, sessionID)
	if err != nil {
		return err
	}

	itemIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	if len(itemIDs) > 0 {
		if _, err := optionCollection.DeleteMany(ctx, bson.M{"votingItemId": bson.M{"$in": itemIDs}}); err != nil {
			return err
		}
	}
	if _, err := itemCollection.DeleteMany(ctx, bson.M{"sessionId": sessionID}); err != nil {
		return err
	}
	return nil
}
