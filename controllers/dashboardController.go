package controllers

import (
	"context"
	"net/http"
	"time"

	"civictrack-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetDashboard returns the caller's points, the constituency leaderboard
// and a breakdown of issues reported in the last 24 hours
func GetDashboard(c *gin.Context) {
	citizenID, ok := citizenFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var me models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"_id": citizenID}).Decode(&me); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Citizen not found"})
		return
	}

	// Leaderboard: top citizens by points within the same constituency
	findOptions := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(10).
		SetProjection(bson.M{"firstName": 1, "lastName": 1, "points": 1})

	cursor, err := citizenCollection.Find(ctx, bson.M{"constituency": me.Constituency}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	defer cursor.Close(ctx)

	var leaders []models.Citizen
	if err := cursor.All(ctx, &leaders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leaderboard"})
		return
	}

	// Issues by type over the last 24 hours
	since := time.Now().Add(-24 * time.Hour)
	pipeline := []bson.M{
		{"$match": bson.M{"createdAt": bson.M{"$gte": since}}},
		{"$group": bson.M{"_id": "$issueType", "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"category": "$_id", "count": 1, "_id": 0}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": 5},
	}

	aggCursor, err := issueCollection.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issue breakdown"})
		return
	}
	defer aggCursor.Close(ctx)

	var topIssues []bson.M
	if err := aggCursor.All(ctx, &topIssues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issue breakdown"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"me": gin.H{
			"id":           me.ID,
			"firstName":    me.FirstName,
			"lastName":     me.LastName,
			"points":       me.Points,
			"constituency": me.Constituency,
		},
		"leaders":   leaders,
		"topIssues": topIssues,
	})
}
