package controllers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"
	"civictrack-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var issueCollection *mongo.Collection = config.GetCollection("issues")

var statusRank = map[models.IssueStatus]int{
	models.Pending:    0,
	models.InProgress: 1,
	models.Resolved:   2,
	models.Closed:     3,
}

// OfficialQueue lists issues for the official's department reported from
// the official's constituency, open statuses first
func OfficialQueue(c *gin.Context) {
	officialID, ok := officialFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var official models.Official
	if err := officialCollection.FindOne(ctx, bson.M{"_id": officialID}).Decode(&official); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Official not found"})
		return
	}

	// Reporter constituency scoping: resolve citizens first, then filter
	// issues with a parameterized $in rather than building query strings.
	cursor, err := citizenCollection.Find(ctx, bson.M{"constituency": official.Constituency},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load constituency"})
		return
	}

	var reporters []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err == nil {
			reporters = append(reporters, row.ID)
		}
	}
	cursor.Close(ctx)

	issues := []models.Issue{}
	if len(reporters) > 0 {
		filter := bson.M{
			"department": official.Department,
			"reportedBy": bson.M{"$in": reporters},
		}
		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(200)

		issueCursor, err := issueCollection.Find(ctx, filter, findOptions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load issues"})
			return
		}
		defer issueCursor.Close(ctx)

		if err := issueCursor.All(ctx, &issues); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
			return
		}
	}

	// Open statuses surface first, then recency within each status
	sort.SliceStable(issues, func(i, j int) bool {
		return statusRank[issues[i].Status] < statusRank[issues[j].Status]
	})

	c.JSON(http.StatusOK, gin.H{
		"me": gin.H{
			"name":         official.FirstName + " " + official.LastName,
			"department":   official.Department,
			"constituency": official.Constituency,
		},
		"issues": issues,
	})
}

// UpdateIssueStatus moves an issue through the lifecycle. Transitions into
// Resolved or Closed from an open status must carry closure evidence: an
// after-photo reference plus numeric GPS coordinates.
func UpdateIssueStatus(c *gin.Context) {
	officialID, ok := officialFromContext(c)
	if !ok {
		return
	}

	var input struct {
		IssueID     string  `json:"issueId" binding:"required"`
		NewStatus   string  `json:"newStatus" binding:"required"`
		Note        *string `json:"note,omitempty"`
		ClosedImage *string `json:"closedImage,omitempty"`
		ClosedLat   *string `json:"closedLat,omitempty"`
		ClosedLon   *string `json:"closedLon,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(input.IssueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	newStatus := models.IssueStatus(input.NewStatus)
	if !newStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	// Evidence is parsed only when something was supplied; the engine
	// decides whether this transition actually demands it.
	var evidence *models.ClosureEvidence
	if input.ClosedImage != nil || input.ClosedLat != nil || input.ClosedLon != nil {
		evidence, err = models.ParseClosureEvidence(input.ClosedImage, input.ClosedLat, input.ClosedLon)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := services.ApplyTransition(ctx, services.StatusChange{
		IssueID:   issueID,
		NewStatus: newStatus,
		Actor:     &officialID,
		Note:      input.Note,
		Evidence:  evidence,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		case errors.Is(err, models.ErrEvidenceRequired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrPartialWrite):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Status updated but audit trail write failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

func officialFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}

	officialID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return officialID, true
}
