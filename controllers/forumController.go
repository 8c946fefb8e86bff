package controllers

import (
	"context"
	"log"
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

var postCollection *mongo.Collection = config.GetCollection("forum_posts")

// CreatePost creates a new forum thread and awards the author's points
func CreatePost(c *gin.Context) {
	citizenID, ok := citizenFromContext(c)
	if !ok {
		return
	}

	var input struct {
		Title   string `json:"title" binding:"required,max=200"`
		Content string `json:"content" binding:"required,max=5000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"_id": citizenID}).Decode(&citizen); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Citizen not found"})
		return
	}

	post := models.ForumPost{
		ID:           primitive.NewObjectID(),
		Author:       citizenID,
		Title:        input.Title,
		Content:      input.Content,
		Constituency: &citizen.Constituency,
		CreatedAt:    time.Now(),
	}

	if _, err := postCollection.InsertOne(ctx, post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	if err := services.AwardPoints(ctx, citizenID, services.PointsForumPost); err != nil {
		log.Println("Failed to award post points:", err)
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts returns forum threads for the caller's constituency (pass
// ?all=1 to drop the filter), sorted by ?sort=top|recent
func ListPosts(c *gin.Context) {
	citizenID, ok := citizenFromContext(c)
	if !ok {
		return
	}

	sortMode := c.DefaultQuery("sort", "top")
	showAll := c.Query("all") != ""

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var constituency *string
	if !showAll {
		var citizen models.Citizen
		if err := citizenCollection.FindOne(ctx, bson.M{"_id": citizenID}).Decode(&citizen); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Citizen not found"})
			return
		}
		constituency = &citizen.Constituency
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(200)

	cursor, err := postCollection.Find(ctx, services.PostScopeFilter(constituency), findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load forum"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.ForumPost
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	type PostWithVotes struct {
		models.ForumPost
		Upvotes int64 `json:"upvotes"`
		Upvoted bool  `json:"upvoted"`
	}

	postsWithVotes := make([]PostWithVotes, 0, len(posts))
	for _, post := range posts {
		count, upvoted, err := services.CountUpvotes(ctx, post.ID, citizenID)
		if err != nil {
			log.Println("Failed to count upvotes:", err)
		}

		postsWithVotes = append(postsWithVotes, PostWithVotes{
			ForumPost: post,
			Upvotes:   count,
			Upvoted:   upvoted,
		})
	}

	if sortMode == "top" {
		sort.SliceStable(postsWithVotes, func(i, j int) bool {
			return postsWithVotes[i].Upvotes > postsWithVotes[j].Upvotes
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": postsWithVotes, "sort": sortMode})
}

// UpvotePost registers one upvote per (post, citizen). Retries are no-ops,
// so the point awards fire exactly once.
func UpvotePost(c *gin.Context) {
	citizenID, ok := citizenFromContext(c)
	if !ok {
		return
	}

	post, ok := postFromParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awarded, err := services.RegisterUpvote(ctx, services.MongoUpvoteOps(), post.ID, citizenID, post.Author)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upvote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upvoted": true, "awarded": awarded})
}

// UnvotePost removes the caller's upvote. Point deductions apply only when
// a vote was actually removed, and balances clamp at zero.
func UnvotePost(c *gin.Context) {
	citizenID, ok := citizenFromContext(c)
	if !ok {
		return
	}

	post, ok := postFromParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adjusted, err := services.RemoveUpvote(ctx, services.MongoUpvoteOps(), post.ID, citizenID, post.Author)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove upvote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upvoted": false, "adjusted": adjusted})
}

func postFromParam(c *gin.Context) (*models.ForumPost, bool) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.ForumPost
	if err := postCollection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		}
		return nil, false
	}
	return &post, true
}

func citizenFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}

	citizenID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return citizenID, true
}
