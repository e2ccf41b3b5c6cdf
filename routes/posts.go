package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moodmap-backend/internal/config"
	"moodmap-backend/internal/logger"
	"moodmap-backend/internal/telemetry"
	"moodmap-backend/middleware"
	"moodmap-backend/models"
	"moodmap-backend/services"
	"moodmap-backend/utils"
)

// SetupPostRoutes wires the pin API: anonymous create, feed reads, and the
// secret-guarded cleanup endpoint for the external cron runner.
func SetupPostRoutes(router *gin.Engine, cfg *config.Config, store services.PostStore, metrics *telemetry.Metrics) {
	filter := services.NewModerationFilter(cfg.BlockedWords)
	lifecycle := services.NewPostLifecycle(store, filter, cfg.ModerationEnforced)
	reaper := services.NewReaper(store)

	api := router.Group("/api")
	api.POST("/posts", createPost(lifecycle, metrics))
	api.GET("/posts", listFeed(store))
	api.GET("/posts/cron/cleanup", middleware.CronAuthMiddleware(cfg.CronSecret), runCleanup(reaper, metrics))
}

func createPost(lifecycle *services.PostLifecycle, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Junk JSON and a quoted "number" in lat/lng both land here;
			// the client gets the same fixed message as field validation.
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidPost.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		post, err := lifecycle.Admit(ctx, &req, time.Now())
		switch {
		case errors.Is(err, services.ErrInvalidPost), errors.Is(err, services.ErrBlockedContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			logger.Error("failed to create pin", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to create post", nil)
			return
		}

		metrics.RecordPinCreated(string(post.Type))
		c.JSON(http.StatusCreated, post)
	}
}

func listFeed(store services.PostStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := services.ResolveFeed(
			queryParam(c, "lat"),
			queryParam(c, "lng"),
			queryParam(c, "radiusKm"),
			time.Now(),
		)

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		posts, err := store.Find(ctx, query)
		if err != nil {
			logger.Error("failed to fetch feed", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to fetch posts", nil)
			return
		}
		if posts == nil {
			posts = []models.Post{}
		}
		c.JSON(http.StatusOK, posts)
	}
}

func runCleanup(reaper *services.Reaper, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		deleted, err := reaper.Sweep(ctx, time.Now())
		if err != nil {
			logger.Error("cleanup sweep failed", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to delete expired posts", nil)
			return
		}

		metrics.RecordPinsSwept(deleted)
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

// queryParam distinguishes an absent parameter from a present-but-empty
// one; the feed resolver treats the two differently.
func queryParam(c *gin.Context, name string) *string {
	if v, ok := c.GetQuery(name); ok {
		return &v
	}
	return nil
}
