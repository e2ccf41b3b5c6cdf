package services

import (
	"context"
	"time"

	"moodmap-backend/models"
)

// PostStore is the persistence boundary for pins. The Mongo implementation
// lives in internal/database; tests substitute an in-memory fake.
type PostStore interface {
	// Insert persists a new pin and assigns its ID.
	Insert(ctx context.Context, post *models.Post) error
	// Find runs a feed query and returns matching pins.
	Find(ctx context.Context, q FeedQuery) ([]models.Post, error)
	// DeleteExpired removes every pin with expires_at <= now and reports
	// how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
