package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"moodmap-backend/models"
)

// fakePostStore is the in-memory PostStore used across the service tests.
type fakePostStore struct {
	posts     []models.Post
	insertErr error
	deleteErr error
	lastQuery *FeedQuery
}

func (f *fakePostStore) Insert(ctx context.Context, post *models.Post) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	post.ID = primitive.NewObjectID()
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostStore) Find(ctx context.Context, q FeedQuery) ([]models.Post, error) {
	f.lastQuery = &q
	return f.posts, nil
}

func (f *fakePostStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	kept := f.posts[:0]
	var deleted int64
	for _, p := range f.posts {
		if p.ExpiresAt.After(now) {
			kept = append(kept, p)
		} else {
			deleted++
		}
	}
	f.posts = kept
	return deleted, nil
}
