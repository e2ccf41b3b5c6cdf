package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodmap-backend/models"
	"moodmap-backend/services"
)

// MongoPostStore implements services.PostStore over the posts collection.
type MongoPostStore struct {
	collection *mongo.Collection
}

func NewMongoPostStore(client *mongo.Client, dbName string) *MongoPostStore {
	return &MongoPostStore{
		collection: client.Database(dbName).Collection("posts"),
	}
}

func (s *MongoPostStore) Insert(ctx context.Context, post *models.Post) error {
	result, err := s.collection.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	return nil
}

func (s *MongoPostStore) Find(ctx context.Context, q services.FeedQuery) ([]models.Post, error) {
	opts := options.Find().SetSort(q.Sort).SetLimit(q.Limit)

	cursor, err := s.collection.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoPostStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lte": now},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
