package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manova/internal/model"
)

type MoodRepo interface {
	Create(ctx context.Context, entry *model.MoodEntry) error
	// GetByUserID returns the user's mood entries, newest first.
	GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.MoodEntry, error)
}

type moodRepo struct {
	collection *mongo.Collection
}

func NewMoodRepo(db *mongo.Database) MoodRepo {
	return &moodRepo{collection: db.Collection("moods")}
}

func (r *moodRepo) Create(ctx context.Context, entry *model.MoodEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *moodRepo) GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.MoodEntry, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.MoodEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
