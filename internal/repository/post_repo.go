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

type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	// List returns community posts, newest first.
	List(ctx context.Context, limit int64) ([]*model.Post, error)
	Like(ctx context.Context, id string) error
}

type postRepo struct {
	collection *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepo{collection: db.Collection("posts")}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid.Hex()
	}
	return nil
}

func (r *postRepo) List(ctx context.Context, limit int64) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*model.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepo) Like(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"likes": 1}})
	return err
}
