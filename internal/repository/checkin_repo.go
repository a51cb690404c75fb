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

type CheckInRepo interface {
	Create(ctx context.Context, checkIn *model.CheckIn) error
	GetByID(ctx context.Context, id string) (*model.CheckIn, error)
	// GetByUserID returns the user's check-ins, newest first.
	GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.CheckIn, error)
}

type checkInRepo struct {
	collection *mongo.Collection
}

func NewCheckInRepo(db *mongo.Database) CheckInRepo {
	return &checkInRepo{collection: db.Collection("checkins")}
}

func (r *checkInRepo) Create(ctx context.Context, checkIn *model.CheckIn) error {
	if checkIn.SubmittedAt.IsZero() {
		checkIn.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		checkIn.ID = oid.Hex()
	}
	return nil
}

func (r *checkInRepo) GetByID(ctx context.Context, id string) (*model.CheckIn, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var checkIn model.CheckIn
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&checkIn); err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepo) GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.CheckIn, error) {
	opts := options.Find().SetSort(bson.M{"submittedAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkIns []*model.CheckIn
	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}
