package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manova/internal/model"
)

type ArticleRepo interface {
	Create(ctx context.Context, article *model.Article) error
	GetByID(ctx context.Context, id string) (*model.Article, error)
	// List returns published articles, newest first.
	List(ctx context.Context, limit int64) ([]*model.Article, error)
}

type articleRepo struct {
	collection *mongo.Collection
}

func NewArticleRepo(db *mongo.Database) ArticleRepo {
	return &articleRepo{collection: db.Collection("articles")}
}

func (r *articleRepo) Create(ctx context.Context, article *model.Article) error {
	result, err := r.collection.InsertOne(ctx, article)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		article.ID = oid.Hex()
	}
	return nil
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var article model.Article
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepo) List(ctx context.Context, limit int64) ([]*model.Article, error) {
	opts := options.Find().SetSort(bson.M{"publishedAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []*model.Article
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}
