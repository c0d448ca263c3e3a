package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

const resultsCollection = "results"

type ResultRepository struct {
	conn *Connector
}

func NewResultRepository(conn *Connector) repository.ResultRepository {
	return &ResultRepository{conn: conn}
}

func (r *ResultRepository) Init(ctx context.Context) error {
	coll, err := r.conn.Collection(resultsCollection)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "examId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create result indexes: %w", err)
	}
	return nil
}

func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) (string, error) {
	coll, err := r.conn.Collection(resultsCollection)
	if err != nil {
		return "", err
	}

	res, err := coll.InsertOne(ctx, result)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	result.ID = oid
	return oid.Hex(), nil
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (*domain.Result, error) {
	coll, err := r.conn.Collection(resultsCollection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var result domain.Result
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &result, nil
}

func (r *ResultRepository) List(ctx context.Context) ([]domain.Result, error) {
	coll, err := r.conn.Collection(resultsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer cursor.Close(ctx)

	results := []domain.Result{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Result, error) {
	coll, err := r.conn.Collection(resultsCollection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	var result domain.Result
	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update result: %w", err)
	}
	return &result, nil
}
