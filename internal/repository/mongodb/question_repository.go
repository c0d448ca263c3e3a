package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

const questionsCollection = "questions"

type QuestionRepository struct {
	conn *Connector
}

func NewQuestionRepository(conn *Connector) repository.QuestionRepository {
	return &QuestionRepository{conn: conn}
}

func (r *QuestionRepository) Init(ctx context.Context) error {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "examId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create question indexes: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) (string, error) {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	res, err := coll.InsertOne(ctx, question)
	if err != nil {
		return "", fmt.Errorf("insert question: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	question.ID = oid
	return oid.Hex(), nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var question domain.Question
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&question); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer cursor.Close(ctx)

	questions := []domain.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Question, error) {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var question domain.Question
	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	coll, err := r.conn.Collection(questionsCollection)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
