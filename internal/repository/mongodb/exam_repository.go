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

const examsCollection = "exams"

type ExamRepository struct {
	conn *Connector
}

func NewExamRepository(conn *Connector) repository.ExamRepository {
	return &ExamRepository{conn: conn}
}

func (r *ExamRepository) Init(ctx context.Context) error {
	coll, err := r.conn.Collection(examsCollection)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create exam indexes: %w", err)
	}
	return nil
}

func (r *ExamRepository) Create(ctx context.Context, exam *domain.Exam) (string, error) {
	coll, err := r.conn.Collection(examsCollection)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	res, err := coll.InsertOne(ctx, exam)
	if err != nil {
		return "", fmt.Errorf("insert exam: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	exam.ID = oid
	return oid.Hex(), nil
}

func (r *ExamRepository) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	coll, err := r.conn.Collection(examsCollection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var exam domain.Exam
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&exam); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

func (r *ExamRepository) List(ctx context.Context) ([]domain.Exam, error) {
	coll, err := r.conn.Collection(examsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer cursor.Close(ctx)

	exams := []domain.Exam{}
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	return exams, nil
}

func (r *ExamRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Exam, error) {
	coll, err := r.conn.Collection(examsCollection)
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

	var exam domain.Exam
	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&exam)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return &exam, nil
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	coll, err := r.conn.Collection(examsCollection)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
