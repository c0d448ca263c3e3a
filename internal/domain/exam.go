package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exam is a test definition. Questions may be embedded inline or linked from
// the questions collection via their examId field; neither link is validated
// for existence.
type Exam struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Type          string             `bson:"type,omitempty" json:"type,omitempty"`
	Duration      int                `bson:"duration,omitempty" json:"duration,omitempty"`
	QuestionCount int                `bson:"questionCount,omitempty" json:"questionCount,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Questions     []any              `bson:"questions,omitempty" json:"questions,omitempty"`
	CreatedBy     string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
