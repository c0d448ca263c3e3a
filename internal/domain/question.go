package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question belongs to an exam through the informational ExamID field.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExamID        string             `bson:"examId" json:"examId"`
	Text          string             `bson:"text" json:"text"`
	Options       []string           `bson:"options" json:"options"`
	CorrectAnswer int                `bson:"correctAnswer" json:"correctAnswer"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
