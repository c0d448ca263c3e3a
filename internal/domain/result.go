package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result records one exam attempt. ExamID and UserID are informational
// foreign keys; they are format-checked on input but never resolved.
type Result struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username,omitempty" json:"username,omitempty"`
	UserID         string             `bson:"userId,omitempty" json:"userId,omitempty"`
	ExamID         string             `bson:"examId,omitempty" json:"examId,omitempty"`
	ExamTitle      string             `bson:"examTitle,omitempty" json:"examTitle,omitempty"`
	Score          float64            `bson:"score" json:"score"`
	Total          float64            `bson:"total,omitempty" json:"total,omitempty"`
	Percent        float64            `bson:"percent,omitempty" json:"percent,omitempty"`
	TotalQuestions int                `bson:"totalQuestions,omitempty" json:"totalQuestions,omitempty"`
	CorrectAnswers int                `bson:"correctAnswers,omitempty" json:"correctAnswers,omitempty"`
	TimeTaken      int                `bson:"timeTaken,omitempty" json:"timeTaken,omitempty"`
	SubmittedAt    *time.Time         `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	Answers        []any              `bson:"answers,omitempty" json:"answers,omitempty"`
	QuestionOrder  []any              `bson:"questionOrder,omitempty" json:"questionOrder,omitempty"`
}
