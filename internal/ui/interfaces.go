package ui

import (
	"context"

	"github.com/atalib94/procedure-tracker-sub001/internal/catalog"
	"github.com/atalib94/procedure-tracker-sub001/internal/grading"
	"github.com/atalib94/procedure-tracker-sub001/internal/review"
)

// StudyController is the slice of the app the study view drives.
type StudyController interface {
	CurrentQuestion() (catalog.Question, error)
	SubmitAnswer(ctx context.Context, answer string) (grading.Result, review.ItemProgress, error)
	FinishSession(ctx context.Context) (review.StudySession, error)
	ToggleMark(ctx context.Context, questionID string) review.ItemProgress
}
