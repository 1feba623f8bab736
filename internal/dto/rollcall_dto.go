package dto

import (
	"strconv"

	"github.com/classboard/rollcall-api/internal/models"
)

// SubmitRequest carries one roll-call submission. ScoreChange is taken from
// the caller as-is; the server never re-derives it from the stored score
// rules.
type SubmitRequest struct {
	StudentID   string        `json:"student_id" validate:"required"`
	Action      models.Action `json:"action" validate:"required"`
	ScoreChange float64       `json:"score_change"`
}

// SubmitResponse reports the outcome of a submission.
type SubmitResponse struct {
	Message      string  `json:"message"`
	RandomEvent  bool    `json:"randomEvent"`
	EventMsg     string  `json:"eventMsg"`
	NewScore     string  `json:"newScore"`
	AppliedDelta float64 `json:"applied_delta"`
}

// FormatScore renders a score rounded to two decimals for display.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
