package repository

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classboard/rollcall-api/internal/models"
)

// SubmitParams carries one roll-call submission. BaseChange is the nominal
// delta supplied by the caller; the bonus roll may double it.
type SubmitParams struct {
	StudentID  string
	Action     models.Action
	BaseChange float64
}

// SubmitResult reports what a submission actually did.
type SubmitResult struct {
	AppliedDelta   float64
	NewScore       float64
	BonusTriggered bool
	Student        models.Student
}

// RollCallRepository owns the submission transaction.
type RollCallRepository interface {
	Submit(ctx context.Context, params SubmitParams) (SubmitResult, error)
}

type rollCallRepository struct {
	db  *gorm.DB
	rng func() float64
}

// NewRollCallRepository constructs the roll-call repository.
func NewRollCallRepository(db *gorm.DB) RollCallRepository {
	return &rollCallRepository{db: db, rng: rand.Float64}
}

// Submit applies one roll-call action atomically: it locks the student row,
// reads the bonus probability, rolls once, updates the score and counters,
// and appends the ledger entry. The ledger row always records the delta that
// was applied, never the pre-bonus value.
func (r *rollCallRepository) Submit(ctx context.Context, params SubmitParams) (SubmitResult, error) {
	var result SubmitResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := studentLock(tx, params.StudentID).First(&student).Error; err != nil {
			return err
		}

		probability := readProbability(tx)
		bonus := r.rng() < probability

		applied := params.BaseChange
		if bonus {
			applied *= 2
		}
		newScore := student.CurrentScore + applied

		updates := map[string]interface{}{
			"current_score": newScore,
			"total_calls":   gorm.Expr("total_calls + 1"),
		}
		for _, column := range models.CounterColumns[params.Action] {
			updates[column] = gorm.Expr(column + " + 1")
		}

		if err := tx.Model(&models.Student{}).
			Where("student_id = ?", params.StudentID).
			Updates(updates).Error; err != nil {
			return err
		}

		record := models.CallRecord{
			StudentID:   params.StudentID,
			Action:      params.Action,
			ScoreChange: applied,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		student.CurrentScore = newScore
		student.TotalCalls++
		result = SubmitResult{
			AppliedDelta:   applied,
			NewScore:       newScore,
			BonusTriggered: bonus,
			Student:        student,
		}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	return result, nil
}

// studentLock builds the lookup that serialises concurrent submissions for
// the same student. The exclusive row lock is held for the transaction's
// duration. sqlite serialises writers on its own; the clause is postgres-only.
func studentLock(tx *gorm.DB, studentID string) *gorm.DB {
	query := tx.Where("student_id = ?", studentID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func readProbability(tx *gorm.DB) float64 {
	var setting models.Setting
	if err := tx.Where("key = ?", models.SettingRandomEventProbability).First(&setting).Error; err != nil {
		return models.DefaultRandomEventProbability
	}
	return ParseProbability(setting.Value)
}

// ParseProbability decodes a stored probability value. Anything absent,
// unparsable, or outside [0,1] falls back to the default.
func ParseProbability(raw []byte) float64 {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	p, err := strconv.ParseFloat(text, 64)
	if err != nil || p < 0 || p > 1 {
		return models.DefaultRandomEventProbability
	}
	return p
}
