package models

import "time"

// CallRecord is one append-only ledger row. ScoreChange holds the delta that
// was actually applied to the student, after any bonus doubling.
type CallRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   string    `gorm:"size:32;index;not null" json:"student_id"`
	Action      Action    `gorm:"size:32;not null" json:"action"`
	ScoreChange float64   `gorm:"not null" json:"score_change"`
	CreatedAt   time.Time `json:"created_at"`
}
