package models

import "time"

// Student represents a learner tracked by the roll-call ledger.
type Student struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      string    `gorm:"size:32;uniqueIndex;not null" json:"student_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Major          string    `gorm:"size:255" json:"major"`
	CurrentScore   float64   `gorm:"not null;default:0" json:"current_score"`
	TotalCalls     int       `gorm:"not null;default:0" json:"total_calls"`
	ArrivedCalls   int       `gorm:"not null;default:0" json:"arrived_calls"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	TransferRights int       `gorm:"not null;default:0" json:"transfer_rights"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
