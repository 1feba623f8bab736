package dto

import (
	"time"

	"github.com/classboard/rollcall-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// StudentResponse serializes a student record.
type StudentResponse struct {
	ID             uint      `json:"id"`
	StudentID      string    `json:"student_id"`
	Name           string    `json:"name"`
	Major          string    `json:"major"`
	CurrentScore   float64   `json:"current_score"`
	TotalCalls     int       `json:"total_calls"`
	ArrivedCalls   int       `json:"arrived_calls"`
	CorrectAnswers int       `json:"correct_answers"`
	TransferRights int       `json:"transfer_rights"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewStudentResponse converts a model into its response shape.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:             student.ID,
		StudentID:      student.StudentID,
		Name:           student.Name,
		Major:          student.Major,
		CurrentScore:   student.CurrentScore,
		TotalCalls:     student.TotalCalls,
		ArrivedCalls:   student.ArrivedCalls,
		CorrectAnswers: student.CorrectAnswers,
		TransferRights: student.TransferRights,
		CreatedAt:      student.CreatedAt,
		UpdatedAt:      student.UpdatedAt,
	}
}

// StudentListResponse wraps a paginated student listing.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// StudentCreateRequest registers a single student.
type StudentCreateRequest struct {
	StudentID string `json:"student_id" validate:"required,max=32"`
	Name      string `json:"name" validate:"required,max=255"`
	Major     string `json:"major" validate:"max=255"`
}

// StudentUpdateRequest captures partial edits to a student.
type StudentUpdateRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Major          *string  `json:"major" validate:"omitempty,max=255"`
	CurrentScore   *float64 `json:"current_score"`
	TransferRights *int     `json:"transfer_rights" validate:"omitempty,gte=0"`
}

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Major    string
	Sort     string
}

// CallRecordResponse serializes one ledger row.
type CallRecordResponse struct {
	ID          uint          `json:"id"`
	StudentID   string        `json:"student_id"`
	Action      models.Action `json:"action"`
	ScoreChange float64       `json:"score_change"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CallRecordListResponse wraps a paginated ledger listing.
type CallRecordListResponse struct {
	Items      []CallRecordResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewCallRecordResponse converts a ledger row into its response shape.
func NewCallRecordResponse(record models.CallRecord) CallRecordResponse {
	return CallRecordResponse{
		ID:          record.ID,
		StudentID:   record.StudentID,
		Action:      record.Action,
		ScoreChange: record.ScoreChange,
		CreatedAt:   record.CreatedAt,
	}
}

// ImportResponse summarises a bulk roster import.
type ImportResponse struct {
	Success  int      `json:"success"`
	Fail     int      `json:"fail"`
	Failures []string `json:"failures"`
}
