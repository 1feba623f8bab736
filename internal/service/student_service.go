package service

import (
	"bytes"
	"context"
	"errors"
	"math"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/models"
	"github.com/classboard/rollcall-api/internal/repository"
	"github.com/classboard/rollcall-api/pkg/excel"
)

// ErrDuplicateStudent indicates the external student id is already taken.
var ErrDuplicateStudent = errors.New("student already exists")

// ErrInvalidWorkbook indicates the uploaded file is not an xlsx workbook.
var ErrInvalidWorkbook = errors.New("uploaded file is not an xlsx workbook")

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StudentService manages the roster and its spreadsheet exchange.
type StudentService interface {
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Get(ctx context.Context, studentID string) (dto.StudentResponse, error)
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Update(ctx context.Context, studentID string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, studentID string) error
	Records(ctx context.Context, studentID string, page, pageSize int) (dto.CallRecordListResponse, error)
	Import(ctx context.Context, file []byte) (dto.ImportResponse, error)
	Export(ctx context.Context) ([]byte, error)
}

type studentService struct {
	repo       repository.StudentRepository
	recordRepo repository.CallRecordRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewStudentService constructs a student service.
func NewStudentService(repo repository.StudentRepository, recordRepo repository.CallRecordRepository, validator *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:       repo,
		recordRepo: recordRepo,
		validator:  validator,
		logger:     logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		StudentID: payload.StudentID,
		Name:      payload.Name,
		Major:     payload.Major,
	}
	if err := s.repo.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrDuplicateStudent
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.StudentID).Msg("student registered")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, studentID string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	students, total, err := s.repo.List(ctx, repository.StudentFilter{
		Search:   req.Search,
		Major:    req.Major,
		Sort:     req.Sort,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}

	return dto.StudentListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}, nil
}

func (s *studentService) Update(ctx context.Context, studentID string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Major != nil {
		updates["major"] = *payload.Major
	}
	if payload.CurrentScore != nil {
		updates["current_score"] = *payload.CurrentScore
	}
	if payload.TransferRights != nil {
		updates["transfer_rights"] = *payload.TransferRights
	}
	if len(updates) == 0 {
		return s.Get(ctx, studentID)
	}

	student, err := s.repo.Update(ctx, studentID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, studentID string) error {
	if err := s.repo.Delete(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Str("student_id", studentID).Msg("student deleted with ledger history")
	return nil
}

func (s *studentService) Records(ctx context.Context, studentID string, page, pageSize int) (dto.CallRecordListResponse, error) {
	if _, err := s.repo.GetByStudentID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CallRecordListResponse{}, ErrStudentNotFound
		}
		return dto.CallRecordListResponse{}, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	records, total, err := s.recordRepo.ListByStudent(ctx, studentID, page, pageSize)
	if err != nil {
		return dto.CallRecordListResponse{}, err
	}

	items := make([]dto.CallRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewCallRecordResponse(record))
	}

	return dto.CallRecordListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}, nil
}

// Import parses an uploaded xlsx roster and inserts the rows in one batch
// transaction. Per-row failures are reported, not fatal.
func (s *studentService) Import(ctx context.Context, file []byte) (dto.ImportResponse, error) {
	if !mimetype.Detect(file).Is(xlsxMIME) {
		return dto.ImportResponse{}, ErrInvalidWorkbook
	}

	rows, err := excel.ParseRoster(bytes.NewReader(file))
	if err != nil {
		return dto.ImportResponse{}, ErrInvalidWorkbook
	}

	batch := make([]repository.ImportRow, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, repository.ImportRow{
			Row:       row.Row,
			StudentID: row.StudentID,
			Name:      row.Name,
			Major:     row.Major,
		})
	}

	report, err := s.repo.ImportBatch(ctx, batch)
	if err != nil {
		return dto.ImportResponse{}, err
	}

	s.logger.Info().Int("success", report.Success).Int("fail", report.Failed).Msg("roster imported")
	return dto.ImportResponse{
		Success:  report.Success,
		Fail:     report.Failed,
		Failures: report.Failures,
	}, nil
}

// Export renders the full roster, scores and counters included, as xlsx.
func (s *studentService) Export(ctx context.Context) ([]byte, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]excel.ExportRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, excel.ExportRow{
			StudentID:      student.StudentID,
			Name:           student.Name,
			Major:          student.Major,
			CurrentScore:   student.CurrentScore,
			TotalCalls:     student.TotalCalls,
			ArrivedCalls:   student.ArrivedCalls,
			CorrectAnswers: student.CorrectAnswers,
			TransferRights: student.TransferRights,
		})
	}

	return excel.BuildExport(rows)
}
