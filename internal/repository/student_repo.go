package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/models"
)

// StudentFilter defines filters for listing students.
type StudentFilter struct {
	Search   string
	Major    string
	Sort     string
	Page     int
	PageSize int
}

// ImportRow is one parsed roster line. Row holds the original file row
// number (header included) so failure reports point at the spreadsheet.
type ImportRow struct {
	Row       int
	StudentID string
	Name      string
	Major     string
}

// ImportReport summarises a batch import.
type ImportReport struct {
	Success  int      `json:"success"`
	Failed   int      `json:"fail"`
	Failures []string `json:"failures"`
}

// StudentRepository exposes persistence for students and their roster.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByStudentID(ctx context.Context, studentID string) (models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, studentID string, updates map[string]interface{}) (models.Student, error)
	Delete(ctx context.Context, studentID string) error
	PickRandom(ctx context.Context) (models.Student, error)
	PickOldest(ctx context.Context) (models.Student, error)
	ImportBatch(ctx context.Context, rows []ImportRow) (ImportReport, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Student{}).
			Where("student_id = ?", student.StudentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(student).Error
	})
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR student_id LIKE ?", like, "%"+filter.Search+"%")
	}
	if filter.Major != "" {
		query = query.Where("major = ?", filter.Major)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "student_id ASC"
	}
	query = query.Order(sort)

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Order("student_id ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, studentID string, updates map[string]interface{}) (models.Student, error) {
	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("student_id = ?", studentID).
		Updates(updates)
	if result.Error != nil {
		return models.Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Student{}, gorm.ErrRecordNotFound
	}

	return r.GetByStudentID(ctx, studentID)
}

// Delete removes a student and every ledger row that references it, in one
// transaction.
func (r *studentRepository) Delete(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.CallRecord{}).Error; err != nil {
			return err
		}

		result := tx.Where("student_id = ?", studentID).Delete(&models.Student{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *studentRepository) PickRandom(ctx context.Context) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Order("RANDOM()").First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) PickOldest(ctx context.Context) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Order("updated_at ASC").First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// ImportBatch inserts roster rows inside a single transaction. Row-level
// problems (missing fields, duplicate ids) are collected into the report and
// do not abort the batch; only a database error rolls everything back.
func (r *studentRepository) ImportBatch(ctx context.Context, rows []ImportRow) (ImportReport, error) {
	var report ImportReport

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if row.StudentID == "" || row.Name == "" || row.Major == "" {
				report.Failed++
				report.Failures = append(report.Failures, fmt.Sprintf("row %d: missing required fields", row.Row))
				continue
			}

			var count int64
			if err := tx.Model(&models.Student{}).
				Where("student_id = ?", row.StudentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				report.Failed++
				report.Failures = append(report.Failures, fmt.Sprintf("row %d: student %s already exists", row.Row, row.StudentID))
				continue
			}

			student := models.Student{
				StudentID: row.StudentID,
				Name:      row.Name,
				Major:     row.Major,
			}
			if err := tx.Create(&student).Error; err != nil {
				return err
			}
			report.Success++
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}

	return report, nil
}
