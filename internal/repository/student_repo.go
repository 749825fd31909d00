package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andikahilman/studentbook/internal/models"
)

// ErrStudentNotFound reports that no row matched the requested id. It is a
// normal result for single-record reads, not a store fault.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepository manages student persistence operations.
//
// Update and Delete return the number of affected rows; zero means the id did
// not exist and is not surfaced as an error, since the store cannot tell a
// missing row apart from a fault. Callers translate zero into a not-found
// response.
type StudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id uint, student models.Student) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository implementation.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	// The store assigns the id; whatever the caller put there is discarded.
	student.ID = 0
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, id uint, student models.Student) (int64, error) {
	// A map rather than a struct so a nil image overwrites the column.
	tx := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(map[string]any{
		"name":          student.Name,
		"date_of_birth": student.DateOfBirth,
		"contact":       student.Contact,
		"image":         student.Image,
	})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *studentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
