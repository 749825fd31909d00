package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/andikahilman/studentbook/internal/dto"
	"github.com/andikahilman/studentbook/internal/models"
	"github.com/andikahilman/studentbook/internal/repository"
)

type studentRepoStub struct {
	created      *models.Student
	updated      *models.Student
	updatedID    uint
	affectedRows int64
	err          error
	students     []models.Student
}

func (s *studentRepoStub) List(_ context.Context) ([]models.Student, error) {
	return s.students, s.err
}

func (s *studentRepoStub) GetByID(_ context.Context, id uint) (models.Student, error) {
	for _, st := range s.students {
		if st.ID == id {
			return st, nil
		}
	}
	if s.err != nil {
		return models.Student{}, s.err
	}
	return models.Student{}, repository.ErrStudentNotFound
}

func (s *studentRepoStub) Create(_ context.Context, student *models.Student) error {
	if s.err != nil {
		return s.err
	}
	student.ID = 1
	s.created = student
	return nil
}

func (s *studentRepoStub) Update(_ context.Context, id uint, student models.Student) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.updatedID = id
	s.updated = &student
	return s.affectedRows, nil
}

func (s *studentRepoStub) Delete(_ context.Context, id uint) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.updatedID = id
	return s.affectedRows, nil
}

func newStudentService(repo repository.StudentRepository) StudentService {
	return NewStudentService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestStudentServiceCreateWithoutImage(t *testing.T) {
	repo := &studentRepoStub{}
	svc := newStudentService(repo)

	form := dto.StudentForm{Name: "Ada", DateOfBirth: "1990-01-01", Contact: "555-0100"}
	id, err := svc.Create(context.Background(), form, "")
	require.NoError(t, err)
	require.Equal(t, uint(1), id)

	require.NotNil(t, repo.created)
	require.Equal(t, "Ada", repo.created.Name)
	require.Equal(t, "1990-01-01", repo.created.DateOfBirth)
	require.Equal(t, "555-0100", repo.created.Contact)
	require.Nil(t, repo.created.Image, "no upload and no fallback means a null image")
}

func TestStudentServiceCreateImagePrecedence(t *testing.T) {
	repo := &studentRepoStub{}
	svc := newStudentService(repo)

	form := dto.StudentForm{Name: "Ada", Image: "fallback.png"}
	_, err := svc.Create(context.Background(), form, "1700000000000-1-photo.png")
	require.NoError(t, err)
	require.NotNil(t, repo.created.Image)
	require.Equal(t, "1700000000000-1-photo.png", *repo.created.Image,
		"a fresh upload wins over the client-supplied fallback")

	repo.created = nil
	_, err = svc.Create(context.Background(), form, "")
	require.NoError(t, err)
	require.NotNil(t, repo.created.Image)
	require.Equal(t, "fallback.png", *repo.created.Image)
}

func TestStudentServiceCreateSanitizesFallbackImage(t *testing.T) {
	repo := &studentRepoStub{}
	svc := newStudentService(repo)

	form := dto.StudentForm{Name: "Ada", Image: "../../etc/passwd"}
	_, err := svc.Create(context.Background(), form, "")
	require.NoError(t, err)
	require.NotNil(t, repo.created.Image)
	require.Equal(t, "passwd", *repo.created.Image, "fallback must never be an unsanitized path")
}

func TestStudentServiceCreateStripsMarkup(t *testing.T) {
	repo := &studentRepoStub{}
	svc := newStudentService(repo)

	form := dto.StudentForm{Name: "<script>alert(1)</script>Ada"}
	_, err := svc.Create(context.Background(), form, "")
	require.NoError(t, err)
	require.Equal(t, "Ada", repo.created.Name)
}

func TestStudentServiceCreateRejectsBadDate(t *testing.T) {
	svc := newStudentService(&studentRepoStub{})

	form := dto.StudentForm{Name: "Ada", DateOfBirth: "not-a-date"}
	_, err := svc.Create(context.Background(), form, "")
	require.ErrorIs(t, err, ErrInvalidStudentForm)
}

func TestStudentServiceUpdateUsesCurrentImageFallback(t *testing.T) {
	repo := &studentRepoStub{affectedRows: 1}
	svc := newStudentService(repo)

	form := dto.StudentForm{Name: "Ada", CurrentImage: "kept.png"}
	require.NoError(t, svc.Update(context.Background(), 7, form, ""))
	require.Equal(t, uint(7), repo.updatedID)
	require.NotNil(t, repo.updated.Image)
	require.Equal(t, "kept.png", *repo.updated.Image)
}

func TestStudentServiceUpdateMissingIsNotFound(t *testing.T) {
	svc := newStudentService(&studentRepoStub{affectedRows: 0})

	err := svc.Update(context.Background(), 999, dto.StudentForm{Name: "Ada"}, "")
	require.ErrorIs(t, err, repository.ErrStudentNotFound)
}

func TestStudentServiceDeleteMissingIsNotFound(t *testing.T) {
	svc := newStudentService(&studentRepoStub{affectedRows: 0})

	err := svc.Delete(context.Background(), 999)
	require.ErrorIs(t, err, repository.ErrStudentNotFound)
}

func TestStudentServiceStoreFaultPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newStudentService(&studentRepoStub{err: boom})

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = svc.Create(context.Background(), dto.StudentForm{Name: "Ada"}, "")
	require.ErrorIs(t, err, boom)
}
