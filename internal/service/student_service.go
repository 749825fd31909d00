package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andikahilman/studentbook/internal/dto"
	"github.com/andikahilman/studentbook/internal/models"
	"github.com/andikahilman/studentbook/internal/repository"
)

// ErrInvalidStudentForm indicates the posted form failed boundary validation.
var ErrInvalidStudentForm = errors.New("invalid student form")

// StudentService exposes the five record operations the routes are built on.
// Not-found surfaces as repository.ErrStudentNotFound; anything else non-nil
// is a store fault.
type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, form dto.StudentForm, uploadedImage string) (uint, error)
	Update(ctx context.Context, id uint, form dto.StudentForm, uploadedImage string) error
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	repo     repository.StudentRepository
	validate *validator.Validate
	policy   *bluemonday.Policy
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewStudentService constructs a student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:     repo,
		validate: validate,
		// Strict policy: stored text renders into HTML views, so markup is
		// stripped entirely rather than escaped twice.
		policy: bluemonday.StrictPolicy(),
		logger: logger.With().Str("component", "student_service").Logger(),
		tracer: otel.Tracer("github.com/andikahilman/studentbook/internal/service/student"),
	}
}

func (s *studentService) List(ctx context.Context) ([]models.Student, error) {
	return s.repo.List(ctx)
}

func (s *studentService) Get(ctx context.Context, id uint) (models.Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *studentService) Create(ctx context.Context, form dto.StudentForm, uploadedImage string) (uint, error) {
	ctx, span := s.tracer.Start(ctx, "student.create")
	defer span.End()

	student, err := s.buildRecord(form, uploadedImage, form.Image)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return 0, err
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return 0, err
	}

	span.SetAttributes(attribute.Int("student.id", int(student.ID)))
	s.logger.Info().Uint("id", student.ID).Msg("student created")

	return student.ID, nil
}

func (s *studentService) Update(ctx context.Context, id uint, form dto.StudentForm, uploadedImage string) error {
	ctx, span := s.tracer.Start(ctx, "student.update")
	defer span.End()

	span.SetAttributes(attribute.Int("student.id", int(id)))

	student, err := s.buildRecord(form, uploadedImage, form.CurrentImage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	affected, err := s.repo.Update(ctx, id, student)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return repository.ErrStudentNotFound
	}

	s.logger.Info().Uint("id", id).Msg("student updated")

	return nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	ctx, span := s.tracer.Start(ctx, "student.delete")
	defer span.End()

	span.SetAttributes(attribute.Int("student.id", int(id)))

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return repository.ErrStudentNotFound
	}

	// The uploaded file, if any, is deliberately left behind.
	s.logger.Info().Uint("id", id).Msg("student deleted")

	return nil
}

// buildRecord validates the form and assembles a record. The image resolves
// in order: freshly uploaded filename, client-supplied fallback, nil.
func (s *studentService) buildRecord(form dto.StudentForm, uploadedImage, fallbackImage string) (models.Student, error) {
	if err := s.validate.Struct(form); err != nil {
		return models.Student{}, fmt.Errorf("%w: %s", ErrInvalidStudentForm, formErrorDetail(err))
	}

	student := models.Student{
		Name:        s.policy.Sanitize(strings.TrimSpace(form.Name)),
		DateOfBirth: strings.TrimSpace(form.DateOfBirth),
		Contact:     s.policy.Sanitize(strings.TrimSpace(form.Contact)),
	}

	switch {
	case uploadedImage != "":
		student.Image = &uploadedImage
	case fallbackImage != "":
		fallback := sanitizeFileName(fallbackImage)
		student.Image = &fallback
	}

	return student, nil
}

func formErrorDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.ActualTag() {
		case "datetime":
			parts = append(parts, fmt.Sprintf("field %s must be a date in YYYY-MM-DD form", fe.Field()))
		case "max":
			parts = append(parts, fmt.Sprintf("field %s is too long", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("field %s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, ", ")
}
