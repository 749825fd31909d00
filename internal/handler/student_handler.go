package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/andikahilman/studentbook/internal/dto"
	"github.com/andikahilman/studentbook/internal/repository"
	"github.com/andikahilman/studentbook/internal/service"
	"github.com/andikahilman/studentbook/internal/utils"
	"github.com/andikahilman/studentbook/internal/view"
)

// StudentHandler serves the seven student routes.
type StudentHandler struct {
	students service.StudentService
	uploads  service.UploadService
	views    view.Renderer
	logger   zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(students service.StudentService, uploads service.UploadService, views view.Renderer, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		uploads:  uploads,
		views:    views,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Bind populates the registry with this handler's operations.
func (h *StudentHandler) Bind(reg *Registry) {
	reg.Bind(OpList, h.List)
	reg.Bind(OpGetByID, h.GetByID)
	reg.Bind(OpAddForm, h.AddForm)
	reg.Bind(OpAdd, h.Add)
	reg.Bind(OpEditForm, h.EditForm)
	reg.Bind(OpUpdate, h.Update)
	reg.Bind(OpDelete, h.Delete)
}

// List renders the index view with every student.
func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list students")
		return utils.StoreFault(c)
	}

	return h.views.Render(c, "index", fiber.Map{"Students": students})
}

// GetByID renders the detail view for one student.
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.StudentNotFound(c)
	}

	student, err := h.students.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return utils.StudentNotFound(c)
		}
		h.logger.Error().Err(err).Uint("id", id).Msg("failed to load student")
		return utils.StoreFault(c)
	}

	return h.views.Render(c, "student", fiber.Map{"Student": student})
}

// AddForm renders the creation form.
func (h *StudentHandler) AddForm(c *fiber.Ctx) error {
	return h.views.Render(c, "add_student", fiber.Map{})
}

// Add creates a student from the posted form and redirects to the list.
func (h *StudentHandler) Add(c *fiber.Ctx) error {
	form, uploaded, err := h.parseWrite(c)
	if err != nil {
		return h.writeFault(c, err)
	}

	if _, err := h.students.Create(c.UserContext(), form, uploaded); err != nil {
		return h.writeFault(c, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// EditForm renders the edit form for one student.
func (h *StudentHandler) EditForm(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.StudentNotFound(c)
	}

	student, err := h.students.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return utils.StudentNotFound(c)
		}
		h.logger.Error().Err(err).Uint("id", id).Msg("failed to load student")
		return utils.StoreFault(c)
	}

	return h.views.Render(c, "edit_student", fiber.Map{"Student": student})
}

// Update overwrites a student from the posted form and redirects to its detail page.
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.StudentNotFound(c)
	}

	form, uploaded, err := h.parseWrite(c)
	if err != nil {
		return h.writeFault(c, err)
	}

	if err := h.students.Update(c.UserContext(), id, form, uploaded); err != nil {
		return h.writeFault(c, err)
	}

	return c.Redirect(fmt.Sprintf("/student/%d", id), fiber.StatusSeeOther)
}

// Delete removes a student and redirects to the list.
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.StudentNotFound(c)
	}

	if err := h.students.Delete(c.UserContext(), id); err != nil {
		return h.writeFault(c, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// parseWrite extracts the form fields and runs the upload pipeline for the
// optional attached image, returning the stored filename when one was sent.
func (h *StudentHandler) parseWrite(c *fiber.Ctx) (dto.StudentForm, string, error) {
	var form dto.StudentForm
	if err := c.BodyParser(&form); err != nil {
		return dto.StudentForm{}, "", fmt.Errorf("%w: %s", service.ErrInvalidStudentForm, "malformed request body")
	}

	file, err := c.FormFile("image")
	if err != nil || file == nil {
		// No file attached; the form's fallback field decides the image.
		return form, "", nil
	}

	stored, err := h.uploads.Store(c.UserContext(), file)
	if err != nil {
		return dto.StudentForm{}, "", err
	}

	return form, stored, nil
}

// writeFault maps a write-path error onto the central responder.
func (h *StudentHandler) writeFault(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		return utils.StudentNotFound(c)
	case errors.Is(err, service.ErrUploadTypeNotAllowed),
		errors.Is(err, service.ErrUploadTooLarge),
		errors.Is(err, service.ErrInvalidStudentForm):
		return utils.BadRequest(c, err.Error())
	default:
		h.logger.Error().Err(err).Msg("student write failed")
		return utils.StoreFault(c)
	}
}

func parseID(c *fiber.Ctx) (uint, bool) {
	// A non-numeric id can never match a row, so it reads as not found.
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
