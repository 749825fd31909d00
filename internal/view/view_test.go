package view

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/andikahilman/studentbook/internal/models"
)

func TestEngineRendersIndex(t *testing.T) {
	image := "1700000000000-1-ada.png"
	body := render(t, "index", fiber.Map{"Students": []models.Student{
		{ID: 1, Name: "Ada", DateOfBirth: "1990-01-01", Contact: "555-0100", Image: &image},
	}})

	require.Contains(t, body, "Ada")
	require.Contains(t, body, "/student/1")
	require.Contains(t, body, "/images/1700000000000-1-ada.png")
}

func TestEngineRendersEmptyIndex(t *testing.T) {
	body := render(t, "index", fiber.Map{"Students": []models.Student{}})
	require.Contains(t, body, "No students yet.")
}

func TestEngineEscapesRecordText(t *testing.T) {
	body := render(t, "student", fiber.Map{"Student": models.Student{ID: 2, Name: "<b>Ada</b>"}})
	require.NotContains(t, body, "<b>Ada</b>")
	require.Contains(t, body, "&lt;b&gt;Ada&lt;/b&gt;")
}

func TestEngineRendersEditWithCurrentImage(t *testing.T) {
	image := "kept.png"
	body := render(t, "edit_student", fiber.Map{"Student": models.Student{ID: 3, Name: "Ada", Image: &image}})
	require.Contains(t, body, `name="currentImage"`)
	require.Contains(t, body, "kept.png")
}

func TestEngineUnknownViewFails(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return engine.Render(c, "no_such_view", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func render(t *testing.T, name string, data any) string {
	t.Helper()

	engine, err := NewEngine()
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return engine.Render(c, name, data)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(content)
}
