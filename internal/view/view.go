// Package view renders the server-side HTML pages. Handlers depend only on
// the Renderer interface, keeping templating swappable and tests free of
// template plumbing.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders a named view with the given data into the response.
type Renderer interface {
	Render(c *fiber.Ctx, name string, data any) error
}

// Engine is an html/template backed Renderer with all views parsed at startup.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}

	return &Engine{templates: tpl}, nil
}

// Render executes the named template into a buffer first so a template fault
// never produces a half-written page.
func (e *Engine) Render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return fmt.Errorf("failed to render view %s: %w", name, err)
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
