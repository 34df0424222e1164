// Package prompt renders the instructions sent to the generation collaborator.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/pscheid92/draftdesk/internal/domain"
)

// MaxFieldLength caps each form field, in runes, before it enters a prompt.
const MaxFieldLength = 4000

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Parsed once at package init; reused on every render.
var templates = template.Must(template.ParseFS(templateFiles, "templates/*.tmpl"))

// Field names a required form input.
type Field struct {
	Name  string
	Value string
}

// Email validates req and renders the business-email prompt.
func Email(req domain.EmailRequest) (string, error) {
	req = domain.EmailRequest{
		Topic: clean(req.Topic),
		Tone:  clean(req.Tone),
	}
	if err := requireFields(Field{"topic", req.Topic}, Field{"tone", req.Tone}); err != nil {
		return "", err
	}
	return render("email.tmpl", req)
}

// Resume validates req and renders the resume prompt.
func Resume(req domain.ResumeRequest) (string, error) {
	req = domain.ResumeRequest{
		Name:       clean(req.Name),
		Role:       clean(req.Role),
		Skills:     clean(req.Skills),
		Experience: clean(req.Experience),
		Education:  clean(req.Education),
	}
	err := requireFields(
		Field{"name", req.Name},
		Field{"skills", req.Skills},
		Field{"experience", req.Experience},
		Field{"education", req.Education},
		Field{"role", req.Role},
	)
	if err != nil {
		return "", err
	}
	return render("resume.tmpl", req)
}

// requireFields reports the first blank field as domain.ErrMissingField.
func requireFields(fields ...Field) error {
	for _, f := range fields {
		if f.Value == "" {
			return fmt.Errorf("%w: %s", domain.ErrMissingField, f.Name)
		}
	}
	return nil
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxFieldLength {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:MaxFieldLength]))
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}
