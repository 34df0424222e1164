package domain

import "context"

// EmailRequest holds the form fields of the business-email tool.
type EmailRequest struct {
	Topic string
	Tone  string
}

// ResumeRequest holds the form fields of the resume tool.
type ResumeRequest struct {
	Name       string
	Role       string
	Skills     string
	Experience string
	Education  string
}

// ToolResult is what a feature request hands back to the web layer.
//
//   - admitted and generated: Text holds the normalized document
//   - denied by quota: Text is empty, LimitMessage is set
//   - generation failed: Text holds the error sentinel, Failed is true
type ToolResult struct {
	Feature      Feature
	Text         string
	LimitMessage string
	Admitted     bool
	Failed       bool
}

// Generator is the external LLM completion collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
