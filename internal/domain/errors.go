package domain

import "errors"

var (
	// ErrMissingField marks a required form field that was absent or blank.
	ErrMissingField = errors.New("missing required field")
	// ErrGeneration wraps every failure of the generation collaborator.
	ErrGeneration = errors.New("generation failed")
	// ErrUnknownFeature is returned when a request names a feature the app does not offer.
	ErrUnknownFeature = errors.New("unknown feature")
)
