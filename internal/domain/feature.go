package domain

import "fmt"

// Feature is one of the quota-limited generation tools.
type Feature string

const (
	FeatureEmail  Feature = "email"
	FeatureResume Feature = "resume"
)

// Features lists every offered feature in display order.
func Features() []Feature {
	return []Feature{FeatureEmail, FeatureResume}
}

// ParseFeature maps a string onto a known feature.
func ParseFeature(s string) (Feature, error) {
	for _, f := range Features() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

// Title is the human readable tool name.
func (f Feature) Title() string {
	switch f {
	case FeatureEmail:
		return "Business Email"
	case FeatureResume:
		return "Resume"
	default:
		return string(f)
	}
}
