package normalize

import (
	"slices"
	"strings"

	"github.com/pscheid92/draftdesk/internal/domain"
)

// Normalizer applies its rules in order and trims the result.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	rules []Rule
}

// New builds a normalizer from groups of rules, flattened in order.
func New(groups ...[]Rule) *Normalizer {
	return &Normalizer{rules: slices.Concat(groups...)}
}

// Append returns a new normalizer with rules added after the existing ones.
func (n *Normalizer) Append(rules ...Rule) *Normalizer {
	return &Normalizer{rules: slices.Concat(n.rules, rules)}
}

// Rules returns the names of the rules in application order.
func (n *Normalizer) Rules() []string {
	names := make([]string, len(n.rules))
	for i, r := range n.rules {
		names[i] = r.Name
	}
	return names
}

// Normalize rewrites raw. It never fails; text no rule matches comes back trimmed.
func (n *Normalizer) Normalize(raw string) string {
	s := raw
	for _, r := range n.rules {
		s = r.apply(s)
	}
	return strings.TrimSpace(s)
}

var (
	emailNormalizer = New(
		LineEndingRules(),
		EmphasisRules(),
		EmailKeywordRules(),
		CleanupRules(),
	)
	resumeNormalizer = New(
		LineEndingRules(),
		EmphasisRules(),
		ResumeSectionRules(),
		SentenceBreakRules(),
		CleanupRules(),
	)
	plainNormalizer = New(
		LineEndingRules(),
		EmphasisRules(),
		CleanupRules(),
	)
)

// ForFeature returns the profile used for f's output. Emails keep their sentences
// on one line; resumes get one sentence or label per line.
func ForFeature(f domain.Feature) *Normalizer {
	switch f {
	case domain.FeatureEmail:
		return emailNormalizer
	case domain.FeatureResume:
		return resumeNormalizer
	default:
		return plainNormalizer
	}
}
