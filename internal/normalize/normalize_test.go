package normalize

import (
	"testing"

	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SubjectWithEmphasis(t *testing.T) {
	email := ForFeature(domain.FeatureEmail)

	assert.Equal(t, "Subject:\nHello", email.Normalize("**Subject:** Hello"))
	assert.Equal(t, "Re:\nSubject:\nHello", email.Normalize("Re: **Subject:** Hello"))
}

func TestNormalize_EmailSubjectStaysOnItsLine(t *testing.T) {
	email := ForFeature(domain.FeatureEmail)

	assert.Equal(t, "Subject: Quarterly review", email.Normalize("**Subject:** Quarterly review"))
	assert.Equal(t, "Subject:\nQuarterly review", ForFeature(domain.FeatureResume).Normalize("**Subject:** Quarterly review"))
}

func TestNormalize_EmailDocument(t *testing.T) {
	raw := "**Subject:** Project Update\n\nDear Team,\n\nI hope this finds you well. The project is on track.\n\n**Best regards,**\nJane"
	want := "Subject: Project Update\nDear Team,\n\nI hope this finds you well. The project is on track.\n\nBest regards,\nJane"

	assert.Equal(t, want, ForFeature(domain.FeatureEmail).Normalize(raw))
}

func TestNormalize_EmailOnOneLine(t *testing.T) {
	raw := "Subject: Meeting Dear John, please join. Regards, Ann"
	want := "Subject: Meeting\nDear John, please join.\n\nRegards, Ann"

	assert.Equal(t, want, ForFeature(domain.FeatureEmail).Normalize(raw))
}

func TestNormalize_GreetingNeedsWordBoundary(t *testing.T) {
	raw := "We are Hiring for the role of Head of Dearborn operations."

	assert.Equal(t, raw, ForFeature(domain.FeatureEmail).Normalize(raw))
}

func TestNormalize_ResumeDocument(t *testing.T) {
	raw := "**John Doe**\n*Backend Engineer*\nSummary: Seasoned engineer. Loves Go.\nExperience: Acme Corp 2020-2024\nEducation: BSc CS\nSkills: Go, SQL"
	want := "John Doe\nBackend Engineer\n\nSummary:\nSeasoned engineer.\nLoves Go.\n\nExperience:\nAcme Corp 2020-2024\n\nEducation:\nBSc CS\n\nSkills:\nGo, SQL"

	assert.Equal(t, want, ForFeature(domain.FeatureResume).Normalize(raw))
}

func TestNormalize_ResumeLongerLabelWins(t *testing.T) {
	got := ForFeature(domain.FeatureResume).Normalize("Jane Roe Work Experience: Initech")

	assert.Equal(t, "Jane Roe\n\nWork Experience:\nInitech", got)
}

func TestNormalize_StripsLiteralAsterisks(t *testing.T) {
	// Known limitation: asterisks in user content are removed too.
	assert.Equal(t, "5  3 = 15", ForFeature(domain.FeatureEmail).Normalize("5 * 3 = 15"))
}

func TestNormalize_LineEndingsAndBlankLines(t *testing.T) {
	got := ForFeature("unknown").Normalize("  line one   \r\nline two\r\n\r\n\r\n\r\nline three  ")

	assert.Equal(t, "line one\nline two\n\nline three", got)
}

func TestNormalize_NeverFails(t *testing.T) {
	for _, f := range append(domain.Features(), "unknown") {
		n := ForFeature(f)
		assert.Empty(t, n.Normalize(""))
		assert.Empty(t, n.Normalize(" \n\t "))
		assert.Empty(t, n.Normalize("****"))
	}
}

func TestNormalize_IdempotentOnCleanText(t *testing.T) {
	inputs := []string{
		"plain text without markers",
		"two lines\nof plain text",
		"  padded  ",
	}

	for _, f := range append(domain.Features(), "unknown") {
		n := ForFeature(f)
		for _, in := range inputs {
			once := n.Normalize(in)
			assert.Equal(t, once, n.Normalize(once), "feature %s input %q", f, in)
		}
	}
}

func TestNormalize_IdempotentOnNormalizedDocuments(t *testing.T) {
	tests := []struct {
		feature domain.Feature
		raw     string
	}{
		{domain.FeatureEmail, "**Subject:** Project Update\n\nDear Team,\n\nThanks. Thank you for the help.\n\nSincerely,\nJane"},
		{domain.FeatureEmail, "Subject: Hi Hi there Kind Regards, Bob"},
		{domain.FeatureResume, "Summary: A. B. Skills: Go Education: MIT Projects: draftdesk"},
	}

	for _, tt := range tests {
		n := ForFeature(tt.feature)
		once := n.Normalize(tt.raw)
		assert.Equal(t, once, n.Normalize(once), "raw %q", tt.raw)
	}
}

func TestAppend_DoesNotMutateOriginal(t *testing.T) {
	base := New(EmphasisRules())
	extended := base.Append(Literal("signature", "--", "\n--"))

	assert.Equal(t, []string{"bold", "italic"}, base.Rules())
	assert.Equal(t, []string{"bold", "italic", "signature"}, extended.Rules())
	assert.Equal(t, "a \n-- b", extended.Normalize("a -- b"))
	assert.Equal(t, "a -- b", base.Normalize("a -- b"))
}

func TestForFeature_RuleOrder(t *testing.T) {
	rules := ForFeature(domain.FeatureResume).Rules()
	require.NotEmpty(t, rules)

	index := func(name string) int {
		for i, r := range rules {
			if r == name {
				return i
			}
		}
		return -1
	}

	assert.Less(t, index("bold"), index("italic"))
	assert.Less(t, index("italic"), index("section"))
	assert.Less(t, index("section"), index("sentence"))
	assert.Less(t, index("sentence"), index("blank-lines"))
}

func TestPattern_ExpandsCaptureGroups(t *testing.T) {
	n := New([]Rule{Pattern("swap", `(\w+)@(\w+)`, "$2 at $1")})

	assert.Equal(t, "example at jane", n.Normalize("jane@example"))
}
