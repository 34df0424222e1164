package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/pscheid92/draftdesk/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalize_Stdin(t *testing.T) {
	raw := "**Subject:** Hello"

	out, err := execute(t, raw, "normalize", "--feature", "email")

	require.NoError(t, err)
	assert.Equal(t, normalize.ForFeature(domain.FeatureEmail).Normalize(raw)+"\n", out)
}

func TestNormalize_File(t *testing.T) {
	raw := "Summary: Seasoned engineer. Loves Go."
	path := filepath.Join(t.TempDir(), "raw.txt")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	out, err := execute(t, "", "normalize", "-f", "resume", path)

	require.NoError(t, err)
	assert.Equal(t, normalize.ForFeature(domain.FeatureResume).Normalize(raw)+"\n", out)
}

func TestNormalize_UnknownFeature(t *testing.T) {
	_, err := execute(t, "x", "normalize", "--feature", "poem")

	assert.ErrorIs(t, err, domain.ErrUnknownFeature)
}

func TestNormalize_MissingFile(t *testing.T) {
	_, err := execute(t, "", "normalize", filepath.Join(t.TempDir(), "missing.txt"))

	assert.ErrorContains(t, err, "failed to read input")
}

func TestNormalize_ListRules(t *testing.T) {
	out, err := execute(t, "", "normalize", "--feature", "resume", "--rules")

	require.NoError(t, err)
	assert.Equal(t, strings.Join(normalize.ForFeature(domain.FeatureResume).Rules(), "\n")+"\n", out)
}

func TestPromptEmail(t *testing.T) {
	out, err := execute(t, "", "prompt", "email", "--topic", "Quarterly review", "--tone", "formal")

	require.NoError(t, err)
	assert.Contains(t, out, "Quarterly review")
	assert.Contains(t, out, "formal")
}

func TestPromptEmail_MissingField(t *testing.T) {
	_, err := execute(t, "", "prompt", "email", "--topic", "Quarterly review")

	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestPromptResume(t *testing.T) {
	out, err := execute(t, "", "prompt", "resume",
		"--name", "Jane Roe", "--role", "SRE", "--skills", "Go", "--experience", "Acme", "--education", "BSc")

	require.NoError(t, err)
	assert.Contains(t, out, "Jane Roe")
	assert.Contains(t, out, "SRE")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "draftctl dev"))
}
