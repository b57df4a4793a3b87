package wrapped

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/jirawrapped/internal/config"
	"github.com/Afrawles/jirawrapped/internal/report"
)

func testConfig(outputDir string, formats []string) *config.Config {
	return &config.Config{
		Jira: config.JiraConfig{
			Server:        "https://jira.example.com",
			Token:         "test-token",
			Username:      "emendez",
			TimelineDays:  365,
			TrackedFields: []string{"Story Points"},
		},
		Report: config.ReportConfig{
			LineLength: 120,
			Formats:    formats,
			OutputDir:  outputDir,
		},
	}
}

func testSummary() *report.Summary {
	resolved := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	issues := []report.Issue{
		{
			Key: "KG-1", Project: "KG", Status: "Done", Summary: "Ship the thing",
			Updated: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Resolved: &resolved,
			Fields: map[string]string{"Story Points": "5"},
		},
		{
			Key: "ARCH-2", Project: "ARCH", Status: "In Progress", Summary: "Start the other thing",
			Updated: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			Fields:  map[string]string{},
		},
	}
	return report.Summarize(issues, []string{"Story Points"})
}

func TestReportPrintsSummary(t *testing.T) {
	app, err := New(testConfig(t.TempDir(), nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Out = &buf

	require.NoError(t, app.Report(testSummary()))
	out := buf.String()

	assert.Contains(t, out, "JIRA Wrapped for emendez (last 365 days)")
	assert.Contains(t, out, "Issues touched: 2")
	assert.Contains(t, out, "That's a wrap!")
}

func TestReportDefaultWritesNoFiles(t *testing.T) {
	dir := t.TempDir()
	app, err := New(testConfig(dir, nil))
	require.NoError(t, err)
	app.Out = &bytes.Buffer{}

	require.NoError(t, app.Report(testSummary()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "stdout-only unless WRAPPED_EXPORT opts in")
}

func TestReportWritesConfiguredExports(t *testing.T) {
	dir := t.TempDir()
	app, err := New(testConfig(dir, []string{"json", "csv", "xlsx", "details"}))
	require.NoError(t, err)
	app.Out = &bytes.Buffer{}

	require.NoError(t, app.Report(testSummary()))

	for _, name := range []string{
		"wrapped_emendez.json",
		"wrapped_emendez.csv",
		"wrapped_emendez.xlsx",
		"emendez-issue-details.txt",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
