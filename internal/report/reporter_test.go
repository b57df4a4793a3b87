package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	wrapped := Wrap("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 15)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog",
		strings.ReplaceAll(wrapped, "\n", " "), "wrapping must not drop or split words")
}

func TestWrapLongWord(t *testing.T) {
	assert.Equal(t, "a\nsupercalifragilistic\nword", Wrap("a supercalifragilistic word", 5))
}

func TestWrapEmpty(t *testing.T) {
	assert.Equal(t, "", Wrap("   ", 10))
}

func TestPrintSummary(t *testing.T) {
	issues := []Issue{
		testIssue("KG-1", "KG", "Done", map[string]string{"Story Points": "5"}),
		testIssue("KG-2", "KG", "Done", nil),
		testIssue("ARCH-3", "ARCH", "In Progress", map[string]string{"Story Points": "3"}),
	}
	s := Summarize(issues, []string{"Story Points"})

	var buf bytes.Buffer
	NewReporter(&buf, 120, false).Print("emendez", 365, s)
	out := buf.String()

	assert.Contains(t, out, "JIRA Wrapped for emendez (last 365 days)")
	assert.Contains(t, out, "Issues touched: 3")
	assert.Contains(t, out, "By project:")
	assert.Contains(t, out, "\tKG: 2")
	assert.Contains(t, out, "\tARCH: 1")
	assert.Contains(t, out, "By status:")
	assert.Contains(t, out, "\tDone: 2")
	assert.Contains(t, out, "\tIn Progress: 1")
	assert.Contains(t, out, "Story Points:")
	assert.Contains(t, out, "\t"+Unset+": 1")
	assert.Contains(t, out, "That's a wrap!")
	assert.NotContains(t, out, "Issue Key:", "issue details only show in verbose mode")
}

func TestPrintVerboseIncludesIssueDetails(t *testing.T) {
	issues := []Issue{
		testIssue("KG-1", "KG", "Done", nil),
	}
	s := Summarize(issues, nil)

	var buf bytes.Buffer
	NewReporter(&buf, 120, true).Print("emendez", 365, s)
	out := buf.String()

	assert.Contains(t, out, "Issue Key: KG-1")
	assert.Contains(t, out, "Title: Work on KG-1")
	assert.Contains(t, out, strings.Repeat("=", 120))
}

func TestPrintEpics(t *testing.T) {
	issues := []Issue{
		testIssue("KG-1", "KG", "Done", map[string]string{"Epic Name": "Platform Rework"}),
		testIssue("KG-2", "KG", "Done", map[string]string{"Epic Name": "Search Revamp"}),
	}
	s := Summarize(issues, []string{"Epic Name"})

	var buf bytes.Buffer
	NewReporter(&buf, 120, false).Print("emendez", 365, s)
	out := buf.String()

	assert.Contains(t, out, "Epics participated in: 2")
	assert.Contains(t, out, "\t1. Platform Rework")
	assert.Contains(t, out, "\t2. Search Revamp")
}

func TestIssueDetailWrapsLongValues(t *testing.T) {
	issue := testIssue("KG-1", "KG", "Done", nil)
	issue.Description = strings.Repeat("word ", 40)

	detail := IssueDetail(issue, 40)
	for _, line := range strings.Split(detail, "\n") {
		require.LessOrEqual(t, len(line), 40)
	}
}
