package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Reporter prints the wrapped summary as human-readable console output.
type Reporter struct {
	Out        io.Writer
	LineLength int
	Verbose    bool
}

func NewReporter(out io.Writer, lineLength int, verbose bool) *Reporter {
	return &Reporter{Out: out, LineLength: lineLength, Verbose: verbose}
}

func (r *Reporter) Print(user string, days int, s *Summary) {
	fmt.Fprintf(r.Out, "JIRA Wrapped for %s (last %d days)\n\n", user, days)
	fmt.Fprintf(r.Out, "Issues touched: %d\n", s.Total)
	fmt.Fprintf(r.Out, "Issues completed: %d\n\n", s.Completed)

	r.printTally("By project", s.ByProject)
	r.printTally("By status", s.ByStatus)

	fieldNames := make([]string, 0, len(s.ByField))
	for name := range s.ByField {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)
	for _, name := range fieldNames {
		r.printTally(name, s.ByField[name])
	}

	if len(s.Epics) > 0 {
		fmt.Fprintf(r.Out, "Epics participated in: %d\n", len(s.Epics))
		for i, epic := range s.Epics {
			fmt.Fprintf(r.Out, "\t%d. %s\n", i+1, epic)
		}
		fmt.Fprintln(r.Out)
	}

	if r.Verbose {
		r.printIssueDetails(s.Issues)
	}

	fmt.Fprintln(r.Out, "That's a wrap!")
}

func (r *Reporter) printTally(heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	// highest count first, ties alphabetical
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(r.Out, "%s:\n", heading)
	for _, key := range keys {
		fmt.Fprintf(r.Out, "\t%s: %d\n", key, counts[key])
	}
	fmt.Fprintln(r.Out)
}

func (r *Reporter) printIssueDetails(issues []Issue) {
	for _, issue := range issues {
		fmt.Fprintln(r.Out, IssueDetail(issue, r.LineLength))
		fmt.Fprintln(r.Out, strings.Repeat("=", r.LineLength))
	}
	fmt.Fprintln(r.Out)
}

// IssueDetail renders one issue as a block of "name: value" lines, each
// word-wrapped to width.
func IssueDetail(issue Issue, width int) string {
	var b strings.Builder
	divider := strings.Repeat("-", width)

	b.WriteString(Wrap(fmt.Sprintf("Issue Key: %s", issue.Key), width))

	writeLine := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString("\n" + divider + "\n")
		b.WriteString(Wrap(fmt.Sprintf("%s: %s", name, value), width))
	}

	writeLine("Title", issue.Summary)
	writeLine("Description", issue.Description)
	writeLine("Project", issue.Project)
	writeLine("Status", issue.Status)
	writeLine("Assignee", issue.Assignee)
	writeLine("Reporter", issue.Reporter)
	if issue.Resolved != nil {
		writeLine("Resolution Date", issue.Resolved.Format("2006-01-02"))
	}

	fieldNames := make([]string, 0, len(issue.Fields))
	for name := range issue.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)
	for _, name := range fieldNames {
		value := issue.Fields[name]
		if value == "" {
			value = Unset
		}
		writeLine(name, value)
	}

	return b.String()
}

// Wrap folds text to at most width characters per line without breaking
// words. Words longer than width get a line of their own.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+len(word)+1 > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n")
}
