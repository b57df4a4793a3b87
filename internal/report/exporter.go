package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

func (e *Exporter) ensureDir() error {
	return os.MkdirAll(e.OutputDir, 0755)
}

func (e *Exporter) ExportJSON(issues []Issue, filename string) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(issues, "", "\t")
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.OutputDir, filename)
	return path, os.WriteFile(path, data, 0644)
}

func (e *Exporter) ExportCSV(issues []Issue, trackedFields []string, filename string) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(e.OutputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"#", "Key", "Project", "Status", "Title", "Assignee", "Reporter", "Updated", "Resolved"}
	header = append(header, trackedFields...)
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, issue := range issues {
		resolved := ""
		if issue.Resolved != nil {
			resolved = issue.Resolved.Format("2006-01-02")
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			issue.Key,
			issue.Project,
			issue.Status,
			issue.Summary,
			issue.Assignee,
			issue.Reporter,
			issue.Updated.Format("2006-01-02"),
			resolved,
		}
		for _, name := range trackedFields {
			value := issue.Fields[name]
			if value == "" {
				value = Unset
			}
			row = append(row, value)
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	return path, writer.Error()
}

// ExportDetails writes the verbose per-issue blocks to <user>-issue-details.txt,
// word-wrapped the same way the console reporter wraps them.
func (e *Exporter) ExportDetails(issues []Issue, user string, lineLength int) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, issue := range issues {
		b.WriteString(IssueDetail(issue, lineLength))
		b.WriteString("\n" + strings.Repeat("=", lineLength) + "\n\n")
	}

	path := filepath.Join(e.OutputDir, fmt.Sprintf("%s-issue-details.txt", user))
	return path, os.WriteFile(path, []byte(b.String()), 0644)
}
