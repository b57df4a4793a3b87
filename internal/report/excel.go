package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes a workbook with a Dashboard sheet (status x project counts)
// and an Issues sheet listing every issue in the summary.
func (e *ExcelExporter) Export(s *Summary, trackedFields []string, filename string) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(e.OutputDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createDashboardSheet(f, "Dashboard", s); err != nil {
		return "", fmt.Errorf("failed to create dashboard: %w", err)
	}
	if err := e.createIssuesSheet(f, "Issues", s.Issues, trackedFields); err != nil {
		return "", fmt.Errorf("failed to create issues sheet: %w", err)
	}

	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}
	return path, nil
}

func (e *ExcelExporter) createDashboardSheet(f *excelize.File, sheetName string, s *Summary) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	projects := sortedKeys(s.ByProject)
	statuses := sortedKeys(s.ByStatus)

	// per-project, per-status counts
	cells := make(map[string]map[string]int, len(projects))
	for _, issue := range s.Issues {
		if cells[issue.Project] == nil {
			cells[issue.Project] = make(map[string]int)
		}
		cells[issue.Project][issue.Status]++
	}

	titler := cases.Title(language.English)

	row := 1
	f.SetCellValue(sheetName, cellName(1, row), "Status")
	f.SetCellStyle(sheetName, cellName(1, row), cellName(1, row), headerStyle)
	for i, project := range projects {
		f.SetCellValue(sheetName, cellName(i+2, row), project)
		f.SetCellStyle(sheetName, cellName(i+2, row), cellName(i+2, row), headerStyle)
	}
	f.SetCellValue(sheetName, cellName(len(projects)+2, row), "Total")
	f.SetCellStyle(sheetName, cellName(len(projects)+2, row), cellName(len(projects)+2, row), headerStyle)

	for _, status := range statuses {
		row++
		f.SetCellValue(sheetName, cellName(1, row), titler.String(strings.ToLower(status)))
		for i, project := range projects {
			f.SetCellValue(sheetName, cellName(i+2, row), cells[project][status])
		}
		f.SetCellValue(sheetName, cellName(len(projects)+2, row), s.ByStatus[status])
	}

	row++
	f.SetCellValue(sheetName, cellName(1, row), "Total")
	for i, project := range projects {
		f.SetCellValue(sheetName, cellName(i+2, row), s.ByProject[project])
	}
	f.SetCellValue(sheetName, cellName(len(projects)+2, row), s.Total)
	f.SetCellStyle(sheetName, cellName(1, row), cellName(len(projects)+2, row), totalStyle)

	return nil
}

func (e *ExcelExporter) createIssuesSheet(f *excelize.File, sheetName string, issues []Issue, trackedFields []string) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []string{"Key", "Project", "Status", "Title", "Assignee", "Updated", "Resolved"}
	header = append(header, trackedFields...)
	for i, h := range header {
		f.SetCellValue(sheetName, cellName(i+1, 1), h)
	}

	for rowIdx, issue := range issues {
		resolved := ""
		if issue.Resolved != nil {
			resolved = issue.Resolved.Format("2006-01-02")
		}
		row := []any{
			issue.Key, issue.Project, issue.Status, issue.Summary,
			issue.Assignee, issue.Updated.Format("2006-01-02"), resolved,
		}
		for _, name := range trackedFields {
			value := issue.Fields[name]
			if value == "" {
				value = Unset
			}
			row = append(row, value)
		}
		for col, value := range row {
			f.SetCellValue(sheetName, cellName(col+1, rowIdx+2), value)
		}
	}

	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
