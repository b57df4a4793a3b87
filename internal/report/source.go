package report

import (
	"context"
	"time"
)

// Unset is the bucket for issues that have no value for a tracked field.
const Unset = "(unset)"

type Issue struct {
	Key         string
	Project     string
	Status      string
	Summary     string
	Description string
	Assignee    string
	Reporter    string
	Created     time.Time
	Updated     time.Time
	Resolved    *time.Time
	Fields      map[string]string // tracked custom field name -> display value
}

type IssueSource interface {
	Name() string
	HealthCheck(ctx context.Context) error
	FetchIssues(ctx context.Context, user string, days int) ([]Issue, error)
}

// FilterByProject keeps only issues whose project key is in the allow-list.
// An empty list keeps everything.
func FilterByProject(issues []Issue, projects []string) []Issue {
	if len(projects) == 0 {
		return issues
	}
	allowed := make(map[string]bool, len(projects))
	for _, p := range projects {
		allowed[p] = true
	}
	filtered := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if allowed[issue.Project] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
