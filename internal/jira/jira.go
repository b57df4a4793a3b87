package jira

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/Afrawles/jirawrapped/internal/report"
)

// Field names with special handling. Epic Name is only set on epics
// themselves; for everything else it is resolved through Epic Link.
const (
	epicNameField = "Epic Name"
	epicLinkField = "Epic Link"
)

// Source adapts the jira client to the report.IssueSource interface,
// flattening raw API issues into neutral report records.
type Source struct {
	Client   *Client
	Fields   FieldMap
	Projects []string
}

func NewSource(client *Client, fields FieldMap, projects []string) *Source {
	return &Source{Client: client, Fields: fields, Projects: projects}
}

var _ report.IssueSource = (*Source)(nil)

func (s *Source) Name() string {
	return "JIRA"
}

func (s *Source) HealthCheck(ctx context.Context) error {
	return s.Client.HealthCheck(ctx)
}

func (s *Source) FetchIssues(ctx context.Context, user string, days int) ([]report.Issue, error) {
	jql := BuildJQL(user, days, s.Projects)
	raw, err := s.Client.SearchAll(ctx, jql)
	if err != nil {
		return nil, err
	}

	issues := make([]report.Issue, 0, len(raw))
	for _, ji := range raw {
		issue, err := s.flatten(ctx, ji)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}

	// The JQL already filters server-side; this keeps the aggregate honest
	// if the instance returns issues from moved or renamed projects.
	return report.FilterByProject(issues, s.Projects), nil
}

func (s *Source) flatten(ctx context.Context, ji jira.Issue) (report.Issue, error) {
	issue := report.Issue{
		Key:     ji.Key,
		Project: projectKey(ji),
		Fields:  make(map[string]string, len(s.Fields)),
	}
	if ji.Fields == nil {
		return issue, nil
	}

	issue.Summary = ji.Fields.Summary
	issue.Description = ji.Fields.Description
	issue.Created = time.Time(ji.Fields.Created)
	issue.Updated = time.Time(ji.Fields.Updated)
	if ji.Fields.Status != nil {
		issue.Status = ji.Fields.Status.Name
	}
	issue.Assignee = displayName(ji.Fields.Assignee)
	issue.Reporter = displayName(ji.Fields.Reporter)

	if resolved := time.Time(ji.Fields.Resolutiondate); !resolved.IsZero() {
		issue.Resolved = &resolved
	}

	for name, id := range s.Fields {
		if name == epicNameField {
			continue
		}
		issue.Fields[name] = fieldValueString(ji.Fields.Unknowns[id])
	}

	if epicNameID, tracked := s.Fields[epicNameField]; tracked {
		name, err := s.epicName(ctx, ji, epicNameID, issue.Fields[epicLinkField])
		if err != nil {
			return report.Issue{}, err
		}
		issue.Fields[epicNameField] = name
	}

	return issue, nil
}

// epicName returns the issue's own Epic Name value (set when the issue is an
// epic) or resolves it through the linked epic.
func (s *Source) epicName(ctx context.Context, ji jira.Issue, epicNameID, epicKey string) (string, error) {
	if own := fieldValueString(ji.Fields.Unknowns[epicNameID]); own != "" {
		return own, nil
	}
	if epicKey == "" {
		return "", nil
	}
	return s.Client.EpicName(ctx, epicKey, epicNameID)
}

func projectKey(ji jira.Issue) string {
	if ji.Fields != nil && ji.Fields.Project.Key != "" {
		return ji.Fields.Project.Key
	}
	// fall back to the ticket key prefix, e.g. "ARCH-1234" -> "ARCH"
	if idx := strings.IndexByte(ji.Key, '-'); idx > 0 {
		return ji.Key[:idx]
	}
	return ji.Key
}

func displayName(user *jira.User) string {
	if user == nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Name
}

// fieldValueString renders a raw custom field value for grouping and display.
// Custom fields come back as strings, numbers, option objects or lists of
// any of those depending on the field type.
func fieldValueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		for _, key := range []string{"value", "name", "key"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := fieldValueString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
