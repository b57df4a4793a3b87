package jira

import (
	"context"
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"golang.org/x/time/rate"
)

// pageSize is how many issues each search page asks for.
const pageSize = 50

// Client wraps the go-jira API client with pagination, rate limiting and
// the error taxonomy the rest of the tool relies on.
type Client struct {
	api     *jira.Client
	limiter *rate.Limiter
	epics   map[string]string // epic key -> epic name, lazy loaded
}

func NewClient(server, token string) (*Client, error) {
	tp := jira.BearerAuthTransport{Token: token}
	api, err := jira.NewClient(tp.Client(), server)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		epics:   make(map[string]string),
	}, nil
}

// HealthCheck hits the myself endpoint so a bad token surfaces as an
// AuthError before any search runs.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.api.User.GetSelfWithContext(ctx)
	if err != nil {
		return apiError("myself", resp, err)
	}
	return nil
}

// SearchAll runs the JQL query and concatenates every page of results.
// A failure on any page aborts the whole search.
func (c *Client) SearchAll(ctx context.Context, jql string) ([]jira.Issue, error) {
	var all []jira.Issue
	opts := &jira.SearchOptions{StartAt: 0, MaxResults: pageSize}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := c.api.Issue.SearchWithContext(ctx, jql, opts)
		if err != nil {
			return nil, apiError("search", resp, err)
		}

		all = append(all, page...)
		if len(page) == 0 || len(all) >= resp.Total {
			return all, nil
		}
		opts.StartAt += len(page)
	}
}

// EpicName resolves the epic name for an epic key, fetching the epic issue
// at most once per run.
func (c *Client) EpicName(ctx context.Context, epicKey, epicNameFieldID string) (string, error) {
	if name, ok := c.epics[epicKey]; ok {
		return name, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	issue, resp, err := c.api.Issue.GetWithContext(ctx, epicKey, nil)
	if err != nil {
		return "", fmt.Errorf("fetching epic %s: %w", epicKey, apiError("issue", resp, err))
	}

	name := fieldValueString(issue.Fields.Unknowns[epicNameFieldID])
	c.epics[epicKey] = name
	return name, nil
}

// BuildJQL assembles the search filter for a user's activity window.
func BuildJQL(user string, days int, projects []string) string {
	var clauses []string
	if len(projects) > 0 {
		clauses = append(clauses, fmt.Sprintf("project in (%s)", strings.Join(projects, ", ")))
	}
	clauses = append(clauses, fmt.Sprintf("assignee = %s", user))
	clauses = append(clauses, fmt.Sprintf("updated >= -%dd", days))
	return strings.Join(clauses, " AND ") + " ORDER BY updated DESC"
}
