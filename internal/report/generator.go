package report

import (
	"context"
	"fmt"
	"sort"
)

type Generator struct {
	Sources []IssueSource
}

func NewGenerator(sources ...IssueSource) *Generator {
	return &Generator{Sources: sources}
}

// Generate fetches issues from all sources. Any source failure aborts the
// run; a partial wrapped summary would be worse than none.
func (g *Generator) Generate(ctx context.Context, user string, days int) ([]Issue, error) {
	var all []Issue

	for _, src := range g.Sources {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := src.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("%s health check failed: %w", src.Name(), err)
		}

		issues, err := src.FetchIssues(ctx, user, days)
		if err != nil {
			return nil, fmt.Errorf("fetching from %s: %w", src.Name(), err)
		}
		all = append(all, issues...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Updated.After(all[j].Updated)
	})

	return all, nil
}

// Summary holds the aggregated tallies for one wrapped run.
type Summary struct {
	Total     int
	Completed int
	ByProject map[string]int
	ByStatus  map[string]int
	ByField   map[string]map[string]int // tracked field name -> value -> count
	Epics     []string
	Issues    []Issue
}

// Summarize tallies the issue list. Grouping is exact string match on the
// field value; an issue with no value for a tracked field lands in the
// Unset bucket so every bucket column still sums to Total.
func Summarize(issues []Issue, trackedFields []string) *Summary {
	s := &Summary{
		Total:     len(issues),
		ByProject: make(map[string]int),
		ByStatus:  make(map[string]int),
		ByField:   make(map[string]map[string]int, len(trackedFields)),
		Issues:    issues,
	}

	for _, name := range trackedFields {
		s.ByField[name] = make(map[string]int)
	}

	seenEpics := make(map[string]bool)
	for _, issue := range issues {
		s.ByProject[issue.Project]++
		s.ByStatus[issue.Status]++
		if issue.Resolved != nil {
			s.Completed++
		}

		for _, name := range trackedFields {
			value := issue.Fields[name]
			if value == "" {
				value = Unset
			}
			s.ByField[name][value]++

			if name == "Epic Name" && value != Unset && !seenEpics[value] {
				seenEpics[value] = true
				s.Epics = append(s.Epics, value)
			}
		}
	}

	return s
}
