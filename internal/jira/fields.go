package jira

import (
	"context"
	"fmt"
	"sort"
	"strings"

	jira "github.com/andygrunwald/go-jira"
)

// FieldMap maps human-readable custom field names to API identifiers,
// e.g. {"Epic Name": "customfield_12345"}.
type FieldMap map[string]string

// CustomFields fetches every field definition on the instance and keeps the
// custom ones. Most interesting ticket attributes live in custom fields.
func (c *Client) CustomFields(ctx context.Context) ([]jira.Field, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fields, resp, err := c.api.Field.GetListWithContext(ctx)
	if err != nil {
		return nil, apiError("fields", resp, err)
	}

	custom := make([]jira.Field, 0, len(fields))
	for _, field := range fields {
		if field.Custom {
			custom = append(custom, field)
		}
	}
	return custom, nil
}

// ResolveFields translates the configured field names into a FieldMap,
// failing fast on any name the instance does not know. Silently returning
// empty values for a typo'd name would just skew the tallies.
func ResolveFields(custom []jira.Field, names []string) (FieldMap, error) {
	byName := make(map[string]string, len(custom))
	for _, field := range custom {
		byName[field.Name] = field.ID
	}

	fieldMap := make(FieldMap, len(names))
	var missing []string
	for _, name := range names {
		if id, ok := byName[name]; ok {
			fieldMap[name] = id
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"custom fields not found in jira: %s (set LIST_CUSTOM_FIELDS=true or run the fields subcommand to see what is available)",
			strings.Join(missing, ", "))
	}
	return fieldMap, nil
}

// FormatFieldList renders the custom field definitions for discovery output,
// sorted by name.
func FormatFieldList(custom []jira.Field) string {
	sorted := make([]jira.Field, len(custom))
	copy(sorted, custom)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for _, field := range sorted {
		fmt.Fprintf(&b, "%s\t%s\n", field.ID, field.Name)
	}
	return b.String()
}
