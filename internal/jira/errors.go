package jira

import (
	"fmt"
	"net/http"

	jira "github.com/andygrunwald/go-jira"
)

// AuthError means the instance rejected the token (HTTP 401/403).
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("jira rejected the token (status %d), check JIRA_TOKEN", e.StatusCode)
}

// RequestError is any other non-success response from the API.
type RequestError struct {
	StatusCode int
	Operation  string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("jira %s request failed with status %d", e.Operation, e.StatusCode)
}

// apiError maps a failed go-jira call onto the error taxonomy. Transport
// failures (resp == nil) are wrapped as-is.
func apiError(operation string, resp *jira.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("jira %s request failed: %w", operation, err)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	default:
		return &RequestError{StatusCode: resp.StatusCode, Operation: operation}
	}
}
