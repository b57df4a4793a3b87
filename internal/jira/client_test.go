package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeIssue(key, project, status string, extra map[string]any) map[string]any {
	fields := map[string]any{
		"summary": "Work on " + key,
		"project": map[string]any{"key": project},
		"status":  map[string]any{"name": status},
		"created": "2025-01-15T10:00:00.000+0000",
		"updated": "2025-06-01T10:00:00.000+0000",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return map[string]any{"key": key, "fields": fields}
}

// searchHandler serves paginated pages of issues the way the search
// endpoint does, honoring startAt/maxResults.
func searchHandler(t *testing.T, issues []map[string]any, hits *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*hits++
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		if maxResults <= 0 {
			maxResults = 50
		}

		end := startAt + maxResults
		if end > len(issues) {
			end = len(issues)
		}
		page := issues[startAt:end]

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"startAt":    startAt,
			"maxResults": maxResults,
			"total":      len(issues),
			"issues":     page,
		})
		require.NoError(t, err)
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)
	return client
}

func TestSearchAllConcatenatesPages(t *testing.T) {
	issues := make([]map[string]any, 0, 120)
	for i := 0; i < 120; i++ {
		issues = append(issues, fakeIssue(fmt.Sprintf("KG-%d", i+1), "KG", "Done", nil))
	}

	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", searchHandler(t, issues, &hits))

	client := newTestClient(t, mux)
	got, err := client.SearchAll(context.Background(), "assignee = emendez")
	require.NoError(t, err)

	assert.Len(t, got, 120)
	assert.Equal(t, 3, hits, "120 issues at page size 50 should take 3 requests")
	assert.Equal(t, "KG-1", got[0].Key)
	assert.Equal(t, "KG-120", got[119].Key)
}

func TestSearchAllEmptyResult(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", searchHandler(t, nil, &hits))

	client := newTestClient(t, mux)
	got, err := client.SearchAll(context.Background(), "assignee = emendez")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, hits)
}

func TestSearchAllRejectedToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))

	_, err := client.SearchAll(context.Background(), "assignee = emendez")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestSearchAllServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.SearchAll(context.Background(), "assignee = emendez")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.NotErrorAs(t, err, new(*AuthError))
}

func TestHealthCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/myself", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name": "emendez"}`)
	})

	client := newTestClient(t, mux)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestHealthCheckAuthFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	err := client.HealthCheck(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
}

func TestEpicNameCachesLookups(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/ARCH-9", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(fakeIssue("ARCH-9", "ARCH", "Open", map[string]any{
			"customfield_10011": "Platform Rework",
		}))
		require.NoError(t, err)
	})

	client := newTestClient(t, mux)

	for i := 0; i < 3; i++ {
		name, err := client.EpicName(context.Background(), "ARCH-9", "customfield_10011")
		require.NoError(t, err)
		assert.Equal(t, "Platform Rework", name)
	}
	assert.Equal(t, 1, hits, "epic fetches should be cached per run")
}

func TestBuildJQL(t *testing.T) {
	jql := BuildJQL("emendez", 365, []string{"ARCH", "KG"})
	assert.Equal(t, "project in (ARCH, KG) AND assignee = emendez AND updated >= -365d ORDER BY updated DESC", jql)

	jql = BuildJQL("emendez", 30, nil)
	assert.Equal(t, "assignee = emendez AND updated >= -30d ORDER BY updated DESC", jql)
}
