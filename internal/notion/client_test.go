// ABOUTME: Tests for the Notion REST client
// ABOUTME: Exercises headers, pagination, error decoding and retry rules against httptest
package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCall(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*ClientConfig)) *Client {
	t.Helper()
	cfg := DefaultConfig("secret_test")
	cfg.BaseURL = srv.URL
	cfg.RetryDelay = time.Millisecond
	if mutate != nil {
		mutate(cfg)
	}
	c, err := NewClientWithConfig(cfg)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_MissingToken(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestRetrieveDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/db-1", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		assert.Empty(t, r.Header.Get("Content-Type"), "GET carries no body")

		writeJSON(w, http.StatusOK, map[string]any{
			"object":       "database",
			"id":           "db-1",
			"data_sources": []map[string]string{{"id": "ds-1", "name": "Atividades"}, {"id": "ds-2"}},
		})
	}))
	defer srv.Close()

	db, err := newTestClient(t, srv, nil).RetrieveDatabase(context.Background(), "db-1")
	require.NoError(t, err)
	require.Len(t, db.DataSources, 2)
	assert.Equal(t, "ds-1", db.DataSources[0].ID)
	assert.Equal(t, "Atividades", db.DataSources[0].Name)
}

func TestQueryDataSource_Paginates(t *testing.T) {
	var calls int
	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/data_sources/ds-1/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Filter      map[string]any `json:"filter"`
			StartCursor string         `json:"start_cursor"`
			PageSize    int            `json:"page_size"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ativa", body.Filter["and"].([]any)[0].(map[string]any)["property"])
		assert.Equal(t, 100, body.PageSize)
		cursors = append(cursors, body.StartCursor)

		calls++
		if calls == 1 {
			writeJSON(w, http.StatusOK, map[string]any{
				"results":     []map[string]any{{"id": "p1"}, {"id": "p2"}},
				"has_more":    true,
				"next_cursor": "cursor-2",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"results":     []map[string]any{{"id": "p3"}},
			"has_more":    false,
			"next_cursor": nil,
		})
	}))
	defer srv.Close()

	filter := And(CheckboxEquals("Ativa", true), MultiSelectContains("Dias da semana", "Segunda"))
	pages, err := newTestClient(t, srv, nil).QueryDataSource(context.Background(), "ds-1", filter)
	require.NoError(t, err)

	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
	assert.Equal(t, []string{"", "cursor-2"}, cursors)
}

func TestQueryDataSource_DecodesProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"results": [{
				"id": "act-1",
				"icon": {"type": "emoji", "emoji": "🧘"},
				"properties": {
					"Nome": {"id": "title", "type": "title", "title": [{"type": "text", "text": {"content": "Yoga"}, "plain_text": "Yoga"}]},
					"Ativa": {"id": "a", "type": "checkbox", "checkbox": true},
					"Dias da semana": {"id": "d", "type": "multi_select", "multi_select": [{"id": "1", "name": "Segunda"}]},
					"Horário Segunda": {"id": "h", "type": "rich_text", "rich_text": [{"type": "text", "text": {"content": "07:00"}, "plain_text": "07:00"}]}
				}
			}],
			"has_more": false,
			"next_cursor": null
		}`)
	}))
	defer srv.Close()

	pages, err := newTestClient(t, srv, nil).QueryDataSource(context.Background(), "ds-1", nil)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	p := pages[0]
	assert.Equal(t, "🧘", p.Icon.Emoji)
	assert.Equal(t, "Yoga", FirstPlainText(p.Properties["Nome"].Title))
	assert.True(t, p.Properties["Ativa"].Checkbox)
	assert.Equal(t, "Segunda", p.Properties["Dias da semana"].MultiSelect[0].Name)
	assert.Equal(t, "07:00", FirstPlainText(p.Properties["Horário Segunda"].RichText))
}

func TestCreatePage_Body(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"id": "new-page"})
	}))
	defer srv.Close()

	req := CreatePageRequest{
		Parent: InDataSource("ds-9"),
		Properties: map[string]Property{
			"Nome":       TitleValue("Yoga"),
			"Observação": RichTextValue(""),
			"Concluido":  CheckboxValue(false),
		},
		Icon: Emoji("✅"),
	}
	page, err := newTestClient(t, srv, nil).CreatePage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "new-page", page.ID)

	assert.Equal(t, map[string]any{"type": "data_source_id", "data_source_id": "ds-9"}, got["parent"])
	assert.Equal(t, map[string]any{"type": "emoji", "emoji": "✅"}, got["icon"])
	props := got["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"rich_text": []any{}}, props["Observação"])
	assert.Equal(t, map[string]any{"checkbox": false}, props["Concluido"])
}

func TestUpdatePage(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/sum-1", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		writeJSON(w, http.StatusOK, map[string]any{"id": "sum-1"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).UpdatePage(context.Background(), "sum-1", map[string]Property{
		"Execução": RelationValue("r1", "r2"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"properties":{"Execução":{"relation":[{"id":"r1"},{"id":"r2"}]}}}`, body)
}

func TestAPIError_Decoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		writeJSON(w, http.StatusNotFound, map[string]any{
			"object":  "error",
			"status":  404,
			"code":    "object_not_found",
			"message": "Could not find database",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).RetrieveDatabase(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find database", apiErr.Message)
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
	assert.Contains(t, err.Error(), "retrieving database missing")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down\n")
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).RetrieveDatabase(context.Background(), "db-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.True(t, apiErr.Retryable())
}

func TestDo_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"code": "rate_limited", "message": "slow down"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).CreatePage(context.Background(), CreatePageRequest{Parent: InDataSource("ds")})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"code": "service_unavailable", "message": "try later"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "db-1", "data_sources": []map[string]string{{"id": "ds-1"}}})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, srv, func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
		cfg.Observer = obs
	})

	db, err := c.RetrieveDatabase(context.Background(), "db-1")
	require.NoError(t, err)
	assert.Equal(t, "ds-1", db.DataSources[0].ID)
	assert.Equal(t, int32(3), calls.Load())

	require.Len(t, obs.events, 3)
	assert.Equal(t, http.StatusServiceUnavailable, obs.events[0].Status)
	assert.Equal(t, 1, obs.events[0].Attempt)
	assert.Equal(t, http.StatusOK, obs.events[2].Status)
	assert.Equal(t, 3, obs.events[2].Attempt)
	assert.Equal(t, "retrieve_database", obs.events[2].Operation)
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "validation_error", "message": "bad property"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 5 })
	_, err := c.CreatePage(context.Background(), CreatePageRequest{Parent: InDataSource("ds")})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	_, err := c.UpdatePage(context.Background(), "p", nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })
	_, err := c.RetrieveDatabase(ctx, "db-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreatePage_NotRetriedAfterServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusGatewayTimeout, map[string]any{"code": "gateway_timeout", "message": "timed out"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "duplicate"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	_, err := c.CreatePage(context.Background(), CreatePageRequest{Parent: InDataSource("ds")})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusGatewayTimeout, apiErr.Status)
	assert.Equal(t, int32(1), calls.Load(), "a create that may have been applied must not be resent")
}

func TestCreatePage_RetriedWhenRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"code": "rate_limited", "message": "slow down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "new-page"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	page, err := c.CreatePage(context.Background(), CreatePageRequest{Parent: InDataSource("ds")})
	require.NoError(t, err)
	assert.Equal(t, "new-page", page.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		status int
		err    error
		want   bool
	}{
		{"rate limited", "query_data_source", 429, &APIError{Status: 429}, true},
		{"conflict", "update_page", 409, &APIError{Status: 409}, true},
		{"server error", "retrieve_database", 502, &APIError{Status: 502}, true},
		{"validation", "update_page", 400, &APIError{Status: 400}, false},
		{"not found", "retrieve_database", 404, &APIError{Status: 404}, false},
		{"transport", "query_data_source", 0, io.ErrUnexpectedEOF, true},
		{"canceled", "query_data_source", 0, context.Canceled, false},
		{"decode failure", "query_data_source", 200, io.ErrUnexpectedEOF, false},
		{"create rate limited", opCreatePage, 429, &APIError{Status: 429}, true},
		{"create gateway timeout", opCreatePage, 504, &APIError{Status: 504}, false},
		{"create conflict", opCreatePage, 409, &APIError{Status: 409}, false},
		{"create transport", opCreatePage, 0, io.ErrUnexpectedEOF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.op, tt.status, tt.err))
		})
	}
}
