package notion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tgpaywall/tgpaywall/pkg/notion"
)

func newClient(t *testing.T, h http.HandlerFunc) *notion.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return notion.NewClient(notion.Config{
		Token:      "secret_token",
		DatabaseID: "db1",
		BaseURL:    srv.URL,
		Timeout:    time.Second,
	}, notion.WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
}

func TestClient_QueryDatabase(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret_token", r.Header.Get("Authorization"))
		assert.Equal(t, notion.APIVersion, r.Header.Get("Notion-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			assert.NotContains(t, body, "start_cursor")
			_, _ = w.Write([]byte(`{"results":[
				{"id":"p1","properties":{"Name":{"type":"title","title":[{"plain_text":"Первая"}]},
				"Status":{"type":"select","select":{"name":"Published"}},"Sort":{"type":"number","number":2}}},
				{"id":"p2","archived":true,"properties":{}}
			],"has_more":true,"next_cursor":"c2"}`))
			return
		}
		assert.Equal(t, "c2", body["start_cursor"])
		_, _ = w.Write([]byte(`{"results":[{"id":"p3","properties":{}}],"has_more":false,"next_cursor":null}`))
	})

	pages, err := c.QueryDatabase(context.Background(), "db1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "p1", pages[0].ID)
	assert.Equal(t, "Первая", pages[0].Text("Name"))
	assert.Equal(t, "Published", pages[0].SelectName("Status"))
	assert.InDelta(t, 2.0, pages[0].Number("Sort"), 0.001)
	assert.Equal(t, "p3", pages[1].ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_QueryDatabase_MissingID(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	_, err := c.QueryDatabase(context.Background(), "")
	assert.ErrorIs(t, err, notion.ErrMissingDatabaseID)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	})

	_, err := c.QueryDatabase(context.Background(), "db1")
	require.Error(t, err)
	assert.ErrorIs(t, err, notion.ErrRequestFailed)

	var apiErr *notion.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "unauthorized", apiErr.Code)
}

func TestClient_PageMarkdown(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/blocks/page1/children":
			_, _ = w.Write([]byte(`{"results":[
				{"id":"b1","type":"heading_1","heading_1":{"rich_text":[{"plain_text":"Заголовок"}]}},
				{"id":"b2","type":"bulleted_list_item","has_children":true,"bulleted_list_item":{"rich_text":[{"plain_text":"Пункт"}]}}
			],"has_more":false}`))
		case "/blocks/b2/children":
			_, _ = w.Write([]byte(`{"results":[
				{"id":"b3","type":"bulleted_list_item","bulleted_list_item":{"rich_text":[{"plain_text":"Вложенный"}]}}
			],"has_more":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"code":"object_not_found","message":"not found"}`))
		}
	})

	md, err := c.PageMarkdown(context.Background(), "page1")
	require.NoError(t, err)
	assert.Equal(t, "# Заголовок\n\n- Пункт\n  - Вложенный\n", md)
}

func TestClient_CanceledContext(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.BlockChildren(ctx, "page1")
	assert.ErrorIs(t, err, notion.ErrRequestFailed)
}
