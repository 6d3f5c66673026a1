package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/tech-news-planner/internal/api"
	"github.com/eugenenazirov/tech-news-planner/internal/readingplan"
	"github.com/eugenenazirov/tech-news-planner/internal/storage"
)

func newRouter(t *testing.T, store storage.Storage) http.Handler {
	t.Helper()

	handler := api.NewHandler(readingplan.New(store), store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

type planResponse struct {
	Readable []struct {
		ChosenNews []struct {
			Title       string `json:"title"`
			ReadingTime int    `json:"readingTime"`
		} `json:"chosenNews"`
		UnfilledTime int `json:"unfilledTime"`
	} `json:"readable"`
	Unreadable []struct {
		Title       string `json:"title"`
		ReadingTime int    `json:"readingTime"`
	} `json:"unreadable"`
}

func runFlow(t *testing.T, store storage.Storage) {
	t.Helper()
	handler := newRouter(t, store)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	addPayload := map[string]any{
		"news": []map[string]any{
			{"title": "Notícia 1 (4 min)", "readingTime": 4, "category": "Tecnologia", "timestamp": "04/04/2023"},
			{"title": "Notícia 2 (7 min)", "readingTime": 7, "category": "Carreira", "timestamp": "04/04/2023"},
			{"title": "Notícia 3 (10 min)", "readingTime": 10, "category": "Tecnologia", "timestamp": "05/04/2023"},
		},
	}
	payload, _ := json.Marshal(addPayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/news", payload, jsonHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 from news insert, got %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]any{"availableTime": 10})
	rec = performRequest(t, handler, http.MethodPost, "/api/reading-plan", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from reading plan, got %d", rec.Code)
	}

	var plan planResponse
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	wantTitles := []string{"Notícia 3 (10 min)", "Notícia 2 (7 min)", "Notícia 1 (4 min)"}
	wantUnfilled := []int{0, 3, 6}
	if len(plan.Readable) != len(wantTitles) {
		t.Fatalf("expected %d sessions, got %d", len(wantTitles), len(plan.Readable))
	}
	for i, batch := range plan.Readable {
		if len(batch.ChosenNews) != 1 || batch.ChosenNews[0].Title != wantTitles[i] || batch.UnfilledTime != wantUnfilled[i] {
			t.Fatalf("session %d: unexpected %+v", i, batch)
		}
	}
	if len(plan.Unreadable) != 0 {
		t.Fatalf("expected no unreadable news, got %+v", plan.Unreadable)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/news/search?date=2023-04-04", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from date search, got %d", rec.Code)
	}
	var search struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&search); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if search.Count != 2 {
		t.Fatalf("expected 2 news on 2023-04-04, got %d", search.Count)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/categories/top", nil, nil)
	var top struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&top); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(top.Categories) != 2 || top.Categories[0] != "Tecnologia" || top.Categories[1] != "Carreira" {
		t.Fatalf("unexpected top categories %v", top.Categories)
	}
}

func TestIntegrationFlowMemory(t *testing.T) {
	runFlow(t, storage.NewMemoryStorage())
}

func TestIntegrationFlowSQLite(t *testing.T) {
	store, err := storage.OpenSQL(storage.BackendSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	runFlow(t, store)
}
