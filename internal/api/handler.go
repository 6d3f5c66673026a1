package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
	"github.com/eugenenazirov/tech-news-planner/internal/readingplan"
	"github.com/eugenenazirov/tech-news-planner/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// Handler wires the reading planner and news storage into HTTP handlers.
type Handler struct {
	planner readingplan.Planner
	storage storage.Storage
	metrics *Metrics

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithPlanMetrics records the size of every computed reading plan.
func WithPlanMetrics(m *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(planner readingplan.Planner, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		planner: planner,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.storage.FindNews(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newsListResponse{News: items, Count: len(items)})
}

func (h *Handler) handleAddNews(w http.ResponseWriter, r *http.Request) {
	var req addNewsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.News) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid news", "news must contain at least one record")
		return
	}

	if err := h.storage.AddNews(r.Context(), req.News...); err != nil {
		if errors.Is(err, news.ErrInvalidNews) {
			writeError(w, http.StatusBadRequest, "Invalid news", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addNewsResponse{
		Count:   len(req.News),
		Message: "News stored successfully",
	})
}

func (h *Handler) handleSearchNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	title := strings.TrimSpace(query.Get("title"))
	category := strings.TrimSpace(query.Get("category"))
	date := strings.TrimSpace(query.Get("date"))

	provided := 0
	for _, v := range []string{title, category, date} {
		if v != "" {
			provided++
		}
	}
	if provided != 1 {
		writeError(w, http.StatusBadRequest, "Invalid request", "exactly one of title, category or date must be provided")
		return
	}

	var (
		results []news.Link
		err     error
	)
	switch {
	case title != "":
		results, err = h.storage.SearchByTitle(r.Context(), title)
	case category != "":
		results, err = h.storage.SearchByCategory(r.Context(), category)
	default:
		results, err = h.storage.SearchByDate(r.Context(), date)
	}

	if err != nil {
		if errors.Is(err, storage.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, "Invalid date", err.Error(), "Use the YYYY-MM-DD format, for example 2023-04-07")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results, Count: len(results)})
}

func (h *Handler) handleTopCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.storage.TopCategories(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, topCategoriesResponse{Categories: categories})
}

func (h *Handler) handleReadingPlan(w http.ResponseWriter, r *http.Request) {
	var req readingPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	plan, err := h.planner.GroupNewsForAvailableTime(r.Context(), req.AvailableTime)
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, readingplan.ErrInvalidAvailableTime):
			writeError(w, http.StatusBadRequest, "Invalid available time", err.Error(), "Provide availableTime in minutes, for example 30")
		default:
			writeInternalError(w, err)
		}
		return
	}

	if h.metrics != nil {
		h.metrics.observePlan(plan)
	}

	resp := readingPlanResponse{
		AvailableTime:     req.AvailableTime,
		Readable:          plan.Readable,
		Unreadable:        plan.Unreadable,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeJSON reads a capped request body into dst and writes the error response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type addNewsRequest struct {
	News []news.News `json:"news"`
}

type addNewsResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type newsListResponse struct {
	News  []news.News `json:"news"`
	Count int         `json:"count"`
}

type searchResponse struct {
	Results []news.Link `json:"results"`
	Count   int         `json:"count"`
}

type topCategoriesResponse struct {
	Categories []string `json:"categories"`
}

type readingPlanRequest struct {
	AvailableTime int `json:"availableTime"`
}

type readingPlanResponse struct {
	AvailableTime     int                 `json:"availableTime"`
	Readable          []readingplan.Batch `json:"readable"`
	Unreadable        []readingplan.Entry `json:"unreadable"`
	CalculationTimeMs int64               `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
