package readingplan

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

type service struct {
	finder NewsFinder
	logger *zap.Logger
}

// Option configures the planner.
type Option func(*service)

// WithLogger attaches a logger for debug output. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Planner that reads news from finder on every call.
func New(finder NewsFinder, opts ...Option) Planner {
	s := &service{
		finder: finder,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GroupNewsForAvailableTime fetches the news once and groups it with Group.
// The budget is validated before fetching; finder errors are returned as is.
func (s *service) GroupNewsForAvailableTime(ctx context.Context, availableTime int) (Plan, error) {
	if availableTime <= 0 {
		return Plan{}, ErrInvalidAvailableTime
	}

	items, err := s.finder.FindNews(ctx)
	if err != nil {
		return Plan{}, err
	}

	plan, err := Group(availableTime, items)
	if err != nil {
		return Plan{}, err
	}

	s.logger.Debug("reading plan grouped",
		zap.Int("available_time", availableTime),
		zap.Int("news", len(items)),
		zap.Int("batches", len(plan.Readable)),
		zap.Int("unreadable", len(plan.Unreadable)),
	)
	return plan, nil
}

// Group partitions items into reading sessions of at most availableTime minutes.
//
// News longer than the budget goes to Unreadable in input order. The rest is
// ordered by reading time, longest first, keeping input order among equals.
// Each session is then filled by one greedy pass over the remaining news:
// an item is taken when it fits the time left, otherwise it waits for a later
// session. Sessions are never revisited.
func Group(availableTime int, items []news.News) (Plan, error) {
	if availableTime <= 0 {
		return Plan{}, ErrInvalidAvailableTime
	}

	plan := Plan{
		Readable:   []Batch{},
		Unreadable: []Entry{},
	}

	candidates := make([]Entry, 0, len(items))
	for _, item := range items {
		entry := Entry{Title: item.Title, ReadingTime: item.ReadingTime}
		if entry.ReadingTime > availableTime {
			plan.Unreadable = append(plan.Unreadable, entry)
			continue
		}
		candidates = append(candidates, entry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReadingTime > candidates[j].ReadingTime
	})

	for len(candidates) > 0 {
		var batch Batch
		batch, candidates = fillBatch(availableTime, candidates)
		plan.Readable = append(plan.Readable, batch)
	}

	return plan, nil
}

// fillBatch takes every candidate that still fits, in order, and returns the rest.
// The first candidate always fits since none exceeds the budget.
func fillBatch(availableTime int, candidates []Entry) (Batch, []Entry) {
	batch := Batch{ChosenNews: []Entry{}, UnfilledTime: availableTime}
	deferred := make([]Entry, 0, len(candidates))

	for _, entry := range candidates {
		if fits(entry, batch.UnfilledTime) {
			batch.ChosenNews = append(batch.ChosenNews, entry)
			batch.UnfilledTime -= entry.ReadingTime
			continue
		}
		deferred = append(deferred, entry)
	}

	return batch, deferred
}

func fits(entry Entry, remaining int) bool {
	return entry.ReadingTime <= remaining
}
