package readingplan

import (
	"context"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

// Entry is a news title paired with its reading time in minutes.
type Entry struct {
	Title       string `json:"title"`
	ReadingTime int    `json:"readingTime"`
}

// Batch is one reading session. UnfilledTime is the budget left after the chosen news.
type Batch struct {
	ChosenNews   []Entry `json:"chosenNews"`
	UnfilledTime int     `json:"unfilledTime"`
}

// Plan is the result of grouping: sessions in formation order plus news that never fits.
type Plan struct {
	Readable   []Batch `json:"readable"`
	Unreadable []Entry `json:"unreadable"`
}

// NewsFinder supplies the news to plan over.
type NewsFinder interface {
	FindNews(ctx context.Context) ([]news.News, error)
}

// FinderFunc adapts a plain function to NewsFinder.
type FinderFunc func(ctx context.Context) ([]news.News, error)

// FindNews calls f.
func (f FinderFunc) FindNews(ctx context.Context) ([]news.News, error) {
	return f(ctx)
}

// Planner describes the behaviour required from a reading planner.
type Planner interface {
	GroupNewsForAvailableTime(ctx context.Context, availableTime int) (Plan, error)
}
