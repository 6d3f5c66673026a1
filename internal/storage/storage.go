package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

const topCategoriesLimit = 5

// isoDateLayout is the layout accepted by SearchByDate.
const isoDateLayout = "2006-01-02"

// ErrInvalidDate is returned when a search date is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Storage provides access to the stored news.
type Storage interface {
	FindNews(ctx context.Context) ([]news.News, error)
	AddNews(ctx context.Context, items ...news.News) error
	SearchByTitle(ctx context.Context, title string) ([]news.Link, error)
	SearchByCategory(ctx context.Context, category string) ([]news.Link, error)
	SearchByDate(ctx context.Context, isoDate string) ([]news.Link, error)
	TopCategories(ctx context.Context) ([]string, error)
}

// MemoryStorage keeps news in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	items  []news.News
	nextID uint
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

// FindNews returns a defensive copy of all news in insertion order.
func (s *MemoryStorage) FindNews(_ context.Context) ([]news.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.items), nil
}

// AddNews validates and appends the provided news. Nothing is stored if any record is invalid.
func (s *MemoryStorage) AddNews(_ context.Context, items ...news.News) error {
	if err := news.ValidateAll(items); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		item.ID = s.nextID
		s.nextID++
		s.items = append(s.items, item)
	}
	return nil
}

// SearchByTitle matches titles case-insensitively.
func (s *MemoryStorage) SearchByTitle(_ context.Context, title string) ([]news.Link, error) {
	return s.filter(func(n news.News) bool {
		return containsFold(n.Title, title)
	}), nil
}

// SearchByCategory matches categories case-insensitively.
func (s *MemoryStorage) SearchByCategory(_ context.Context, category string) ([]news.Link, error) {
	return s.filter(func(n news.News) bool {
		return containsFold(n.Category, category)
	}), nil
}

// SearchByDate returns the news published on the given YYYY-MM-DD date.
func (s *MemoryStorage) SearchByDate(_ context.Context, isoDate string) ([]news.Link, error) {
	stamp, err := storedDate(isoDate)
	if err != nil {
		return nil, err
	}
	return s.filter(func(n news.News) bool {
		return n.Timestamp == stamp
	}), nil
}

// TopCategories returns up to five categories ordered by frequency, then name.
func (s *MemoryStorage) TopCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, item := range s.items {
		if item.Category == "" {
			continue
		}
		counts[item.Category]++
	}
	s.mu.RUnlock()

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		ci, cj := counts[categories[i]], counts[categories[j]]
		if ci != cj {
			return ci > cj
		}
		return categories[i] < categories[j]
	})

	if len(categories) > topCategoriesLimit {
		categories = categories[:topCategoriesLimit]
	}
	return categories, nil
}

func (s *MemoryStorage) filter(match func(news.News) bool) []news.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []news.Link{}
	for _, item := range s.items {
		if match(item) {
			out = append(out, news.LinkOf(item))
		}
	}
	return out
}

func clone(src []news.News) []news.News {
	if len(src) == 0 {
		return []news.News{}
	}

	out := make([]news.News, len(src))
	copy(out, src)
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(news.Fold(s), news.Fold(substr))
}

// storedDate converts a YYYY-MM-DD date to the dd/mm/yyyy form kept on records.
func storedDate(isoDate string) (string, error) {
	parsed, err := time.Parse(isoDateLayout, strings.TrimSpace(isoDate))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, isoDate)
	}
	return parsed.Format(news.DateLayout), nil
}
