package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// ErrUnknownBackend is returned for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// likeEscape is accepted by sqlite, postgres and mysql alike.
const likeEscape = "!"

// SQLStorage persists news through GORM.
type SQLStorage struct {
	db *gorm.DB
}

// ParseBackend normalises a backend name.
func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendMySQL:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, raw)
	}
}

// OpenSQL connects to the given SQL backend and migrates the news table.
func OpenSQL(backend Backend, dsn string) (*SQLStorage, error) {
	var dialector gorm.Dialector

	switch backend {
	case BackendSQLite:
		dialector = sqlite.Open(dsn)
	case BackendPostgres:
		dialector = postgres.Open(dsn)
	case BackendMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if backend == BackendSQLite {
		// every sqlite connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return NewSQLStorage(db)
}

// NewSQLStorage wraps an existing connection and migrates the news table.
func NewSQLStorage(db *gorm.DB) (*SQLStorage, error) {
	if err := db.AutoMigrate(&news.News{}); err != nil {
		return nil, fmt.Errorf("migrate news table: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

// Close releases database resources.
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindNews returns all news in insertion order.
func (s *SQLStorage) FindNews(ctx context.Context) ([]news.News, error) {
	out := []news.News{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find news: %w", err)
	}
	return out, nil
}

// AddNews validates and inserts the provided news in a single transaction.
func (s *SQLStorage) AddNews(ctx context.Context, items ...news.News) error {
	if err := news.ValidateAll(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]news.News, len(items))
	copy(rows, items)
	for i := range rows {
		rows[i].ID = 0
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// SearchByTitle matches titles case-insensitively.
func (s *SQLStorage) SearchByTitle(ctx context.Context, title string) ([]news.Link, error) {
	return s.searchLike(ctx, "title_fold", title)
}

// SearchByCategory matches categories case-insensitively.
func (s *SQLStorage) SearchByCategory(ctx context.Context, category string) ([]news.Link, error) {
	return s.searchLike(ctx, "category_fold", category)
}

// SearchByDate returns the news published on the given YYYY-MM-DD date.
func (s *SQLStorage) SearchByDate(ctx context.Context, isoDate string) ([]news.Link, error) {
	stamp, err := storedDate(isoDate)
	if err != nil {
		return nil, err
	}

	var rows []news.News
	if err := s.db.WithContext(ctx).Where("timestamp = ?", stamp).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search by date: %w", err)
	}
	return links(rows), nil
}

type categoryCount struct {
	Category string
	Total    int
}

// TopCategories returns up to five categories ordered by frequency, then name.
func (s *SQLStorage) TopCategories(ctx context.Context) ([]string, error) {
	var counts []categoryCount
	err := s.db.WithContext(ctx).
		Model(&news.News{}).
		Select("category, COUNT(*) AS total").
		Where("category <> ?", "").
		Group("category").
		Order("total DESC, category ASC").
		Limit(topCategoriesLimit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}

	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Category)
	}
	return out, nil
}

// searchLike only receives fold column names from this file.
func (s *SQLStorage) searchLike(ctx context.Context, column, term string) ([]news.Link, error) {
	pattern := "%" + escapeLike(news.Fold(term)) + "%"

	var rows []news.News
	err := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s LIKE ? ESCAPE '%s'", column, likeEscape), pattern).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search by %s: %w", column, err)
	}
	return links(rows), nil
}

func escapeLike(term string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(term)
}

func links(rows []news.News) []news.Link {
	out := make([]news.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, news.LinkOf(row))
	}
	return out
}
