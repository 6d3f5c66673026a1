package news

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// DateLayout is the layout used by the scraped news pages for publication dates.
const DateLayout = "02/01/2006"

// ErrInvalidNews is returned when a record is missing mandatory fields.
var ErrInvalidNews = errors.New("invalid news record")

// News is a single scraped article. ReadingTime is expressed in minutes.
type News struct {
	ID          uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	URL         string `gorm:"size:512;index" json:"url" yaml:"url"`
	Title       string `gorm:"size:512;not null" json:"title" yaml:"title"`
	Timestamp   string `gorm:"size:10;index" json:"timestamp" yaml:"timestamp"`
	Writer      string `gorm:"size:255" json:"writer" yaml:"writer"`
	ReadingTime int    `gorm:"not null;default:0" json:"readingTime" yaml:"reading_time"`
	Summary     string `gorm:"type:text" json:"summary" yaml:"summary"`
	Category    string `gorm:"size:255;index" json:"category" yaml:"category"`

	// Lowercased copies searched by SQL storage; LOWER() in sqlite only folds ASCII.
	TitleFold    string `gorm:"size:512;index" json:"-" yaml:"-"`
	CategoryFold string `gorm:"size:255;index" json:"-" yaml:"-"`
}

// Fold lowercases s the same way for stored values and search terms.
func Fold(s string) string {
	return strings.ToLower(s)
}

// BeforeSave keeps the fold columns in sync with Title and Category.
func (n *News) BeforeSave(*gorm.DB) error {
	n.TitleFold = Fold(n.Title)
	n.CategoryFold = Fold(n.Category)
	return nil
}

// TableName pins the table name regardless of GORM naming strategy.
func (News) TableName() string {
	return "news"
}

// Link is the (title, url) pair returned by searches.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkOf projects a record onto its search result form.
func LinkOf(n News) Link {
	return Link{Title: n.Title, URL: n.URL}
}

// Validate reports whether the record can be stored.
func (n News) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNews)
	}
	if n.ReadingTime < 0 {
		return fmt.Errorf("%w: reading time must not be negative, got %d", ErrInvalidNews, n.ReadingTime)
	}
	return nil
}

// ValidateAll validates every record and returns the first failure annotated with its position.
func ValidateAll(items []News) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("news[%d]: %w", i, err)
		}
	}
	return nil
}
