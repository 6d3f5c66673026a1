package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

// seedFile is the YAML layout of a news seed file.
type seedFile struct {
	News []news.News `yaml:"news"`
}

// LoadSeedFile reads news records from a YAML file.
func LoadSeedFile(path string) ([]news.News, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := news.ValidateAll(seed.News); err != nil {
		return nil, err
	}
	return seed.News, nil
}

// Seed loads path and stores its news. An empty path is a no-op.
func Seed(ctx context.Context, store Storage, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	items, err := LoadSeedFile(path)
	if err != nil {
		return 0, fmt.Errorf("load seed file: %w", err)
	}
	if err := store.AddNews(ctx, items...); err != nil {
		return 0, fmt.Errorf("store seed news: %w", err)
	}
	return len(items), nil
}
