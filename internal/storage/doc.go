// Package storage keeps scraped news and answers the analyzer queries over it.
// MemoryStorage serves tests and single-process deployments; SQLStorage persists
// to sqlite, postgres, or mysql through GORM.
package storage
