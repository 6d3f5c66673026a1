// Package news defines the news record stored by the repository and consumed
// by the reading planner, together with the validation applied on ingestion.
package news
