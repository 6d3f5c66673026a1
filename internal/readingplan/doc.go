// Package readingplan groups news into reading sessions that fit a time budget.
//
// Each session (a Batch) holds news whose reading times add up to at most the
// available time. News that cannot fit even on its own is reported separately
// as unreadable. The planner fetches its input through an injected NewsFinder
// and never stores anything itself.
package readingplan
