// Package summary generates the short per-note summaries used for search.
package summary

import "context"

// Summarizer is text in, short text out. Implementations must be safe for
// concurrent use; note creation calls it from a background goroutine.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}
