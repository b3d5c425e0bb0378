package logging

import (
	"context"

	"go-logsink/internal/models"
)

// Stack dispatches a record to its handlers in order. A handler that does
// not bubble ends the dispatch once it has handled the record.
type Stack struct {
	handlers []Handler
}

func NewStack(handlers ...Handler) *Stack {
	return &Stack{handlers: append([]Handler(nil), handlers...)}
}

// IsHandling reports whether any handler accepts level.
func (s *Stack) IsHandling(level models.Level) bool {
	for _, h := range s.handlers {
		if h.IsHandling(level) {
			return true
		}
	}
	return false
}

// Handle returns the first handler error without calling later handlers.
func (s *Stack) Handle(ctx context.Context, rec models.Record) error {
	level := rec.Level()
	for _, h := range s.handlers {
		if !h.IsHandling(level) {
			continue
		}
		if err := h.Handle(ctx, rec); err != nil {
			return err
		}
		if !h.Bubble() {
			break
		}
	}
	return nil
}
