package worker

import (
	"context"
	"log/slog"

	audit "portal/pkg/platform/audit"
)

// Worker drains an inbox of audit events into a store until the inbox is
// closed. A failed append is logged and the event dropped.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"error", err,
				"action", event.Action,
				"request_id", event.RequestID,
			)
		}
	}
}
