package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/events"
	"github.com/castleviz/castleviz/internal/metrics"
)

// mutationNotifier counts a successful mutation and publishes its record event.
// Publishing is fire-and-forget; it never fails the mutation.
type mutationNotifier struct {
	kind      string
	metrics   metrics.Recorder
	publisher events.Publisher
}

func newMutationNotifier(kind string, recorder metrics.Recorder, publisher events.Publisher) mutationNotifier {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return mutationNotifier{kind: kind, metrics: recorder, publisher: publisher}
}

func (n mutationNotifier) notify(action string, recordID, userID uuid.UUID) {
	n.metrics.IncRecordMutation(n.kind, action)
	n.publisher.PublishAsync(events.NewEvent(n.kind, action, recordID, userID, time.Now()))
}

// checkWindow validates skip/limit list parameters.
func checkWindow(skip, limit int) error {
	if skip < 0 {
		return invalidInput("skip must be >= 0")
	}
	if limit <= 0 {
		return invalidInput("limit must be > 0")
	}
	return nil
}
