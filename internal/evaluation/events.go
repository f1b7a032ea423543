package evaluation

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/events"
)

// EventSink publishes a RunEvaluatedEvent per report. Publish failures are
// logged and do not stop the batch.
type EventSink struct {
	publisher events.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

func NewEventSink(p events.Publisher) *EventSink {
	return &EventSink{
		publisher: p,
		now:       time.Now,
		logger:    slog.Default().With("component", "evaluation-events"),
	}
}

func (s *EventSink) Write(ctx context.Context, r *Report) error {
	event := events.RunEvaluatedEvent{
		Type:              events.EventRunEvaluated,
		RunName:           r.RunName,
		BadFormat:         r.BadFormat,
		Queries:           len(r.PerQuery),
		MeanAP:            r.Mean.AveragePrecision,
		MeanPrecisionAt10: r.Mean.PrecisionAt10,
		MeanNDCGAt10:      r.Mean.NDCGAt10,
		MeanNDCGAt1000:    r.Mean.NDCGAt1000,
		MeanTBG:           r.Mean.TBG,
		Timestamp:         s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, r.RunName, event); err != nil {
		s.logger.Warn("run evaluation event not published", "run", r.RunName, "error", err)
	}
	return nil
}
