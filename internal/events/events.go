// Package events publishes notifications about finished index builds and
// run evaluations so downstream dashboards can track effectiveness over
// time.
package events

import (
	"context"
	"time"
)

type EventType string

const (
	EventIndexBuilt   EventType = "index_built"
	EventRunEvaluated EventType = "run_evaluated"
)

type IndexBuiltEvent struct {
	Type        EventType `json:"type"`
	IndexPath   string    `json:"index_path"`
	Fingerprint string    `json:"fingerprint"`
	Documents   int       `json:"documents"`
	Terms       int       `json:"terms"`
	Postings    int64     `json:"postings"`
	Stemmed     bool      `json:"stemmed"`
	DurationMs  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

type RunEvaluatedEvent struct {
	Type              EventType `json:"type"`
	RunName           string    `json:"run_name"`
	BadFormat         bool      `json:"bad_format"`
	Queries           int       `json:"queries"`
	MeanAP            float64   `json:"mean_average_precision"`
	MeanPrecisionAt10 float64   `json:"mean_p_at_10"`
	MeanNDCGAt10      float64   `json:"mean_ndcg_at_10"`
	MeanNDCGAt1000    float64   `json:"mean_ndcg_at_1000"`
	MeanTBG           float64   `json:"mean_tbg"`
	Timestamp         time.Time `json:"timestamp"`
}

// Publisher delivers one event.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// Nop discards every event. It stands in when Kafka is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }
