// Package events publishes notifications about embedding and ingestion
// activity. Publishing is fire-and-forget; consumers must tolerate loss.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects for published events.
const (
	SubjectEmbeddingComputed = "skillforge.embedding.computed"
	SubjectJobIngested       = "skillforge.job.ingested"
)

// Publisher emits platform events. Implementations never block callers on
// delivery and never return errors to the matching path.
type Publisher interface {
	// EmbeddingComputed signals that a vector was computed and stored
	EmbeddingComputed(kind string, recordID uuid.UUID)
	// JobIngested signals that an externally-sourced job was inserted
	JobIngested(jobID uuid.UUID, title string)
}

// Noop discards all events. Used when NATS is not configured.
type Noop struct{}

func (Noop) EmbeddingComputed(string, uuid.UUID) {}
func (Noop) JobIngested(uuid.UUID, string)       {}

// EmbeddingComputedEvent is the payload for SubjectEmbeddingComputed.
type EmbeddingComputedEvent struct {
	Kind       string    `json:"kind"`
	RecordID   uuid.UUID `json:"record_id"`
	ComputedAt time.Time `json:"computed_at"`
}

// JobIngestedEvent is the payload for SubjectJobIngested.
type JobIngestedEvent struct {
	JobID      uuid.UUID `json:"job_id"`
	Title      string    `json:"title"`
	IngestedAt time.Time `json:"ingested_at"`
}

// NATSPublisher publishes events to a NATS server
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to NATS at the given URL
func NewNATSPublisher(url string, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("skillforge-backend"))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Close drains and closes the NATS connection
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

func (p *NATSPublisher) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// EmbeddingComputed signals that a vector was computed and stored
func (p *NATSPublisher) EmbeddingComputed(kind string, recordID uuid.UUID) {
	p.publish(SubjectEmbeddingComputed, EmbeddingComputedEvent{
		Kind:       kind,
		RecordID:   recordID,
		ComputedAt: time.Now().UTC(),
	})
}

// JobIngested signals that an externally-sourced job was inserted
func (p *NATSPublisher) JobIngested(jobID uuid.UUID, title string) {
	p.publish(SubjectJobIngested, JobIngestedEvent{
		JobID:      jobID,
		Title:      title,
		IngestedAt: time.Now().UTC(),
	})
}
