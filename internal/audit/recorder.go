// Package audit writes the audit trail of admin mutations.
//
// Audit writes are best effort: a failed insert is logged and counted but
// never fails the mutation that produced it.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/metrics"
	"backoffice/internal/ports"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Entry describes one admin action against one row.
type Entry struct {
	EventType     string
	EventCategory string
	Severity      Severity
	Action        string
	EntityType    string
	EntityID      string
	TargetSchema  string
	TargetTable   string
	TargetID      string
	Metadata      map[string]any
	Success       bool
}

type Recorder struct {
	repo    ports.AuditRepository
	log     *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewRecorder(repo ports.AuditRepository, log *zap.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{repo: repo, log: log.Named("audit"), metrics: m, timeout: 5 * time.Second}
}

// Record writes e on behalf of p. It is detached from ctx cancellation so a
// client disconnect after the primary write still leaves an audit row.
func (r *Recorder) Record(ctx context.Context, p *auth.Principal, e Entry) {
	row := domain.AuditLog{
		EventType:     e.EventType,
		EventCategory: e.EventCategory,
		Severity:      string(e.Severity),
		Action:        e.Action,
		EntityType:    e.EntityType,
		EntityID:      e.EntityID,
		TargetSchema:  e.TargetSchema,
		TargetTable:   e.TargetTable,
		Metadata:      e.Metadata,
		IsSuccess:     e.Success,
	}
	if p != nil {
		row.UserID = p.UserID
	}
	if e.TargetID != "" {
		id := e.TargetID
		row.TargetID = &id
	}
	if row.Metadata == nil {
		row.Metadata = map[string]any{}
	}
	if row.Severity == "" {
		row.Severity = string(SeverityInfo)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if err := r.repo.InsertAuditLog(ctx, row); err != nil {
		r.metrics.AuditFailure()
		r.log.Warn("audit log write failed",
			zap.String("event_type", row.EventType),
			zap.String("entity_type", row.EntityType),
			zap.String("entity_id", row.EntityID),
			zap.String("user_id", row.UserID),
			zap.Error(err))
	}
}
