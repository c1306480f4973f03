// Package mutation runs the write side of an admin action: the primary write,
// the audit row and the revalidation request.
package mutation

import (
	"context"
	"errors"
	"maps"

	"go.uber.org/zap"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/metrics"
	"backoffice/internal/ports"
)

type Runner struct {
	audit       *audit.Recorder
	revalidator ports.Revalidator
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewRunner(rec *audit.Recorder, rv ports.Revalidator, m *metrics.Metrics, log *zap.Logger) *Runner {
	return &Runner{audit: rec, revalidator: rv, metrics: m, log: log}
}

// Do executes write. On success the entry is audited and paths are
// revalidated. A write that fails for a reason other than validation is
// audited with is_success=false. Callers validate input and check roles first.
func (r *Runner) Do(ctx context.Context, p *auth.Principal, e audit.Entry, write func(context.Context) error, paths ...string) error {
	err := write(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrNotFound):
		err = apperr.NotFound(e.EntityType)
	case apperr.KindOf(err) != apperr.KindInternal:
	default:
		r.log.Error("admin action failed",
			zap.String("action", e.EventType),
			zap.String("entity_id", e.EntityID),
			zap.String("user_id", p.UserID),
			zap.Error(err))
		err = apperr.Internal(e.EventType, err)
	}
	r.metrics.Action(e.EventType, err)

	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			failed := e
			failed.Metadata = maps.Clone(e.Metadata)
			if failed.Metadata == nil {
				failed.Metadata = map[string]any{}
			}
			failed.Metadata["error"] = apperr.Message(err)
			failed.Success = false
			r.audit.Record(ctx, p, failed)
		}
		return err
	}

	e.Success = true
	r.audit.Record(ctx, p, e)
	r.revalidator.Revalidate(paths...)
	return nil
}
