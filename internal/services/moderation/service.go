// Package moderation serves the review moderation queue and its actions.
package moderation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/services/mutation"
	"backoffice/internal/validate"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	topSalons    = 10
)

var revalidatePaths = []string{"/admin/moderation"}

type Service struct {
	repo   ports.ModerationRepository
	runner *mutation.Runner
}

func New(repo ports.ModerationRepository, runner *mutation.Runner) *Service {
	return &Service{repo: repo, runner: runner}
}

func (s *Service) ListReviews(ctx context.Context, p *auth.Principal, f ports.ReviewFilter) ([]domain.Review, error) {
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return nil, err
	}
	switch f.Status {
	case "":
		f.Status = domain.ReviewsFlagged
	case domain.ReviewsFlagged, domain.ReviewsAll, domain.ReviewsDeleted:
	default:
		return nil, apperr.Validation("unknown review status %q", f.Status)
	}
	f.Limit = validate.Limit(f.Limit, defaultLimit, maxLimit)

	reviews, err := s.repo.ListReviews(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list reviews", err)
	}
	return reviews, nil
}

func (s *Service) Stats(ctx context.Context, p *auth.Principal) (domain.ModerationStats, error) {
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return domain.ModerationStats{}, err
	}
	var out domain.ModerationStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Counts, err = s.repo.ReviewCounts(gctx); return })
	g.Go(func() (err error) { out.FlaggedBySalon, err = s.repo.FlaggedBySalon(gctx, topSalons); return })
	if err := g.Wait(); err != nil {
		return domain.ModerationStats{}, apperr.Internal("load moderation stats", err)
	}
	if live := out.Counts.Total - out.Counts.Deleted; live > 0 {
		out.FlagRate = float64(out.Counts.Flagged) / float64(live)
	}
	if out.FlaggedBySalon == nil {
		out.FlaggedBySalon = []domain.SalonFlagCount{}
	}
	return out, nil
}

func (s *Service) FlagReview(ctx context.Context, p *auth.Principal, reviewID, reason string) error {
	if err := validate.First(validate.UUID("review_id", reviewID), validate.Reason(reason)); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, reviewEntry("review_flagged", "flag", audit.SeverityWarning, reviewID, map[string]any{"reason": reason}),
		func(ctx context.Context) error { return s.repo.FlagReview(ctx, reviewID, reason, p.UserID) },
		revalidatePaths...)
}

func (s *Service) ClearReviewFlag(ctx context.Context, p *auth.Principal, reviewID string) error {
	if err := validate.UUID("review_id", reviewID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, reviewEntry("review_flag_cleared", "clear_flag", audit.SeverityInfo, reviewID, nil),
		func(ctx context.Context) error { return s.repo.ClearReviewFlag(ctx, reviewID) },
		revalidatePaths...)
}

func (s *Service) DeleteReview(ctx context.Context, p *auth.Principal, reviewID, reason string) error {
	if err := validate.First(validate.UUID("review_id", reviewID), validate.Reason(reason)); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.ModerationRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, reviewEntry("review_deleted", "soft_delete", audit.SeverityWarning, reviewID, map[string]any{"reason": reason}),
		func(ctx context.Context) error { return s.repo.SoftDeleteReview(ctx, reviewID, p.UserID) },
		"/admin/moderation", "/salons")
}

func reviewEntry(event, action string, sev audit.Severity, reviewID string, meta map[string]any) audit.Entry {
	return audit.Entry{
		EventType:     event,
		EventCategory: "moderation",
		Severity:      sev,
		Action:        action,
		EntityType:    "review",
		EntityID:      reviewID,
		TargetSchema:  "engagement",
		TargetTable:   "reviews",
		TargetID:      reviewID,
		Metadata:      meta,
	}
}
