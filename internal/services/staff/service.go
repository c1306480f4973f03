// Package staff builds the staff oversight dashboard and suspends or
// reinstates staff profiles.
package staff

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/compliance"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/services/mutation"
	"backoffice/internal/validate"
)

const (
	windowDays   = 90
	defaultLimit = 100
	maxLimit     = 500
)

const staffPath = "/admin/staff"

type Service struct {
	repo   ports.StaffRepository
	runner *mutation.Runner
	now    func() time.Time
}

func New(repo ports.StaffRepository, runner *mutation.Runner) *Service {
	return &Service{repo: repo, runner: runner, now: time.Now}
}

// Oversight scores every staff member over the last 90 days. The summary
// covers all scored staff; status and limit only narrow the returned list,
// which is ordered riskiest first.
func (s *Service) Oversight(ctx context.Context, p *auth.Principal, status string, limit int) (domain.StaffOversight, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return domain.StaffOversight{}, err
	}
	switch compliance.Status(status) {
	case "", compliance.StatusCompliant, compliance.StatusWarning, compliance.StatusCritical:
	default:
		if status != "all" {
			return domain.StaffOversight{}, apperr.Validation("unknown compliance status %q", status)
		}
		status = ""
	}
	limit = validate.Limit(limit, defaultLimit, maxLimit)
	since := s.now().AddDate(0, 0, -windowDays)

	var (
		members      []domain.StaffMember
		appointments []domain.StaffActivity
		reviews      []domain.StaffActivity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { members, err = s.repo.ListStaff(gctx, ports.StaffFilter{}); return })
	g.Go(func() (err error) { appointments, err = s.repo.AppointmentActivity(gctx, since); return })
	g.Go(func() (err error) { reviews, err = s.repo.ReviewActivity(gctx, since); return })
	if err := g.Wait(); err != nil {
		return domain.StaffOversight{}, apperr.Internal("load staff oversight", err)
	}

	scored := Score(members, appointments, reviews)
	outcomes := make([]compliance.Outcome, len(scored))
	for i, sc := range scored {
		outcomes[i] = sc.Compliance
	}

	out := domain.StaffOversight{
		WindowDays: windowDays,
		Summary:    compliance.Summarize(outcomes),
		Staff:      make([]domain.StaffCompliance, 0, min(limit, len(scored))),
	}
	for _, sc := range scored {
		if status != "" && string(sc.Compliance.Status) != status {
			continue
		}
		if len(out.Staff) == limit {
			break
		}
		out.Staff = append(out.Staff, sc)
	}
	return out, nil
}

// Score merges appointment and review activity into each staff member and
// computes their compliance outcome, ordered by score ascending then name.
func Score(members []domain.StaffMember, appointments, reviews []domain.StaffActivity) []domain.StaffCompliance {
	activity := make(map[string]*domain.StaffActivity, len(members))
	for _, a := range appointments {
		activity[a.StaffID] = &domain.StaffActivity{
			StaffID:   a.StaffID,
			Total:     a.Total,
			Completed: a.Completed,
			Cancelled: a.Cancelled,
			NoShow:    a.NoShow,
		}
	}
	for _, r := range reviews {
		a, ok := activity[r.StaffID]
		if !ok {
			a = &domain.StaffActivity{StaffID: r.StaffID}
			activity[r.StaffID] = a
		}
		a.FlaggedReviews = r.FlaggedReviews
		a.ReviewCount = r.ReviewCount
		a.AverageRating = r.AverageRating
	}

	out := make([]domain.StaffCompliance, 0, len(members))
	for _, m := range members {
		a := domain.StaffActivity{StaffID: m.ID}
		if found, ok := activity[m.ID]; ok {
			a = *found
		}
		bg := ""
		if m.BackgroundCheckStatus != nil {
			bg = *m.BackgroundCheckStatus
		}
		if m.Tags == nil {
			m.Tags = []string{}
		}
		out = append(out, domain.StaffCompliance{
			StaffMember: m,
			Activity:    a,
			Compliance: compliance.CalculateScore(compliance.Input{
				TotalAppointments:     a.Total,
				CompletedAppointments: a.Completed,
				CancelledAppointments: a.Cancelled,
				NoShowAppointments:    a.NoShow,
				FlaggedReviews:        a.FlaggedReviews,
				AverageRating:         a.AverageRating,
				BackgroundCheck:       compliance.NormalizeBackgroundStatus(bg),
				CertificationsCount:   compliance.CountCertifications(m.Tags),
			}),
			Appointments:  a.Total,
			ReviewCount:   a.ReviewCount,
			AverageRating: a.AverageRating,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Compliance.Score != out[j].Compliance.Score {
			return out[i].Compliance.Score < out[j].Compliance.Score
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

func (s *Service) SuspendStaff(ctx context.Context, p *auth.Principal, staffID, reason string) error {
	if err := validate.First(validate.UUID("staff_id", staffID), validate.Reason(reason)); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, staffEntry("staff_suspended", "suspend", audit.SeverityWarning, staffID, map[string]any{"reason": reason}),
		func(ctx context.Context) error { return s.repo.SuspendStaff(ctx, staffID, reason) },
		staffPath)
}

func (s *Service) ReinstateStaff(ctx context.Context, p *auth.Principal, staffID string) error {
	if err := validate.UUID("staff_id", staffID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, staffEntry("staff_reinstated", "reinstate", audit.SeverityInfo, staffID, nil),
		func(ctx context.Context) error { return s.repo.ReinstateStaff(ctx, staffID) },
		staffPath)
}

func staffEntry(event, action string, sev audit.Severity, staffID string, meta map[string]any) audit.Entry {
	return audit.Entry{
		EventType:     event,
		EventCategory: "staff_management",
		Severity:      sev,
		Action:        action,
		EntityType:    "staff",
		EntityID:      staffID,
		TargetSchema:  "organization",
		TargetTable:   "staff_profiles",
		TargetID:      staffID,
		Metadata:      meta,
	}
}
