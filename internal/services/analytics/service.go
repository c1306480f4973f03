// Package analytics aggregates the business overview: appointment outcomes,
// revenue, sign-ups and ratings over a trailing window of days.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"backoffice/internal/apperr"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

const (
	defaultDays = 30
	maxDays     = 365
	topSalons   = 10
)

type Service struct {
	repo ports.AnalyticsRepository
	now  func() time.Time
}

func New(repo ports.AnalyticsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Overview covers the last days calendar days (UTC) including today. Values
// outside 1..365 fall back to the default of 30.
func (s *Service) Overview(ctx context.Context, p *auth.Principal, days int) (domain.AnalyticsOverview, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return domain.AnalyticsOverview{}, err
	}
	if days < 1 || days > maxDays {
		days = defaultDays
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	var (
		byStatus []domain.StatusCount
		revenue  []domain.SalonRevenue
		signups  []domain.DailyCount
		ratings  []domain.RatingBucket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { byStatus, err = s.repo.AppointmentsByStatus(gctx, since); return })
	g.Go(func() (err error) { revenue, err = s.repo.RevenueBySalon(gctx, since); return })
	g.Go(func() (err error) { signups, err = s.repo.NewUsersByDay(gctx, since); return })
	g.Go(func() (err error) { ratings, err = s.repo.RatingDistribution(gctx, since); return })
	if err := g.Wait(); err != nil {
		return domain.AnalyticsOverview{}, apperr.Internal("load analytics", err)
	}

	out := domain.AnalyticsOverview{
		Days:         days,
		Since:        since,
		Appointments: SummarizeAppointments(byStatus),
		Revenue:      SummarizeRevenue(revenue, topSalons),
		NewUsers:     FillDays(signups, since, today),
		Ratings:      SummarizeRatings(ratings),
	}
	for _, d := range out.NewUsers {
		out.NewUsersTotal += d.Count
	}
	return out, nil
}

func SummarizeAppointments(byStatus []domain.StatusCount) domain.AppointmentSummary {
	s := domain.AppointmentSummary{ByStatus: []domain.StatusCount{}}
	for _, c := range byStatus {
		s.Total += c.Count
		switch c.Status {
		case "completed":
			s.Completed += c.Count
		case "cancelled":
			s.Cancelled += c.Count
		case "no_show":
			s.NoShow += c.Count
		case "pending", "confirmed":
			s.Upcoming += c.Count
		}
		s.ByStatus = append(s.ByStatus, c)
	}
	sort.SliceStable(s.ByStatus, func(i, j int) bool { return s.ByStatus[i].Count > s.ByStatus[j].Count })
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
		s.CancellationRate = float64(s.Cancelled) / float64(s.Total)
	}
	return s
}

// SummarizeRevenue totals every salon and keeps the top n by revenue.
func SummarizeRevenue(salons []domain.SalonRevenue, n int) domain.RevenueSummary {
	s := domain.RevenueSummary{Total: decimal.Zero, AveragePerAppointment: decimal.Zero}
	appointments := 0
	for _, r := range salons {
		s.Total = s.Total.Add(r.Revenue)
		appointments += r.Appointments
	}
	if appointments > 0 {
		s.AveragePerAppointment = s.Total.Div(decimal.NewFromInt(int64(appointments))).Round(2)
	}

	ranked := append([]domain.SalonRevenue(nil), salons...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].SalonName < ranked[j].SalonName
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	s.TopSalons = ranked
	if s.TopSalons == nil {
		s.TopSalons = []domain.SalonRevenue{}
	}
	return s
}

// FillDays returns one entry per UTC day in [from, to], zero-filling days
// with no rows.
func FillDays(rows []domain.DailyCount, from, to time.Time) []domain.DailyCount {
	counts := make(map[time.Time]int, len(rows))
	for _, r := range rows {
		counts[r.Day.UTC().Truncate(24*time.Hour)] += r.Count
	}
	out := []domain.DailyCount{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyCount{Day: d, Count: counts[d]})
	}
	return out
}

// SummarizeRatings always reports the five star buckets in order.
func SummarizeRatings(buckets []domain.RatingBucket) domain.RatingSummary {
	var counts [5]int
	for _, b := range buckets {
		if b.Rating >= 1 && b.Rating <= 5 {
			counts[b.Rating-1] += b.Count
		}
	}
	s := domain.RatingSummary{Distribution: make([]domain.RatingBucket, 0, 5)}
	sum := 0
	for i, c := range counts {
		s.Distribution = append(s.Distribution, domain.RatingBucket{Rating: i + 1, Count: c})
		s.Total += c
		sum += (i + 1) * c
	}
	if s.Total > 0 {
		avg := math.Round(float64(sum)/float64(s.Total)*100) / 100
		s.Average = &avg
	}
	return s
}
