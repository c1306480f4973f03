// Package dbhealth builds the read-only database health dashboard from
// PostgreSQL statistics views.
package dbhealth

import (
	"context"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"backoffice/internal/apperr"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
)

// AppSchemas are the schemas owned by the marketplace.
var AppSchemas = []string{"identity", "organization", "scheduling", "engagement", "audit"}

const (
	bloatRatio    = 0.2
	bloatMinDead  = 1000
	hotMinUpdates = 1000
	hotMinRatio   = 0.5
	staleAfter    = 7 * 24 * time.Hour
)

type Service struct {
	repo    ports.DatabaseHealthRepository
	schemas []string
	now     func() time.Time
}

func New(repo ports.DatabaseHealthRepository) *Service {
	return &Service{repo: repo, schemas: AppSchemas, now: time.Now}
}

func (s *Service) Snapshot(ctx context.Context, p *auth.Principal) (domain.DatabaseHealthReport, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return domain.DatabaseHealthReport{}, err
	}

	var (
		tables  []domain.TableStat
		rls     []domain.RLSStatus
		indexes []domain.IndexStat
		conns   []domain.ConnectionStat
		size    domain.DatabaseSize
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { tables, err = s.repo.TableStats(gctx, s.schemas); return })
	g.Go(func() (err error) { rls, err = s.repo.RLSStatus(gctx, s.schemas); return })
	g.Go(func() (err error) { indexes, err = s.repo.IndexStats(gctx, s.schemas); return })
	g.Go(func() (err error) { conns, err = s.repo.Connections(gctx); return })
	g.Go(func() (err error) { size, err = s.repo.DatabaseSize(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.DatabaseHealthReport{}, apperr.Internal("load database health", err)
	}

	return Build(s.now(), tables, rls, indexes, conns, size), nil
}

// Build derives the dashboard from raw statistics.
func Build(now time.Time, tables []domain.TableStat, rls []domain.RLSStatus, indexes []domain.IndexStat, conns []domain.ConnectionStat, size domain.DatabaseSize) domain.DatabaseHealthReport {
	r := domain.DatabaseHealthReport{
		GeneratedAt:      now.UTC(),
		Database:         size.Name,
		DatabaseSize:     humanize.IBytes(uint64(max(size.SizeBytes, 0))),
		Tables:           make([]domain.TableHealth, 0, len(tables)),
		TablesWithoutRLS: []domain.RLSStatus{},
		UnusedIndexes:    []domain.IndexHealth{},
	}

	var totalBytes, toastBytes int64
	for _, t := range tables {
		h := AssessTable(now, t)
		r.Tables = append(r.Tables, h)
		totalBytes += t.TotalBytes
		toastBytes += t.ToastBytes
		r.Summary.DeadTuples += t.DeadTuples
		if h.Bloated {
			r.Summary.Bloated++
		}
		if h.StaleStats {
			r.Summary.StaleStats++
		}
		if h.LowHot {
			r.Summary.LowHot++
		}
	}
	sort.SliceStable(r.Tables, func(i, j int) bool {
		if r.Tables[i].DeadRatio != r.Tables[j].DeadRatio {
			return r.Tables[i].DeadRatio > r.Tables[j].DeadRatio
		}
		return r.Tables[i].Schema+"."+r.Tables[i].Table < r.Tables[j].Schema+"."+r.Tables[j].Table
	})
	r.Summary.Tables = len(tables)
	r.Summary.TotalSize = humanize.IBytes(uint64(totalBytes))
	r.Summary.ToastSize = humanize.IBytes(uint64(toastBytes))

	for _, s := range rls {
		if !s.RLSEnabled {
			r.TablesWithoutRLS = append(r.TablesWithoutRLS, s)
		}
	}
	r.Summary.WithoutRLS = len(r.TablesWithoutRLS)

	for _, ix := range indexes {
		if ix.Scans == 0 && !ix.IsUnique && !ix.IsPrimary {
			r.UnusedIndexes = append(r.UnusedIndexes, domain.IndexHealth{IndexStat: ix, Size: humanize.IBytes(uint64(max(ix.SizeBytes, 0)))})
		}
	}
	sort.SliceStable(r.UnusedIndexes, func(i, j int) bool { return r.UnusedIndexes[i].SizeBytes > r.UnusedIndexes[j].SizeBytes })
	r.Summary.UnusedIndexes = len(r.UnusedIndexes)

	r.Connections = domain.ConnectionSummary{Max: size.MaxConns, ByState: conns}
	for _, c := range conns {
		r.Connections.Total += c.Count
	}
	if size.MaxConns > 0 {
		r.Connections.Usage = float64(r.Connections.Total) / float64(size.MaxConns)
	}
	if r.Connections.ByState == nil {
		r.Connections.ByState = []domain.ConnectionStat{}
	}

	switch {
	case r.Summary.WithoutRLS > 0:
		r.Status = domain.HealthCritical
	case r.Summary.Bloated > 0 || r.Summary.StaleStats > 0 || r.Summary.LowHot > 0:
		r.Status = domain.HealthWarning
	default:
		r.Status = domain.HealthHealthy
	}
	return r
}

// AssessTable computes the per-table ratios and flags.
func AssessTable(now time.Time, t domain.TableStat) domain.TableHealth {
	h := domain.TableHealth{
		TableStat: t,
		Size:      humanize.IBytes(uint64(max(t.TotalBytes, 0))),
		ToastSize: humanize.IBytes(uint64(max(t.ToastBytes, 0))),
	}
	if total := t.LiveTuples + t.DeadTuples; total > 0 {
		h.DeadRatio = float64(t.DeadTuples) / float64(total)
	}
	if t.Updates > 0 {
		h.HotRatio = float64(t.HotUpdates) / float64(t.Updates)
	}
	h.Bloated = h.DeadRatio > bloatRatio && t.DeadTuples > bloatMinDead
	h.LowHot = t.Updates > hotMinUpdates && h.HotRatio < hotMinRatio

	last := latest(t.LastAnalyze, t.LastAutoAnalyze)
	h.StaleStats = last == nil || now.Sub(*last) > staleAfter
	return h
}

func latest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.After(*b):
		return a
	default:
		return b
	}
}
