// Package profiles manages salon business profiles: listing, editing,
// verification and removal.
package profiles

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"backoffice/internal/apperr"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/services/mutation"
	"backoffice/internal/validate"
)

const (
	defaultLimit = 100
	maxLimit     = 500
	maxURLLength = 2048
)

type Service struct {
	salons ports.SalonRepository
	runner *mutation.Runner
}

func New(salons ports.SalonRepository, runner *mutation.Runner) *Service {
	return &Service{salons: salons, runner: runner}
}

func (s *Service) List(ctx context.Context, p *auth.Principal, f ports.SalonFilter) ([]domain.Salon, error) {
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return nil, err
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Limit = validate.Limit(f.Limit, defaultLimit, maxLimit)

	salons, err := s.salons.ListSalons(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list salons", err)
	}
	return salons, nil
}

// UpdateSalon renames a salon and replaces its website. An empty website
// clears both the URL and the derived registrable domain.
func (s *Service) UpdateSalon(ctx context.Context, p *auth.Principal, salonID, name, website string) error {
	name = strings.TrimSpace(name)
	if err := validate.First(validate.UUID("salon_id", salonID), validate.Length("name", name, 2, 120)); err != nil {
		return err
	}
	u := ports.SalonUpdate{ID: salonID, Name: name}
	if website = strings.TrimSpace(website); website != "" {
		normalized, registrable, err := ParseWebsite(website)
		if err != nil {
			return err
		}
		u.WebsiteURL, u.WebsiteDomain = &normalized, &registrable
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}

	meta := map[string]any{"name": name}
	if u.WebsiteDomain != nil {
		meta["website_domain"] = *u.WebsiteDomain
	}
	return s.runner.Do(ctx, p, salonEntry("salon_updated", "update", audit.SeverityInfo, salonID, meta),
		func(ctx context.Context) error { return s.salons.UpdateSalon(ctx, u) },
		"/admin/salons", "/salons")
}

func (s *Service) SetSalonVerified(ctx context.Context, p *auth.Principal, salonID string, verified bool) error {
	if err := validate.UUID("salon_id", salonID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.AdminRoles...); err != nil {
		return err
	}
	event, action := "salon_unverified", "unverify"
	if verified {
		event, action = "salon_verified", "verify"
	}
	return s.runner.Do(ctx, p, salonEntry(event, action, audit.SeverityInfo, salonID, nil),
		func(ctx context.Context) error { return s.salons.SetSalonVerified(ctx, salonID, verified) },
		"/admin/salons")
}

func (s *Service) DeleteSalon(ctx context.Context, p *auth.Principal, salonID string) error {
	if err := validate.UUID("salon_id", salonID); err != nil {
		return err
	}
	if err := auth.RequireAnyRole(p, auth.SuperAdminOnly...); err != nil {
		return err
	}
	return s.runner.Do(ctx, p, salonEntry("salon_deleted", "soft_delete", audit.SeverityCritical, salonID, nil),
		func(ctx context.Context) error { return s.salons.SoftDeleteSalon(ctx, salonID, p.UserID) },
		"/admin/salons", "/salons")
}

// ParseWebsite accepts an http(s) URL, or a bare host, and returns the
// normalized URL with its registrable domain (eTLD+1).
func ParseWebsite(raw string) (normalized, registrable string, err error) {
	if len(raw) > maxURLLength {
		return "", "", apperr.Validation("website must be at most %d characters", maxURLLength)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", "", apperr.Validation("website must be a valid http(s) URL")
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	u.Host = strings.ToLower(u.Host)
	registrable, err = publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return u.String(), registrable, nil
}

func salonEntry(event, action string, sev audit.Severity, salonID string, meta map[string]any) audit.Entry {
	return audit.Entry{
		EventType:     event,
		EventCategory: "salon_management",
		Severity:      sev,
		Action:        action,
		EntityType:    "salon",
		EntityID:      salonID,
		TargetSchema:  "organization",
		TargetTable:   "salons",
		TargetID:      salonID,
		Metadata:      meta,
	}
}
