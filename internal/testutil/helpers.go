// Package testutil provides spies and fixtures shared by service tests.
package testutil

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/services/mutation"
)

const (
	SuperAdminID    = "00000000-0000-4000-8000-000000000001"
	PlatformAdminID = "00000000-0000-4000-8000-000000000002"
	ModeratorID     = "00000000-0000-4000-8000-000000000003"
	CustomerID      = "00000000-0000-4000-8000-000000000004"
	TargetID        = "7d3f2a10-5b6c-4e8d-9f01-23456789abcd"
)

func SuperAdmin() *auth.Principal {
	return &auth.Principal{UserID: SuperAdminID, Roles: []auth.Role{auth.RoleSuperAdmin}}
}

func PlatformAdmin() *auth.Principal {
	return &auth.Principal{UserID: PlatformAdminID, Roles: []auth.Role{auth.RolePlatformAdmin}}
}

func Moderator() *auth.Principal {
	return &auth.Principal{UserID: ModeratorID, Roles: []auth.Role{auth.RoleModerator}}
}

func Customer() *auth.Principal {
	return &auth.Principal{UserID: CustomerID, Roles: []auth.Role{auth.RoleCustomer}}
}

// AuditSpy records audit rows and optionally fails every insert.
type AuditSpy struct {
	mu   sync.Mutex
	Rows []domain.AuditLog
	Err  error
}

func (a *AuditSpy) InsertAuditLog(_ context.Context, entry domain.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Rows = append(a.Rows, entry)
	return a.Err
}

func (a *AuditSpy) ListAuditLogs(context.Context, ports.AuditFilter) ([]domain.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuditLog(nil), a.Rows...), nil
}

// RevalidatorSpy collects every requested path.
type RevalidatorSpy struct {
	mu    sync.Mutex
	Paths []string
}

func (r *RevalidatorSpy) Revalidate(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Paths = append(r.Paths, paths...)
}

// Harness bundles a mutation runner with its spies.
type Harness struct {
	Runner      *mutation.Runner
	Audit       *AuditSpy
	Revalidator *RevalidatorSpy
}

func NewHarness() *Harness {
	spy := &AuditSpy{}
	rv := &RevalidatorSpy{}
	rec := audit.NewRecorder(spy, zap.NewNop(), nil)
	return &Harness{
		Runner:      mutation.NewRunner(rec, rv, nil, zap.NewNop()),
		Audit:       spy,
		Revalidator: rv,
	}
}

func Ptr[T any](v T) *T { return &v }
