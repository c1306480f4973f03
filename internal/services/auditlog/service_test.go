package auditlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"backoffice/internal/apperr"
	"backoffice/internal/domain"
	"backoffice/internal/ports"
	"backoffice/internal/testutil"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) InsertAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *repoMock) ListAuditLogs(ctx context.Context, f ports.AuditFilter) ([]domain.AuditLog, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func TestList(t *testing.T) {
	repo := &repoMock{}
	repo.On("ListAuditLogs", mock.Anything, ports.AuditFilter{Category: "moderation", Severity: "critical", Limit: 100}).
		Return([]domain.AuditLog{{EventType: "review_deleted"}}, nil)

	got, err := New(repo).List(context.Background(), testutil.SuperAdmin(), ports.AuditFilter{Category: "moderation", Severity: "critical"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestListRules(t *testing.T) {
	repo := &repoMock{}
	svc := New(repo)

	_, err := svc.List(context.Background(), testutil.PlatformAdmin(), ports.AuditFilter{})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.List(context.Background(), testutil.SuperAdmin(), ports.AuditFilter{Severity: "debug"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.List(context.Background(), testutil.SuperAdmin(), ports.AuditFilter{UserID: "me"})
	assert.Equal(t, "user_id must be a valid id", apperr.Message(err))

	repo.AssertNotCalled(t, "ListAuditLogs", mock.Anything, mock.Anything)
}

func TestListPropagatesErrors(t *testing.T) {
	repo := &repoMock{}
	repo.On("ListAuditLogs", mock.Anything, mock.Anything).Return([]domain.AuditLog(nil), errors.New("relation \"audit.audit_logs\" does not exist"))

	_, err := New(repo).List(context.Background(), testutil.SuperAdmin(), ports.AuditFilter{})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "list audit logs failed", apperr.Message(err))
}
