package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"backoffice/internal/apperr"
	"backoffice/internal/domain"
	"backoffice/internal/testutil"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) AppointmentsByStatus(ctx context.Context, since time.Time) ([]domain.StatusCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *repoMock) RevenueBySalon(ctx context.Context, since time.Time) ([]domain.SalonRevenue, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.SalonRevenue), args.Error(1)
}

func (m *repoMock) NewUsersByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.DailyCount), args.Error(1)
}

func (m *repoMock) RatingDistribution(ctx context.Context, since time.Time) ([]domain.RatingBucket, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.RatingBucket), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarizeAppointments(t *testing.T) {
	s := SummarizeAppointments([]domain.StatusCount{
		{Status: "completed", Count: 30},
		{Status: "cancelled", Count: 5},
		{Status: "no_show", Count: 2},
		{Status: "confirmed", Count: 8},
		{Status: "pending", Count: 5},
	})
	assert.Equal(t, 50, s.Total)
	assert.Equal(t, 13, s.Upcoming)
	assert.InDelta(t, 0.6, s.CompletionRate, 1e-9)
	assert.InDelta(t, 0.1, s.CancellationRate, 1e-9)
	assert.Equal(t, "completed", s.ByStatus[0].Status)

	empty := SummarizeAppointments(nil)
	assert.Zero(t, empty.CompletionRate)
	assert.NotNil(t, empty.ByStatus)
}

func TestSummarizeRevenue(t *testing.T) {
	s := SummarizeRevenue([]domain.SalonRevenue{
		{SalonName: "Bloom", Revenue: dec("100.10"), Appointments: 1},
		{SalonName: "Aura", Revenue: dec("250.05"), Appointments: 2},
		{SalonName: "Cut", Revenue: dec("0.20"), Appointments: 0},
		{SalonName: "Ash", Revenue: dec("100.10"), Appointments: 3},
	}, 3)

	assert.True(t, dec("450.45").Equal(s.Total), s.Total.String())
	assert.Equal(t, "75.08", s.AveragePerAppointment.StringFixed(2))
	require.Len(t, s.TopSalons, 3)
	assert.Equal(t, []string{"Aura", "Ash", "Bloom"}, []string{s.TopSalons[0].SalonName, s.TopSalons[1].SalonName, s.TopSalons[2].SalonName})

	none := SummarizeRevenue(nil, 10)
	assert.True(t, none.Total.IsZero())
	assert.NotNil(t, none.TopSalons)
}

func TestFillDays(t *testing.T) {
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	got := FillDays([]domain.DailyCount{
		{Day: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), Count: 4},
		{Day: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Count: 1},
	}, from, to)

	require.Len(t, got, 4)
	assert.Equal(t, []int{0, 4, 0, 1}, []int{got[0].Count, got[1].Count, got[2].Count, got[3].Count})
	assert.Equal(t, to, got[3].Day)
}

func TestSummarizeRatings(t *testing.T) {
	s := SummarizeRatings([]domain.RatingBucket{{Rating: 5, Count: 3}, {Rating: 1, Count: 1}, {Rating: 9, Count: 100}})
	assert.Equal(t, 4, s.Total)
	require.NotNil(t, s.Average)
	assert.InDelta(t, 4.0, *s.Average, 1e-9)
	require.Len(t, s.Distribution, 5)
	assert.Equal(t, domain.RatingBucket{Rating: 2, Count: 0}, s.Distribution[1])

	assert.Nil(t, SummarizeRatings(nil).Average)
}

func TestOverview(t *testing.T) {
	now := time.Date(2026, 4, 7, 15, 30, 0, 0, time.UTC)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &repoMock{}
	repo.On("AppointmentsByStatus", mock.Anything, since).Return([]domain.StatusCount{{Status: "completed", Count: 2}}, nil)
	repo.On("RevenueBySalon", mock.Anything, since).Return([]domain.SalonRevenue{{SalonName: "Aura", Revenue: dec("90"), Appointments: 2}}, nil)
	repo.On("NewUsersByDay", mock.Anything, since).Return([]domain.DailyCount{{Day: since, Count: 2}, {Day: since.AddDate(0, 0, 6), Count: 3}}, nil)
	repo.On("RatingDistribution", mock.Anything, since).Return([]domain.RatingBucket{{Rating: 4, Count: 1}}, nil)

	svc := New(repo)
	svc.now = func() time.Time { return now }

	got, err := svc.Overview(context.Background(), testutil.PlatformAdmin(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Days)
	assert.Equal(t, since, got.Since)
	assert.Len(t, got.NewUsers, 7)
	assert.Equal(t, 5, got.NewUsersTotal)
	assert.Equal(t, "45.00", got.Revenue.AveragePerAppointment.StringFixed(2))
	repo.AssertExpectations(t)
}

func TestOverviewClampsDays(t *testing.T) {
	now := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &repoMock{}
	repo.On("AppointmentsByStatus", mock.Anything, since).Return([]domain.StatusCount(nil), nil)
	repo.On("RevenueBySalon", mock.Anything, since).Return([]domain.SalonRevenue(nil), nil)
	repo.On("NewUsersByDay", mock.Anything, since).Return([]domain.DailyCount(nil), nil)
	repo.On("RatingDistribution", mock.Anything, since).Return([]domain.RatingBucket(nil), nil)

	svc := New(repo)
	svc.now = func() time.Time { return now }

	got, err := svc.Overview(context.Background(), testutil.SuperAdmin(), 9000)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Days)
}

func TestOverviewErrors(t *testing.T) {
	_, err := New(&repoMock{}).Overview(context.Background(), testutil.Moderator(), 30)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	repo := &repoMock{}
	repo.On("AppointmentsByStatus", mock.Anything, mock.Anything).Return([]domain.StatusCount(nil), nil).Maybe()
	repo.On("RevenueBySalon", mock.Anything, mock.Anything).Return([]domain.SalonRevenue(nil), errors.New("numeric overflow"))
	repo.On("NewUsersByDay", mock.Anything, mock.Anything).Return([]domain.DailyCount(nil), nil).Maybe()
	repo.On("RatingDistribution", mock.Anything, mock.Anything).Return([]domain.RatingBucket(nil), nil).Maybe()

	_, err = New(repo).Overview(context.Background(), testutil.SuperAdmin(), 30)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
