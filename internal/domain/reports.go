package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/compliance"
)

// Dashboard snapshots returned by the query services.

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

type TableHealth struct {
	TableStat
	DeadRatio  float64 `json:"dead_ratio"`
	HotRatio   float64 `json:"hot_ratio"`
	Bloated    bool    `json:"bloated"`
	StaleStats bool    `json:"stale_stats"`
	LowHot     bool    `json:"low_hot"`
	Size       string  `json:"size"`
	ToastSize  string  `json:"toast_size"`
}

type IndexHealth struct {
	IndexStat
	Size string `json:"size"`
}

type HealthSummary struct {
	Tables        int    `json:"tables"`
	Bloated       int    `json:"bloated"`
	StaleStats    int    `json:"stale_stats"`
	LowHot        int    `json:"low_hot"`
	WithoutRLS    int    `json:"without_rls"`
	UnusedIndexes int    `json:"unused_indexes"`
	DeadTuples    int64  `json:"dead_tuples"`
	TotalSize     string `json:"total_size"`
	ToastSize     string `json:"toast_size"`
}

type ConnectionSummary struct {
	Max     int              `json:"max"`
	Total   int              `json:"total"`
	Usage   float64          `json:"usage"`
	ByState []ConnectionStat `json:"by_state"`
}

type DatabaseHealthReport struct {
	Status           HealthStatus      `json:"status"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Database         string            `json:"database"`
	DatabaseSize     string            `json:"database_size"`
	Connections      ConnectionSummary `json:"connections"`
	Summary          HealthSummary     `json:"summary"`
	Tables           []TableHealth     `json:"tables"`
	TablesWithoutRLS []RLSStatus       `json:"tables_without_rls"`
	UnusedIndexes    []IndexHealth     `json:"unused_indexes"`
}

type ModerationStats struct {
	Counts         ReviewCounts     `json:"counts"`
	FlagRate       float64          `json:"flag_rate"`
	FlaggedBySalon []SalonFlagCount `json:"flagged_by_salon"`
}

type UserStats struct {
	Counts UserCounts  `json:"counts"`
	Roles  []RoleCount `json:"roles"`
}

type StaffCompliance struct {
	StaffMember
	Activity      StaffActivity      `json:"-"`
	Compliance    compliance.Outcome `json:"compliance"`
	Appointments  int                `json:"appointments"`
	ReviewCount   int                `json:"review_count"`
	AverageRating *float64           `json:"average_rating"`
}

type StaffOversight struct {
	WindowDays int                `json:"window_days"`
	Summary    compliance.Summary `json:"summary"`
	Staff      []StaffCompliance  `json:"staff"`
}

type AppointmentSummary struct {
	Total            int           `json:"total"`
	Completed        int           `json:"completed"`
	Cancelled        int           `json:"cancelled"`
	NoShow           int           `json:"no_show"`
	Upcoming         int           `json:"upcoming"`
	CompletionRate   float64       `json:"completion_rate"`
	CancellationRate float64       `json:"cancellation_rate"`
	ByStatus         []StatusCount `json:"by_status"`
}

type RevenueSummary struct {
	Total                 decimal.Decimal `json:"total"`
	AveragePerAppointment decimal.Decimal `json:"average_per_appointment"`
	TopSalons             []SalonRevenue  `json:"top_salons"`
}

type RatingSummary struct {
	Total        int            `json:"total"`
	Average      *float64       `json:"average"`
	Distribution []RatingBucket `json:"distribution"`
}

type AnalyticsOverview struct {
	Days          int                `json:"days"`
	Since         time.Time          `json:"since"`
	Appointments  AppointmentSummary `json:"appointments"`
	Revenue       RevenueSummary     `json:"revenue"`
	NewUsers      []DailyCount       `json:"new_users"`
	NewUsersTotal int                `json:"new_users_total"`
	Ratings       RatingSummary      `json:"ratings"`
}
