package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row models read by the admin dashboards. Presentation shapes live with the
// services that build them.

type UserProfile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Username  *string    `json:"username,omitempty"`
	IsActive  bool       `json:"is_active"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type UserCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Banned    int `json:"banned"`
	Deleted   int `json:"deleted"`
	NewLast30 int `json:"new_last_30_days"`
}

type Salon struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	OwnerID            string     `json:"owner_id"`
	OwnerName          string     `json:"owner_name"`
	WebsiteURL         *string    `json:"website_url,omitempty"`
	WebsiteDomain      *string    `json:"website_domain,omitempty"`
	IsVerified         bool       `json:"is_verified"`
	IsActive           bool       `json:"is_active"`
	AverageRating      *float64   `json:"average_rating"`
	ReviewCount        int        `json:"review_count"`
	AppointmentsLast30 int        `json:"appointments_last_30_days"`
	CreatedAt          time.Time  `json:"created_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

// StaffMember is a staff profile with the raw signals the compliance score needs.
type StaffMember struct {
	ID                    string     `json:"id"`
	SalonID               string     `json:"salon_id"`
	SalonName             string     `json:"salon_name"`
	UserID                string     `json:"user_id"`
	DisplayName           string     `json:"display_name"`
	Title                 string     `json:"title"`
	IsActive              bool       `json:"is_active"`
	BackgroundCheckStatus *string    `json:"background_check_status"`
	Tags                  []string   `json:"tags"`
	SuspendedAt           *time.Time `json:"suspended_at,omitempty"`
	SuspensionReason      *string    `json:"suspension_reason,omitempty"`
}

// StaffActivity aggregates appointments and reviews for one staff member.
type StaffActivity struct {
	StaffID        string
	Total          int
	Completed      int
	Cancelled      int
	NoShow         int
	FlaggedReviews int
	ReviewCount    int
	AverageRating  *float64
}

type ReviewStatus string

const (
	ReviewsFlagged ReviewStatus = "flagged"
	ReviewsAll     ReviewStatus = "all"
	ReviewsDeleted ReviewStatus = "deleted"
)

type Review struct {
	ID            string     `json:"id"`
	SalonID       string     `json:"salon_id"`
	SalonName     string     `json:"salon_name"`
	StaffID       *string    `json:"staff_id,omitempty"`
	CustomerID    string     `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment"`
	IsFlagged     bool       `json:"is_flagged"`
	FlaggedReason *string    `json:"flagged_reason,omitempty"`
	FlaggedAt     *time.Time `json:"flagged_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

type ReviewCounts struct {
	Total     int `json:"total"`
	Flagged   int `json:"flagged"`
	Deleted   int `json:"deleted"`
	LowRating int `json:"low_rating"`
}

type SalonFlagCount struct {
	SalonID   string `json:"salon_id"`
	SalonName string `json:"salon_name"`
	Flagged   int    `json:"flagged"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

type SalonRevenue struct {
	SalonID      string          `json:"salon_id"`
	SalonName    string          `json:"salon_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	Appointments int             `json:"appointments"`
}

type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type AuditLog struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	EventCategory string         `json:"event_category"`
	Severity      string         `json:"severity"`
	UserID        string         `json:"user_id"`
	Action        string         `json:"action"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	TargetSchema  string         `json:"target_schema"`
	TargetTable   string         `json:"target_table"`
	TargetID      *string        `json:"target_id,omitempty"`
	Metadata      map[string]any `json:"metadata"`
	IsSuccess     bool           `json:"is_success"`
	CreatedAt     time.Time      `json:"created_at"`
}
