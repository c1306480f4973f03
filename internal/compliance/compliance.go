// Package compliance scores a staff member's recent performance and
// verification signals into a bounded 0-100 risk score.
//
// The score starts from a baseline of 70 and every signal adds or removes a
// fixed amount from the same running total. Only the final sum is clamped.
package compliance

import "math"

type BackgroundStatus string

const (
	BackgroundClear   BackgroundStatus = "clear"
	BackgroundPending BackgroundStatus = "pending"
	BackgroundFailed  BackgroundStatus = "failed"
	BackgroundMissing BackgroundStatus = "missing"
)

type Status string

const (
	StatusCompliant Status = "compliant"
	StatusWarning   Status = "warning"
	StatusCritical  Status = "critical"
)

type RiskLabel string

const (
	RiskLow    RiskLabel = "low"
	RiskMedium RiskLabel = "medium"
	RiskHigh   RiskLabel = "high"
)

const (
	baseline = 70.0

	IssueBackgroundPending = "Background check pending"
	IssueBackgroundFailed  = "Background check failed"
	IssueBackgroundMissing = "Background check missing"
	IssueNoCertifications  = "No active certifications on file"
	IssueFlaggedHigh       = "High rate of flagged reviews"
	IssueFlaggedElevated   = "Flagged reviews above threshold"
	IssueLowCompletion     = "Low appointment completion rate"
	IssueNoShows           = "Elevated no-show rate"
	IssueCancellations     = "Frequent cancellations"
	IssueRatingCritical    = "Average rating critically low"
	IssueRatingLow         = "Average rating below target"
)

// Input is the per-staff signal set. AverageRating is nil when the staff
// member has no reviews.
type Input struct {
	TotalAppointments     int
	CompletedAppointments int
	CancelledAppointments int
	NoShowAppointments    int
	FlaggedReviews        int
	AverageRating         *float64
	BackgroundCheck       BackgroundStatus
	CertificationsCount   int
}

type Outcome struct {
	Score            int       `json:"score"`
	Status           Status    `json:"status"`
	RiskLabel        RiskLabel `json:"risk_label"`
	Issues           []string  `json:"issues"`
	CompletionRate   float64   `json:"completion_rate"`
	NoShowRate       float64   `json:"no_show_rate"`
	CancellationRate float64   `json:"cancellation_rate"`
	FlaggedRate      float64   `json:"flagged_rate"`
}

// Rates derives the appointment ratios. Completion, no-show and cancellation
// divide by max(total, 1); the flagged rate is 0 when there are no appointments.
func Rates(in Input) (completion, noShow, cancellation, flagged float64) {
	denom := float64(max(in.TotalAppointments, 1))
	completion = float64(in.CompletedAppointments) / denom
	noShow = float64(in.NoShowAppointments) / denom
	cancellation = float64(in.CancelledAppointments) / denom
	if in.TotalAppointments > 0 {
		flagged = float64(in.FlaggedReviews) / float64(in.TotalAppointments)
	}
	return completion, noShow, cancellation, flagged
}

// CalculateScore applies the fixed-weight heuristic. Issues are appended in
// the order the signals are evaluated.
func CalculateScore(in Input) Outcome {
	completion, noShow, cancellation, flagged := Rates(in)
	score := baseline
	issues := []string{}

	switch in.BackgroundCheck {
	case BackgroundClear:
		score += 10
	case BackgroundPending:
		score -= 15
		issues = append(issues, IssueBackgroundPending)
	case BackgroundFailed:
		score -= 35
		issues = append(issues, IssueBackgroundFailed)
	default:
		score -= 25
		issues = append(issues, IssueBackgroundMissing)
	}

	if in.CertificationsCount > 0 {
		score += math.Min(float64(in.CertificationsCount)*2.5, 10)
	} else {
		score -= 10
		issues = append(issues, IssueNoCertifications)
	}

	switch {
	case flagged > 0.2:
		score -= 20
		issues = append(issues, IssueFlaggedHigh)
	case flagged > 0.1:
		score -= 10
		issues = append(issues, IssueFlaggedElevated)
	case in.FlaggedReviews == 0 && in.TotalAppointments > 5:
		score += 5
	}

	if completion >= 0.85 {
		score += 5
	} else if completion < 0.7 {
		score -= 12
		issues = append(issues, IssueLowCompletion)
	}

	if noShow > 0.12 {
		score -= 12
		issues = append(issues, IssueNoShows)
	} else if noShow < 0.05 && in.TotalAppointments > 5 {
		score += 3
	}

	if cancellation > 0.15 {
		score -= 8
		issues = append(issues, IssueCancellations)
	}

	if r := in.AverageRating; r != nil {
		switch {
		case *r >= 4.5:
			score += 6
		case *r < 3.2:
			score -= 15
			issues = append(issues, IssueRatingCritical)
		case *r < 3.7:
			score -= 7
			issues = append(issues, IssueRatingLow)
		}
	}

	final := int(math.Round(math.Max(0, math.Min(100, score))))
	status := StatusForScore(final)
	return Outcome{
		Score:            final,
		Status:           status,
		RiskLabel:        RiskLabelFor(status),
		Issues:           issues,
		CompletionRate:   completion,
		NoShowRate:       noShow,
		CancellationRate: cancellation,
		FlaggedRate:      flagged,
	}
}

func StatusForScore(score int) Status {
	switch {
	case score < 60:
		return StatusCritical
	case score < 80:
		return StatusWarning
	default:
		return StatusCompliant
	}
}

func RiskLabelFor(s Status) RiskLabel {
	switch s {
	case StatusCritical:
		return RiskHigh
	case StatusWarning:
		return RiskMedium
	default:
		return RiskLow
	}
}
