package compliance

import "strings"

// NormalizeBackgroundStatus maps the free-form upstream verification status
// onto the four buckets the score understands.
func NormalizeBackgroundStatus(raw string) BackgroundStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clear", "passed", "approved", "complete":
		return BackgroundClear
	case "pending", "processing", "in_progress":
		return BackgroundPending
	case "failed", "rejected", "flagged":
		return BackgroundFailed
	default:
		return BackgroundMissing
	}
}

// CountCertifications counts tags following the certification naming
// convention: a "cert:" prefix, or containing "license" or "certified".
func CountCertifications(tags []string) int {
	n := 0
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if strings.HasPrefix(t, "cert:") || strings.Contains(t, "license") || strings.Contains(t, "certified") {
			n++
		}
	}
	return n
}

// Summary aggregates outcomes for the oversight dashboard header.
type Summary struct {
	Total        int     `json:"total"`
	Compliant    int     `json:"compliant"`
	Warning      int     `json:"warning"`
	Critical     int     `json:"critical"`
	AverageScore float64 `json:"average_score"`
}

func Summarize(outcomes []Outcome) Summary {
	var s Summary
	sum := 0
	for _, o := range outcomes {
		s.Total++
		sum += o.Score
		switch o.Status {
		case StatusCompliant:
			s.Compliant++
		case StatusWarning:
			s.Warning++
		case StatusCritical:
			s.Critical++
		}
	}
	if s.Total > 0 {
		s.AverageScore = float64(sum) / float64(s.Total)
	}
	return s
}
