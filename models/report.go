package models

import "time"

// ReportPeriod defines the time range for the engagement report.
type ReportPeriod struct {
	StartDate  string `json:"start_date"`  // YYYY-MM-DD
	EndDate    string `json:"end_date"`    // YYYY-MM-DD
	PeriodType string `json:"period_type"` // e.g., "last_7_days", "last_30_days"
}

// EngagementSummary provides a high-level summary of assessment activity.
type EngagementSummary struct {
	AttemptsStarted   int     `json:"attempts_started"` // All-time starts across users (usage counters carry no per-attempt dates)
	AttemptsCompleted int     `json:"attempts_completed"`
	CompletionRate    float64 `json:"completion_rate"` // AttemptsCompleted / AttemptsStarted
	AverageScore      float64 `json:"average_score"`   // Mean percentage across completed results in period
	UniqueUsers       int     `json:"unique_users"`    // Distinct users completing in period
}

// AssessmentEngagement aggregates completed results for one assessment.
type AssessmentEngagement struct {
	AssessmentID string  `json:"assessment_id"`
	Completions  int     `json:"completions"`
	AverageScore float64 `json:"average_score"`
}

// EngagementReportResponse is the main structure for the admin analytics API.
type EngagementReportResponse struct {
	ReportPeriod  ReportPeriod           `json:"report_period"`
	Summary       EngagementSummary      `json:"summary"`
	PerAssessment []AssessmentEngagement `json:"per_assessment,omitempty"`
	GeneratedAt   time.Time              `json:"generated_at"`
	// Future fields: funnel conversion by capture level, score distribution buckets, etc.
}
