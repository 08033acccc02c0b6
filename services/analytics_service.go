package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"galaxykiro/models"
	"galaxykiro/repository"
)

const dateFormat = "2006-01-02"

// AnalyticsService defines the interface for the admin engagement report.
type AnalyticsService interface {
	GenerateEngagementReport(periodType string, referenceDateStr string) (*models.EngagementReportResponse, error)
}

type analyticsService struct {
	resultRepo repository.ResultRepository
	usageRepo  repository.UsageRepository
}

// NewAnalyticsService creates a new instance of AnalyticsService.
func NewAnalyticsService(resultRepo repository.ResultRepository, usageRepo repository.UsageRepository) AnalyticsService {
	return &analyticsService{
		resultRepo: resultRepo,
		usageRepo:  usageRepo,
	}
}

// GenerateEngagementReport aggregates completed assessment results over the
// requested period. Completions and score averages are period-scoped; the
// started/completed ratio comes from the all-time usage counters, which carry
// no per-attempt dates.
func (s *analyticsService) GenerateEngagementReport(periodType string, referenceDateStr string) (*models.EngagementReportResponse, error) {
	if s.resultRepo == nil || s.usageRepo == nil {
		log.Printf("ERROR: [AnalyticsService] Repositories are not initialized.")
		return nil, errors.New("internal server error: analytics repositories not available")
	}

	// 1. Determine date range
	endDate := time.Now()
	if referenceDateStr != "" {
		parsedDate, err := time.Parse(dateFormat, referenceDateStr)
		if err != nil {
			log.Printf("WARN: [AnalyticsService] Invalid referenceDateStr '%s': %v. Defaulting to now.", referenceDateStr, err)
		} else {
			endDate = parsedDate
		}
	}
	// Set to end of the day for endDate to include all completions on that day
	endDate = time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())

	var startDate time.Time
	switch periodType {
	case "last_7_days":
		startDate = endDate.AddDate(0, 0, -6) // endDate is the 7th day
	case "last_30_days":
		startDate = endDate.AddDate(0, 0, -29) // endDate is the 30th day
	default:
		log.Printf("WARN: [AnalyticsService] Unsupported periodType '%s'. Defaulting to last_7_days.", periodType)
		periodType = "last_7_days"
		startDate = endDate.AddDate(0, 0, -6)
	}
	startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())

	reportPeriod := models.ReportPeriod{
		StartDate:  startDate.Format(dateFormat),
		EndDate:    endDate.Format(dateFormat),
		PeriodType: periodType,
	}
	log.Printf("INFO: [AnalyticsService] Generating engagement report for period %s to %s (%s).", reportPeriod.StartDate, reportPeriod.EndDate, periodType)

	// 2. Fetch data
	results, err := s.resultRepo.ListCompletedBetween(startDate, endDate)
	if err != nil {
		log.Printf("ERROR: [AnalyticsService] Failed to list completed results: %v", err)
		return nil, fmt.Errorf("failed to retrieve completed results: %w", err)
	}

	started, _, err := s.usageRepo.Totals()
	if err != nil {
		log.Printf("ERROR: [AnalyticsService] Failed to read usage totals: %v", err)
		return nil, fmt.Errorf("failed to retrieve usage totals: %w", err)
	}

	// 3. Aggregate
	type assessmentAgg struct {
		completions int
		scoreSum    float64
	}
	perAssessment := make(map[string]*assessmentAgg)
	uniqueUsers := make(map[string]bool)
	var scoreSum float64

	for _, result := range results {
		scoreSum += float64(result.Scores.Percentage)
		uniqueUsers[result.UserID] = true

		agg, ok := perAssessment[result.AssessmentID]
		if !ok {
			agg = &assessmentAgg{}
			perAssessment[result.AssessmentID] = agg
		}
		agg.completions++
		agg.scoreSum += float64(result.Scores.Percentage)
	}

	summary := models.EngagementSummary{
		AttemptsStarted:   started,
		AttemptsCompleted: len(results),
		UniqueUsers:       len(uniqueUsers),
	}
	if len(results) > 0 {
		summary.AverageScore = scoreSum / float64(len(results))
	}
	if started > 0 {
		summary.CompletionRate = float64(len(results)) / float64(started)
	} else if len(results) > 0 {
		// Completions without recorded starts can only come from counter
		// resets; clamp rather than divide by zero.
		summary.CompletionRate = 1.0
	}

	assessmentIDs := make([]string, 0, len(perAssessment))
	for id := range perAssessment {
		assessmentIDs = append(assessmentIDs, id)
	}
	sort.Strings(assessmentIDs)

	breakdown := make([]models.AssessmentEngagement, 0, len(assessmentIDs))
	for _, id := range assessmentIDs {
		agg := perAssessment[id]
		breakdown = append(breakdown, models.AssessmentEngagement{
			AssessmentID: id,
			Completions:  agg.completions,
			AverageScore: agg.scoreSum / float64(agg.completions),
		})
	}

	response := &models.EngagementReportResponse{
		ReportPeriod:  reportPeriod,
		Summary:       summary,
		PerAssessment: breakdown,
		GeneratedAt:   time.Now().UTC(),
	}

	log.Printf("INFO: [AnalyticsService] Engagement report generated: %d completions, %d unique users.", summary.AttemptsCompleted, summary.UniqueUsers)
	return response, nil
}
