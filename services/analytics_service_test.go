package services

import (
	"errors"
	"testing"
	"time"

	"galaxykiro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockResultRepository is a mock type for the ResultRepository interface
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) CreateResult(result *models.AssessmentResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepository) CountAttempts(assessmentID, userID string) (int, error) {
	args := m.Called(assessmentID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockResultRepository) GetLatestResult(assessmentID, userID string) (*models.AssessmentResult, error) {
	args := m.Called(assessmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentResult), args.Error(1)
}

func (m *MockResultRepository) ListCompletedBetween(start, end time.Time) ([]*models.AssessmentResult, error) {
	args := m.Called(start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssessmentResult), args.Error(1)
}

// MockUsageRepository is a mock type for the UsageRepository interface
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) GetUsage(userID string) (*models.ToolUsage, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToolUsage), args.Error(1)
}

func (m *MockUsageRepository) IncrementStarted(userID string) (*models.ToolUsage, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToolUsage), args.Error(1)
}

func (m *MockUsageRepository) IncrementCompleted(userID string) (*models.ToolUsage, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToolUsage), args.Error(1)
}

func (m *MockUsageRepository) Totals() (int, int, error) {
	args := m.Called()
	return args.Int(0), args.Int(1), args.Error(2)
}

// --- Test Helper Functions ---

func newCompletedResult(assessmentID, userID string, pct int, completedAt time.Time) *models.AssessmentResult {
	return &models.AssessmentResult{
		AssessmentID: assessmentID,
		UserID:       userID,
		Scores:       models.ScoreResult{Percentage: pct},
		CompletedAt:  completedAt,
	}
}

func TestAnalyticsService_GenerateEngagementReport(t *testing.T) {
	t.Run("Scenario 1: Basic happy path aggregates completions", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		completedAt := time.Now().AddDate(0, 0, -1)
		results := []*models.AssessmentResult{
			newCompletedResult("potential-quiz", "userA", 80, completedAt),
			newCompletedResult("potential-quiz", "userB", 60, completedAt),
			newCompletedResult("decision-style", "userA", 40, completedAt),
		}
		mockResults.On("ListCompletedBetween", mock.Anything, mock.Anything).Return(results, nil).Once()
		mockUsage.On("Totals").Return(6, 3, nil).Once()

		report, err := svc.GenerateEngagementReport("last_7_days", "")
		assert.NoError(t, err)
		assert.NotNil(t, report)
		assert.Equal(t, 6, report.Summary.AttemptsStarted)
		assert.Equal(t, 3, report.Summary.AttemptsCompleted)
		assert.Equal(t, 2, report.Summary.UniqueUsers)
		assert.InDelta(t, 60.0, report.Summary.AverageScore, 0.001)
		assert.InDelta(t, 0.5, report.Summary.CompletionRate, 0.001)

		// Breakdown is sorted by assessment ID.
		assert.Len(t, report.PerAssessment, 2)
		assert.Equal(t, "decision-style", report.PerAssessment[0].AssessmentID)
		assert.Equal(t, 1, report.PerAssessment[0].Completions)
		assert.InDelta(t, 40.0, report.PerAssessment[0].AverageScore, 0.001)
		assert.Equal(t, "potential-quiz", report.PerAssessment[1].AssessmentID)
		assert.Equal(t, 2, report.PerAssessment[1].Completions)
		assert.InDelta(t, 70.0, report.PerAssessment[1].AverageScore, 0.001)

		mockResults.AssertExpectations(t)
		mockUsage.AssertExpectations(t)
	})

	t.Run("Scenario 2: Date range respects the reference date", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		mockResults.On("ListCompletedBetween", mock.MatchedBy(func(start time.Time) bool {
			return start.Format(dateFormat) == "2026-02-14"
		}), mock.MatchedBy(func(end time.Time) bool {
			return end.Format(dateFormat) == "2026-03-15" && end.Hour() == 23
		})).Return([]*models.AssessmentResult{}, nil).Once()
		mockUsage.On("Totals").Return(0, 0, nil).Once()

		report, err := svc.GenerateEngagementReport("last_30_days", "2026-03-15")
		assert.NoError(t, err)
		assert.Equal(t, "2026-02-14", report.ReportPeriod.StartDate)
		assert.Equal(t, "2026-03-15", report.ReportPeriod.EndDate)
		assert.Equal(t, "last_30_days", report.ReportPeriod.PeriodType)
		mockResults.AssertExpectations(t)
	})

	t.Run("Scenario 3: Unsupported period falls back to last 7 days", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		mockResults.On("ListCompletedBetween", mock.MatchedBy(func(start time.Time) bool {
			return start.Format(dateFormat) == "2026-03-09"
		}), mock.Anything).Return([]*models.AssessmentResult{}, nil).Once()
		mockUsage.On("Totals").Return(0, 0, nil).Once()

		report, err := svc.GenerateEngagementReport("last_quarter", "2026-03-15")
		assert.NoError(t, err)
		assert.Equal(t, "last_7_days", report.ReportPeriod.PeriodType)
		mockResults.AssertExpectations(t)
	})

	t.Run("Scenario 4: Empty period produces zeroed summary", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		mockResults.On("ListCompletedBetween", mock.Anything, mock.Anything).Return([]*models.AssessmentResult{}, nil).Once()
		mockUsage.On("Totals").Return(0, 0, nil).Once()

		report, err := svc.GenerateEngagementReport("last_7_days", "")
		assert.NoError(t, err)
		assert.Equal(t, 0, report.Summary.AttemptsCompleted)
		assert.Equal(t, 0.0, report.Summary.CompletionRate)
		assert.Equal(t, 0.0, report.Summary.AverageScore)
		assert.Empty(t, report.PerAssessment)
	})

	t.Run("Scenario 5: Completions without recorded starts clamp the rate", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		results := []*models.AssessmentResult{
			newCompletedResult("potential-quiz", "userA", 50, time.Now()),
		}
		mockResults.On("ListCompletedBetween", mock.Anything, mock.Anything).Return(results, nil).Once()
		mockUsage.On("Totals").Return(0, 0, nil).Once()

		report, err := svc.GenerateEngagementReport("last_7_days", "")
		assert.NoError(t, err)
		assert.Equal(t, 1.0, report.Summary.CompletionRate)
	})

	t.Run("Scenario 6: Result repository error is propagated", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		mockResults.On("ListCompletedBetween", mock.Anything, mock.Anything).Return(nil, errors.New("database connection error")).Once()

		report, err := svc.GenerateEngagementReport("last_7_days", "")
		assert.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "failed to retrieve completed results")
		mockUsage.AssertNotCalled(t, "Totals")
	})

	t.Run("Scenario 7: Invalid reference date falls back to now", func(t *testing.T) {
		mockResults := new(MockResultRepository)
		mockUsage := new(MockUsageRepository)
		svc := NewAnalyticsService(mockResults, mockUsage)

		mockResults.On("ListCompletedBetween", mock.Anything, mock.Anything).Return([]*models.AssessmentResult{}, nil).Once()
		mockUsage.On("Totals").Return(0, 0, nil).Once()

		report, err := svc.GenerateEngagementReport("last_7_days", "not-a-date")
		assert.NoError(t, err)
		assert.Equal(t, time.Now().Format(dateFormat), report.ReportPeriod.EndDate)
	})
}
