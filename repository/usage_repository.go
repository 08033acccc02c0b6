package repository

import (
	"errors"
	"fmt"
	"log"

	"galaxykiro/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository defines the interface for interacting with tool usage counters.
type UsageRepository interface {
	GetUsage(userID string) (*models.ToolUsage, error)
	IncrementStarted(userID string) (*models.ToolUsage, error)
	IncrementCompleted(userID string) (*models.ToolUsage, error)
	Totals() (started int, completed int, err error)
}

type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new instance of UsageRepository.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// GetUsage retrieves the current usage counters for a user.
// If the user has no row yet, it returns a zeroed ToolUsage and no error.
func (r *usageRepository) GetUsage(userID string) (*models.ToolUsage, error) {
	if userID == "" {
		log.Printf("ERROR: [UsageRepository] GetUsage: userID cannot be empty.")
		return nil, errors.New("user ID cannot be empty")
	}

	var usage models.ToolUsage
	err := r.db.First(&usage, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ToolUsage{UserID: userID}, nil
		}
		log.Printf("ERROR: [UsageRepository] Failed to fetch usage for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch usage for userID %s: %w", userID, err)
	}
	return &usage, nil
}

// IncrementStarted bumps the started counter, creating the row on first use.
func (r *usageRepository) IncrementStarted(userID string) (*models.ToolUsage, error) {
	return r.increment(userID, "assessments_started")
}

// IncrementCompleted bumps the completed counter, creating the row on first use.
func (r *usageRepository) IncrementCompleted(userID string) (*models.ToolUsage, error) {
	return r.increment(userID, "assessments_completed")
}

func (r *usageRepository) increment(userID string, column string) (*models.ToolUsage, error) {
	if userID == "" {
		log.Printf("ERROR: [UsageRepository] increment: userID cannot be empty.")
		return nil, errors.New("user ID cannot be empty")
	}

	// First use inserts the row with the counter already at 1; later calls
	// hit the conflict branch and increment in place.
	usage := models.ToolUsage{UserID: userID}
	switch column {
	case "assessments_started":
		usage.AssessmentsStarted = 1
	case "assessments_completed":
		usage.AssessmentsCompleted = 1
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: gorm.Expr(column + " + 1")}),
	}).Create(&usage).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to increment %s for userID %s: %v", column, userID, err)
		return nil, fmt.Errorf("failed to increment %s for userID %s: %w", column, userID, err)
	}

	// Re-read so callers see the post-increment counters, not the zero-value insert struct.
	return r.GetUsage(userID)
}

// Totals sums the counters across all users, for the admin engagement report.
func (r *usageRepository) Totals() (int, int, error) {
	type sums struct {
		Started   int
		Completed int
	}
	var s sums
	err := r.db.Model(&models.ToolUsage{}).
		Select("COALESCE(SUM(assessments_started),0) as started, COALESCE(SUM(assessments_completed),0) as completed").
		Scan(&s).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to sum usage counters: %v", err)
		return 0, 0, fmt.Errorf("failed to sum usage counters: %w", err)
	}
	return s.Started, s.Completed, nil
}
