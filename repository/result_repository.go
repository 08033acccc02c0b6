package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"galaxykiro/models"

	"gorm.io/gorm"
)

// ResultRepository defines the interface for persisting completed assessment results.
type ResultRepository interface {
	CreateResult(result *models.AssessmentResult) error
	CountAttempts(assessmentID, userID string) (int, error)
	GetLatestResult(assessmentID, userID string) (*models.AssessmentResult, error)
	ListCompletedBetween(start, end time.Time) ([]*models.AssessmentResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new instance of ResultRepository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// CreateResult inserts a completed result row. Results are append-only;
// each re-take of an assessment gets its own Attempt number.
func (r *resultRepository) CreateResult(result *models.AssessmentResult) error {
	if result.UserID == "" || result.AssessmentID == "" {
		log.Printf("ERROR: [ResultRepository] CreateResult: assessmentID and userID are required.")
		return errors.New("assessment ID and user ID are required")
	}
	if err := r.db.Create(result).Error; err != nil {
		log.Printf("ERROR: [ResultRepository] Failed to create result for assessment '%s', user '%s': %v", result.AssessmentID, result.UserID, err)
		return fmt.Errorf("failed to create assessment result: %w", err)
	}
	log.Printf("INFO: [ResultRepository] Stored result ID %d (assessment '%s', user '%s', attempt %d).", result.ID, result.AssessmentID, result.UserID, result.Attempt)
	return nil
}

// CountAttempts returns how many completed attempts exist for the pair.
func (r *resultRepository) CountAttempts(assessmentID, userID string) (int, error) {
	var count int64
	err := r.db.Model(&models.AssessmentResult{}).
		Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [ResultRepository] Failed to count attempts for assessment '%s', user '%s': %v", assessmentID, userID, err)
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return int(count), nil
}

// GetLatestResult retrieves the most recent completed result for the pair.
// Returns (nil, nil) when the user has not completed this assessment.
func (r *resultRepository) GetLatestResult(assessmentID, userID string) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.
		Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		Order("attempt DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ResultRepository] Failed to fetch latest result for assessment '%s', user '%s': %v", assessmentID, userID, err)
		return nil, fmt.Errorf("failed to fetch latest result: %w", err)
	}
	return &result, nil
}

// ListCompletedBetween returns all results completed within [start, end].
func (r *resultRepository) ListCompletedBetween(start, end time.Time) ([]*models.AssessmentResult, error) {
	var results []*models.AssessmentResult
	err := r.db.
		Where("completed_at BETWEEN ? AND ?", start, end).
		Order("completed_at ASC").
		Find(&results).Error
	if err != nil {
		log.Printf("ERROR: [ResultRepository] Failed to list results between %s and %s: %v", start, end, err)
		return nil, fmt.Errorf("failed to list completed results: %w", err)
	}
	return results, nil
}
