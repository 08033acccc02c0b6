package repository

import (
	"errors"
	"fmt"
	"log"

	"galaxykiro/models"

	"gorm.io/gorm"
)

// LeadRepository defines the interface for interacting with lead data.
type LeadRepository interface {
	CreateLead(lead *models.Lead) error
	GetLeadByEmail(email string) (*models.Lead, error)
	UpdateLead(lead *models.Lead) error
	CountByCaptureLevel() (map[models.CaptureLevel]int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new instance of LeadRepository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// CreateLead inserts a new lead record.
func (r *leadRepository) CreateLead(lead *models.Lead) error {
	if lead.Email == "" {
		log.Printf("ERROR: [LeadRepository] CreateLead: email cannot be empty.")
		return errors.New("lead email cannot be empty")
	}
	if err := r.db.Create(lead).Error; err != nil {
		log.Printf("ERROR: [LeadRepository] Failed to create lead for email '%s': %v", lead.Email, err)
		return fmt.Errorf("failed to create lead: %w", err)
	}
	log.Printf("INFO: [LeadRepository] Created lead ID %d (email '%s', level %d).", lead.ID, lead.Email, lead.CaptureLevel)
	return nil
}

// GetLeadByEmail retrieves a lead by email.
// Returns (nil, nil) when no lead exists; the service layer interprets absence.
func (r *leadRepository) GetLeadByEmail(email string) (*models.Lead, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	var lead models.Lead
	err := r.db.First(&lead, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [LeadRepository] Failed to fetch lead for email '%s': %v", email, err)
		return nil, fmt.Errorf("failed to fetch lead for email '%s': %w", email, err)
	}
	return &lead, nil
}

// UpdateLead persists changes to an existing lead record.
func (r *leadRepository) UpdateLead(lead *models.Lead) error {
	if lead.ID == 0 {
		return errors.New("cannot update lead without ID")
	}
	if err := r.db.Save(lead).Error; err != nil {
		log.Printf("ERROR: [LeadRepository] Failed to update lead ID %d: %v", lead.ID, err)
		return fmt.Errorf("failed to update lead ID %d: %w", lead.ID, err)
	}
	log.Printf("INFO: [LeadRepository] Updated lead ID %d (level %d, soft member: %t).", lead.ID, lead.CaptureLevel, lead.IsSoftMember)
	return nil
}

// CountByCaptureLevel aggregates lead counts per capture level for analytics.
func (r *leadRepository) CountByCaptureLevel() (map[models.CaptureLevel]int64, error) {
	type levelCount struct {
		CaptureLevel models.CaptureLevel
		Count        int64
	}
	var rows []levelCount
	err := r.db.Model(&models.Lead{}).
		Select("capture_level, count(*) as count").
		Group("capture_level").
		Scan(&rows).Error
	if err != nil {
		log.Printf("ERROR: [LeadRepository] Failed to aggregate leads by capture level: %v", err)
		return nil, fmt.Errorf("failed to aggregate leads by capture level: %w", err)
	}
	counts := make(map[models.CaptureLevel]int64, len(rows))
	for _, row := range rows {
		counts[row.CaptureLevel] = row.Count
	}
	return counts, nil
}
