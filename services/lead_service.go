package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"galaxykiro/models"
	"galaxykiro/repository"
)

var (
	// ErrLeadNotFound is returned when a funnel step runs for an email that
	// was never captured.
	ErrLeadNotFound = errors.New("no lead captured for this email")
	// ErrPhoneRequired is returned when a profile completion runs before the
	// lead reached level 2.
	ErrPhoneRequired = errors.New("phone must be captured before completing the profile")
)

// LeadService defines the interface for the progressive capture funnel.
// Capture levels only ever move up: email (1), phone (2), full profile (3).
// Reaching level 3 unlocks soft membership.
type LeadService interface {
	CaptureEmail(email, source string) (*models.Lead, error)
	AddPhone(email, phone string) (*models.Lead, error)
	CompleteProfile(email, fullName, goal string) (*models.Lead, error)
	GetLead(email string) (*models.Lead, error)
}

type leadService struct {
	leadRepo repository.LeadRepository
}

// NewLeadService creates a new instance of LeadService.
func NewLeadService(leadRepo repository.LeadRepository) LeadService {
	return &leadService{
		leadRepo: leadRepo,
	}
}

// CaptureEmail records a level-1 lead. Capturing an already-known email is
// idempotent and returns the existing lead untouched, so repeat visits never
// reset funnel progress.
func (s *leadService) CaptureEmail(email, source string) (*models.Lead, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.leadRepo.GetLeadByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up lead for email '%s': %w", email, err)
	}
	if existing != nil {
		log.Printf("INFO: [LeadService] Email '%s' already captured at level %d, returning existing lead.", email, existing.CaptureLevel)
		return existing, nil
	}

	lead := &models.Lead{
		Email:        email,
		Source:       source,
		CaptureLevel: models.CaptureLevelEmail,
	}
	if err := s.leadRepo.CreateLead(lead); err != nil {
		return nil, err
	}
	log.Printf("INFO: [LeadService] Captured new lead '%s' (source '%s').", email, source)
	return lead, nil
}

// AddPhone upgrades a lead to level 2. The email must have been captured
// first; the funnel has no phone-only entry point.
func (s *leadService) AddPhone(email, phone string) (*models.Lead, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, errors.New("phone cannot be empty")
	}

	lead, err := s.leadRepo.GetLeadByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up lead for email '%s': %w", email, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	lead.Phone = phone
	if lead.CaptureLevel < models.CaptureLevelPhone {
		lead.CaptureLevel = models.CaptureLevelPhone
	}
	if err := s.leadRepo.UpdateLead(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// CompleteProfile upgrades a lead to level 3 and flags soft membership.
// The funnel is strictly ordered: a lead without a phone on record (level 1)
// cannot skip ahead, so every soft member carries full contact details.
func (s *leadService) CompleteProfile(email, fullName, goal string) (*models.Lead, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, errors.New("full name cannot be empty")
	}

	lead, err := s.leadRepo.GetLeadByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up lead for email '%s': %w", email, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.CaptureLevel < models.CaptureLevelPhone {
		return nil, ErrPhoneRequired
	}

	lead.FullName = fullName
	lead.Goal = strings.TrimSpace(goal)
	lead.CaptureLevel = models.CaptureLevelProfile
	lead.IsSoftMember = true
	if err := s.leadRepo.UpdateLead(lead); err != nil {
		return nil, err
	}
	log.Printf("INFO: [LeadService] Lead '%s' completed profile and became a soft member.", email)
	return lead, nil
}

// GetLead retrieves a lead by email. Returns (nil, nil) for unknown emails.
func (s *leadService) GetLead(email string) (*models.Lead, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	return s.leadRepo.GetLeadByEmail(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail does a minimal sanity check; strict format validation lives in
// the request binding layer.
func validateEmail(email string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email address '%s'", email)
	}
	return nil
}
