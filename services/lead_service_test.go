package services

import (
	"errors"
	"testing"

	"galaxykiro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLeadRepository is a mock type for the LeadRepository interface
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(lead *models.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetLeadByEmail(email string) (*models.Lead, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateLead(lead *models.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *MockLeadRepository) CountByCaptureLevel() (map[models.CaptureLevel]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.CaptureLevel]int64), args.Error(1)
}

func TestLeadService_CaptureEmail(t *testing.T) {
	t.Run("Scenario 1: New email creates a level-1 lead", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "test@example.com").Return(nil, nil).Once()
		mockRepo.On("CreateLead", mock.MatchedBy(func(lead *models.Lead) bool {
			return lead.Email == "test@example.com" &&
				lead.Source == "potential-quiz" &&
				lead.CaptureLevel == models.CaptureLevelEmail &&
				!lead.IsSoftMember
		})).Return(nil).Once()

		lead, err := svc.CaptureEmail("test@example.com", "potential-quiz")
		assert.NoError(t, err)
		assert.NotNil(t, lead)
		assert.Equal(t, models.CaptureLevelEmail, lead.CaptureLevel)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 2: Known email is idempotent and keeps funnel progress", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		existing := &models.Lead{Email: "test@example.com", CaptureLevel: models.CaptureLevelPhone, Phone: "123"}
		mockRepo.On("GetLeadByEmail", "test@example.com").Return(existing, nil).Once()

		lead, err := svc.CaptureEmail("test@example.com", "another-source")
		assert.NoError(t, err)
		assert.Equal(t, models.CaptureLevelPhone, lead.CaptureLevel)
		mockRepo.AssertNotCalled(t, "CreateLead", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 3: Email is normalized before lookup", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "test@example.com").Return(nil, nil).Once()
		mockRepo.On("CreateLead", mock.Anything).Return(nil).Once()

		lead, err := svc.CaptureEmail("  TEST@Example.COM  ", "")
		assert.NoError(t, err)
		assert.Equal(t, "test@example.com", lead.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 4: Invalid email is rejected before any repository call", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		for _, bad := range []string{"", "no-at-sign", "@leading", "trailing@"} {
			lead, err := svc.CaptureEmail(bad, "source")
			assert.Error(t, err, "email %q should be rejected", bad)
			assert.Nil(t, lead)
		}
		mockRepo.AssertNotCalled(t, "GetLeadByEmail", mock.Anything)
	})

	t.Run("Scenario 5: Repository error is propagated", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "test@example.com").Return(nil, errors.New("db down")).Once()

		lead, err := svc.CaptureEmail("test@example.com", "source")
		assert.Error(t, err)
		assert.Nil(t, lead)
		mockRepo.AssertExpectations(t)
	})
}

func TestLeadService_AddPhone(t *testing.T) {
	t.Run("Scenario 1: Phone upgrades the lead to level 2", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		existing := &models.Lead{Email: "test@example.com", CaptureLevel: models.CaptureLevelEmail}
		mockRepo.On("GetLeadByEmail", "test@example.com").Return(existing, nil).Once()
		mockRepo.On("UpdateLead", mock.MatchedBy(func(lead *models.Lead) bool {
			return lead.Phone == "+251911000000" && lead.CaptureLevel == models.CaptureLevelPhone
		})).Return(nil).Once()

		lead, err := svc.AddPhone("test@example.com", "+251911000000")
		assert.NoError(t, err)
		assert.Equal(t, models.CaptureLevelPhone, lead.CaptureLevel)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 2: Capture level never moves down", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		existing := &models.Lead{Email: "test@example.com", CaptureLevel: models.CaptureLevelProfile, IsSoftMember: true}
		mockRepo.On("GetLeadByEmail", "test@example.com").Return(existing, nil).Once()
		mockRepo.On("UpdateLead", mock.Anything).Return(nil).Once()

		lead, err := svc.AddPhone("test@example.com", "+251911000000")
		assert.NoError(t, err)
		assert.Equal(t, models.CaptureLevelProfile, lead.CaptureLevel)
		assert.True(t, lead.IsSoftMember)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 3: Unknown email gets ErrLeadNotFound", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "unknown@example.com").Return(nil, nil).Once()

		lead, err := svc.AddPhone("unknown@example.com", "+251911000000")
		assert.ErrorIs(t, err, ErrLeadNotFound)
		assert.Nil(t, lead)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 4: Empty phone is rejected", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		lead, err := svc.AddPhone("test@example.com", "   ")
		assert.Error(t, err)
		assert.Nil(t, lead)
		mockRepo.AssertNotCalled(t, "GetLeadByEmail", mock.Anything)
	})
}

func TestLeadService_CompleteProfile(t *testing.T) {
	t.Run("Scenario 1: Full profile unlocks soft membership", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		existing := &models.Lead{Email: "test@example.com", CaptureLevel: models.CaptureLevelPhone, Phone: "123"}
		mockRepo.On("GetLeadByEmail", "test@example.com").Return(existing, nil).Once()
		mockRepo.On("UpdateLead", mock.MatchedBy(func(lead *models.Lead) bool {
			return lead.FullName == "Abebe Bikila" &&
				lead.Goal == "Run my own business" &&
				lead.CaptureLevel == models.CaptureLevelProfile &&
				lead.IsSoftMember
		})).Return(nil).Once()

		lead, err := svc.CompleteProfile("test@example.com", "Abebe Bikila", "Run my own business")
		assert.NoError(t, err)
		assert.True(t, lead.IsSoftMember)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 2: Unknown email gets ErrLeadNotFound", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "unknown@example.com").Return(nil, nil).Once()

		lead, err := svc.CompleteProfile("unknown@example.com", "Name", "")
		assert.ErrorIs(t, err, ErrLeadNotFound)
		assert.Nil(t, lead)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 2b: Level-1 lead cannot skip the phone step", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		existing := &models.Lead{Email: "test@example.com", CaptureLevel: models.CaptureLevelEmail}
		mockRepo.On("GetLeadByEmail", "test@example.com").Return(existing, nil).Once()

		lead, err := svc.CompleteProfile("test@example.com", "Abebe Bikila", "goal")
		assert.ErrorIs(t, err, ErrPhoneRequired)
		assert.Nil(t, lead)
		mockRepo.AssertNotCalled(t, "UpdateLead", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 3: Empty full name is rejected", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		lead, err := svc.CompleteProfile("test@example.com", "  ", "goal")
		assert.Error(t, err)
		assert.Nil(t, lead)
		mockRepo.AssertNotCalled(t, "GetLeadByEmail", mock.Anything)
	})
}

func TestLeadService_GetLead(t *testing.T) {
	t.Run("Scenario 1: Unknown email returns nil without error", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		mockRepo.On("GetLeadByEmail", "unknown@example.com").Return(nil, nil).Once()

		lead, err := svc.GetLead("unknown@example.com")
		assert.NoError(t, err)
		assert.Nil(t, lead)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Scenario 2: Empty email is rejected", func(t *testing.T) {
		mockRepo := new(MockLeadRepository)
		svc := NewLeadService(mockRepo)

		lead, err := svc.GetLead("   ")
		assert.Error(t, err)
		assert.Nil(t, lead)
	})
}
