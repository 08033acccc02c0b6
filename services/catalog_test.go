package services

import (
	"testing"

	"galaxykiro/models"

	"github.com/stretchr/testify/assert"
)

func TestNewAssessmentCatalog(t *testing.T) {
	catalog, err := NewAssessmentCatalog()
	assert.NoError(t, err)
	assert.NotNil(t, catalog)

	t.Run("Scenario 1: Default definitions are all registered", func(t *testing.T) {
		configs := catalog.List()
		assert.Len(t, configs, 3)

		ids := make([]string, 0, len(configs))
		for _, cfg := range configs {
			ids = append(ids, cfg.ID)
		}
		assert.Equal(t, []string{"potential-quiz", "decision-style", "leadership-readiness"}, ids)
	})

	t.Run("Scenario 2: Get finds known IDs only", func(t *testing.T) {
		cfg, ok := catalog.Get("potential-quiz")
		assert.True(t, ok)
		assert.Equal(t, models.ScoringModeSimple, cfg.Scoring.Mode)

		_, ok = catalog.Get("does-not-exist")
		assert.False(t, ok)
	})

	t.Run("Scenario 3: Every default definition passes tier validation", func(t *testing.T) {
		for _, cfg := range catalog.List() {
			assert.NoError(t, ValidateResultTiers(cfg.ResultTiers), "assessment %s", cfg.ID)
		}
	})
}

func TestAssessmentCatalog_Register(t *testing.T) {
	newCatalog := func() *AssessmentCatalog {
		return &AssessmentCatalog{configs: make(map[string]*models.AssessmentConfig)}
	}

	t.Run("Scenario 1: Valid definition registers", func(t *testing.T) {
		catalog := newCatalog()
		assert.NoError(t, catalog.Register(newThreeQuestionConfig(models.ScoringModeSimple)))
		_, ok := catalog.Get("test-assessment")
		assert.True(t, ok)
	})

	t.Run("Scenario 2: Duplicate IDs are rejected", func(t *testing.T) {
		catalog := newCatalog()
		assert.NoError(t, catalog.Register(newThreeQuestionConfig(models.ScoringModeSimple)))
		err := catalog.Register(newThreeQuestionConfig(models.ScoringModeSimple))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("Scenario 3: Missing ID or questions are rejected", func(t *testing.T) {
		catalog := newCatalog()
		assert.Error(t, catalog.Register(&models.AssessmentConfig{}))

		cfg := newThreeQuestionConfig(models.ScoringModeSimple)
		cfg.Questions = nil
		assert.Error(t, catalog.Register(cfg))
	})

	t.Run("Scenario 4: Duplicate question IDs are rejected", func(t *testing.T) {
		catalog := newCatalog()
		cfg := newThreeQuestionConfig(models.ScoringModeSimple)
		cfg.Questions[1].ID = "q1"
		err := catalog.Register(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate question ID")
	})

	t.Run("Scenario 5: Multiple choice without options is rejected", func(t *testing.T) {
		catalog := newCatalog()
		cfg := newThreeQuestionConfig(models.ScoringModeSimple)
		cfg.Questions[0].Options = nil
		assert.Error(t, catalog.Register(cfg))
	})

	t.Run("Scenario 6: Empty scale range is rejected", func(t *testing.T) {
		catalog := newCatalog()
		cfg := newThreeQuestionConfig(models.ScoringModeSimple)
		cfg.Questions[1].Min = 5
		cfg.Questions[1].Max = 5
		assert.Error(t, catalog.Register(cfg))
	})

	t.Run("Scenario 7: Category mode requires categories on scoreable questions", func(t *testing.T) {
		catalog := newCatalog()
		cfg := newThreeQuestionConfig(models.ScoringModeCategoryBased)
		// q1 and q2 carry no category; the text question q3 is exempt.
		err := catalog.Register(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no category")
	})

	t.Run("Scenario 8: Broken tier bands are rejected", func(t *testing.T) {
		catalog := newCatalog()
		cfg := newThreeQuestionConfig(models.ScoringModeSimple)
		cfg.ResultTiers = []models.ResultTier{{Min: 0, Max: 90, Label: "Short"}}
		assert.Error(t, catalog.Register(cfg))
	})
}
