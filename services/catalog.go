package services

import (
	"fmt"
	"log"

	"galaxykiro/models"
)

// AssessmentCatalog holds the validated assessment definitions served by the
// platform. Definitions are immutable after registration.
type AssessmentCatalog struct {
	configs map[string]*models.AssessmentConfig
	ordered []string // Registration order, for stable listing
}

// NewAssessmentCatalog builds the catalog from the default definitions and
// validates every one of them. Registration fails fast on an invalid
// definition; a half-configured catalog must never reach the session layer.
func NewAssessmentCatalog() (*AssessmentCatalog, error) {
	catalog := &AssessmentCatalog{
		configs: make(map[string]*models.AssessmentConfig),
	}
	for _, cfg := range getDefaultAssessmentDefinitions() {
		if err := catalog.Register(cfg); err != nil {
			return nil, err
		}
	}
	log.Printf("INFO: [AssessmentCatalog] Registered %d assessment definitions.", len(catalog.ordered))
	return catalog, nil
}

// Register validates and adds one definition.
func (c *AssessmentCatalog) Register(cfg *models.AssessmentConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("assessment definition has no ID")
	}
	if _, exists := c.configs[cfg.ID]; exists {
		return fmt.Errorf("duplicate assessment definition '%s'", cfg.ID)
	}
	if len(cfg.Questions) == 0 {
		return fmt.Errorf("assessment '%s' has no questions", cfg.ID)
	}

	seen := make(map[string]bool, len(cfg.Questions))
	for i := range cfg.Questions {
		q := &cfg.Questions[i]
		if q.ID == "" {
			return fmt.Errorf("assessment '%s' has a question with no ID at position %d", cfg.ID, i)
		}
		if seen[q.ID] {
			return fmt.Errorf("assessment '%s' has duplicate question ID '%s'", cfg.ID, q.ID)
		}
		seen[q.ID] = true
		if q.Type == models.QuestionTypeMultipleChoice && len(q.Options) == 0 {
			return fmt.Errorf("assessment '%s' question '%s' is multiple-choice but has no options", cfg.ID, q.ID)
		}
		if q.Type == models.QuestionTypeScale && q.Max <= q.Min {
			return fmt.Errorf("assessment '%s' question '%s' has an empty scale range", cfg.ID, q.ID)
		}
		if cfg.Scoring.Mode == models.ScoringModeCategoryBased && q.Category == "" && q.Type != models.QuestionTypeText {
			return fmt.Errorf("assessment '%s' question '%s' has no category under category-based scoring", cfg.ID, q.ID)
		}
	}

	if err := ValidateResultTiers(cfg.ResultTiers); err != nil {
		return fmt.Errorf("assessment '%s': %w", cfg.ID, err)
	}

	c.configs[cfg.ID] = cfg
	c.ordered = append(c.ordered, cfg.ID)
	return nil
}

// Get returns the definition for an assessment ID.
func (c *AssessmentCatalog) Get(assessmentID string) (*models.AssessmentConfig, bool) {
	cfg, exists := c.configs[assessmentID]
	return cfg, exists
}

// List returns every definition in registration order.
func (c *AssessmentCatalog) List() []*models.AssessmentConfig {
	configs := make([]*models.AssessmentConfig, 0, len(c.ordered))
	for _, id := range c.ordered {
		configs = append(configs, c.configs[id])
	}
	return configs
}

// getDefaultAssessmentDefinitions defines the self-assessment tools offered on
// the site. Note: These are currently hardcoded. In a more dynamic system,
// they might come from a DB or config file.
func getDefaultAssessmentDefinitions() []*models.AssessmentConfig {
	standardTiers := []models.ResultTier{
		{
			Min: 0, Max: 25, Label: "Dreamer",
			Description: "You sense there is more in you than your current routine lets out. The potential is real, it just has no structure to land on yet.",
			Insights: []string{
				"Big visions without daily anchors tend to stay visions.",
				"Your answers suggest untapped energy rather than missing ability.",
			},
			Recommendations: []string{
				"Pick one goal and attach a 10-minute daily habit to it.",
				"Write down what 'done' looks like for the next 30 days.",
			},
		},
		{
			Min: 26, Max: 50, Label: "Explorer",
			Description: "You are actively testing directions and collecting experiences. The next lever is consistency, not more options.",
			Insights: []string{
				"Breadth is an asset once one direction gets depth.",
			},
			Recommendations: []string{
				"Commit to a single focus area for six weeks before re-evaluating.",
			},
		},
		{
			Min: 51, Max: 75, Label: "Builder",
			Description: "You have working systems and visible momentum. Scaling what already works will beat adding something new.",
			Insights: []string{
				"Your consistency scores carry your overall result.",
			},
			Recommendations: []string{
				"Identify the one habit with the highest return and double its frequency.",
			},
		},
		{
			Min: 76, Max: 100, Label: "Achiever",
			Description: "You operate with clarity and discipline most people are still working toward. Your growth edge is multiplying through others.",
			Insights: []string{
				"At this level, plateaus usually come from a missing challenge, not missing effort.",
			},
			Recommendations: []string{
				"Mentor someone one step behind you; teaching exposes your implicit systems.",
			},
		},
	}

	return []*models.AssessmentConfig{
		{
			ID:          "potential-quiz",
			Title:       "Potential Discovery Quiz",
			Description: "A quick read on how much of your capacity your current habits actually use.",
			Scoring:     models.ScoringConfig{Mode: models.ScoringModeSimple},
			AllowBackNavigation: true,
			ProgressSaving:      true,
			ResultTiers:         standardTiers,
			Questions: []models.Question{
				{
					ID: "q_morning", Type: models.QuestionTypeMultipleChoice, Required: true,
					Text: "How do the first 60 minutes of your day usually look?",
					Options: []models.QuestionOption{
						{ID: "reactive", Text: "I reach for my phone and react to whatever comes in", Value: "reactive", Score: 1},
						{ID: "mixed", Text: "Some days are structured, most are not", Value: "mixed", Score: 2},
						{ID: "ritual", Text: "I follow a fixed morning routine", Value: "ritual", Score: 3},
					},
				},
				{
					ID: "q_clarity", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5,
					Text: "How clearly can you state your main goal for the next 90 days? (1 = vague feeling, 5 = written and measurable)",
				},
				{
					ID: "q_followthrough", Type: models.QuestionTypeMultipleChoice, Required: true,
					Text: "When you commit to a new habit, how long does it typically survive?",
					Options: []models.QuestionOption{
						{ID: "days", Text: "A few days", Value: "days", Score: 1},
						{ID: "weeks", Text: "A few weeks", Value: "weeks", Score: 2},
						{ID: "months", Text: "Months, it usually sticks", Value: "months", Score: 3},
					},
				},
				{
					ID: "q_energy", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5,
					Text: "How would you rate your average energy level across a normal week?",
				},
				{
					ID: "q_blocker", Type: models.QuestionTypeText, Required: false,
					Text: "In one sentence: what do you believe holds you back the most right now?",
				},
			},
		},
		{
			ID:          "decision-style",
			Title:       "Decision Style Profile",
			Description: "How you actually make decisions under uncertainty, weighted toward the moments that matter.",
			Scoring:     models.ScoringConfig{Mode: models.ScoringModeWeighted},
			AllowBackNavigation: false,
			ProgressSaving:      true,
			ResultTiers:         standardTiers,
			Questions: []models.Question{
				{
					ID: "q_stakes", Type: models.QuestionTypeMultipleChoice, Required: true, Weight: 2,
					Text: "Facing a high-stakes decision, what is your first move?",
					Options: []models.QuestionOption{
						{ID: "delay", Text: "Postpone until the pressure forces a choice", Value: "delay", Score: 1},
						{ID: "gather", Text: "Gather opinions until a consensus appears", Value: "gather", Score: 2},
						{ID: "frame", Text: "Write down the options and what each costs", Value: "frame", Score: 3},
					},
				},
				{
					ID: "q_reverse", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5, Weight: 1,
					Text: "How quickly do you reverse a decision once the evidence turns against it? (1 = I ride it down, 5 = immediately)",
				},
				{
					ID: "q_regret", Type: models.QuestionTypeMultipleChoice, Required: true, Weight: 2,
					Text: "Looking back a year, which decisions do you regret more?",
					Options: []models.QuestionOption{
						{ID: "made", Text: "Things I did that went wrong", Value: "made", Score: 2},
						{ID: "missed", Text: "Things I never dared to try", Value: "missed", Score: 1},
						{ID: "neither", Text: "Few regrets either way, I review and move on", Value: "neither", Score: 3},
					},
				},
				{
					ID: "q_inputs", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5, Weight: 1,
					Text: "How deliberately do you choose the information sources feeding your decisions?",
				},
			},
		},
		{
			ID:          "leadership-readiness",
			Title:       "Leadership Readiness Index",
			Description: "Where you stand across the three pillars we coach: vision, discipline, and influence.",
			Scoring: models.ScoringConfig{
				Mode: models.ScoringModeCategoryBased,
				Categories: []models.ScoringCategory{
					{ID: "vision", Weight: 1},
					{ID: "discipline", Weight: 2},
					{ID: "influence", Weight: 1},
				},
			},
			AllowBackNavigation: true,
			ProgressSaving:      true,
			ResultTiers:         standardTiers,
			Questions: []models.Question{
				{
					ID: "q_vision_horizon", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5, Category: "vision",
					Text: "How far ahead does your personal plan concretely reach? (1 = this week, 5 = multiple years)",
				},
				{
					ID: "q_vision_shared", Type: models.QuestionTypeMultipleChoice, Required: true, Category: "vision",
					Text: "Who else knows where you are heading?",
					Options: []models.QuestionOption{
						{ID: "nobody", Text: "It lives in my head", Value: "nobody", Score: 1},
						{ID: "close", Text: "My closest circle", Value: "close", Score: 2},
						{ID: "public", Text: "I state it openly and invite accountability", Value: "public", Score: 3},
					},
				},
				{
					ID: "q_disc_streak", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5, Category: "discipline",
					Text: "Rate your ability to keep commitments when nobody is watching.",
				},
				{
					ID: "q_disc_review", Type: models.QuestionTypeMultipleChoice, Required: true, Category: "discipline",
					Text: "How often do you review your week against your plan?",
					Options: []models.QuestionOption{
						{ID: "never", Text: "I don't", Value: "never", Score: 1},
						{ID: "sometimes", Text: "When things go wrong", Value: "sometimes", Score: 2},
						{ID: "weekly", Text: "On a fixed weekly slot", Value: "weekly", Score: 3},
					},
				},
				{
					ID: "q_infl_ask", Type: models.QuestionTypeScale, Required: true, Min: 1, Max: 5, Category: "influence",
					Text: "How comfortable are you asking others to follow your lead?",
				},
				{
					ID: "q_infl_note", Type: models.QuestionTypeText, Required: false,
					Text: "Optional: describe a moment where your influence changed an outcome.",
				},
			},
		},
	}
}
