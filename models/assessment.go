package models

import (
	"time"
)

// QuestionType defines the type of an assessment question.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // One option selected from a list
	QuestionTypeScale          QuestionType = "scale"           // Numeric value between Min and Max
	QuestionTypeText           QuestionType = "text"            // Free text input, never scored
)

// QuestionOption is a selectable option of a multiple-choice question.
type QuestionOption struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Value string  `json:"value"` // Submitted answer value that selects this option
	Score float64 `json:"score"` // Points awarded when this option is selected
}

// Question defines a single question inside an assessment.
type Question struct {
	ID       string           `json:"id"`
	Type     QuestionType     `json:"type"`
	Text     string           `json:"text"`
	Required bool             `json:"required"`
	Options  []QuestionOption `json:"options,omitempty"`  // Multiple-choice only
	Min      float64          `json:"min,omitempty"`      // Scale only
	Max      float64          `json:"max,omitempty"`      // Scale only
	Weight   float64          `json:"weight,omitempty"`   // Weighted scoring; 0 means default weight 1
	Category string           `json:"category,omitempty"` // Category-based scoring
}

// ScoringMode selects the scoring strategy of an assessment.
type ScoringMode string

const (
	ScoringModeSimple        ScoringMode = "simple"
	ScoringModeWeighted      ScoringMode = "weighted"
	ScoringModeCategoryBased ScoringMode = "category_based"
)

// ScoringCategory assigns a weight to one question category.
type ScoringCategory struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// ScoringConfig is the tagged scoring variant of an assessment definition.
// Categories is only consulted when Mode is ScoringModeCategoryBased.
type ScoringConfig struct {
	Mode       ScoringMode       `json:"mode"`
	Categories []ScoringCategory `json:"categories,omitempty"`
}

// ResultTier maps a percentage band onto descriptive result content.
// Bands of one assessment must be non-overlapping and cover 0..100.
type ResultTier struct {
	Min             int      `json:"min"`
	Max             int      `json:"max"`
	Label           string   `json:"label"`
	Description     string   `json:"description"`
	Insights        []string `json:"insights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// AssessmentConfig is an immutable assessment definition, loaded once at
// startup from the catalog and shared by every session of that assessment.
type AssessmentConfig struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Questions           []Question    `json:"questions"`
	Scoring             ScoringConfig `json:"scoring"`
	AllowBackNavigation bool          `json:"allow_back_navigation"`
	ProgressSaving      bool          `json:"progress_saving"`
	ResultTiers         []ResultTier  `json:"result_tiers"`
}

// ResponseRecord is one answer within a session. A session holds at most one
// record per question; resubmitting replaces the answer while the submitted
// time still accumulates on the session total.
type ResponseRecord struct {
	QuestionID string      `json:"question_id"`
	Answer     interface{} `json:"answer"`     // string for choice/text answers, float64 for scale answers
	TimeSpent  int         `json:"time_spent"` // Seconds spent on this submission
	Timestamp  time.Time   `json:"timestamp"`
}

// AssessmentState is the mutable session owned by exactly one engine instance
// per (assessment, user) pair. It is what gets serialized to the progress store.
type AssessmentState struct {
	AssessmentID         string           `json:"assessment_id"`
	UserID               string           `json:"user_id"`
	CurrentQuestionIndex int              `json:"current_question_index"`
	Responses            []ResponseRecord `json:"responses"`
	StartedAt            time.Time        `json:"started_at"`
	LastUpdatedAt        time.Time        `json:"last_updated_at"`
	TimeSpent            int              `json:"time_spent"` // Cumulative seconds across all submissions
	IsCompleted          bool             `json:"is_completed"`
}

// CategoryScore is the per-category portion of a category-based score.
type CategoryScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// ScoreResult is the derived score of a session under the active scoring mode.
// It is recomputed on demand and never persisted on its own.
type ScoreResult struct {
	Total          float64                  `json:"total"`
	Percentage     int                      `json:"percentage"`
	Breakdown      map[string]float64       `json:"breakdown"`
	CategoryScores map[string]CategoryScore `json:"category_scores,omitempty"`
}

// Insight is one piece of generated result content.
type Insight struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// VisualizationDataset holds the numeric series of a chart.
type VisualizationDataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// VisualizationData is the chart-agnostic data portion of a visualization.
type VisualizationData struct {
	Labels   []string               `json:"labels,omitempty"`
	Datasets []VisualizationDataset `json:"datasets"`
}

// VisualizationSpec is a renderer-agnostic chart description. The frontend
// decides how to draw it; this backend only fills in the data shape.
type VisualizationSpec struct {
	ChartType string            `json:"chart_type"`
	Data      VisualizationData `json:"data"`
}

// AssessmentResult is the terminal artifact of a completed session. Persisted
// rows are versioned by Attempt so re-takes never overwrite earlier results.
type AssessmentResult struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	AssessmentID  string            `gorm:"index;not null" json:"assessment_id"`
	UserID        string            `gorm:"index;not null" json:"user_id"`
	Attempt       int               `gorm:"default:1" json:"attempt"`
	Responses     []ResponseRecord  `gorm:"serializer:json" json:"responses"`
	Scores        ScoreResult       `gorm:"serializer:json" json:"scores"`
	Insights      []Insight         `gorm:"serializer:json" json:"insights"`
	Visualization VisualizationSpec `gorm:"serializer:json" json:"visualization_data"`
	CompletedAt   time.Time         `json:"completed_at"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the AssessmentResult model.
func (AssessmentResult) TableName() string {
	return "assessment_results"
}

// ProgressSummary is the display-oriented progress snapshot of a session.
// CurrentQuestion is 1-based for presentation.
type ProgressSummary struct {
	CurrentQuestion int     `json:"current_question"`
	TotalQuestions  int     `json:"total_questions"`
	CompletionRate  float64 `json:"completion_rate"`
	TimeSpent       int     `json:"time_spent"`
	CanGoBack       bool    `json:"can_go_back"`
	CanGoForward    bool    `json:"can_go_forward"`
}
