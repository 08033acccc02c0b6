package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"galaxykiro/models"
	"galaxykiro/repository"
)

var (
	// ErrNotInitialized is returned when a session operation runs before
	// InitializeAssessment (or a successful LoadAssessmentState).
	ErrNotInitialized = errors.New("assessment session not initialized")
	// ErrNotComplete is returned by CompleteAssessment while required
	// questions are still unanswered.
	ErrNotComplete = errors.New("assessment is not complete")
	// ErrSessionCompleted is returned for mutations attempted after the
	// session reached its terminal completed state.
	ErrSessionCompleted = errors.New("assessment session already completed")
	// ErrUnknownQuestion is returned when a response names a question that is
	// not part of the assessment definition.
	ErrUnknownQuestion = errors.New("question not part of this assessment")
	// ErrAnswerOutOfRange is returned when a scale answer is not a number
	// inside the question's Min..Max range.
	ErrAnswerOutOfRange = errors.New("answer outside the question's scale range")
)

// AssessmentEngine orchestrates one assessment-taking session end to end and
// is the sole mutator of its AssessmentState. One instance owns one
// (assessment, user) session; instances are not shared across users, but the
// same user can hit the engine from concurrent requests (two open tabs), so
// every state-touching method serializes on the engine mutex.
//
// Session lifecycle: uninitialized -> active (navigating/answering) ->
// completed (terminal). Re-takes require a fresh InitializeAssessment, which
// starts a new state object; the single progress slot is last-write-wins while
// completed results are versioned separately in the results table.
type AssessmentEngine struct {
	config        *models.AssessmentConfig
	questionsByID map[string]*models.Question // Quick lookup for questions by ID
	store         repository.ProgressStore
	mu            sync.Mutex
	state         *models.AssessmentState
}

// NewAssessmentEngine creates an engine for one assessment definition.
// The store may be nil when the definition has progress saving disabled.
func NewAssessmentEngine(cfg *models.AssessmentConfig, store repository.ProgressStore) *AssessmentEngine {
	questionsByID := make(map[string]*models.Question, len(cfg.Questions))
	for i := range cfg.Questions {
		questionsByID[cfg.Questions[i].ID] = &cfg.Questions[i]
	}
	return &AssessmentEngine{
		config:        cfg,
		questionsByID: questionsByID,
		store:         store,
	}
}

// Config returns the engine's immutable assessment definition.
func (e *AssessmentEngine) Config() *models.AssessmentConfig {
	return e.config
}

// InitializeAssessment constructs a fresh session for the user. It always
// creates new state; resuming saved progress is the separate, explicit
// LoadAssessmentState call.
func (e *AssessmentEngine) InitializeAssessment(userID string) *models.AssessmentState {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	e.state = &models.AssessmentState{
		AssessmentID:         e.config.ID,
		UserID:               userID,
		CurrentQuestionIndex: 0,
		Responses:            make([]models.ResponseRecord, 0),
		StartedAt:            now,
		LastUpdatedAt:        now,
	}
	log.Printf("INFO: [AssessmentEngine] Initialized session for assessment '%s', user '%s'.", e.config.ID, userID)
	return e.snapshotState()
}

// GetCurrentQuestion returns the question under the cursor, or nil when the
// engine is uninitialized or the cursor is out of range.
func (e *AssessmentEngine) GetCurrentQuestion() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil
	}
	idx := e.state.CurrentQuestionIndex
	if idx < 0 || idx >= len(e.config.Questions) {
		return nil
	}
	return &e.config.Questions[idx]
}

// NextQuestion advances the cursor and returns the new current question.
// At the last question it returns nil and leaves the cursor unchanged; that is
// a normal boundary, not an error.
func (e *AssessmentEngine) NextQuestion() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil
	}
	if e.state.CurrentQuestionIndex+1 >= len(e.config.Questions) {
		return nil
	}
	e.state.CurrentQuestionIndex++
	return &e.config.Questions[e.state.CurrentQuestionIndex]
}

// PreviousQuestion moves the cursor back and returns the new current question.
// It returns nil without touching state when back navigation is disabled or
// the cursor is already at the first question.
func (e *AssessmentEngine) PreviousQuestion() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.config.AllowBackNavigation {
		return nil
	}
	if e.state.CurrentQuestionIndex <= 0 {
		return nil
	}
	e.state.CurrentQuestionIndex--
	return &e.config.Questions[e.state.CurrentQuestionIndex]
}

// SubmitResponse records an answer. Resubmitting a question replaces the
// stored answer while the submitted time still accumulates on the session
// total, reflecting cumulative time on task.
func (e *AssessmentEngine) SubmitResponse(questionID string, answer interface{}, timeSpent int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return ErrNotInitialized
	}
	if e.state.IsCompleted {
		return ErrSessionCompleted
	}
	question, exists := e.questionsByID[questionID]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrUnknownQuestion, questionID)
	}

	// Numeric answers are normalized to float64 at submit time so in-memory
	// state matches what a JSON round-trip through the progress store yields.
	if v, ok := toFloat(answer); ok {
		answer = v
	}

	// Scale answers outside Min..Max would score past the attainable maximum
	// and push the percentage out of the 0..100 tier bands; reject them here.
	if question.Type == models.QuestionTypeScale {
		v, ok := answer.(float64)
		if !ok || v < question.Min || v > question.Max {
			return fmt.Errorf("%w: '%s' accepts %g to %g", ErrAnswerOutOfRange, questionID, question.Min, question.Max)
		}
	}

	now := time.Now()
	replaced := false
	for i := range e.state.Responses {
		if e.state.Responses[i].QuestionID == questionID {
			e.state.Responses[i].Answer = answer
			e.state.Responses[i].TimeSpent = timeSpent
			e.state.Responses[i].Timestamp = now
			replaced = true
			break
		}
	}
	if !replaced {
		e.state.Responses = append(e.state.Responses, models.ResponseRecord{
			QuestionID: questionID,
			Answer:     answer,
			TimeSpent:  timeSpent,
			Timestamp:  now,
		})
	}

	e.state.TimeSpent += timeSpent
	e.state.LastUpdatedAt = now
	return nil
}

// CalculateCompletionRate returns answered/total in [0,1]. Pure with respect
// to session state; safe to call continuously.
func (e *AssessmentEngine) CalculateCompletionRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completionRateLocked()
}

func (e *AssessmentEngine) completionRateLocked() float64 {
	if e.state == nil || len(e.config.Questions) == 0 {
		return 0
	}
	return float64(len(e.state.Responses)) / float64(len(e.config.Questions))
}

// IsComplete reports whether every required question has an answer.
// Optional questions never block completion.
func (e *AssessmentEngine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isCompleteLocked()
}

func (e *AssessmentEngine) isCompleteLocked() bool {
	if e.state == nil {
		return false
	}
	answered := make(map[string]bool, len(e.state.Responses))
	for _, resp := range e.state.Responses {
		answered[resp.QuestionID] = true
	}
	for i := range e.config.Questions {
		q := &e.config.Questions[i]
		if q.Required && !answered[q.ID] {
			return false
		}
	}
	return true
}

// GetProgressSummary returns the display-oriented snapshot of the session, or
// nil when the engine is uninitialized.
func (e *AssessmentEngine) GetProgressSummary() *models.ProgressSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil
	}
	return &models.ProgressSummary{
		CurrentQuestion: e.state.CurrentQuestionIndex + 1, // 1-based for display
		TotalQuestions:  len(e.config.Questions),
		CompletionRate:  e.completionRateLocked(),
		TimeSpent:       e.state.TimeSpent,
		CanGoBack:       e.config.AllowBackNavigation && e.state.CurrentQuestionIndex > 0,
		CanGoForward:    e.state.CurrentQuestionIndex+1 < len(e.config.Questions),
	}
}

// CalculateScores computes the session score under the definition's scoring
// mode. Recomputed on demand; never cached or persisted on its own.
func (e *AssessmentEngine) CalculateScores() (*models.ScoreResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, ErrNotInitialized
	}
	return calculateScores(e.config, e.state.Responses), nil
}

// GenerateInsights maps a score onto the definition's result tier content.
func (e *AssessmentEngine) GenerateInsights(scores *models.ScoreResult) []models.Insight {
	return buildInsights(e.config, scores)
}

// GenerateVisualizationData produces the chart-ready shape for a score.
func (e *AssessmentEngine) GenerateVisualizationData(scores *models.ScoreResult) *models.VisualizationSpec {
	return buildVisualizationData(scores)
}

// CompleteAssessment finalizes the session: computes scores, insights and
// visualization data, flips the session into its terminal completed state and
// returns the composed result. It fails with ErrNotComplete while required
// questions are unanswered, and succeeds exactly once per session.
func (e *AssessmentEngine) CompleteAssessment(ctx context.Context) (*models.AssessmentResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, ErrNotInitialized
	}
	if e.state.IsCompleted {
		return nil, ErrSessionCompleted
	}
	if !e.isCompleteLocked() {
		return nil, ErrNotComplete
	}

	scores := calculateScores(e.config, e.state.Responses)
	insights := buildInsights(e.config, scores)
	visualization := buildVisualizationData(scores)

	now := time.Now()
	e.state.IsCompleted = true
	e.state.LastUpdatedAt = now

	responses := make([]models.ResponseRecord, len(e.state.Responses))
	copy(responses, e.state.Responses)

	// The result intentionally carries no completion flag; that lives on the
	// session state only.
	result := &models.AssessmentResult{
		AssessmentID:  e.config.ID,
		UserID:        e.state.UserID,
		Responses:     responses,
		Scores:        *scores,
		Insights:      insights,
		Visualization: *visualization,
		CompletedAt:   now,
	}
	log.Printf("INFO: [AssessmentEngine] Completed session for assessment '%s', user '%s' (score %d%%).", e.config.ID, e.state.UserID, scores.Percentage)
	return result, nil
}

// progressKey derives the single progress slot of an (assessment, user) pair.
func progressKey(assessmentID, userID string) string {
	return fmt.Sprintf("assessment_%s_%s", assessmentID, userID)
}

// SaveProgress serializes the session into its progress slot. It is a no-op
// when the definition has progress saving disabled. The engine never
// auto-saves; callers decide when a snapshot is worth taking.
func (e *AssessmentEngine) SaveProgress(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return ErrNotInitialized
	}
	if !e.config.ProgressSaving {
		return nil
	}
	if e.store == nil {
		return errors.New("progress store not configured")
	}

	payload, err := json.Marshal(e.state)
	if err != nil {
		return fmt.Errorf("failed to serialize assessment state: %w", err)
	}
	key := progressKey(e.state.AssessmentID, e.state.UserID)
	if err := e.store.SetItem(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("failed to save progress under key '%s': %w", key, err)
	}
	return nil
}

// LoadAssessmentState restores the user's saved session, if any, and adopts it
// as the engine's current state. It returns (nil, nil) when no progress exists
// or the stored snapshot is malformed; a broken snapshot means "start fresh",
// never an error surfaced to the user.
func (e *AssessmentEngine) LoadAssessmentState(ctx context.Context, userID string) (*models.AssessmentState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return nil, errors.New("progress store not configured")
	}

	key := progressKey(e.config.ID, userID)
	payload, found, err := e.store.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress under key '%s': %w", key, err)
	}
	if !found {
		return nil, nil
	}

	var state models.AssessmentState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		log.Printf("WARN: [AssessmentEngine] Malformed saved progress under key '%s', treating as absent: %v", key, err)
		return nil, nil
	}
	if state.Responses == nil {
		state.Responses = make([]models.ResponseRecord, 0)
	}

	e.state = &state
	log.Printf("INFO: [AssessmentEngine] Restored session for assessment '%s', user '%s' (question %d, %d responses).",
		e.config.ID, userID, state.CurrentQuestionIndex+1, len(state.Responses))
	return e.snapshotState(), nil
}

// ClearProgress deletes the session's progress slot.
func (e *AssessmentEngine) ClearProgress(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return ErrNotInitialized
	}
	if e.store == nil {
		return errors.New("progress store not configured")
	}
	return e.store.RemoveItem(ctx, progressKey(e.state.AssessmentID, e.state.UserID))
}

// snapshotState hands callers a copy. The live state is engine-private and has
// no external mutation path. Callers must hold the engine mutex.
func (e *AssessmentEngine) snapshotState() *models.AssessmentState {
	if e.state == nil {
		return nil
	}
	snapshot := *e.state
	snapshot.Responses = make([]models.ResponseRecord, len(e.state.Responses))
	copy(snapshot.Responses, e.state.Responses)
	return &snapshot
}

// State returns a copy of the current session state, or nil when
// uninitialized.
func (e *AssessmentEngine) State() *models.AssessmentState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotState()
}
