package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"galaxykiro/models"
	"galaxykiro/repository"
	"galaxykiro/services"
	"galaxykiro/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	sessions         *services.SessionManager
	catalog          *services.AssessmentCatalog
	leadService      services.LeadService
	adaptiveService  services.AdaptiveService
	analyticsService services.AnalyticsService
	usageRepo        repository.UsageRepository
	resultRepo       repository.ResultRepository
	contentRepo      repository.ContentRepository
	leadRepo         repository.LeadRepository
	db               *gorm.DB
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	sessions *services.SessionManager,
	catalog *services.AssessmentCatalog,
	leadService services.LeadService,
	adaptiveService services.AdaptiveService,
	analyticsService services.AnalyticsService,
	usageRepo repository.UsageRepository,
	resultRepo repository.ResultRepository,
	contentRepo repository.ContentRepository,
	leadRepo repository.LeadRepository,
	db *gorm.DB,
) *APIHandler {
	return &APIHandler{
		sessions:         sessions,
		catalog:          catalog,
		leadService:      leadService,
		adaptiveService:  adaptiveService,
		analyticsService: analyticsService,
		usageRepo:        usageRepo,
		resultRepo:       resultRepo,
		contentRepo:      contentRepo,
		leadRepo:         leadRepo,
		db:               db,
	}
}

// InitHandler returns application bootstrap information: who the visitor is,
// their funnel level and their tool usage so far.
func (h *APIHandler) InitHandler(c *gin.Context) {
	userID := c.Query("userID")
	email := c.Query("email")

	userType := "guest"
	if userID == "" {
		userID = utils.GenerateGuestID()
		log.Printf("INFO: [InitHandler] No userID provided, generated new guest ID: %s", userID)
	}

	response := models.BootstrapResponse{
		UserType: userType,
		UserID:   userID,
	}

	if email != "" && h.leadService != nil {
		lead, err := h.leadService.GetLead(email)
		if err != nil {
			log.Printf("WARN: [InitHandler] Failed to look up lead for email '%s': %v. Treating as guest.", email, err)
		} else if lead != nil {
			response.UserType = "lead"
			response.CaptureLevel = lead.CaptureLevel
			response.IsSoftMember = lead.IsSoftMember
		}
	}

	if h.usageRepo != nil {
		usage, err := h.usageRepo.GetUsage(userID)
		if err != nil {
			log.Printf("WARN: [InitHandler] Failed to fetch usage for userID '%s': %v. Reporting zero usage.", userID, err)
		} else {
			response.AssessmentsStarted = usage.AssessmentsStarted
			response.AssessmentsCompleted = usage.AssessmentsCompleted
		}
	}

	c.JSON(http.StatusOK, response)
}

// ListAssessmentsHandler returns the catalog of available assessments.
func (h *APIHandler) ListAssessmentsHandler(c *gin.Context) {
	type assessmentSummary struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		QuestionCount int    `json:"question_count"`
	}
	configs := h.catalog.List()
	summaries := make([]assessmentSummary, 0, len(configs))
	for _, cfg := range configs {
		summaries = append(summaries, assessmentSummary{
			ID:            cfg.ID,
			Title:         cfg.Title,
			Description:   cfg.Description,
			QuestionCount: len(cfg.Questions),
		})
	}
	c.JSON(http.StatusOK, gin.H{"assessments": summaries})
}

type startAssessmentRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Resume bool   `json:"resume"`
}

// StartAssessmentHandler starts a session, optionally resuming saved progress.
// A resume request without saved progress silently starts fresh.
func (h *APIHandler) StartAssessmentHandler(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	var req startAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "user_id is required", err)
		return
	}

	engine, err := h.sessions.Engine(assessmentID, req.UserID)
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment not found.", err)
		return
	}

	resumed := false
	if req.Resume && engine.Config().ProgressSaving {
		state, loadErr := engine.LoadAssessmentState(c.Request.Context(), req.UserID)
		if loadErr != nil {
			log.Printf("WARN: [StartAssessmentHandler] Failed to load saved progress for assessment '%s', user '%s': %v. Starting fresh.", assessmentID, req.UserID, loadErr)
		} else if state != nil && !state.IsCompleted {
			resumed = true
		}
	}

	if !resumed {
		engine.InitializeAssessment(req.UserID)
		if h.usageRepo != nil {
			if _, err := h.usageRepo.IncrementStarted(req.UserID); err != nil {
				log.Printf("WARN: [StartAssessmentHandler] Failed to increment started counter for user '%s': %v", req.UserID, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"resumed":  resumed,
		"question": engine.GetCurrentQuestion(),
		"progress": engine.GetProgressSummary(),
	})
}

// CurrentQuestionHandler returns the question under the session cursor.
func (h *APIHandler) CurrentQuestionHandler(c *gin.Context) {
	engine, ok := h.activeEngine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": engine.GetCurrentQuestion(),
		"progress": engine.GetProgressSummary(),
	})
}

type navigateRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// NextQuestionHandler advances the cursor. A null question in the response
// means the session is already at the last question.
func (h *APIHandler) NextQuestionHandler(c *gin.Context) {
	engine, ok := h.activeEngineFromBody(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": engine.NextQuestion(),
		"progress": engine.GetProgressSummary(),
	})
}

// PreviousQuestionHandler moves the cursor back where the assessment allows it.
func (h *APIHandler) PreviousQuestionHandler(c *gin.Context) {
	engine, ok := h.activeEngineFromBody(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": engine.PreviousQuestion(),
		"progress": engine.GetProgressSummary(),
	})
}

type submitResponseRequest struct {
	UserID     string      `json:"user_id" binding:"required"`
	QuestionID string      `json:"question_id" binding:"required"`
	Answer     interface{} `json:"answer" binding:"required"`
	TimeSpent  int         `json:"time_spent"`
}

// SubmitResponseHandler records an answer and snapshots progress when the
// assessment has progress saving enabled.
func (h *APIHandler) SubmitResponseHandler(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "user_id, question_id and answer are required", err)
		return
	}

	engine, err := h.sessions.Engine(assessmentID, req.UserID)
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment not found.", err)
		return
	}

	if err := engine.SubmitResponse(req.QuestionID, req.Answer, req.TimeSpent); err != nil {
		h.sendEngineError(c, err)
		return
	}

	if engine.Config().ProgressSaving {
		if err := engine.SaveProgress(c.Request.Context()); err != nil {
			// The answer is recorded in memory; a failed snapshot only costs resumability.
			log.Printf("WARN: [SubmitResponseHandler] Failed to save progress for assessment '%s', user '%s': %v", assessmentID, req.UserID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":    engine.GetProgressSummary(),
		"is_complete": engine.IsComplete(),
	})
}

// ProgressHandler returns the session's progress summary.
func (h *APIHandler) ProgressHandler(c *gin.Context) {
	engine, ok := h.activeEngine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress":    engine.GetProgressSummary(),
		"is_complete": engine.IsComplete(),
	})
}

// CompleteAssessmentHandler finalizes the session, persists the versioned
// result, clears the progress slot and releases the engine.
func (h *APIHandler) CompleteAssessmentHandler(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "user_id is required", err)
		return
	}

	engine, err := h.sessions.Engine(assessmentID, req.UserID)
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment not found.", err)
		return
	}

	result, err := engine.CompleteAssessment(c.Request.Context())
	if err != nil {
		h.sendEngineError(c, err)
		return
	}

	attempts, err := h.resultRepo.CountAttempts(assessmentID, req.UserID)
	if err != nil {
		log.Printf("WARN: [CompleteAssessmentHandler] Failed to count attempts for assessment '%s', user '%s': %v. Defaulting attempt to 1.", assessmentID, req.UserID, err)
		attempts = 0
	}
	result.Attempt = attempts + 1

	if err := h.resultRepo.CreateResult(result); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	if h.usageRepo != nil {
		if _, err := h.usageRepo.IncrementCompleted(req.UserID); err != nil {
			log.Printf("WARN: [CompleteAssessmentHandler] Failed to increment completed counter for user '%s': %v", req.UserID, err)
		}
	}

	if engine.Config().ProgressSaving {
		if err := engine.ClearProgress(c.Request.Context()); err != nil {
			log.Printf("WARN: [CompleteAssessmentHandler] Failed to clear progress for assessment '%s', user '%s': %v", assessmentID, req.UserID, err)
		}
	}
	h.sessions.Drop(assessmentID, req.UserID)

	c.JSON(http.StatusOK, result)
}

// LatestResultHandler returns the most recent completed result for the pair.
func (h *APIHandler) LatestResultHandler(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	userID := c.Query("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userID query parameter is required", nil)
		return
	}

	result, err := h.resultRepo.GetLatestResult(assessmentID, userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	if result == nil {
		utils.SendJSONError(c, http.StatusNotFound, "No completed result for this assessment.", nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PacingHandler returns an adaptive pacing recommendation for an engagement
// snapshot supplied by the frontend.
func (h *APIHandler) PacingHandler(c *gin.Context) {
	var metrics services.EngagementMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid engagement metrics payload", err)
		return
	}
	c.JSON(http.StatusOK, h.adaptiveService.Recommend(metrics))
}

type captureLeadRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Source string `json:"source"`
}

// CaptureLeadHandler records a level-1 lead (email only).
func (h *APIHandler) CaptureLeadHandler(c *gin.Context) {
	var req captureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "a valid email is required", err)
		return
	}
	lead, err := h.leadService.CaptureEmail(req.Email, req.Source)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type addPhoneRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// AddPhoneHandler upgrades a lead to capture level 2.
func (h *APIHandler) AddPhoneHandler(c *gin.Context) {
	var req addPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "email and phone are required", err)
		return
	}
	lead, err := h.leadService.AddPhone(req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Capture your email first.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type completeProfileRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Goal     string `json:"goal"`
}

// CompleteProfileHandler upgrades a lead to capture level 3 (soft membership).
func (h *APIHandler) CompleteProfileHandler(c *gin.Context) {
	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "email and full_name are required", err)
		return
	}
	lead, err := h.leadService.CompleteProfile(req.Email, req.FullName, req.Goal)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Capture your email first.", err)
			return
		}
		if errors.Is(err, services.ErrPhoneRequired) {
			utils.SendJSONError(c, http.StatusConflict, "Add your phone number before completing the profile.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ListContentHandler lists library articles. Members-only articles are
// included only for soft members, identified by their lead email.
func (h *APIHandler) ListContentHandler(c *gin.Context) {
	category := c.Query("category")
	includeMembersOnly := h.isSoftMember(c.Query("email"))

	articles, err := h.contentRepo.ListArticles(category, includeMembersOnly)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetContentHandler returns one article, enforcing the members-only gate.
func (h *APIHandler) GetContentHandler(c *gin.Context) {
	slug := c.Param("slug")
	article, err := h.contentRepo.GetArticleBySlug(slug)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	if article == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Article not found.", nil)
		return
	}
	if article.MembersOnly && !h.isSoftMember(c.Query("email")) {
		utils.SendJSONError(c, http.StatusForbidden, "This article is reserved for members. Complete your profile to unlock it.", nil)
		return
	}
	c.JSON(http.StatusOK, article)
}

// EngagementReportHandler returns the admin engagement report.
func (h *APIHandler) EngagementReportHandler(c *gin.Context) {
	period := c.DefaultQuery("period", "last_7_days")
	referenceDate := c.Query("reference_date")

	report, err := h.analyticsService.GenerateEngagementReport(period, referenceDate)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// FunnelHandler returns lead counts per capture level for the admin dashboard.
func (h *APIHandler) FunnelHandler(c *gin.Context) {
	counts, err := h.leadRepo.CountByCaptureLevel()
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"level_1": counts[models.CaptureLevelEmail],
		"level_2": counts[models.CaptureLevelPhone],
		"level_3": counts[models.CaptureLevelProfile],
	})
}

// activeEngine resolves the engine for GET-style requests carrying userID as a
// query parameter. Writes the error response itself when resolution fails.
func (h *APIHandler) activeEngine(c *gin.Context) (*services.AssessmentEngine, bool) {
	assessmentID := c.Param("assessmentID")
	userID := c.Query("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userID query parameter is required", nil)
		return nil, false
	}
	engine, err := h.sessions.Engine(assessmentID, userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment not found.", err)
		return nil, false
	}
	if engine.State() == nil {
		utils.SendJSONError(c, http.StatusConflict, "No active session. Start the assessment first.", nil)
		return nil, false
	}
	return engine, true
}

// activeEngineFromBody is the POST counterpart of activeEngine.
func (h *APIHandler) activeEngineFromBody(c *gin.Context) (*services.AssessmentEngine, bool) {
	assessmentID := c.Param("assessmentID")
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "user_id is required", err)
		return nil, false
	}
	engine, err := h.sessions.Engine(assessmentID, req.UserID)
	if err != nil {
		utils.SendJSONError(c, http.StatusNotFound, "Assessment not found.", err)
		return nil, false
	}
	if engine.State() == nil {
		utils.SendJSONError(c, http.StatusConflict, "No active session. Start the assessment first.", nil)
		return nil, false
	}
	return engine, true
}

// sendEngineError maps engine sentinel errors onto HTTP statuses.
func (h *APIHandler) sendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotInitialized):
		utils.SendJSONError(c, http.StatusConflict, "No active session. Start the assessment first.", err)
	case errors.Is(err, services.ErrSessionCompleted):
		utils.SendJSONError(c, http.StatusConflict, "This session is already completed. Start a new attempt.", err)
	case errors.Is(err, services.ErrNotComplete):
		utils.SendJSONError(c, http.StatusConflict, "Answer all required questions before completing.", err)
	case errors.Is(err, services.ErrUnknownQuestion):
		utils.SendJSONError(c, http.StatusBadRequest, "Unknown question for this assessment.", err)
	case errors.Is(err, services.ErrAnswerOutOfRange):
		utils.SendJSONError(c, http.StatusBadRequest, "Answer is outside the question's allowed range.", err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
	}
}

// isSoftMember resolves whether an email belongs to a soft member. Unknown or
// missing emails are simply not members; lookup failures deny access rather
// than leak members-only content.
func (h *APIHandler) isSoftMember(email string) bool {
	if email == "" || h.leadService == nil {
		return false
	}
	email = strings.TrimSpace(email)
	lead, err := h.leadService.GetLead(email)
	if err != nil {
		log.Printf("WARN: [ContentHandler] Failed to resolve membership for email '%s': %v", email, err)
		return false
	}
	return lead != nil && lead.IsSoftMember
}
