package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"galaxykiro/api"
	"galaxykiro/config"
	"galaxykiro/database"
	"galaxykiro/middleware"
	"galaxykiro/models"
	"galaxykiro/repository"
	"galaxykiro/services"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Progress snapshots live in Redis when an address is configured,
	// otherwise in process memory.
	var progressStore repository.ProgressStore
	if config.AppConfig.Redis.Addr != "" {
		progressStore = repository.NewRedisProgressStore(
			config.AppConfig.Redis.Addr,
			config.AppConfig.Redis.Password,
			config.AppConfig.Redis.DB,
		)
		log.Printf("INFO: [Main] Using Redis progress store at %s", config.AppConfig.Redis.Addr)
	} else {
		progressStore = repository.NewMemoryProgressStore()
		log.Println("INFO: [Main] Using in-memory progress store.")
	}

	// Initialize Repositories
	leadRepo := repository.NewLeadRepository(db)
	resultRepo := repository.NewResultRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	contentRepo := repository.NewContentRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Build the assessment catalog and fail fast if any definition is invalid.
	catalog, err := services.NewAssessmentCatalog()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to build assessment catalog: %v", err)
	}

	// Initialize Services
	sessions := services.NewSessionManager(catalog, progressStore)
	leadService := services.NewLeadService(leadRepo)
	adaptiveService := services.NewAdaptiveService()
	analyticsService := services.NewAnalyticsService(resultRepo, usageRepo)
	log.Println("INFO: [Main] Services initialized.")

	seedContentLibrary(contentRepo)

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(
		sessions,
		catalog,
		leadService,
		adaptiveService,
		analyticsService,
		usageRepo,
		resultRepo,
		contentRepo,
		leadRepo,
		db,
	)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.Lead{},
		&models.ToolUsage{},
		&models.ContentArticle{},
		&models.AssessmentResult{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

// seedContentLibrary inserts a starter set of articles on an empty library so
// the content endpoints have something to serve out of the box.
func seedContentLibrary(contentRepo repository.ContentRepository) {
	existing, err := contentRepo.ListArticles("", true)
	if err != nil {
		log.Printf("WARN: [Main] Could not check content library, skipping seed: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	seeds := []*models.ContentArticle{
		{
			Title:       "Untapped: Why Most Potential Stays Hidden",
			Slug:        "untapped-potential",
			Content:     "Most people operate at a fraction of their capacity, not for lack of talent but for lack of a mirror. This piece walks through the habits that keep potential invisible and the first steps to surface it.",
			Category:    "potential",
			Tags:        "potential,habits,self-awareness",
			MembersOnly: false,
		},
		{
			Title:       "The Decision Audit",
			Slug:        "decision-audit",
			Content:     "A practical worksheet for reviewing the last ten significant decisions you made, scoring each for speed, information quality and outcome.",
			Category:    "decision-making",
			Tags:        "decisions,worksheet",
			MembersOnly: false,
		},
		{
			Title:       "The 90-Day Leadership Sprint",
			Slug:        "leadership-sprint",
			Content:     "A structured 90-day program for building leadership discipline, with weekly checkpoints tied to vision, discipline and influence.",
			Category:    "leadership",
			Tags:        "leadership,program",
			MembersOnly: true,
		},
	}
	for _, article := range seeds {
		if err := contentRepo.CreateArticle(article); err != nil {
			log.Printf("WARN: [Main] Failed to seed article '%s': %v", article.Slug, err)
		}
	}
	log.Printf("INFO: [Main] Seeded %d content articles.", len(seeds))
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	// API route group
	apiGroup := r.Group("/api")
	{
		// Initialization endpoint
		apiGroup.GET("/init", handler.InitHandler)

		// Adaptive pacing endpoint
		apiGroup.POST("/pacing", handler.PacingHandler)

		// Assessment session endpoints
		apiGroup.GET("/assessments", handler.ListAssessmentsHandler)
		assessmentGroup := apiGroup.Group("/assessments/:assessmentID")
		{
			assessmentGroup.POST("/start", handler.StartAssessmentHandler)
			assessmentGroup.GET("/question", handler.CurrentQuestionHandler)
			assessmentGroup.POST("/next", handler.NextQuestionHandler)
			assessmentGroup.POST("/previous", handler.PreviousQuestionHandler)
			assessmentGroup.POST("/responses", handler.SubmitResponseHandler)
			assessmentGroup.GET("/progress", handler.ProgressHandler)
			assessmentGroup.POST("/complete", handler.CompleteAssessmentHandler)
			assessmentGroup.GET("/result", handler.LatestResultHandler)
		}

		// Lead funnel endpoints
		leadGroup := apiGroup.Group("/leads")
		{
			leadGroup.POST("", handler.CaptureLeadHandler)
			leadGroup.POST("/phone", handler.AddPhoneHandler)
			leadGroup.POST("/profile", handler.CompleteProfileHandler)
		}

		// Content library endpoints
		apiGroup.GET("/content", handler.ListContentHandler)
		apiGroup.GET("/content/:slug", handler.GetContentHandler)

		// Admin endpoints behind token auth
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AdminAuth(config.AppConfig.Admin.Token))
		{
			adminGroup.GET("/engagement", handler.EngagementReportHandler)
			adminGroup.GET("/funnel", handler.FunnelHandler)
		}
	}
}
