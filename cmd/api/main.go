package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-maker/internal/config"
	"alfredoptarigan/resume-maker/internal/handlers"
	"alfredoptarigan/resume-maker/internal/repositories"
	"alfredoptarigan/resume-maker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database (optional upload history)
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	var uploadRepo repositories.UploadRepository
	if db != nil {
		uploadRepo = repositories.NewUploadRepository(db)
		log.Println("✅ Repositories initialized successfully")
	}

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.OutputPath)
	if err := storageService.EnsureOutputDir(); err != nil {
		log.Fatalf("❌ Failed to create output directory: %v", err)
	}

	ingestor := services.NewSkillMatrixIngestor()
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize LLM client
	llm, err := services.NewChatCompleter(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM client: %v", err)
	}
	log.Printf("✅ LLM client initialized (%s, %s)\n", cfg.LLM.Provider, cfg.LLM.Model)

	// Initialize generation pipeline
	reformatter := services.NewResumeReformatter(llm)
	coverLetters := services.NewCoverLetterGenerator(llm)
	renderer := services.NewPDFRenderer(coverLetters, storageService, cfg.Storage.FontDir, cfg.Storage.LogoPath)
	generator := services.NewResumeGenerator(reformatter, renderer)
	log.Println("✅ Resume generator initialized")

	// Initialize worker
	worker := services.NewWorker(
		generator,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.JobTimeout,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)

	// Sessions
	sessions := services.NewSessionStore(cfg.Session.TTL)
	go sessions.RunJanitor(ctx, cfg.Session.SweepInterval)

	// Initialize Handlers
	h := handlers.Handlers{
		SkillMatrix:   handlers.NewSkillMatrixHandler(ingestor, uploadRepo, cfg.Storage.MaxFileSize),
		Resume:        handlers.NewResumeHandler(pdfParser, worker, cfg.Storage.MaxFileSize),
		Progress:      handlers.NewProgressHandler(storageService),
		UploadHistory: handlers.NewUploadHistoryHandler(uploadRepo),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Maker",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + handlers.SessionHeader,
		ExposeHeaders: handlers.SessionHeader,
	}))

	handlers.RegisterRoutes(app, sessions, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 Open http://localhost%s in a browser to start\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
