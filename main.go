package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/controllers"
	"github.com/Govind-619/Bookstore/routes"
	"github.com/Govind-619/Bookstore/services"
	"github.com/Govind-619/Bookstore/templates"
	"github.com/Govind-619/Bookstore/utils"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	utils.SetJWTSecret(cfg.JWTSecret)
	if err := utils.RegisterValidators(); err != nil {
		utils.LogError("Failed to register validators: %v", err)
		log.Fatal("Failed to register validators:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		log.Fatal("Failed to initialize database:", err)
	}

	// Create sample admin
	if err := controllers.CreateSampleAdmin(cfg); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Create default categories if missing
	if err := controllers.CreateDefaultCategories(); err != nil {
		utils.LogError("Failed to create default categories: %v", err)
		log.Fatal("Failed to create default categories:", err)
	}

	var mailer services.Mailer = utils.LogMailer{}
	if cfg.MailMode == "smtp" {
		mailer = utils.NewSMTPMailer(utils.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	renderer := templates.MustNew()

	jobs := services.NewJobs(db, mailer, renderer, services.JobsConfig{
		UnconfirmedUserTTL: cfg.UnconfirmedUserTTL,
		NewsletterMinAge:   cfg.NewsletterMinAge,
		ReportsDir:         cfg.ReportsDir,
		BaseURL:            cfg.BaseURL,
	})
	controllers.Init(controllers.Dependencies{
		Config:     cfg,
		Views:      services.NewViewTracker(services.NewGormViewStore(db)),
		Promotions: services.NewPromotionNotifier(services.NewGormAudienceStore(db), mailer, renderer, nil),
		Jobs:       jobs,
		Mailer:     mailer,
		Renderer:   renderer,
	})

	scheduler, err := services.NewScheduler(jobs, cfg.JobSchedules())
	if err != nil {
		utils.LogError("Failed to schedule jobs: %v", err)
		log.Fatal("Failed to schedule jobs:", err)
	}
	scheduler.Start()

	// Set up router
	router := routes.SetupRouter(cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	scheduler.Stop(shutdownCtx)
}
