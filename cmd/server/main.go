package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "github.com/tamralc/publora/configs"
	"github.com/tamralc/publora/internal/api/handlers"
	job "github.com/tamralc/publora/internal/jobs"
	"github.com/tamralc/publora/internal/repository"
	"github.com/tamralc/publora/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewScheduledPostRepository(db)
	accountRepo := repository.NewPlatformAccountRepository(db)
	historyRepo := repository.NewPublishHistoryRepository(db)

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to create object storage client: %v", err)
	}
	mediaService := service.NewMediaService(*cfg, r2Service)
	credentialService := service.NewCredentialService(*cfg, accountRepo)
	facebookService := service.NewFacebookService(*cfg)
	instagramService := service.NewInstagramService(*cfg)
	publisherService := service.NewPublisherService(postRepo, historyRepo, credentialService, mediaService, facebookService, instagramService)
	postService := service.NewPostService(postRepo)
	accountService := service.NewAccountService(accountRepo)

	publishJob := job.NewPublishDueJob(postRepo, publisherService, cfg.BatchSize)

	post := handlers.NewPostHandler(postService)
	app.Post("/api/posts", post.CreatePost)
	app.Get("/api/posts", post.ListPosts)

	account := handlers.NewAccountHandler(accountService)
	app.Get("/api/accounts", account.ListAccounts)
	app.Post("/api/accounts/remove", account.RemoveAccount)

	scheduler := handlers.NewSchedulerHandler(publishJob)
	app.Post("/api/scheduler/run", scheduler.RunScheduler)

	c := cron.New()
	c.AddFunc(cfg.SchedulerSpec, publishJob.Run)
	c.Start()
	defer c.Stop()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
