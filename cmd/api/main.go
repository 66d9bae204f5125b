// @title Lecture QA API
// @version 1.0
// @description Turns lecture slide decks into difficulty-balanced question sets and tracks student answers.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "lecture-qa/cmd/api/docs"
	"lecture-qa/internal/adapter"
	"lecture-qa/internal/adapter/embedding"
	"lecture-qa/internal/adapter/llm"
	"lecture-qa/internal/adapter/pptx"
	"lecture-qa/internal/cache"
	"lecture-qa/internal/config"
	"lecture-qa/internal/database"
	"lecture-qa/internal/domain"
	"lecture-qa/internal/extractor"
	"lecture-qa/internal/generator"
	"lecture-qa/internal/handler"
	"lecture-qa/internal/logger"
	"lecture-qa/internal/middleware"
	"lecture-qa/internal/repository"
	"lecture-qa/internal/service"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	backgroundTimeout = 30 * time.Second
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Background processing outlives requests; it is cancelled only when
	// the grace period at shutdown runs out.
	baseCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	startCtx, cancelStart := context.WithTimeout(baseCtx, 30*time.Second)
	defer cancelStart()

	db, err := database.NewSQLXOracleDB(startCtx, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(startCtx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("RedisCacheAdapter initialized")

	model, err := llm.NewQuestionModel(startCtx, cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create question model", zap.Error(err))
	}
	appLogger.Info("Question model initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	var embedder domain.EmbeddingService
	if cfg.Embedding.Enabled {
		svc, err := embedding.NewService(cfg.Embedding, cacheAdapter, cfg.Cache.EmbeddingTTL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create embedding service", zap.Error(err))
		}
		embedder = svc
		appLogger.Info("Embedding service initialized",
			zap.String("source", cfg.Embedding.Source),
			zap.Float64("duplicate_threshold", cfg.Embedding.DuplicateThreshold))
	}

	lectureRepository := repository.NewLectureDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	responseRepository := repository.NewResponseDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	slideExtractor := extractor.NewExtractor(
		pptx.NewReader(appLogger),
		extractor.HeuristicFor(cfg.Extractor.TitleReferenceEMU),
		appLogger,
	)
	orchestrator := generator.NewOrchestrator(model, appLogger, cfg.Generation.Concurrency)
	tracker := service.NewStatusTracker(cacheAdapter, cfg.Cache.StatusTTL, appLogger)

	lectureService := service.NewLectureService(
		baseCtx,
		lectureRepository,
		questionRepository,
		responseRepository,
		txManager,
		slideExtractor,
		orchestrator,
		service.NewDuplicateFilter(embedder, cfg.Embedding.DuplicateThreshold, appLogger),
		service.NewSlideCache(cacheAdapter, cfg.Cache.SlidesTTL, appLogger),
		tracker,
		cfg,
	)
	questionService := service.NewQuestionService(lectureRepository, questionRepository, responseRepository, txManager)
	analyticsService := service.NewAnalyticsService(lectureRepository, questionRepository, responseRepository)

	sweeper := service.NewSweeper(lectureRepository, tracker, cfg.Sweeper.ProcessingTimeout)
	if cfg.Sweeper.Enabled {
		if err := sweeper.Start(baseCtx, cfg.Sweeper.Schedule); err != nil {
			appLogger.Fatal("Failed to schedule stale processing sweep", zap.Error(err))
		}
		appLogger.Info("Stale processing sweeper scheduled", zap.String("schedule", cfg.Sweeper.Schedule))
	}

	validator := validation.NewValidator()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Lectures:  handler.NewLectureHandler(lectureService, validator),
		Questions: handler.NewQuestionHandler(questionService, validator),
		Analytics: handler.NewAnalyticsHandler(analyticsService, validator),
	}, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	sweeper.Stop()

	done := make(chan struct{})
	go func() {
		lectureService.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(backgroundTimeout):
		appLogger.Warn("Background processing did not finish in time, cancelling")
		cancelBackground()
		<-done
	}
	appLogger.Info("Server exited gracefully")
}
