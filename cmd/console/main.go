package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/call-insight/docs"
	pkgvalidator "github.com/johnquangdev/call-insight/pkg/validator"

	"github.com/johnquangdev/call-insight/internal/adapter/handler"
	"github.com/johnquangdev/call-insight/internal/adapter/repository"
	"github.com/johnquangdev/call-insight/internal/infrastructure/cache"
	"github.com/johnquangdev/call-insight/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/call-insight/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/call-insight/internal/infrastructure/storage"
	"github.com/johnquangdev/call-insight/internal/usecase/batch"
	"github.com/johnquangdev/call-insight/internal/usecase/eligibility"
	"github.com/johnquangdev/call-insight/internal/usecase/evaluation"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
	"github.com/johnquangdev/call-insight/pkg/config"
	"github.com/johnquangdev/call-insight/pkg/jwt"
	"github.com/johnquangdev/call-insight/pkg/llm"
)

// @title           Call Insight API
// @version         1.0
// @description     Review console API: loads call transcripts, classifies and evaluates sales calls and writes the evaluation back.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Root context for background work: janitor and batches
	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	engines, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer engines.Close()

	// Production deployments manage the schema with cmd/migrate
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or run cmd/migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(engines.Write); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use cmd/migrate in CI/CD/production")
	}

	log.Println("⚙️  Initializing repositories...")
	transcriptRepo := repository.NewTranscriptRepository(engines.Read, engines.Write, logger)

	// Eligibility classifier
	log.Println("🔎 Loading eligibility lexicon...")
	classifier, err := newClassifier(cfg.Evaluation.LexiconPath)
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	log.Printf("✅ Lexicon loaded (%s)", classifier.Locale())

	// LLM adapter. A missing key is not fatal: heuristic verdicts still work
	// and LLM-bound evaluations report a configuration error.
	log.Println("🤖 Initializing LLM adapter...")
	var completer evaluation.Completer
	adapter, err := llm.NewAdapter(cfg.LLM, logger)
	if err != nil {
		log.Printf("⚠️  LLM disabled: %v", err)
	} else {
		completer = adapter
		log.Printf("✅ LLM provider %s, model %s", adapter.ProviderName(), adapter.ModelID())
	}

	// Context document
	log.Println("📄 Loading context document...")
	var objects storage.TextReader
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinIOClient(appCtx, &cfg.Storage)
		if err != nil {
			log.Printf("⚠️  Object storage unavailable: %v", err)
		} else {
			objects = minioClient
		}
	}
	contextDoc, err := storage.LoadContextDocument(appCtx, storage.DocumentSource{
		Object: cfg.Evaluation.ContextDocumentObject,
		Path:   cfg.Evaluation.ContextDocumentPath,
	}, objects, logger)
	if err != nil && !errors.Is(err, storage.ErrDocumentNotFound) {
		log.Fatalf("Failed to load context document: %v", err)
	}

	engine := evaluation.NewEngine(classifier, completer, evaluation.Options{
		ClassifyMaxTokens:   cfg.LLM.ClassifyMaxTokens,
		ClassifyTemperature: cfg.LLM.Temperature,
		EvalMaxTokens:       cfg.LLM.MaxTokens,
		EvalTemperature:     cfg.LLM.EvalTemperature,
		ContextDocument:     contextDoc,
	}, logger)
	if engine.UsesGenericPrompt() {
		log.Println("⚠️  No context document, evaluations use the generic SPIN prompt")
	}

	// View cache
	log.Println("📦 Initializing view cache...")
	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()
	views := cache.NewViewCache(store, cfg.Evaluation.ViewCacheTTL, logger)

	// Review sessions
	log.Println("🗂️  Initializing review sessions...")
	sessions := review.NewRegistry(cfg.Evaluation.SessionTTL, cfg.Evaluation.DefaultPageSize, logger)
	sessions.StartJanitor(appCtx, time.Minute)
	reviewService := review.NewService(transcriptRepo, classifier.IsEvaluable, views, sessions, logger)

	// Batch runner
	runner := batch.NewRunner(engine, transcriptRepo, reviewService, cfg.Evaluation.BatchPacing, cfg.Evaluation.RecordTimeout, logger)
	batches := batch.NewManager(appCtx, runner, logger)
	sessions.OnEvict(batches.Forget)

	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg,
		handler.NewSessionHandler(jwtManager, sessions, logger),
		handler.NewReviewHandler(reviewService, batches, logger),
		handler.NewEvaluationHandler(engine, logger),
		handler.NewMetricsHandler(reviewService, logger),
		sessions,
		httpmw.EchoAuth(jwtManager),
		logger,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	// Running batches record the remaining items as interrupted
	stop()
	batches.Wait()

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newClassifier(lexiconPath string) (*eligibility.Classifier, error) {
	if lexiconPath == "" {
		return eligibility.NewDefault()
	}
	lex, err := eligibility.LoadLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	return eligibility.New(lex)
}

func newStore(cfg *config.Config) (cache.Store, error) {
	if !cfg.Redis.Enabled {
		log.Println("📦 Using in-memory view cache")
		return cache.NewMemoryStore(), nil
	}
	log.Println("📦 Connecting to Redis...")
	return cache.NewRedisStore(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
}
