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

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/auth"
	"CareSync/healthcare-backend/internal/category"
	"CareSync/healthcare-backend/internal/config"
	"CareSync/healthcare-backend/internal/cors"
	"CareSync/healthcare-backend/internal/jwt"
	"CareSync/healthcare-backend/internal/onboarding/answer"
	"CareSync/healthcare-backend/internal/onboarding/question"
	"CareSync/healthcare-backend/internal/onboarding/questionnaire"
	"CareSync/healthcare-backend/internal/onboarding/submit"
	"CareSync/healthcare-backend/internal/rating"
	"CareSync/healthcare-backend/internal/trace"
	"CareSync/healthcare-backend/internal/user"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "healthcare-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrDatabaseURLRequired) {
			title := "Database URL is required"
			message := "Please set the DATABASE_URL environment variable or provide a config file with the database_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Dev {
		logger.Warn("Running in development mode, make sure to disable it in production")
	}

	if cfg.Secret == config.DefaultSecret && !cfg.Debug {
		logger.Warn("Default secret detected in production environment, replace it with a secure random string")
		cfg.Secret = uuid.New().String()
	}

	logger.Info("Starting application...")

	logger.Info("Starting database migration...")

	err = databaseutil.MigrationUp(cfg.MigrationSource, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to run database migration", zap.Error(err))
	}

	dbPool, err := initDatabasePool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	// ============================================
	// Service
	// ============================================

	userService := user.NewService(logger, dbPool)
	jwtService := jwt.NewService(logger, dbPool, cfg.Secret, cfg.AccessTokenExpiration, cfg.RefreshTokenExpiration)
	questionnaireService := questionnaire.NewService(logger, dbPool)
	questionService := question.NewService(logger, dbPool, questionnaireService)
	answerService := answer.NewService(logger, dbPool)
	submitService := submit.NewService(logger, questionnaireService, questionService, answerService, userService)
	categoryService := category.NewService(logger, dbPool)
	ratingService := rating.NewService(logger, dbPool, userService)

	// ============================================
	// Handler
	// ============================================

	authHandler := auth.NewHandler(logger, validator, problemWriter, userService, jwtService)
	userHandler := user.NewHandler(logger, problemWriter)
	questionnaireHandler := questionnaire.NewHandler(logger, validator, problemWriter, questionnaireService)
	questionHandler := question.NewHandler(logger, validator, problemWriter, questionService)
	answerHandler := answer.NewHandler(logger, problemWriter, answerService, questionnaireService)
	submitHandler := submit.NewHandler(logger, validator, problemWriter, submitService)
	categoryHandler := category.NewHandler(logger, validator, problemWriter, categoryService)
	ratingHandler := rating.NewHandler(logger, validator, problemWriter, ratingService)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)
	jwtMiddleware := jwt.NewMiddleware(logger, validator, problemWriter, jwtService)

	// Basic Middleware (Tracing and Recovery)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	// Auth Middleware
	authMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	authMiddleware = authMiddleware.Append(traceMiddleware.TraceMiddleware)
	authMiddleware = authMiddleware.Append(jwtMiddleware.AuthenticateMiddleware)

	// HTTP Server
	mux := http.NewServeMux()

	// Health check route
	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// ============================================
	// Authentication routes
	// ============================================

	mux.Handle("POST /api/auth/register", basicMiddleware.HandlerFunc(authHandler.RegisterHandler))
	mux.Handle("POST /api/auth/login", basicMiddleware.HandlerFunc(authHandler.LoginHandler))
	mux.Handle("POST /api/auth/refresh", basicMiddleware.HandlerFunc(authHandler.RefreshTokenHandler))
	mux.Handle("POST /api/auth/logout", basicMiddleware.HandlerFunc(authHandler.LogoutHandler))

	mux.Handle("GET /api/users/me", authMiddleware.HandlerFunc(userHandler.GetMeHandler))

	// ============================================
	// Questionnaire routes
	// ============================================

	// Questionnaire Management
	// ----------------------
	mux.Handle("GET /api/questionnaires", authMiddleware.HandlerFunc(questionnaireHandler.ListHandler))
	mux.Handle("GET /api/questionnaires/latest", authMiddleware.HandlerFunc(questionnaireHandler.GetLatestHandler))
	mux.Handle("GET /api/questionnaires/{questionnaireId}", authMiddleware.HandlerFunc(questionnaireHandler.GetHandler))
	mux.Handle("POST /api/questionnaires", authMiddleware.HandlerFunc(questionnaireHandler.CreateHandler))
	mux.Handle("PUT /api/questionnaires/{questionnaireId}", authMiddleware.HandlerFunc(questionnaireHandler.UpdateHandler))
	mux.Handle("DELETE /api/questionnaires/{questionnaireId}", authMiddleware.HandlerFunc(questionnaireHandler.DeleteHandler))

	// Question Management
	// ----------------------
	mux.Handle("GET /api/questionnaires/{questionnaireId}/questions", authMiddleware.HandlerFunc(questionHandler.ListHandler))
	mux.Handle("POST /api/questionnaires/{questionnaireId}/questions", authMiddleware.HandlerFunc(questionHandler.CreateHandler))
	mux.Handle("POST /api/questions/bulk", authMiddleware.HandlerFunc(questionHandler.BulkCreateHandler))
	mux.Handle("PUT /api/questions/{questionId}", authMiddleware.HandlerFunc(questionHandler.UpdateHandler))
	mux.Handle("DELETE /api/questions/{questionId}", authMiddleware.HandlerFunc(questionHandler.DeleteHandler))

	// ============================================
	// Onboarding routes
	// ============================================

	mux.Handle("POST /api/onboarding/submit", authMiddleware.HandlerFunc(submitHandler.SubmitHandler))
	mux.Handle("GET /api/onboarding/answers/{userId}/{questionnaireId}", authMiddleware.HandlerFunc(submitHandler.GetUserAnswersHandler))
	mux.Handle("GET /api/questionnaires/{questionnaireId}/answers/export", authMiddleware.HandlerFunc(answerHandler.ExportHandler))

	// ============================================
	// Physician routes
	// ============================================

	// Category Management
	// ----------------------
	mux.Handle("GET /api/categories", basicMiddleware.HandlerFunc(categoryHandler.ListHandler))
	mux.Handle("GET /api/categories/{categoryId}", basicMiddleware.HandlerFunc(categoryHandler.GetHandler))
	mux.Handle("POST /api/categories", authMiddleware.HandlerFunc(categoryHandler.CreateHandler))
	mux.Handle("PUT /api/categories/{categoryId}", authMiddleware.HandlerFunc(categoryHandler.UpdateHandler))
	mux.Handle("DELETE /api/categories/{categoryId}", authMiddleware.HandlerFunc(categoryHandler.DeleteHandler))

	// Rating Management
	// ----------------------
	mux.Handle("POST /api/ratings", authMiddleware.HandlerFunc(ratingHandler.RateHandler))
	mux.Handle("GET /api/physicians/{physicianId}/ratings", basicMiddleware.HandlerFunc(ratingHandler.ListHandler))
	mux.Handle("GET /api/physicians/{physicianId}/ratings/summary", basicMiddleware.HandlerFunc(ratingHandler.GetSummaryHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initDatabasePool(databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return dbPool, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("caresync")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
