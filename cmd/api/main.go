package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"admissions/internal/app"
	"admissions/internal/config"
	"admissions/internal/database"
	apphttp "admissions/internal/http"
	"admissions/internal/http/handlers"
	"admissions/internal/http/metrics"
	httpmw "admissions/internal/http/middleware"
	"admissions/internal/http/response"
	"admissions/internal/observability"
	"admissions/internal/repository/postgres"
	"admissions/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	store := postgres.NewStore(db)
	jwtProvider := security.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer)

	authService := app.NewAuthService(store, jwtProvider, logger, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := app.NewUserService(store, logger)
	applicantService := app.NewApplicantService(store, logger)
	specialtyService := app.NewSpecialtyService(store)
	examService := app.NewExamService(store)
	commentService := app.NewCommentService(store)
	auditLogService := app.NewAuditLogService(store)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter = httpmw.NewRedisLimiter(client)
		logger.Info("rate limiting backed by redis at " + cfg.RedisAddr)
	}

	authHandler := handlers.NewAuthHandler(authService, limiter)
	userHandler := handlers.NewUserHandler(userService)
	applicantHandler := handlers.NewApplicantHandler(applicantService)
	specialtyHandler := handlers.NewSpecialtyHandler(specialtyService)
	examHandler := handlers.NewExamHandler(examService)
	commentHandler := handlers.NewCommentHandler(commentService, limiter)
	auditLogHandler := handlers.NewAuditLogHandler(auditLogService)
	authMiddleware := httpmw.NewAuthMiddleware(jwtProvider, store.Users())

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ApplicantHandler: applicantHandler,
		SpecialtyHandler: specialtyHandler,
		ExamHandler:      examHandler,
		CommentHandler:   commentHandler,
		AuditLogHandler:  auditLogHandler,
		MetricsHandler:   handlers.NewMetricsHandler(collector),
		AuthMiddleware:   authMiddleware,
		Metrics:          collector,
		RequestTimeout:   cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
