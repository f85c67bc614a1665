package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/studyhub-api/api/swagger"
	"github.com/noah-isme/studyhub-api/internal/handler"
	"github.com/noah-isme/studyhub-api/internal/repository"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/cache"
	"github.com/noah-isme/studyhub-api/pkg/config"
	"github.com/noah-isme/studyhub-api/pkg/database"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
	"github.com/noah-isme/studyhub-api/pkg/logger"
	"github.com/noah-isme/studyhub-api/pkg/storage"
)

// @title College Study Hub API
// @version 1.0.0
// @description Public study material browsing and admin content management
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("browse cache disabled, redis unavailable", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logr.Fatal("failed to init storage", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}

	queue := jobs.NewQueue("blob-cleanup", jobs.QueueConfig{
		Workers:    cfg.Cleanup.Workers,
		MaxRetries: cfg.Cleanup.Retries,
		RetryDelay: cfg.Cleanup.RetryDelay,
		Logger:     logr,
	})
	queue.Register(service.BlobDeleteJob, service.NewBlobDeleteHandler(store, metrics, logr))
	queue.Start(ctx)
	defer queue.Stop()

	adminRepo := repository.NewAdminRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	yearRepo := repository.NewYearRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	examRepo := repository.NewExamScheduleRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	opinionRepo := repository.NewOpinionRepository(db)
	lineageRepo := repository.NewLineageRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	storageKeys := repository.NewStorageKeyRepository(db)

	uploader := service.NewUploader(store, service.UploadPolicy{
		MaxSize:      cfg.Storage.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Storage.AllowedMIMEs,
	}, metrics, logr)
	blobs := service.NewBlobCleaner(queue, storageKeys, logr)

	authSvc := service.NewAuthService(adminRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	if created, err := authSvc.Bootstrap(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		logr.Fatal("failed to bootstrap admin", zap.Error(err))
	} else if created {
		logr.Info("bootstrap admin created", zap.String("email", cfg.Admin.Email))
	}

	categorySvc := service.NewCategoryService(categoryRepo, cacheSvc, blobs, nil, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, cacheSvc, blobs, nil, logr)
	yearSvc := service.NewYearService(yearRepo, cacheSvc, blobs, nil, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, cacheSvc, blobs, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, lineageRepo, cacheSvc, blobs, nil, logr)
	materialSvc := service.NewMaterialService(materialRepo, lineageRepo, uploader, blobs, cacheSvc, nil, logr)
	examSvc := service.NewExamScheduleService(examRepo, lineageRepo, uploader, blobs, nil, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, lineageRepo, uploader, blobs, nil, logr)
	opinionSvc := service.NewOpinionService(opinionRepo, lineageRepo, cacheSvc, nil, logr)
	browseSvc := service.NewBrowseService(service.BrowseRepositories{
		Categories:  categoryRepo,
		Departments: departmentRepo,
		Years:       yearRepo,
		Semesters:   semesterRepo,
		Subjects:    subjectRepo,
		Materials:   materialRepo,
		Opinions:    opinionRepo,
		Lineage:     lineageRepo,
	}, cacheSvc, logr)
	hierarchySvc := service.NewHierarchyService(service.HierarchyRepositories{
		Categories:  categoryRepo,
		Departments: departmentRepo,
		Years:       yearRepo,
		Semesters:   semesterRepo,
		Subjects:    subjectRepo,
	}, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, logr)
	exportSvc := service.NewExportService(materialRepo, logr)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Browse:        handler.NewBrowseHandler(browseSvc, opinionSvc),
		Categories:    handler.NewCategoryHandler(categorySvc),
		Departments:   handler.NewDepartmentHandler(departmentSvc),
		Years:         handler.NewYearHandler(yearSvc),
		Semesters:     handler.NewSemesterHandler(semesterSvc),
		Subjects:      handler.NewSubjectHandler(subjectSvc),
		Materials:     handler.NewMaterialHandler(materialSvc),
		ExamSchedules: handler.NewExamScheduleHandler(examSvc),
		Timetables:    handler.NewTimetableHandler(timetableSvc),
		Opinions:      handler.NewOpinionHandler(opinionSvc),
		Hierarchy:     handler.NewHierarchyHandler(hierarchySvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc, exportSvc),
		Metrics:       handler.NewMetricsHandler(metrics, db),
	}
	if cfg.Storage.Driver == config.StorageDriverLocal {
		handlers.Files = handler.NewFileHandler(store, logr)
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		MaxUploadBytes: cfg.Storage.MaxFileSizeBytes,
	}, handlers, handler.Guards{
		Tokens:   authSvc,
		Audit:    adminRepo,
		Observer: metrics,
	}, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
