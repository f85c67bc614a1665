package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/middleware"
	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studyhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studyhub-api/pkg/middleware/requestid"
)

// RouterConfig holds the HTTP surface options.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	// MaxUploadBytes bounds the in-memory part of multipart parsing.
	MaxUploadBytes int64
}

// Handlers groups every HTTP handler mounted by the router. Files is nil
// unless blobs are served from local disk.
type Handlers struct {
	Auth          *AuthHandler
	Browse        *BrowseHandler
	Categories    *CategoryHandler
	Departments   *DepartmentHandler
	Years         *YearHandler
	Semesters     *SemesterHandler
	Subjects      *SubjectHandler
	Materials     *MaterialHandler
	ExamSchedules *ExamScheduleHandler
	Timetables    *TimetableHandler
	Opinions      *OpinionHandler
	Hierarchy     *HierarchyHandler
	Dashboard     *DashboardHandler
	Files         *FileHandler
	Metrics       *MetricsHandler
}

// Guards are the middlewares protecting the admin API.
type Guards struct {
	Tokens   middleware.TokenValidator
	Audit    middleware.AuditWriter
	Observer middleware.RequestObserver
}

// NewRouter builds the gin engine with public and admin route groups.
func NewRouter(cfg RouterConfig, h Handlers, guards Guards, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(guards.Observer, "/metrics", "/health", "/ready"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if h.Files != nil {
		r.GET("/files/*key", h.Files.Serve)
	}

	api := r.Group(cfg.APIPrefix)

	api.GET("/categories", h.Browse.Categories)
	browse := api.Group("/browse")
	browse.GET("/categories/:id", h.Browse.Category)
	browse.GET("/departments/:id", h.Browse.Department)
	browse.GET("/years/:id", h.Browse.Year)
	browse.GET("/semesters/:id", h.Browse.Semester)
	browse.GET("/subjects/:id", h.Browse.Subject)
	browse.POST("/subjects/:id/opinions", h.Browse.SubmitOpinion)
	api.GET("/exam-schedules", h.ExamSchedules.List)
	api.GET("/timetables", h.Timetables.List)

	authGroup := api.Group("/admin/auth")
	authGroup.POST("/setup", h.Auth.Setup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)

	admin := api.Group("/admin", middleware.JWT(guards.Tokens), middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/auth/logout", h.Auth.Logout)
	admin.GET("/auth/me", h.Auth.Me)

	admin.GET("/dashboard", h.Dashboard.Counts)
	admin.GET("/export/materials", h.Dashboard.ExportMaterials)
	admin.GET("/hierarchy", h.Hierarchy.Options)

	mountCRUD(admin, "/categories", "category", guards, logr, crudRoutes{
		list: h.Categories.List, get: h.Categories.Get, create: h.Categories.Create, update: h.Categories.Update, remove: h.Categories.Delete,
	})
	mountCRUD(admin, "/departments", "department", guards, logr, crudRoutes{
		list: h.Departments.List, get: h.Departments.Get, create: h.Departments.Create, update: h.Departments.Update, remove: h.Departments.Delete,
	})
	mountCRUD(admin, "/years", "year", guards, logr, crudRoutes{
		list: h.Years.List, get: h.Years.Get, create: h.Years.Create, update: h.Years.Update, remove: h.Years.Delete,
	})
	mountCRUD(admin, "/semesters", "semester", guards, logr, crudRoutes{
		list: h.Semesters.List, get: h.Semesters.Get, create: h.Semesters.Create, update: h.Semesters.Update, remove: h.Semesters.Delete,
	})
	mountCRUD(admin, "/subjects", "subject", guards, logr, crudRoutes{
		list: h.Subjects.List, get: h.Subjects.Get, create: h.Subjects.Create, update: h.Subjects.Update, remove: h.Subjects.Delete,
	})
	mountCRUD(admin, "/materials", "material", guards, logr, crudRoutes{
		list: h.Materials.List, get: h.Materials.Get, create: h.Materials.Create, update: h.Materials.Update, remove: h.Materials.Delete,
	})
	mountCRUD(admin, "/exam-schedules", "exam_schedule", guards, logr, crudRoutes{
		list: h.ExamSchedules.List, get: h.ExamSchedules.Get, create: h.ExamSchedules.Create, remove: h.ExamSchedules.Delete,
	})
	mountCRUD(admin, "/timetables", "timetable", guards, logr, crudRoutes{
		list: h.Timetables.List, get: h.Timetables.Get, create: h.Timetables.Create, remove: h.Timetables.Delete,
	})
	mountCRUD(admin, "/opinions", "opinion", guards, logr, crudRoutes{
		list: h.Opinions.List, remove: h.Opinions.Delete,
	})

	return r
}

type crudRoutes struct {
	list, get, create, update, remove gin.HandlerFunc
}

// mountCRUD registers the non-nil routes of a resource and audits its mutations.
func mountCRUD(g *gin.RouterGroup, path, resource string, guards Guards, logr *zap.Logger, routes crudRoutes) {
	rg := g.Group(path)
	if routes.list != nil {
		rg.GET("", routes.list)
	}
	if routes.get != nil {
		rg.GET("/:id", routes.get)
	}
	if routes.create != nil {
		rg.POST("", middleware.Audit(guards.Audit, logr, models.AuditActionCreate, resource), routes.create)
	}
	if routes.update != nil {
		rg.PUT("/:id", middleware.Audit(guards.Audit, logr, models.AuditActionUpdate, resource), routes.update)
	}
	if routes.remove != nil {
		rg.DELETE("/:id", middleware.Audit(guards.Audit, logr, models.AuditActionDelete, resource), routes.remove)
	}
}
