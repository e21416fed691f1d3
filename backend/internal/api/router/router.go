package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/api/handler"
	"seguimientos/backend/internal/api/middleware"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/jwt"
)

// Deps are the optional infrastructure pieces behind the middleware. Nil
// fields disable the feature they back.
type Deps struct {
	Blacklist service.TokenBlacklist
	Limiter   middleware.RateLimiter
	// Ping reports database health on /health.
	Ping func(ctx context.Context) error
}

const maxBodyBytes = 1 << 20

// Setup builds the gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(deps.Limiter, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, deps.Blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/current-year", h.AcademicYear.CurrentYear)

			reports := authorized.Group("/progress-reports")
			{
				reports.GET("", h.ProgressReport.ListReports)
				reports.POST("", h.ProgressReport.CreateReport)
				reports.GET("/:id", h.ProgressReport.GetReport)
				reports.PUT("/:id", h.ProgressReport.UpdateReport)
				reports.PATCH("/:id", h.ProgressReport.UpdateReport)
				reports.DELETE("/:id", h.ProgressReport.DeleteReport)
			}

			modules := authorized.Group("/modules")
			{
				modules.GET("", h.Curriculum.ListModules)
				modules.GET("/:id", h.Curriculum.GetModule)
				modules.GET("/:id/work-units", h.Curriculum.ListWorkUnits)
			}

			authorized.GET("/teaching-assignments", h.Assignment.ListMine)
			authorized.GET("/missing-reports/:year/:month", h.MissingReport.Missing)
			authorized.GET("/missing-reports-annual/:year", h.MissingReport.Annual)
			authorized.POST("/send-reminders", middleware.AdminOnly(), h.Reminder.SendReminders)

			admin := authorized.Group("/admin", middleware.AdminOnly())
			{
				years := admin.Group("/academic-years")
				{
					years.GET("", h.AcademicYear.ListYears)
					years.POST("", h.AcademicYear.CreateYear)
					years.GET("/:year", h.AcademicYear.GetYear)
					years.DELETE("/:year", h.AcademicYear.DeleteYear)
					years.PUT("/:year/set-current", h.AcademicYear.SetCurrent)
					years.POST("/:year/clone", h.AcademicYear.CloneYear)
				}

				cycles := admin.Group("/cycles")
				{
					cycles.GET("", h.Curriculum.ListCycles)
					cycles.POST("", h.Curriculum.CreateCycle)
					cycles.GET("/:id", h.Curriculum.GetCycle)
					cycles.PUT("/:id", h.Curriculum.UpdateCycle)
					cycles.DELETE("/:id", h.Curriculum.DeleteCycle)
				}

				groups := admin.Group("/groups")
				{
					groups.GET("", h.Curriculum.ListGroups)
					groups.POST("", h.Curriculum.CreateGroup)
					groups.GET("/:id", h.Curriculum.GetGroup)
					groups.PUT("/:id", h.Curriculum.UpdateGroup)
					groups.DELETE("/:id", h.Curriculum.DeleteGroup)
				}

				adminModules := admin.Group("/modules")
				{
					adminModules.POST("", h.Curriculum.CreateModule)
					adminModules.PUT("/:id", h.Curriculum.UpdateModule)
					adminModules.DELETE("/:id", h.Curriculum.DeleteModule)
				}

				units := admin.Group("/work-units")
				{
					units.POST("", h.Curriculum.CreateWorkUnit)
					units.GET("/:id", h.Curriculum.GetWorkUnit)
					units.PUT("/:id", h.Curriculum.UpdateWorkUnit)
					units.DELETE("/:id", h.Curriculum.DeleteWorkUnit)
				}

				teachers := admin.Group("/teachers")
				{
					teachers.GET("", h.Teacher.ListTeachers)
					teachers.POST("", h.Teacher.CreateTeacher)
					teachers.GET("/:id", h.Teacher.GetTeacher)
					teachers.PUT("/:id", h.Teacher.UpdateTeacher)
					teachers.PUT("/:id/password", h.Teacher.SetPassword)
					teachers.DELETE("/:id", h.Teacher.DeleteTeacher)
				}

				assignments := admin.Group("/teaching-assignments")
				{
					assignments.GET("", h.Assignment.ListAssignments)
					assignments.POST("", h.Assignment.CreateAssignment)
					assignments.GET("/:id", h.Assignment.GetAssignment)
					assignments.DELETE("/:id", h.Assignment.DeleteAssignment)
				}

				email := admin.Group("/email")
				{
					email.GET("/reminder-template", h.EmailConfig.GetTemplate)
					email.PUT("/reminder-template", h.EmailConfig.UpdateTemplate)
					email.GET("/settings", h.EmailConfig.GetSettings)
					email.PUT("/settings", h.EmailConfig.UpdateSettings)
				}

				admin.GET("/progress-reports/export", h.Export.ExportReports)
			}
		}
	}

	return r
}
