package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/api/handler"
	"github.com/tdjunwei/lostark-raid-schedule/internal/api/middleware"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/jwt"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/redis"
)

// defaultBodyLimit 除导入外所有接口的请求体上限
const defaultBodyLimit = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时跳过令牌黑名单与导入限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())

	// ── 健康检查 ──
	r.GET("/health", h.Health.Health)

	admin := middleware.RoleAuth(model.RoleAdmin)
	scheduler := middleware.RoleAuth(model.RoleAdmin, model.RoleScheduler)

	// ── API v1（均需认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
	{
		authorized := v1.Group("")
		authorized.Use(middleware.BodyLimit(defaultBodyLimit))
		{
			// 空闲时段模块
			availability := authorized.Group("/availability")
			{
				availability.GET("/me", h.Availability.ListMine)
				availability.DELETE("/me", h.Availability.ClearMine)
				availability.GET("/me.ics", h.Availability.ExportICS)
				availability.POST("", h.Availability.Create)
				availability.PUT("/:id", h.Availability.Update)
				availability.DELETE("/:id", h.Availability.Delete)
				availability.POST("/template", h.Availability.ApplyTemplate)
				availability.PUT("/week", h.Availability.ReplaceWeek)
				availability.POST("/parse", h.Availability.Parse)
				availability.GET("/roster.xlsx", scheduler, h.Availability.ExportRoster)
			}

			// 副本与关卡时间线模块
			raids := authorized.Group("/raids")
			{
				raids.GET("", h.Raid.ListRaids)
				raids.GET("/:id", h.Raid.GetRaid)
				raids.GET("/:id/timeline", h.Raid.ListGates)
				raids.POST("/:id/timeline", scheduler, h.Raid.CreateGate)
				raids.PATCH("/:id/timeline/:gateId", scheduler, h.Raid.TransitionGate)
				raids.DELETE("/:id/timeline/:gateId", admin, h.Raid.DeleteGate)
			}

			// 职业与角色模块
			jobs := authorized.Group("/jobs")
			{
				jobs.GET("", h.Job.ListJobs)
				jobs.GET("/categories", h.Job.ListCategories)
				jobs.POST("/resolve", admin, h.Job.ResolveJob)
			}
			authorized.GET("/characters/me", h.Job.ListMyCharacters)
		}

		// 旧版 Excel 导入（上传体积单独限制）
		v1.POST("/admin/excel-import",
			admin,
			middleware.RateLimit(limiter, cfg.Import.RateLimit, cfg.Import.RateWindow, logger),
			middleware.BodyLimit(cfg.Import.MaxUploadSize+defaultBodyLimit),
			h.Import.ImportExcel,
		)
	}

	return r
}
