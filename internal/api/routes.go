package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vtuber_wiki/internal/api/handlers"
	"vtuber_wiki/internal/auth"
	"vtuber_wiki/internal/middleware"
	"vtuber_wiki/internal/service"
)

// RouteOptions 控制可選的路由
type RouteOptions struct {
	MetricsEnabled bool
}

func SetupRoutes(r *gin.Engine, services *service.Services, verifier auth.Verifier, opts RouteOptions) {
	// 初始化 handlers
	systemHandler := handlers.NewSystemHandler(services.VTuberService)
	vtuberHandler := handlers.NewVTuberHandler(services.VTuberService)
	feedHandler := handlers.NewChangeFeedHandler(services.ChangeFeed)

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Status: http.StatusNotFound,
			Error:  "Not found",
		})
	})

	// 公開路由
	r.GET("/", systemHandler.Root)
	r.GET("/health", systemHandler.Health)
	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.GET("/search", vtuberHandler.SearchVTubers)
	r.GET("/agencies", vtuberHandler.ListAgencies)

	vtubers := r.Group("/vtubers")
	{
		vtubers.GET("", vtuberHandler.ListVTubers)
		vtubers.GET("/events", feedHandler.Subscribe)
		vtubers.GET("/:id", vtuberHandler.GetVTuber)
	}

	// 需要驗證的路由
	authorized := r.Group("/vtubers")
	authorized.Use(middleware.AuthMiddleware(verifier))
	{
		authorized.POST("", vtuberHandler.CreateVTuber)
		authorized.POST("/bulk", vtuberHandler.CreateVTubersBulk)
		authorized.POST("/batch", vtuberHandler.CreateVTubersBatch)
		authorized.PUT("/:id", vtuberHandler.UpdateVTuber)
		authorized.DELETE("/:id", vtuberHandler.DeleteVTuber)
	}
}
