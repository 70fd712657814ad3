package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/auth"
	"github.com/Remedy92/Culi-sub000/internal/menu"
	"github.com/Remedy92/Culi-sub000/internal/middleware"
	"github.com/Remedy92/Culi-sub000/internal/worker"
)

type Deps struct {
	Logger      *zap.Logger
	Tokens      *auth.TokenManager
	Menus       *menu.Handler
	Extraction  *worker.Handler
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── MENU ROUTES ─────────────────────────
	if d.Tokens != nil && d.Menus != nil {
		menus := r.Group("/menus")
		menus.Use(
			middleware.AuthMiddleware(d.Tokens, logger),
			middleware.RequireRole(auth.RoleRestaurant, auth.RoleAdmin),
		)
		{
			menus.POST("/upload", d.Menus.Upload)
			menus.GET("/:id/status", d.Menus.GetStatus)
			menus.GET("/:id/extraction", d.Menus.GetExtraction)
			menus.POST("/:id/retry", d.Menus.Retry)
			if d.Extraction != nil {
				menus.POST("/:id/extract", d.Extraction.Extract)
			}
		}
	}

	return r
}
