package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/config"
	"github.com/tryxpert/tryxpert-backend/internal/handler"
	"github.com/tryxpert/tryxpert-backend/internal/middleware"
	"github.com/tryxpert/tryxpert-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Tryout    *handler.TryoutHandler
	Question  *handler.QuestionHandler
	Session   *handler.SessionHandler
	Result    *handler.ResultHandler
	Countdown *handler.CountdownHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for session mutations (120 requests per minute per IP,
	// enough for answer-per-keystroke clients without letting one IP spin).
	sessionLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── Tryout catalog and authoring ──────────────────────────────────
	// Catalog reads change rarely compared to session state; a short public
	// cache keeps list polling cheap without hiding window transitions long.
	catalogCache := middleware.CacheControl(30)

	api := router.Group("/api/v1")
	{
		api.GET("/tryouts", catalogCache, handlers.Tryout.ListTryouts)
		api.POST("/tryouts", handlers.Tryout.CreateTryout)
		api.GET("/tryouts/:tryout_id", handlers.Tryout.GetTryout)
		api.PUT("/tryouts/:tryout_id", handlers.Tryout.UpdateTryout)
		api.DELETE("/tryouts/:tryout_id", handlers.Tryout.DeleteTryout)

		api.GET("/tryouts/:tryout_id/questions", handlers.Question.ListQuestions)
		api.POST("/tryouts/:tryout_id/questions", handlers.Question.CreateQuestion)
		api.PUT("/tryouts/:tryout_id/questions/:question_id", handlers.Question.UpdateQuestion)
		api.DELETE("/tryouts/:tryout_id/questions/:question_id", handlers.Question.DeleteQuestion)
		api.PUT("/tryouts/:tryout_id/questions/:question_id/order", handlers.Question.ReorderQuestion)

		api.GET("/tryouts/:tryout_id/countdown", handlers.Countdown.GetCountdown)
		api.GET("/tryouts/:tryout_id/result", handlers.Result.GetResult)
		api.GET("/tryouts/:tryout_id/submissions", handlers.Result.ListSubmissions)
	}

	// ─── Session lifecycle (rate limited) ──────────────────────────────
	sessionAPI := router.Group("/api/v1/tryouts/:tryout_id/session")
	sessionAPI.Use(sessionLimiter.Middleware())
	{
		sessionAPI.POST("", handlers.Session.StartSession)
		sessionAPI.GET("", handlers.Session.GetSession)
		sessionAPI.PUT("/answer", handlers.Session.UpdateAnswer)
		sessionAPI.PUT("/position", handlers.Session.SetPosition)
		sessionAPI.POST("/submit", handlers.Session.SubmitSession)
	}

	// ─── WebSocket Group ───────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/tryouts/:tryout_id/stream", handlers.WS.TryoutStream)
	}

	return router
}
