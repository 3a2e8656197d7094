package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mcpiface "github.com/yanqian/faq-admin/internal/interface/mcp"
	"github.com/yanqian/faq-admin/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server. mcp may be nil.
func NewRouter(cfg *config.Config, handler *Handler, mcp *mcpiface.Endpoint) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	requireAuth := authMiddleware(handler.authSvc)
	if mcp != nil {
		router.POST("/mcp", requireAuth, gin.WrapH(mcp))
	}

	api := router.Group("/api/v1")
	api.POST("/auth/login", handler.Login)

	protected := api.Group("", requireAuth)
	{
		faqs := protected.Group("/faqs")
		faqs.GET("", handler.ListFAQs)
		faqs.POST("", handler.CreateFAQ)
		faqs.GET("/export", handler.ExportFAQs)
		faqs.GET("/stats", handler.StatsFAQs)
		faqs.GET("/searches/trending", handler.TrendingSearches)
		faqs.POST("/bulk/category", handler.BulkCategory)
		faqs.POST("/bulk/tags", handler.BulkAddTags)
		faqs.DELETE("/bulk/tags/:tag", handler.BulkRemoveTag)
		faqs.POST("/migrate", handler.MigrateLegacy)
		faqs.POST("/reload", handler.Reload)
		faqs.GET("/:id", handler.GetFAQ)
		faqs.PUT("/:id", handler.UpdateFAQ)
		faqs.DELETE("/:id", handler.DeleteFAQ)

		enhance := protected.Group("/enhance")
		enhance.GET("/status", handler.EnhanceStatus)
		enhance.POST("/question", handler.ImproveQuestion)
		enhance.POST("/answer", handler.ImproveAnswer)
		enhance.POST("/generate-answer", handler.GenerateAnswer)
		enhance.POST("/generate-faqs", handler.GenerateFAQs)
		enhance.POST("/categorize", handler.Categorize)
		enhance.POST("/structure", handler.Structure)
		enhance.POST("/related", handler.Related)
		enhance.POST("/similar", handler.Similar)

		sess := protected.Group("/session")
		sess.GET("", handler.CurrentSession)
		sess.PUT("/editing/:id", handler.SetEditing)
		sess.DELETE("/editing", handler.ClearEditing)
		sess.POST("/suggestions", handler.SuggestForEditing)
		sess.POST("/suggestions/apply", handler.ApplySuggestion)
		sess.DELETE("/suggestions", handler.DiscardSuggestion)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
