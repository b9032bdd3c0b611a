package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"presentoir-backend/config"
	"presentoir-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, limiter *mw.IPRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(mw.Logger())
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	rateLimiter := mw.RateLimiter(limiter)

	// Tenants are created before any header can name them.
	r.POST("/api/v1/organizations", rateLimiter, h.CreateOrganization)

	v1 := r.Group("/api/v1", rateLimiter, mw.Organization(h.store))
	{
		v1.GET("/dashboard", h.GetDashboard)

		v1.GET("/stands", h.ListStands)
		v1.POST("/stands", h.CreateStand)
		v1.GET("/stands/:id", h.GetStand)
		v1.PUT("/stands/:id", h.UpdateStand)
		v1.DELETE("/stands/:id", h.DeleteStand)
		v1.GET("/stands/:id/history", h.GetHistory)

		v1.POST("/stands/:id/reservation", h.Reserve)
		v1.DELETE("/stands/:id/reservation", h.CancelReservation)
		v1.PATCH("/stands/:id/reservation", h.ExtendReservation)

		v1.POST("/stands/:id/maintenance", h.AddMaintenance)
		v1.PATCH("/stands/:id/maintenance/:recordID", h.UpdateMaintenance)

		v1.GET("/publications", h.ListPublications)
		v1.POST("/publications", h.CreatePublication)
		v1.PUT("/publications/:id/stock/:standID", h.SetStock)
		v1.GET("/publications/:id/forecast/:standID", h.GetForecast)

		v1.GET("/posters", h.ListPosters)
		v1.POST("/posters", h.CreatePoster)
		v1.PUT("/posters/:id/image", h.UploadPosterImage)
		v1.POST("/stands/:id/poster-requests", h.CreatePosterRequest)
		v1.GET("/poster-requests", h.ListPosterRequests)
		v1.PUT("/poster-requests/:id", h.ResolvePosterRequest)

		v1.GET("/settings", h.GetSettings)
		v1.PUT("/settings", h.PutSettings)

		v1.GET("/backup", h.ExportBackup)
		v1.POST("/backup", h.RestoreBackup)

		v1.GET("/subscriptions", h.GetSubscription)
		v1.PUT("/subscriptions", h.PutSubscription)
		v1.DELETE("/subscriptions", h.DeleteSubscription)
		v1.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		v1.GET("/ws", h.ServeWS)
	}

	public := r.Group("/api/public", rateLimiter)
	{
		caching := func(c *gin.Context) { c.Next() }
		if h.cache != nil {
			caching = mw.Cache(h.cache, cfg.CacheTTL())
		}
		public.GET("/stands/:id", caching, h.GetPublicStand)
		public.POST("/stands/:id/problem", h.ReportProblem)
		public.POST("/stands/:id/poster-requests", h.PublicPosterRequest)
	}

	return r
}

const requestIDHeader = "X-Request-ID"

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", mw.OrganizationHeader, requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader, "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
