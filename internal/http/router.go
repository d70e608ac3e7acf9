package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"
	"time"

	"helpdesk/internal/config"
	h "helpdesk/internal/http/handlers"
	"helpdesk/internal/http/middleware"
	"helpdesk/internal/repositories"
	"helpdesk/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	ticketRepo := repositories.TicketRepository{DB: db, Catalog: repositories.TicketFieldCatalog()}
	userRepo := repositories.UserRepository{DB: db}
	ticketSvc := services.TicketService{
		DB:          db,
		Tickets:     ticketRepo,
		Users:       userRepo,
		Attachments: repositories.AttachmentRepository{},
		Numbers:     services.TicketNumberGenerator{},
	}

	system := h.SystemHandler{DB: db}
	lookups := h.LookupHandler{Lookups: repositories.LookupRepository{DB: db}}
	users := h.UserHandler{Users: userRepo}
	tickets := h.TicketHandler{Service: ticketSvc}

	auth := middleware.APIKeyAuth(repositories.APIKeyRepository{DB: db})

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)

		protected := api.Group("", auth)

		protected.GET("/topics", lookups.Topics)
		protected.GET("/departments", lookups.Departments)
		protected.GET("/statuses", lookups.Statuses)

		protected.GET("/users", users.List)
		protected.GET("/users/:id", users.Get)

		protected.GET("/tickets", tickets.List)
		protected.POST("/tickets", tickets.Create)
		protected.GET("/tickets/:id", tickets.Get)
		protected.PUT("/tickets/:id/close", tickets.Close)
		protected.POST("/tickets/:id/attach", tickets.Attach)
		protected.GET("/tickets/:id/pdf", tickets.PDF)
	}

	return r
}

func corsMiddleware(env config.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-API-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	} else {
		cfg.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	return cors.New(cfg)
}
