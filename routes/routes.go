package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nexa-backend/config"
	"nexa-backend/controllers"
	"nexa-backend/middleware"
	"nexa-backend/services"
)

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// noStoreHTML keeps admin/booking pages out of browser caches.
func noStoreHTML() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, ".html") {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
		}
		c.Next()
	}
}

func SetupRouter(
	cfg *config.Config,
	sessions *services.SessionService,
	lc *controllers.LeadController,
	avc *controllers.AvailabilityController,
	acc *controllers.ActionController,
	adc *controllers.AdminController,
	chc *controllers.ChatController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins(cfg.CORSOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Nexa-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(noStoreHTML())
	r.Static("/public", "./public")
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/public/index.html")
	})
	r.GET("/admin/login.html", func(c *gin.Context) {
		c.File("./public/admin/login.html")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// signed email links, authorized by token alone
	r.GET("/confirm/:id", acc.ConfirmLink)
	r.GET("/cancel/:id", acc.CancelLink)

	// admin session
	r.POST("/admin/login", adc.Login)
	r.GET("/admin/logout", adc.Logout)

	api := r.Group("/api")
	{
		// public
		api.GET("/availability", avc.GetAvailability)
		api.POST("/chat", chc.PostMessage)
		api.POST("/admin/login", adc.Login)

		// public lead submit, optionally gated by the server key header
		api.POST("/lead", middleware.RequireServerKey(cfg.ServerKey), lc.CreateLead)

		// reports cookie state, so it must be reachable without a session
		api.GET("/debug/whoami", adc.Whoami)

		// everything else requires an admin session
		admin := api.Group("", middleware.RequireAdmin(sessions))
		{
			admin.GET("/leads", adc.ListLeads)
			admin.POST("/confirm/:id", adc.ConfirmLead)
			admin.POST("/cancel/:id", adc.CancelLead)
			admin.POST("/paid/:id", adc.SetPaid)
			admin.POST("/debug/dummy", adc.CreateDummy)
		}
	}

	return r
}
