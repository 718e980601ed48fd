package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"leihbar/internal/infra/config"
	"leihbar/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Calendar(c *gin.Context)
	Block(c *gin.Context)
	Unblock(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	ListMine(c *gin.Context)
	ListOwned(c *gin.Context)
}

type ContractHTTP interface {
	Generate(c *gin.Context)
	Get(c *gin.Context)
	Sign(c *gin.Context)
	Cancel(c *gin.Context)
	Document(c *gin.Context)
}

type Handlers struct {
	Availability AvailabilityHTTP
	Booking      BookingHTTP
	Contract     ContractHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		api.GET("/offers/:id/availability", h.Availability.Check)
		api.GET("/offers/:id/calendar", h.Availability.Calendar)
		api.POST("/offers/:id/blocks", h.Availability.Block)
		api.DELETE("/offers/:id/blocks", h.Availability.Unblock)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings", h.Booking.ListMine)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/owner/bookings", h.Booking.ListOwned)
	}
	if h.Contract != nil {
		api.POST("/bookings/:id/contract", h.Contract.Generate)
		api.GET("/contracts/:id", h.Contract.Get)
		api.POST("/contracts/:id/sign", h.Contract.Sign)
		api.POST("/contracts/:id/cancel", h.Contract.Cancel)
		api.GET("/contracts/:id/document", h.Contract.Document)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
