// Package server assembles the gin engine: middleware chain and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/dvdrental/internal/interface/http/handler"
	"github.com/xiebiao/dvdrental/internal/interface/http/middleware"
)

// Options carries the router settings taken from configuration.
type Options struct {
	Mode         string // debug | release | test
	AllowOrigins []string
	Metrics      bool
	MetricsPath  string
	Swagger      bool
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Rentals     *handler.RentalHandler
	Films       *handler.FilmHandler
	Customers   *handler.CustomerHandler
	Reports     *handler.ReportHandler
	Health      *handler.HealthHandler
	Idempotency *middleware.IdempotencyMiddleware
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Tracing(),
		middleware.CORS(opts.AllowOrigins),
	)
	if opts.Metrics {
		r.Use(middleware.Metrics())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/health", h.Health.Live)
	r.GET("/health/ready", h.Health.Ready)

	api := r.Group("/api")

	idem := h.Idempotency.Guard()
	rentals := api.Group("/rentals")
	{
		rentals.POST("", idem, h.Rentals.Create)
		rentals.GET("", h.Rentals.List)
		rentals.GET("/customer/:customer_id", h.Rentals.ByCustomer)
		rentals.GET("/:id", h.Rentals.Get)
		rentals.PUT("/:id/return", idem, h.Rentals.Return)
		rentals.DELETE("/:id", idem, h.Rentals.Cancel)
	}

	films := api.Group("/films")
	{
		films.GET("", h.Films.List)
		films.GET("/search/query", h.Films.Search)
		films.GET("/available/list", h.Films.Available)
		films.GET("/categories/list", h.Films.Categories)
		films.GET("/:id", h.Films.Get)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customers.List)
		customers.GET("/search/query", h.Customers.Search)
		customers.GET("/:id", h.Customers.Get)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/customer/:id/rentals", h.Reports.CustomerRentals)
		reports.GET("/unreturned", h.Reports.Unreturned)
		reports.GET("/top-films", h.Reports.TopFilms)
		reports.GET("/staff-earnings", h.Reports.StaffEarnings)
		reports.GET("/summary", h.Reports.Summary)
	}

	return r
}
