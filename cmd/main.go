package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"workspace-service/internal/handler"
	"workspace-service/internal/middleware"
	"workspace-service/internal/model"
	"workspace-service/internal/seed"
	"workspace-service/pkg/config"
	"workspace-service/pkg/database"
	"workspace-service/pkg/jwtutil"
	"workspace-service/pkg/logger"
	"workspace-service/pkg/metrics"
)

// registerRoutes mounts the full handler set on a group. The same set
// is mounted twice: once claims-derived and once tenant-path-prefixed,
// so the two route families can never drift apart.
func registerRoutes(g *echo.Group) {
	g.GET("/events", handler.ListEvents)
	g.GET("/events/upcoming", handler.UpcomingEvents)
	g.GET("/events/:id", handler.GetEvent)
	g.POST("/events", handler.CreateEvent)
	g.PUT("/events/:id", handler.UpdateEvent)
	g.DELETE("/events/:id", handler.DeleteEvent)

	g.GET("/calendars", handler.ListCalendars)
	g.POST("/calendars", handler.CreateCalendar)
	g.PUT("/calendars/:id", handler.UpdateCalendar)
	g.DELETE("/calendars/:id", handler.DeleteCalendar)

	g.POST("/preferences", handler.SavePreference)

	g.GET("/companies", handler.ListCompanies)
	g.GET("/companies/stats", handler.CompanyStats)
	g.GET("/companies/:id", handler.GetCompany)
	g.POST("/companies", handler.CreateCompany)
	g.PUT("/companies/:id", handler.UpdateCompany)
	g.DELETE("/companies/:id", handler.DeleteCompany)
	g.GET("/companies/:id/contacts", handler.ListCompanyContacts)
	g.GET("/companies/:id/deals", handler.ListCompanyDeals)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found or error loading: %v\n", err)
	}

	conf, err := config.Load("workspace")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Create-if-absent schema for all tenant-scoped tables
	if err := database.EnsureTables(
		&model.Calendar{},
		&model.Event{},
		&model.EventAttendee{},
		&model.CalendarPreference{},
		&model.User{},
		&model.Company{},
		&model.Contact{},
		&model.DealStage{},
		&model.Deal{},
	); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Pipeline stages are shared, so they seed once at startup
	if err := seed.EnsureDealStages(db); err != nil {
		log.Fatal("Failed to seed deal stages")
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	e := echo.New()
	e.HideBanner = true

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Unscoped endpoints
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	e.GET("/health", handler.Health)

	// Claims-derived mount: tenant identity comes from the bearer token,
	// admin-scoped tokens run without row-level isolation
	api := e.Group("/api", middleware.JWTAuthMiddleware(jwt))
	registerRoutes(api)

	// Tenant-path-prefixed mount: tenant identity comes from the path,
	// the token only identifies the acting user
	scoped := e.Group("/:client_id/:app_id", middleware.PathTenantMiddleware(jwt))
	registerRoutes(scoped)

	log.Info("Starting workspace-service on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
