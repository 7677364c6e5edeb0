package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/slotwise/booking-backend/internal/appointment"
	apptHttp "github.com/slotwise/booking-backend/internal/appointment/http"
	"github.com/slotwise/booking-backend/internal/auth"
	"github.com/slotwise/booking-backend/internal/availability"
	availHttp "github.com/slotwise/booking-backend/internal/availability/http"
	"github.com/slotwise/booking-backend/internal/organization"
	orgHttp "github.com/slotwise/booking-backend/internal/organization/http"
	"github.com/slotwise/booking-backend/internal/resource"
	resHttp "github.com/slotwise/booking-backend/internal/resource/http"
	"github.com/slotwise/booking-backend/internal/staff"
	staffHttp "github.com/slotwise/booking-backend/internal/staff/http"
)

// Config bundles everything the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	OrgService         organization.Service
	StaffService       staff.Service
	ResourceService    resource.Service
	AvailService       availability.Service
	AppointmentService appointment.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081",
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	managerMiddleware := RequireManager()

	orgHandler := orgHttp.NewHandler(cfg.OrgService)
	staffHandler := staffHttp.NewHandler(cfg.StaffService)
	resHandler := resHttp.NewHandler(cfg.ResourceService)
	availHandler := availHttp.NewHandler(cfg.AvailService, cfg.OrgService)
	apptHandler := apptHttp.NewHandler(cfg.AppointmentService)

	v1 := r.Group("/v1")
	{
		orgHttp.RegisterRoutes(v1, orgHandler, authMiddleware, managerMiddleware)
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware, managerMiddleware)
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware, managerMiddleware)
		availHttp.RegisterRoutes(v1, availHandler, authMiddleware, managerMiddleware)
		apptHttp.RegisterRoutes(v1, apptHandler, authMiddleware)
	}

	return r
}
