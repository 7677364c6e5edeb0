package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/slotwise/booking-backend/internal/api"
	"github.com/slotwise/booking-backend/internal/appointment"
	"github.com/slotwise/booking-backend/internal/auth"
	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
	redisclient "github.com/slotwise/booking-backend/internal/redis"
	"github.com/slotwise/booking-backend/internal/resource"
	"github.com/slotwise/booking-backend/internal/staff"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction        bool
	ProdOrigins         string
	DBPool              *pgxpool.Pool
	RedisClient         *redis.Client // nil disables distributed locking
	JWTSecret           string
	JWTTTL              time.Duration
	DefaultSlotDuration int
	LockTTL             time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Booking writes are guarded by a per-entity-date lock. Without Redis a
	// single-instance deployment relies on the optimistic version check alone.
	locker := redisclient.NewNoopLocker()
	if cfg.RedisClient != nil {
		locker = redisclient.NewRedisLocker(cfg.RedisClient, cfg.LockTTL)
	}

	// Organization Module
	orgRepo := organization.NewPgxRepository(cfg.DBPool)
	orgService := organization.NewService(orgRepo)

	// Staff Module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Availability Module
	availRepo := availability.NewPgxRepository(cfg.DBPool)
	directory := NewEntityDirectory(staffService, resService)
	availService := availability.NewService(availRepo, directory, cfg.DefaultSlotDuration)

	// Appointment Module
	apptRepo := appointment.NewPgxRepository(cfg.DBPool)
	assigner := appointment.NewAssigner(availService)
	apptService := appointment.NewService(apptRepo, availService, orgService, assigner, locker)

	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		OrgService:         orgService,
		StaffService:       staffService,
		ResourceService:    resService,
		AvailService:       availService,
		AppointmentService: apptService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
