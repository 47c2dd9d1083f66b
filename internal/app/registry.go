package app

import (
	"database/sql"

	"cafedesk/internal/attendance"
	"cafedesk/internal/auth"
	"cafedesk/internal/discipline"
	"cafedesk/internal/employee"
	"cafedesk/internal/export"
	"cafedesk/internal/inventory"
	"cafedesk/internal/operation"
	"cafedesk/internal/payroll"
	"cafedesk/internal/rbac"
	"cafedesk/internal/report"
	"cafedesk/internal/settings"
	"cafedesk/internal/shared/counter"
	"cafedesk/internal/sync"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	disciplineRepo := discipline.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	inventoryRepo := inventory.NewRepository(gormDB)
	operationRepo := operation.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := sync.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, outboxRepo)
	disciplineService := discipline.NewService(db, disciplineRepo, outboxRepo)
	payrollService := payroll.NewService(employeeRepo, attendanceRepo, disciplineRepo, rdb)
	reportService := report.NewService(reportRepo)
	inventoryService := inventory.NewService(inventoryRepo)
	operationService := operation.NewService(db, operationRepo, outboxRepo)
	settingsService := settings.NewService(gormDB)
	exportService := export.NewService(reportService, payrollService, operationService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	disciplineHandler := discipline.NewHandler(disciplineService)
	payrollHandler := payroll.NewHandler(payrollService)
	reportHandler := report.NewHandler(reportService)
	inventoryHandler := inventory.NewHandler(inventoryService)
	operationHandler := operation.NewHandler(operationService)
	settingsHandler := settings.NewHandler(settingsService)
	exportHandler := export.NewHandler(exportService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		discipline.RegisterRoutes(api, disciplineHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService, rdb)
		inventory.RegisterRoutes(api, inventoryHandler, rbacService, rdb)
		operation.RegisterRoutes(api, operationHandler, rbacService)
		settings.RegisterRoutes(api, settingsHandler, rbacService)
		export.RegisterRoutes(api, exportHandler, rbacService)
	}

	// --- Sync API ---
	// The mirror is best effort: without its config the app still serves
	// everything local, only the sync endpoints are withheld.
	mirror, err := sync.NewMirrorClient()
	if err != nil {
		zap.L().Warn("mirror not configured, sync API disabled", zap.Error(err))
		return nil
	}

	registry := buildSyncRegistry(gormDB)
	locker := redislock.New(rdb)
	puller := sync.NewPuller(gormDB, registry, mirror, locker)
	migrator := sync.NewMigrator(gormDB, registry, mirror)
	syncHandler := sync.NewHandler(gormDB, puller, migrator)
	sync.RegisterRoutes(api, syncHandler, rbacService)

	return nil
}

// buildSyncRegistry binds every mirrored collection. The worker, the change
// listener, and the HTTP sync endpoints all share this set.
func buildSyncRegistry(gormDB *gorm.DB) *sync.Registry {
	registry := sync.NewRegistry()

	bindings := []sync.Binding{
		employee.NewSyncBinding(gormDB),
		attendance.NewSyncBinding(gormDB),
		discipline.NewSyncBinding(gormDB),
		report.NewSyncBinding(gormDB),
		inventory.NewSyncBinding(gormDB),
		inventory.NewHistorySyncBinding(gormDB),
		operation.NewSyncBinding(gormDB),
		settings.NewSyncBinding(gormDB),
	}
	for _, b := range bindings {
		if err := registry.Register(b); err != nil {
			// Bindings are registered once at startup with unique
			// collections, so this only fires on a programming error.
			zap.L().Panic("register sync binding failed", zap.String("collection", b.Collection), zap.Error(err))
		}
	}

	return registry
}
