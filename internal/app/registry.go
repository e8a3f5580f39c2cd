package app

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/advantage"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/basis"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/deduction"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/messaging/kafka"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/middleware"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payment"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/counter"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/runlock"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	contractRepo := contract.NewRepository(gormDB)
	workdataRepo := workdata.NewRepository(gormDB)
	configRepo := payrollconfig.NewRepository(gormDB)
	basisRepo := basis.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	itemRepo := advantage.NewGeneratedItemRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	locker := runlock.NewRedisLocker(rdb, 10*time.Minute)

	// --- Services ---
	salaryService := salary.NewService(
		db,
		salaryRepo,
		contractRepo,
		basisRepo,
		deductionRepo,
		configRepo,
		workdataRepo,
		itemRepo,
		locker,
	)
	validationService := salary.NewValidationService(
		db,
		salaryRepo,
		contractRepo,
		configRepo,
		paymentRepo,
		itemRepo,
		counterRepo,
		outboxRepo,
	)

	// --- Handlers & Routes ---
	salaryHandler := salary.NewHandler(salaryService, validationService)

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	{
		salary.RegisterRoutes(api, salaryHandler, rdb)
	}

	return nil
}
