package salary

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	salaries := r.Group("/salaries")
	{
		salaries.GET("", handler.ListByPeriod)
		salaries.GET("/:id", handler.GetById)
		if redisClient != nil {
			salaries.POST("/runs", middleware.Idempotency(redisClient), handler.Run)
			salaries.POST("/validations", middleware.Idempotency(redisClient), handler.Validate)
		} else {
			salaries.POST("/runs", handler.Run)
			salaries.POST("/validations", handler.Validate)
		}
	}
}
