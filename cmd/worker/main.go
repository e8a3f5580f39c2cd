package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/app"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunWorker(); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}
