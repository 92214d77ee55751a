package main

import (
	"clinic-backend/internal/app/config"
	"clinic-backend/internal/app/dsn"
	"clinic-backend/internal/app/handler"
	"clinic-backend/internal/app/middleware"
	"clinic-backend/internal/app/repository"
	"clinic-backend/internal/app/tariff"
	"clinic-backend/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("App start")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("Ошибка инициализации репозитория: %v", err)
	}

	engine := tariff.New(repo)
	apiHandler := handler.NewAPIHandler(repo, engine)
	authMiddleware := middleware.NewAuthMiddleware(cfg)

	router := gin.Default()

	app := pkg.NewApp(cfg, router, apiHandler, authMiddleware)
	app.RunApp()

	logrus.Info("App terminated")
}
