package main

import (
	"hashgate/internal/userdata/handler"
	"hashgate/internal/userdata/service"
	"hashgate/internal/userdata/validator"
	"hashgate/pkg/app"
	"hashgate/pkg/config"
	"hashgate/pkg/metrics"

	"github.com/joho/godotenv"
)

const ServiceName = "user-data-api"

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting User Data API service")
	m := metrics.New()
	userDataService := service.NewUserDataService(m, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(nil, m.Handler(), cfg.Log),
		handler.NewUserDataHandler(userDataService, validator.NewUserDataValidator(), cfg.HashUserData, cfg.Log),
	)
	serverApp.Run()
}
