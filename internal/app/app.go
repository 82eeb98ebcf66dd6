package app

import (
	"innkeep/config"
	"innkeep/internal/controllers"
	"innkeep/internal/database"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/repositories"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Config      config.Config
	Middleware  middleware.Middleware
	Repository  repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repository := repositories.New(db)

	service, err := services.New(db, repository)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(db, repository, service)
	middleware := middleware.New(db, config, repository)

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Repository:  repository,
		Services:    service,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Availability,
		a.Controllers.Rooms,
		a.Controllers.Reservations,
		a.Controllers.ServiceRequests,
		a.Controllers.Reviews,
		a.Repository.User,
		a.Repository.Room,
		a.Repository.Reservation,
		a.Repository.ServiceRequest,
		a.Repository.Review,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() error {
	return a.Database.Close()
}
