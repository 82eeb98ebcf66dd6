package handlers

import (
	"innkeep/internal/app"
	"innkeep/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")

	HealthHandler(api, app.Config)
	NewRoomHandler(*app, api).Register()
	NewReservationHandler(*app, api).Register()
	NewServiceHandler(*app, api).Register()
	NewReviewHandler(*app, api).Register()

	return nil
}
