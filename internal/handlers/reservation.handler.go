package handlers

import (
	"context"

	"innkeep/internal/app"
	reservationsController "innkeep/internal/controllers/reservations"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/models"
	"innkeep/internal/repositories"
	"innkeep/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ReservationHandler exposes the booking lifecycle. Every route requires
// authentication; the controller's access policy decides per-record
// visibility from there.
type ReservationHandler struct {
	Handler
	reservationsController *reservationsController.Controller
}

func NewReservationHandler(app app.App, router fiber.Router) *ReservationHandler {
	log := logger.New("handlers").File("reservation_handler")
	return &ReservationHandler{
		reservationsController: app.Controllers.Reservations,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReservationHandler) Register() {
	reservations := h.router.Group("/reservations", h.middleware.RequireAuth())

	reservations.Get("", h.listReservations)
	reservations.Post("", h.bookReservation)
	reservations.Get("/:id", h.getReservation)
	reservations.Put("/:id", h.updateReservation)
	reservations.Post("/:id/confirm", h.confirmReservation)
	reservations.Post("/:id/check-in", h.checkIn)
	reservations.Post("/:id/check-out", h.checkOut)
	reservations.Post("/:id/cancel", h.cancelReservation)
}

// bookReservationBody is the wire form of a booking; dates arrive as
// YYYY-MM-DD strings.
type bookReservationBody struct {
	RoomID     uuid.UUID `json:"roomId"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	GuestCount int       `json:"guestCount"`
}

type updateReservationBody struct {
	RoomID     uuid.UUID `json:"roomId"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	GuestCount int       `json:"guestCount"`
}

func (h *ReservationHandler) listReservations(c *fiber.Ctx) error {
	var filter repositories.ReservationFilter

	if status := c.Query("status"); status != "" {
		reservationStatus := models.ReservationStatus(status)
		filter.Status = &reservationStatus
	}
	if roomID := c.Query("roomId"); roomID != "" {
		id, err := uuid.Parse(roomID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid roomId",
			})
		}
		filter.RoomID = &id
	}

	reservations, err := h.reservationsController.List(c.Context(), middleware.GetUser(c), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reservations": reservations,
	})
}

func (h *ReservationHandler) bookReservation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("bookReservation")

	var body bookReservationBody
	if err := c.BodyParser(&body); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	checkIn, err := utils.ParseDate(body.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkIn date, expected YYYY-MM-DD",
		})
	}
	checkOut, err := utils.ParseDate(body.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkOut date, expected YYYY-MM-DD",
		})
	}

	reservation, err := h.reservationsController.Book(
		c.Context(),
		middleware.GetUser(c),
		reservationsController.BookRequest{
			RoomID:     body.RoomID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			GuestCount: body.GuestCount,
		},
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation": reservation,
	})
}

func (h *ReservationHandler) getReservation(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	reservation, err := h.reservationsController.Get(c.Context(), middleware.GetUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reservation": reservation,
	})
}

func (h *ReservationHandler) updateReservation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateReservation")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var body updateReservationBody
	if err := c.BodyParser(&body); err != nil {
		log.Warn("Invalid request body", "error", err, "reservationID", id)
		return invalidBody(c)
	}

	checkIn, err := utils.ParseDate(body.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkIn date, expected YYYY-MM-DD",
		})
	}
	checkOut, err := utils.ParseDate(body.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkOut date, expected YYYY-MM-DD",
		})
	}

	reservation, err := h.reservationsController.Update(
		c.Context(),
		middleware.GetUser(c),
		id,
		reservationsController.UpdateRequest{
			RoomID:     body.RoomID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			GuestCount: body.GuestCount,
		},
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reservation": reservation,
	})
}

func (h *ReservationHandler) confirmReservation(c *fiber.Ctx) error {
	return h.transition(c, h.reservationsController.Confirm)
}

func (h *ReservationHandler) checkIn(c *fiber.Ctx) error {
	return h.transition(c, h.reservationsController.CheckIn)
}

func (h *ReservationHandler) checkOut(c *fiber.Ctx) error {
	return h.transition(c, h.reservationsController.CheckOut)
}

func (h *ReservationHandler) cancelReservation(c *fiber.Ctx) error {
	return h.transition(c, h.reservationsController.Cancel)
}

// transition shares the id-parse and response shape across the four
// lifecycle endpoints.
func (h *ReservationHandler) transition(
	c *fiber.Ctx,
	fn func(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Reservation, error),
) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	reservation, err := fn(c.Context(), middleware.GetUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reservation": reservation,
	})
}
