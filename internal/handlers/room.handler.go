package handlers

import (
	"strconv"

	"innkeep/internal/app"
	roomsController "innkeep/internal/controllers/rooms"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/models"
	"innkeep/internal/repositories"
	"innkeep/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RoomHandler exposes the room catalog and the availability query.
// Reads are public; mutation routes require an authenticated staff user.
type RoomHandler struct {
	Handler
	roomsController *roomsController.Controller
}

func NewRoomHandler(app app.App, router fiber.Router) *RoomHandler {
	log := logger.New("handlers").File("room_handler")
	return &RoomHandler{
		roomsController: app.Controllers.Rooms,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RoomHandler) Register() {
	requireAuth := h.middleware.RequireAuth()
	requireStaff := h.middleware.RequireStaff()
	optionalAuth := h.middleware.OptionalAuth()

	roomTypes := h.router.Group("/room-types")
	roomTypes.Get("", optionalAuth, h.listRoomTypes)
	roomTypes.Get("/:id", optionalAuth, h.getRoomType)
	roomTypes.Post("", requireAuth, requireStaff, h.createRoomType)
	roomTypes.Put("/:id", requireAuth, requireStaff, h.updateRoomType)
	roomTypes.Delete("/:id", requireAuth, requireStaff, h.deleteRoomType)

	h.router.Get("/availability", optionalAuth, h.queryAvailability)

	rooms := h.router.Group("/rooms")
	rooms.Get("", optionalAuth, h.listRooms)
	rooms.Get("/:id", optionalAuth, h.getRoom)
	rooms.Post("", requireAuth, requireStaff, h.createRoom)
	rooms.Put("/:id", requireAuth, requireStaff, h.updateRoom)
	rooms.Delete("/:id", requireAuth, requireStaff, h.deleteRoom)
	rooms.Patch("/:id/status", requireAuth, requireStaff, h.setRoomStatus)
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid id",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func (h *RoomHandler) listRoomTypes(c *fiber.Ctx) error {
	roomTypes, err := h.roomsController.ListRoomTypes(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"roomTypes": roomTypes,
	})
}

func (h *RoomHandler) getRoomType(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	roomType, err := h.roomsController.GetRoomType(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"roomType": roomType,
	})
}

func (h *RoomHandler) createRoomType(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRoomType")

	var req roomsController.RoomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	roomType, err := h.roomsController.CreateRoomType(c.Context(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"roomType": roomType,
	})
}

func (h *RoomHandler) updateRoomType(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRoomType")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var req roomsController.RoomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "roomTypeID", id)
		return invalidBody(c)
	}

	roomType, err := h.roomsController.UpdateRoomType(c.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"roomType": roomType,
	})
}

func (h *RoomHandler) deleteRoomType(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.roomsController.DeleteRoomType(c.Context(), middleware.GetUser(c), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *RoomHandler) listRooms(c *fiber.Ctx) error {
	var filter repositories.RoomFilter

	if status := c.Query("status"); status != "" {
		roomStatus := models.RoomStatus(status)
		filter.Status = &roomStatus
	}
	if roomTypeID := c.Query("roomTypeId"); roomTypeID != "" {
		id, err := uuid.Parse(roomTypeID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid roomTypeId",
			})
		}
		filter.RoomTypeID = &id
	}
	if minCapacity := c.Query("minCapacity"); minCapacity != "" {
		capacity, err := strconv.Atoi(minCapacity)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid minCapacity",
			})
		}
		filter.MinCapacity = &capacity
	}

	rooms, err := h.roomsController.ListRooms(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
	})
}

func (h *RoomHandler) getRoom(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	room, err := h.roomsController.GetRoom(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"room": room,
	})
}

func (h *RoomHandler) createRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRoom")

	var req roomsController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	room, err := h.roomsController.CreateRoom(c.Context(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"room": room,
	})
}

func (h *RoomHandler) updateRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRoom")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var req roomsController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "roomID", id)
		return invalidBody(c)
	}

	room, err := h.roomsController.UpdateRoom(c.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"room": room,
	})
}

func (h *RoomHandler) deleteRoom(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.roomsController.DeleteRoom(c.Context(), middleware.GetUser(c), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *RoomHandler) setRoomStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setRoomStatus")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var req struct {
		Status models.RoomStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "roomID", id)
		return invalidBody(c)
	}

	room, err := h.roomsController.SetRoomStatus(c.Context(), middleware.GetUser(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"room": room,
	})
}

func (h *RoomHandler) queryAvailability(c *fiber.Ctx) error {
	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
	}

	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
	}

	var minCapacity *int
	if raw := c.Query("minCapacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid minCapacity",
			})
		}
		minCapacity = &capacity
	}

	rooms, err := h.roomsController.QueryAvailability(c.Context(), start, end, minCapacity)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
	})
}
