package handlers

import (
	"innkeep/internal/app"
	serviceRequestsController "innkeep/internal/controllers/servicerequests"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/models"
	"innkeep/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ServiceHandler exposes the add-on service catalog and the requests
// guests file against their reservations.
type ServiceHandler struct {
	Handler
	serviceRequestsController *serviceRequestsController.Controller
}

func NewServiceHandler(app app.App, router fiber.Router) *ServiceHandler {
	log := logger.New("handlers").File("service_handler")
	return &ServiceHandler{
		serviceRequestsController: app.Controllers.ServiceRequests,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ServiceHandler) Register() {
	requireAuth := h.middleware.RequireAuth()
	requireStaff := h.middleware.RequireStaff()
	optionalAuth := h.middleware.OptionalAuth()

	services := h.router.Group("/services")
	services.Get("", optionalAuth, h.listServices)
	services.Get("/:id", optionalAuth, h.getService)
	services.Post("", requireAuth, requireStaff, h.createService)
	services.Put("/:id", requireAuth, requireStaff, h.updateService)
	services.Delete("/:id", requireAuth, requireStaff, h.deleteService)

	requests := h.router.Group("/service-requests", requireAuth)
	requests.Get("", h.listRequests)
	requests.Post("", h.createRequest)
	requests.Get("/:id", h.getRequest)
	requests.Patch("/:id/status", requireStaff, h.updateRequestStatus)
}

func (h *ServiceHandler) listServices(c *fiber.Ctx) error {
	services, err := h.serviceRequestsController.ListServices(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"services": services,
	})
}

func (h *ServiceHandler) getService(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	service, err := h.serviceRequestsController.GetService(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"service": service,
	})
}

func (h *ServiceHandler) createService(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createService")

	var def serviceRequestsController.ServiceDefinition
	if err := c.BodyParser(&def); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	service, err := h.serviceRequestsController.CreateService(c.Context(), middleware.GetUser(c), def)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"service": service,
	})
}

func (h *ServiceHandler) updateService(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateService")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var def serviceRequestsController.ServiceDefinition
	if err := c.BodyParser(&def); err != nil {
		log.Warn("Invalid request body", "error", err, "serviceID", id)
		return invalidBody(c)
	}

	service, err := h.serviceRequestsController.UpdateService(
		c.Context(), middleware.GetUser(c), id, def,
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"service": service,
	})
}

func (h *ServiceHandler) deleteService(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.serviceRequestsController.DeleteService(c.Context(), middleware.GetUser(c), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *ServiceHandler) listRequests(c *fiber.Ctx) error {
	var filter repositories.ServiceRequestFilter

	if reservationID := c.Query("reservationId"); reservationID != "" {
		id, err := uuid.Parse(reservationID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid reservationId",
			})
		}
		filter.ReservationID = &id
	}
	if status := c.Query("status"); status != "" {
		requestStatus := models.ServiceRequestStatus(status)
		filter.Status = &requestStatus
	}

	requests, err := h.serviceRequestsController.List(c.Context(), middleware.GetUser(c), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"serviceRequests": requests,
	})
}

func (h *ServiceHandler) createRequest(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRequest")

	var req serviceRequestsController.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	request, err := h.serviceRequestsController.Create(c.Context(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"serviceRequest": request,
	})
}

func (h *ServiceHandler) getRequest(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	request, err := h.serviceRequestsController.Get(c.Context(), middleware.GetUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"serviceRequest": request,
	})
}

func (h *ServiceHandler) updateRequestStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRequestStatus")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var body struct {
		Status models.ServiceRequestStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Warn("Invalid request body", "error", err, "requestID", id)
		return invalidBody(c)
	}

	request, err := h.serviceRequestsController.UpdateStatus(
		c.Context(), middleware.GetUser(c), id, body.Status,
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"serviceRequest": request,
	})
}
