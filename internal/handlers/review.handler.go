package handlers

import (
	"innkeep/internal/app"
	reviewsController "innkeep/internal/controllers/reviews"
	"innkeep/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler exposes guest reviews. Writing requires authentication;
// the controller enforces the post-checkout and once-only rules.
type ReviewHandler struct {
	Handler
	reviewsController *reviewsController.Controller
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		reviewsController: app.Controllers.Reviews,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	requireStaff := h.middleware.RequireStaff()

	reviews := h.router.Group("/reviews", h.middleware.RequireAuth())

	reviews.Get("", h.listReviews)
	reviews.Post("", h.createReview)
	reviews.Get("/:id", h.getReview)
	reviews.Put("/:id", requireStaff, h.updateReview)
	reviews.Delete("/:id", requireStaff, h.deleteReview)
}

func (h *ReviewHandler) listReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewsController.List(c.Context(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
	})
}

func (h *ReviewHandler) createReview(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createReview")

	var req reviewsController.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return invalidBody(c)
	}

	review, err := h.reviewsController.Create(c.Context(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"review": review,
	})
}

func (h *ReviewHandler) getReview(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	review, err := h.reviewsController.Get(c.Context(), middleware.GetUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"review": review,
	})
}

func (h *ReviewHandler) updateReview(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateReview")

	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	var req reviewsController.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "reviewID", id)
		return invalidBody(c)
	}

	review, err := h.reviewsController.Update(c.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"review": review,
	})
}

func (h *ReviewHandler) deleteReview(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.reviewsController.Delete(c.Context(), middleware.GetUser(c), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
