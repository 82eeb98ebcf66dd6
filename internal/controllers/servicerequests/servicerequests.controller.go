package servicerequests

import (
	"context"

	"innkeep/internal/apperrors"
	"innkeep/internal/database"
	"innkeep/internal/models"
	"innkeep/internal/policies"
	"innkeep/internal/repositories"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Controller owns the add-on service catalog and the requests guests file
// against their stays. Request prices freeze at creation; catalog price
// changes never reprice open requests.
type Controller struct {
	db              *gorm.DB
	requestRepo     repositories.ServiceRequestRepository
	reservationRepo repositories.ReservationRepository
	tx              services.TxExecutor
	log             logger.Logger
}

func New(db database.DB, repos repositories.Repository, service services.Service) *Controller {
	return &Controller{
		db:              db.SQL,
		requestRepo:     repos.ServiceRequest,
		reservationRepo: repos.Reservation,
		tx:              service.Transaction,
		log:             logger.New("serviceRequestsController"),
	}
}

type ServiceDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (d ServiceDefinition) validate() error {
	if d.Name == "" {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "service name is required")
	}
	if d.Price.IsNegative() {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "service price cannot be negative")
	}
	return nil
}

func (c *Controller) ListServices(ctx context.Context) ([]*models.Service, error) {
	return c.requestRepo.GetServices(ctx, c.db)
}

func (c *Controller) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return c.requestRepo.GetServiceByID(ctx, c.db, id)
}

func (c *Controller) CreateService(
	ctx context.Context,
	actor *models.User,
	def ServiceDefinition,
) (*models.Service, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	service := &models.Service{
		Name:        def.Name,
		Description: def.Description,
		Price:       def.Price,
	}

	if err := c.requestRepo.CreateService(ctx, c.db, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (c *Controller) UpdateService(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	def ServiceDefinition,
) (*models.Service, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	service, err := c.requestRepo.GetServiceByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	service.Name = def.Name
	service.Description = def.Description
	service.Price = def.Price

	if err := c.requestRepo.UpdateService(ctx, c.db, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (c *Controller) DeleteService(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) error {
	if !policies.CanManageCatalog(actor) {
		return apperrors.Authorization("staff role required")
	}

	return c.requestRepo.DeleteService(ctx, c.db, id)
}

type CreateRequest struct {
	ReservationID uuid.UUID `json:"reservationId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	Quantity      int       `json:"quantity"`
}

// Create files a service request against a reservation. The reservation
// must be confirmed or checked in, and the actor must own it or be staff.
// The total freezes at the service's current price.
func (c *Controller) Create(
	ctx context.Context,
	actor *models.User,
	req CreateRequest,
) (*models.ServiceRequest, error) {
	log := c.log.Function("Create")

	if actor == nil {
		return nil, apperrors.Authorization("authentication required")
	}
	if req.Quantity < 1 {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidInput,
			"quantity must be at least 1",
		)
	}

	request := &models.ServiceRequest{
		ReservationID: req.ReservationID,
		ServiceID:     req.ServiceID,
		Quantity:      req.Quantity,
		Status:        models.ServiceRequestRequested,
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		reservation, err := c.reservationRepo.GetByID(ctx, tx, req.ReservationID)
		if err != nil {
			return err
		}

		if !policies.CanViewReservation(actor, reservation) {
			return apperrors.Authorization("not permitted to request services for this reservation")
		}

		if reservation.Status != models.ReservationConfirmed &&
			reservation.Status != models.ReservationCheckedIn {
			return apperrors.Validation(
				apperrors.ReasonNotActive,
				"services can only be requested for a confirmed or checked-in stay",
			)
		}

		service, err := c.requestRepo.GetServiceByID(ctx, tx, req.ServiceID)
		if err != nil {
			return err
		}

		request.TotalPrice = request.ComputeTotal(service.Price)

		return c.requestRepo.Create(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"service request created",
		"requestID", request.ID,
		"reservationID", request.ReservationID,
	)

	return request, nil
}

func (c *Controller) Get(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.ServiceRequest, error) {
	request, err := c.requestRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewServiceRequest(actor, request) {
		return nil, apperrors.Authorization("not permitted to view this service request")
	}

	return request, nil
}

// List returns service requests visible to the actor; guests are scoped
// to their own reservations.
func (c *Controller) List(
	ctx context.Context,
	actor *models.User,
	filter repositories.ServiceRequestFilter,
) ([]*models.ServiceRequest, error) {
	if scope := policies.ReservationScope(actor); scope != nil {
		filter.GuestID = scope
	}

	return c.requestRepo.List(ctx, c.db, filter)
}

// UpdateStatus advances a request through requested → in_progress →
// completed, or cancels it. Staff only; guests cancel through staff.
func (c *Controller) UpdateStatus(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	next models.ServiceRequestStatus,
) (*models.ServiceRequest, error) {
	if !policies.CanOperateReservations(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if !next.IsValid() {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidInput,
			"unknown service request status %q", next,
		)
	}

	var request *models.ServiceRequest
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		request, err = c.requestRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !request.Status.CanTransitionTo(next) {
			return apperrors.Validation(
				apperrors.ReasonInvalidTransition,
				"cannot move a %s request to %s", request.Status, next,
			)
		}

		request.Status = next

		return c.requestRepo.Save(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}
