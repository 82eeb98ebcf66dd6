package servicerequests

import (
	"context"
	"testing"

	"innkeep/internal/apperrors"
	"innkeep/internal/models"
	"innkeep/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTx struct{}

func (stubTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

type fakeReservationRepo struct {
	repositories.ReservationRepository
	reservations map[uuid.UUID]*models.Reservation
}

func (f *fakeReservationRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Reservation, error) {
	reservation, ok := f.reservations[id]
	if !ok {
		return nil, apperrors.NotFound("reservation")
	}
	return reservation, nil
}

type fakeRequestRepo struct {
	repositories.ServiceRequestRepository
	services map[uuid.UUID]*models.Service
	requests map[uuid.UUID]*models.ServiceRequest
}

func (f *fakeRequestRepo) GetServiceByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Service, error) {
	service, ok := f.services[id]
	if !ok {
		return nil, apperrors.NotFound("service")
	}
	return service, nil
}

func (f *fakeRequestRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.ServiceRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NotFound("service request")
	}
	return request, nil
}

func (f *fakeRequestRepo) Create(
	ctx context.Context,
	tx *gorm.DB,
	request *models.ServiceRequest,
) error {
	request.ID = uuid.New()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRequestRepo) Save(
	ctx context.Context,
	tx *gorm.DB,
	request *models.ServiceRequest,
) error {
	f.requests[request.ID] = request
	return nil
}

type fixture struct {
	controller  *Controller
	requestRepo *fakeRequestRepo
	guest       *models.User
	staff       *models.User
	reservation *models.Reservation
	service     *models.Service
}

func newFixture(t *testing.T, status models.ReservationStatus) *fixture {
	t.Helper()

	guest := &models.User{Role: models.RoleGuest}
	guest.ID = uuid.New()
	staff := &models.User{Role: models.RoleStaff}
	staff.ID = uuid.New()

	reservation := &models.Reservation{GuestID: guest.ID, Status: status}
	reservation.ID = uuid.New()

	service := &models.Service{
		Name:  "Breakfast",
		Price: decimal.NewFromFloat(15.50),
	}
	service.ID = uuid.New()

	requestRepo := &fakeRequestRepo{
		services: map[uuid.UUID]*models.Service{service.ID: service},
		requests: map[uuid.UUID]*models.ServiceRequest{},
	}
	reservationRepo := &fakeReservationRepo{
		reservations: map[uuid.UUID]*models.Reservation{reservation.ID: reservation},
	}

	return &fixture{
		controller: &Controller{
			requestRepo:     requestRepo,
			reservationRepo: reservationRepo,
			tx:              stubTx{},
			log:             logger.New("test"),
		},
		requestRepo: requestRepo,
		guest:       guest,
		staff:       staff,
		reservation: reservation,
		service:     service,
	}
}

func TestController_CreateRequest(t *testing.T) {
	t.Run("freezes the price at creation", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)

		request, err := f.controller.Create(context.Background(), f.guest, CreateRequest{
			ReservationID: f.reservation.ID,
			ServiceID:     f.service.ID,
			Quantity:      3,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ServiceRequestRequested, request.Status)
		assert.True(
			t,
			request.TotalPrice.Equal(decimal.NewFromFloat(46.50)),
			"expected 46.50, got %s", request.TotalPrice,
		)

		// A later catalog price change leaves the stored total alone.
		f.service.Price = decimal.NewFromInt(99)
		assert.True(t, request.TotalPrice.Equal(decimal.NewFromFloat(46.50)))
	})

	t.Run("requires a confirmed or checked-in stay", func(t *testing.T) {
		for _, status := range []models.ReservationStatus{
			models.ReservationPending,
			models.ReservationCheckedOut,
			models.ReservationCancelled,
		} {
			f := newFixture(t, status)

			_, err := f.controller.Create(context.Background(), f.guest, CreateRequest{
				ReservationID: f.reservation.ID,
				ServiceID:     f.service.ID,
				Quantity:      1,
			})
			ve, ok := apperrors.AsValidation(err)
			require.True(t, ok, "status %s", status)
			assert.Equal(t, apperrors.ReasonNotActive, ve.Reason, "status %s", status)
		}
	})

	t.Run("strangers cannot order against another stay", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)

		stranger := &models.User{Role: models.RoleGuest}
		stranger.ID = uuid.New()

		_, err := f.controller.Create(context.Background(), stranger, CreateRequest{
			ReservationID: f.reservation.ID,
			ServiceID:     f.service.ID,
			Quantity:      1,
		})
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)

		_, err := f.controller.Create(context.Background(), f.guest, CreateRequest{
			ReservationID: f.reservation.ID,
			ServiceID:     f.service.ID,
			Quantity:      0,
		})
		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ReasonInvalidInput, ve.Reason)
	})
}

func TestController_UpdateStatus(t *testing.T) {
	newRequest := func(f *fixture, status models.ServiceRequestStatus) *models.ServiceRequest {
		request := &models.ServiceRequest{
			ReservationID: f.reservation.ID,
			ServiceID:     f.service.ID,
			Quantity:      1,
			Status:        status,
		}
		request.ID = uuid.New()
		f.requestRepo.requests[request.ID] = request
		return request
	}

	t.Run("staff walk the request through its states", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)
		request := newRequest(f, models.ServiceRequestRequested)

		updated, err := f.controller.UpdateStatus(
			context.Background(), f.staff, request.ID, models.ServiceRequestInProgress,
		)
		require.NoError(t, err)
		assert.Equal(t, models.ServiceRequestInProgress, updated.Status)

		updated, err = f.controller.UpdateStatus(
			context.Background(), f.staff, request.ID, models.ServiceRequestCompleted,
		)
		require.NoError(t, err)
		assert.Equal(t, models.ServiceRequestCompleted, updated.Status)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)
		request := newRequest(f, models.ServiceRequestRequested)

		_, err := f.controller.UpdateStatus(
			context.Background(), f.staff, request.ID, models.ServiceRequestCompleted,
		)
		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ReasonInvalidTransition, ve.Reason)
	})

	t.Run("guests cannot drive request status", func(t *testing.T) {
		f := newFixture(t, models.ReservationCheckedIn)
		request := newRequest(f, models.ServiceRequestRequested)

		_, err := f.controller.UpdateStatus(
			context.Background(), f.guest, request.ID, models.ServiceRequestInProgress,
		)
		assert.True(t, apperrors.IsAuthorization(err))
	})
}
