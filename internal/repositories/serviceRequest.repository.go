package repositories

import (
	"context"
	"errors"

	"innkeep/internal/apperrors"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRequestFilter narrows request listings; GuestID is the policy
// scope applied through the owning reservation.
type ServiceRequestFilter struct {
	GuestID       *uuid.UUID
	ReservationID *uuid.UUID
	Status        *ServiceRequestStatus
}

type ServiceRequestRepository interface {
	GetServices(ctx context.Context, tx *gorm.DB) ([]*Service, error)
	GetServiceByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Service, error)
	CreateService(ctx context.Context, tx *gorm.DB, service *Service) error
	UpdateService(ctx context.Context, tx *gorm.DB, service *Service) error
	DeleteService(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ServiceRequest, error)
	List(ctx context.Context, tx *gorm.DB, filter ServiceRequestFilter) ([]*ServiceRequest, error)
	Create(ctx context.Context, tx *gorm.DB, request *ServiceRequest) error
	Save(ctx context.Context, tx *gorm.DB, request *ServiceRequest) error
}

type serviceRequestRepository struct{}

func NewServiceRequestRepository() ServiceRequestRepository {
	return &serviceRequestRepository{}
}

func (r *serviceRequestRepository) GetServices(
	ctx context.Context,
	tx *gorm.DB,
) ([]*Service, error) {
	log := logger.New("serviceRequestRepository").Function("GetServices")

	var services []*Service
	if err := tx.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, log.Err("failed to get services", err)
	}

	return services, nil
}

func (r *serviceRequestRepository) GetServiceByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Service, error) {
	log := logger.New("serviceRequestRepository").Function("GetServiceByID")

	var service Service
	if err := tx.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("service")
		}
		return nil, log.Err("failed to get service", err, "serviceID", id)
	}

	return &service, nil
}

func (r *serviceRequestRepository) CreateService(
	ctx context.Context,
	tx *gorm.DB,
	service *Service,
) error {
	log := logger.New("serviceRequestRepository").Function("CreateService")

	if err := tx.WithContext(ctx).Create(service).Error; err != nil {
		return log.Err("failed to create service", err, "name", service.Name)
	}

	return nil
}

func (r *serviceRequestRepository) UpdateService(
	ctx context.Context,
	tx *gorm.DB,
	service *Service,
) error {
	log := logger.New("serviceRequestRepository").Function("UpdateService")

	if err := tx.WithContext(ctx).Save(service).Error; err != nil {
		return log.Err("failed to update service", err, "serviceID", service.ID)
	}

	return nil
}

func (r *serviceRequestRepository) DeleteService(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) error {
	log := logger.New("serviceRequestRepository").Function("DeleteService")

	var referencing int64
	if err := tx.WithContext(ctx).Model(&ServiceRequest{}).
		Where("service_id = ?", id).
		Count(&referencing).Error; err != nil {
		return log.Err("failed to count requests for service", err, "serviceID", id)
	}

	if referencing > 0 {
		return apperrors.Validation(
			apperrors.ReasonResourceInUse,
			"service is referenced by %d requests", referencing,
		)
	}

	result := tx.WithContext(ctx).Delete(&Service{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete service", result.Error, "serviceID", id)
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("service")
	}

	return nil
}

func (r *serviceRequestRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ServiceRequest, error) {
	log := logger.New("serviceRequestRepository").Function("GetByID")

	var request ServiceRequest
	if err := tx.WithContext(ctx).
		Preload("Reservation").
		Preload("Service").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("service request")
		}
		return nil, log.Err("failed to get service request", err, "requestID", id)
	}

	return &request, nil
}

func (r *serviceRequestRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ServiceRequestFilter,
) ([]*ServiceRequest, error) {
	log := logger.New("serviceRequestRepository").Function("List")

	query := tx.WithContext(ctx).
		Preload("Reservation").
		Preload("Service").
		Order("created_at DESC")

	if filter.GuestID != nil {
		query = query.Where(
			"reservation_id IN (?)",
			tx.Model(&Reservation{}).Select("id").Where("guest_id = ?", *filter.GuestID),
		)
	}
	if filter.ReservationID != nil {
		query = query.Where("reservation_id = ?", *filter.ReservationID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var requests []*ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, log.Err("failed to list service requests", err)
	}

	return requests, nil
}

func (r *serviceRequestRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	request *ServiceRequest,
) error {
	log := logger.New("serviceRequestRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(request).Error; err != nil {
		return log.Err(
			"failed to create service request",
			err,
			"reservationID", request.ReservationID,
			"serviceID", request.ServiceID,
		)
	}

	return nil
}

func (r *serviceRequestRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	request *ServiceRequest,
) error {
	log := logger.New("serviceRequestRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(request).Error; err != nil {
		return log.Err("failed to save service request", err, "requestID", request.ID)
	}

	return nil
}
