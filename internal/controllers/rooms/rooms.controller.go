package rooms

import (
	"context"
	"time"

	"innkeep/internal/apperrors"
	"innkeep/internal/database"
	"innkeep/internal/models"
	"innkeep/internal/policies"
	"innkeep/internal/repositories"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Controller owns the room catalog: room types, rooms, operational status,
// and the availability query. Catalog reads are public; mutation requires
// a staff role.
type Controller struct {
	db           *gorm.DB
	roomRepo     repositories.RoomRepository
	availability *services.AvailabilityService
	log          logger.Logger
}

func New(db database.DB, repos repositories.Repository, service services.Service) *Controller {
	return &Controller{
		db:           db.SQL,
		roomRepo:     repos.Room,
		availability: service.Availability,
		log:          logger.New("roomsController"),
	}
}

type RoomTypeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	Capacity    int             `json:"capacity"`
	Amenities   datatypes.JSON  `json:"amenities"`
}

func (r RoomTypeRequest) validate() error {
	if r.Name == "" {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "room type name is required")
	}
	if r.Capacity < 1 {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "capacity must be at least 1")
	}
	if r.NightlyRate.IsNegative() {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "nightly rate cannot be negative")
	}
	return nil
}

func (c *Controller) ListRoomTypes(ctx context.Context) ([]*models.RoomType, error) {
	return c.roomRepo.GetRoomTypes(ctx, c.db)
}

func (c *Controller) GetRoomType(ctx context.Context, id uuid.UUID) (*models.RoomType, error) {
	return c.roomRepo.GetRoomTypeByID(ctx, c.db, id)
}

func (c *Controller) CreateRoomType(
	ctx context.Context,
	actor *models.User,
	req RoomTypeRequest,
) (*models.RoomType, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	roomType := &models.RoomType{
		Name:        req.Name,
		Description: req.Description,
		NightlyRate: req.NightlyRate,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
	}

	if err := c.roomRepo.CreateRoomType(ctx, c.db, roomType); err != nil {
		return nil, err
	}

	return roomType, nil
}

func (c *Controller) UpdateRoomType(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	req RoomTypeRequest,
) (*models.RoomType, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	roomType, err := c.roomRepo.GetRoomTypeByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	roomType.Name = req.Name
	roomType.Description = req.Description
	roomType.NightlyRate = req.NightlyRate
	roomType.Capacity = req.Capacity
	roomType.Amenities = req.Amenities

	if err := c.roomRepo.UpdateRoomType(ctx, c.db, roomType); err != nil {
		return nil, err
	}

	return roomType, nil
}

func (c *Controller) DeleteRoomType(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) error {
	if !policies.CanManageCatalog(actor) {
		return apperrors.Authorization("staff role required")
	}

	return c.roomRepo.DeleteRoomType(ctx, c.db, id)
}

type RoomRequest struct {
	Number     string    `json:"number"`
	Floor      int       `json:"floor"`
	RoomTypeID uuid.UUID `json:"roomTypeId"`
}

func (r RoomRequest) validate() error {
	if r.Number == "" {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "room number is required")
	}
	if r.RoomTypeID == uuid.Nil {
		return apperrors.Validation(apperrors.ReasonInvalidInput, "room type id is required")
	}
	return nil
}

func (c *Controller) ListRooms(
	ctx context.Context,
	filter repositories.RoomFilter,
) ([]*models.Room, error) {
	return c.roomRepo.GetRooms(ctx, c.db, filter)
}

func (c *Controller) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return c.roomRepo.GetRoomByID(ctx, c.db, id)
}

func (c *Controller) CreateRoom(
	ctx context.Context,
	actor *models.User,
	req RoomRequest,
) (*models.Room, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Reject unknown room types up front so the caller sees a not-found
	// instead of a foreign key violation.
	if _, err := c.roomRepo.GetRoomTypeByID(ctx, c.db, req.RoomTypeID); err != nil {
		return nil, err
	}

	room := &models.Room{
		Number:     req.Number,
		Floor:      req.Floor,
		RoomTypeID: req.RoomTypeID,
		Status:     models.RoomAvailable,
	}

	if err := c.roomRepo.CreateRoom(ctx, c.db, room); err != nil {
		return nil, err
	}

	return c.roomRepo.GetRoomByID(ctx, c.db, room.ID)
}

func (c *Controller) UpdateRoom(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	req RoomRequest,
) (*models.Room, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	room, err := c.roomRepo.GetRoomByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	if room.RoomTypeID != req.RoomTypeID {
		if _, err := c.roomRepo.GetRoomTypeByID(ctx, c.db, req.RoomTypeID); err != nil {
			return nil, err
		}
	}

	room.Number = req.Number
	room.Floor = req.Floor
	room.RoomTypeID = req.RoomTypeID
	room.RoomType = nil

	if err := c.roomRepo.UpdateRoom(ctx, c.db, room); err != nil {
		return nil, err
	}

	return c.roomRepo.GetRoomByID(ctx, c.db, room.ID)
}

func (c *Controller) DeleteRoom(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) error {
	if !policies.CanManageCatalog(actor) {
		return apperrors.Authorization("staff role required")
	}

	return c.roomRepo.DeleteRoom(ctx, c.db, id)
}

// SetRoomStatus is the housekeeping control: maintenance, cleaning,
// available. Occupied is driven by check-in/check-out and can also be set
// here to correct operator mistakes.
func (c *Controller) SetRoomStatus(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	status models.RoomStatus,
) (*models.Room, error) {
	if !policies.CanManageCatalog(actor) {
		return nil, apperrors.Authorization("staff role required")
	}
	if !status.IsValid() {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidInput,
			"unknown room status %q", status,
		)
	}

	if err := c.roomRepo.SetStatus(ctx, c.db, id, status); err != nil {
		return nil, err
	}

	return c.roomRepo.GetRoomByID(ctx, c.db, id)
}

// QueryAvailability lists the rooms free for the half-open window
// [start, end), optionally filtered to a minimum capacity. Public.
func (c *Controller) QueryAvailability(
	ctx context.Context,
	start, end time.Time,
	minCapacity *int,
) ([]*models.Room, error) {
	return c.availability.QueryAvailable(ctx, c.db, start, end, minCapacity)
}
