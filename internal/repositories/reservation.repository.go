package repositories

import (
	"context"
	"errors"
	"time"

	"innkeep/internal/apperrors"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationFilter narrows reservation listings. GuestID carries the
// access-policy scope: nil means unrestricted.
type ReservationFilter struct {
	GuestID *uuid.UUID
	RoomID  *uuid.UUID
	Status  *ReservationStatus
}

type ReservationRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reservation, error)
	List(ctx context.Context, tx *gorm.DB, filter ReservationFilter) ([]*Reservation, error)
	Create(ctx context.Context, tx *gorm.DB, reservation *Reservation) error
	Save(ctx context.Context, tx *gorm.DB, reservation *Reservation) error

	// HasConflict reports whether any blocking reservation on the room
	// intersects [start, end), optionally excluding one reservation (the
	// row being updated).
	HasConflict(
		ctx context.Context,
		tx *gorm.DB,
		roomID uuid.UUID,
		start, end time.Time,
		excludeID *uuid.UUID,
	) (bool, error)

	// BusyRoomIDs returns the rooms blocked for [start, end). Used by the
	// availability index; shares overlapScope with HasConflict so the two
	// predicates cannot diverge.
	BusyRoomIDs(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]uuid.UUID, error)
}

type reservationRepository struct{}

func NewReservationRepository() ReservationRepository {
	return &reservationRepository{}
}

// overlapScope is the single SQL form of the half-open interval test
// (models.IntervalsOverlap): a blocking reservation conflicts with
// [start, end) iff check_in < end AND check_out > start.
func overlapScope(start, end time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("status IN ?", ActiveReservationStatuses).
			Where("check_in < ? AND check_out > ?", end, start)
	}
}

func (r *reservationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Reservation, error) {
	log := logger.New("reservationRepository").Function("GetByID")

	var reservation Reservation
	if err := tx.WithContext(ctx).
		Preload("Guest").
		Preload("Room.RoomType").
		First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("reservation")
		}
		return nil, log.Err("failed to get reservation", err, "reservationID", id)
	}

	return &reservation, nil
}

func (r *reservationRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ReservationFilter,
) ([]*Reservation, error) {
	log := logger.New("reservationRepository").Function("List")

	query := tx.WithContext(ctx).
		Preload("Room.RoomType").
		Order("check_in ASC")

	if filter.GuestID != nil {
		query = query.Where("guest_id = ?", *filter.GuestID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var reservations []*Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, log.Err("failed to list reservations", err)
	}

	return reservations, nil
}

func (r *reservationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	reservation *Reservation,
) error {
	log := logger.New("reservationRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(reservation).Error; err != nil {
		return log.Err(
			"failed to create reservation",
			err,
			"guestID", reservation.GuestID,
			"roomID", reservation.RoomID,
		)
	}

	return nil
}

func (r *reservationRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	reservation *Reservation,
) error {
	log := logger.New("reservationRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(reservation).Error; err != nil {
		return log.Err("failed to save reservation", err, "reservationID", reservation.ID)
	}

	return nil
}

func (r *reservationRepository) HasConflict(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) (bool, error) {
	log := logger.New("reservationRepository").Function("HasConflict")

	query := tx.WithContext(ctx).
		Model(&Reservation{}).
		Scopes(overlapScope(start, end)).
		Where("room_id = ?", roomID)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, log.Err("failed to check reservation conflicts", err, "roomID", roomID)
	}

	return count > 0, nil
}

func (r *reservationRepository) BusyRoomIDs(
	ctx context.Context,
	tx *gorm.DB,
	start, end time.Time,
) ([]uuid.UUID, error) {
	log := logger.New("reservationRepository").Function("BusyRoomIDs")

	var roomIDs []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&Reservation{}).
		Scopes(overlapScope(start, end)).
		Distinct("room_id").
		Pluck("room_id", &roomIDs).Error; err != nil {
		return nil, log.Err("failed to get busy room ids", err)
	}

	return roomIDs, nil
}
