package services

import (
	"context"
	"time"

	"innkeep/internal/apperrors"
	"innkeep/internal/models"
	"innkeep/internal/repositories"
	"innkeep/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityService answers "which rooms are free for [start, end)".
// A room qualifies when its own status is bookable and no blocking
// reservation overlaps the window. The overlap test is the reservation
// repository's, so the index and the booking conflict check always agree.
type AvailabilityService struct {
	reservationRepo repositories.ReservationRepository
	roomRepo        repositories.RoomRepository
	log             logger.Logger
}

func NewAvailabilityService(repos repositories.Repository) *AvailabilityService {
	return &AvailabilityService{
		reservationRepo: repos.Reservation,
		roomRepo:        repos.Room,
		log:             logger.New("AvailabilityService"),
	}
}

// QueryAvailable returns the free rooms for the window, optionally
// filtered to a minimum sleeping capacity. Past windows are answered
// too; only booking enforces the no-past-dates rule. The result is
// advisory only; booking re-checks under a row lock.
func (s *AvailabilityService) QueryAvailable(
	ctx context.Context,
	tx *gorm.DB,
	start, end time.Time,
	minCapacity *int,
) ([]*models.Room, error) {
	log := s.log.Function("QueryAvailable")

	start = utils.TruncateToDay(start)
	end = utils.TruncateToDay(end)

	if !end.After(start) {
		return nil, apperrors.Validation(
			apperrors.ReasonInvalidRange,
			"window end must be after start",
		)
	}

	busy, err := s.reservationRepo.BusyRoomIDs(ctx, tx, start, end)
	if err != nil {
		return nil, log.Err("failed to resolve busy rooms", err)
	}

	rooms, err := s.roomRepo.GetBookableRooms(ctx, tx, minCapacity, busy)
	if err != nil {
		return nil, log.Err("failed to resolve bookable rooms", err)
	}

	return rooms, nil
}

// IsRoomFree answers the single-room form of the same question, excluding
// one reservation when re-validating a date change.
func (s *AvailabilityService) IsRoomFree(
	ctx context.Context,
	tx *gorm.DB,
	room *models.Room,
	start, end time.Time,
	excludeReservationID *uuid.UUID,
) (bool, error) {
	conflict, err := s.reservationRepo.HasConflict(
		ctx, tx, room.ID, start, end, excludeReservationID,
	)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}
