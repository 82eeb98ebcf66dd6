package reservations

import (
	"context"
	"time"

	"innkeep/internal/apperrors"
	"innkeep/internal/database"
	"innkeep/internal/models"
	"innkeep/internal/policies"
	"innkeep/internal/repositories"
	"innkeep/internal/services"
	"innkeep/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Controller owns the reservation lifecycle: booking, date changes, and
// the pending → confirmed → checked_in → checked_out / cancelled
// transitions. Every mutation that touches room occupancy runs inside a
// transaction with the room row locked, so the overlap check and the
// write cannot interleave with a concurrent booking.
type Controller struct {
	db              *gorm.DB
	reservationRepo repositories.ReservationRepository
	roomRepo        repositories.RoomRepository
	tx              services.TxExecutor
	log             logger.Logger
}

func New(db database.DB, repos repositories.Repository, service services.Service) *Controller {
	return &Controller{
		db:              db.SQL,
		reservationRepo: repos.Reservation,
		roomRepo:        repos.Room,
		tx:              service.Transaction,
		log:             logger.New("reservationsController"),
	}
}

// BookRequest carries the guest-supplied booking parameters. Dates are
// interpreted as UTC calendar days.
type BookRequest struct {
	RoomID     uuid.UUID `json:"roomId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	GuestCount int       `json:"guestCount"`
}

// UpdateRequest carries a room, date, or party-size change for an
// existing reservation. All fields are required; the change re-runs full
// booking validation against the requested room.
type UpdateRequest struct {
	RoomID     uuid.UUID `json:"roomId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	GuestCount int       `json:"guestCount"`
}

// validateStay enforces the date and party guards shared by Book and
// Update, in a fixed order so callers always see the first applicable
// failure: past date, then range, then party size.
func validateStay(checkIn, checkOut time.Time, guestCount int) error {
	if checkIn.Before(utils.Today()) {
		return apperrors.Validation(
			apperrors.ReasonPastDate,
			"check-in date cannot be in the past",
		)
	}
	if !checkOut.After(checkIn) {
		return apperrors.Validation(
			apperrors.ReasonInvalidRange,
			"check-out must be after check-in",
		)
	}
	if guestCount < 1 {
		return apperrors.Validation(
			apperrors.ReasonInvalidInput,
			"guest count must be at least 1",
		)
	}
	return nil
}

// checkRoomFits enforces the room-level guards against a locked room row:
// capacity first, then operational status.
func checkRoomFits(room *models.Room, guestCount int) error {
	if room.RoomType != nil && guestCount > room.RoomType.Capacity {
		return apperrors.Validation(
			apperrors.ReasonCapacityExceeded,
			"room sleeps %d, requested %d", room.RoomType.Capacity, guestCount,
		)
	}
	if room.Status == models.RoomMaintenance {
		return apperrors.Validation(
			apperrors.ReasonRoomUnavailable,
			"room %s is under maintenance", room.Number,
		)
	}
	return nil
}

// Book creates a pending reservation for the acting guest. Only the
// guest role books; staff manage existing reservations but do not hold
// stays of their own. The room row is locked before the overlap check so
// two concurrent bookings for the same room serialize; the loser sees
// ROOM_CONFLICT.
func (c *Controller) Book(
	ctx context.Context,
	actor *models.User,
	req BookRequest,
) (*models.Reservation, error) {
	log := c.log.Function("Book")

	if actor == nil {
		return nil, apperrors.Authorization("authentication required")
	}
	if !actor.IsGuest() {
		return nil, apperrors.Authorization("only guests can book rooms")
	}

	checkIn := utils.TruncateToDay(req.CheckIn)
	checkOut := utils.TruncateToDay(req.CheckOut)

	if err := validateStay(checkIn, checkOut, req.GuestCount); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		GuestID:    actor.ID,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.GuestCount,
		Status:     models.ReservationPending,
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		room, err := c.roomRepo.LockRoomByID(ctx, tx, req.RoomID)
		if err != nil {
			return err
		}

		if err := checkRoomFits(room, req.GuestCount); err != nil {
			return err
		}

		conflict, err := c.reservationRepo.HasConflict(
			ctx, tx, room.ID, checkIn, checkOut, nil,
		)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.Validation(
				apperrors.ReasonRoomConflict,
				"room %s is already reserved for part of this stay", room.Number,
			)
		}

		reservation.TotalPrice = reservation.ComputeTotal(room.RoomType.NightlyRate)

		return c.reservationRepo.Create(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"reservation booked",
		"reservationID", reservation.ID,
		"roomID", reservation.RoomID,
		"guestID", reservation.GuestID,
	)

	return reservation, nil
}

// Get returns a single reservation, subject to the view policy.
func (c *Controller) Get(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Reservation, error) {
	reservation, err := c.reservationRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewReservation(actor, reservation) {
		return nil, apperrors.Authorization("not permitted to view this reservation")
	}

	return reservation, nil
}

// List returns reservations visible to the actor. Guests only ever see
// their own rows regardless of the requested filter.
func (c *Controller) List(
	ctx context.Context,
	actor *models.User,
	filter repositories.ReservationFilter,
) ([]*models.Reservation, error) {
	if scope := policies.ReservationScope(actor); scope != nil {
		filter.GuestID = scope
	}

	return c.reservationRepo.List(ctx, c.db, filter)
}

// Update changes the room, stay dates, or party size of a non-terminal
// reservation, re-running the full booking validation against the
// requested room with the reservation's own row excluded from the
// overlap check. The total price is recomputed from the room's current
// rate.
func (c *Controller) Update(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
	req UpdateRequest,
) (*models.Reservation, error) {
	log := c.log.Function("Update")

	checkIn := utils.TruncateToDay(req.CheckIn)
	checkOut := utils.TruncateToDay(req.CheckOut)

	if err := validateStay(checkIn, checkOut, req.GuestCount); err != nil {
		return nil, err
	}

	var reservation *models.Reservation
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		reservation, err = c.reservationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !policies.CanViewReservation(actor, reservation) {
			return apperrors.Authorization("not permitted to modify this reservation")
		}

		if reservation.Status.IsTerminal() {
			return apperrors.Validation(
				apperrors.ReasonNotActive,
				"a %s reservation can no longer be changed", reservation.Status,
			)
		}

		room, err := c.roomRepo.LockRoomByID(ctx, tx, req.RoomID)
		if err != nil {
			return err
		}

		if err := checkRoomFits(room, req.GuestCount); err != nil {
			return err
		}

		conflict, err := c.reservationRepo.HasConflict(
			ctx, tx, room.ID, checkIn, checkOut, &reservation.ID,
		)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.Validation(
				apperrors.ReasonRoomConflict,
				"room %s is already reserved for part of this stay", room.Number,
			)
		}

		reservation.RoomID = room.ID
		reservation.CheckIn = checkIn
		reservation.CheckOut = checkOut
		reservation.GuestCount = req.GuestCount
		reservation.TotalPrice = reservation.ComputeTotal(room.RoomType.NightlyRate)

		return c.reservationRepo.Save(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info("reservation updated", "reservationID", reservation.ID)

	return reservation, nil
}

// Confirm moves a pending reservation to confirmed. Staff only.
func (c *Controller) Confirm(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Reservation, error) {
	if !policies.CanOperateReservations(actor) {
		return nil, apperrors.Authorization("staff role required")
	}

	var reservation *models.Reservation
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		reservation, err = c.reservationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Status.CanTransitionTo(models.ReservationConfirmed) {
			return apperrors.Validation(
				apperrors.ReasonInvalidTransition,
				"cannot confirm a %s reservation", reservation.Status,
			)
		}

		reservation.Status = models.ReservationConfirmed

		return c.reservationRepo.Save(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// CheckIn moves a confirmed reservation to checked_in and marks the room
// occupied in the same transaction. Allowed only on the reservation's
// check-in date.
func (c *Controller) CheckIn(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Reservation, error) {
	log := c.log.Function("CheckIn")

	if !policies.CanOperateReservations(actor) {
		return nil, apperrors.Authorization("staff role required")
	}

	var reservation *models.Reservation
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		reservation, err = c.reservationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Status.CanTransitionTo(models.ReservationCheckedIn) {
			return apperrors.Validation(
				apperrors.ReasonInvalidTransition,
				"cannot check in a %s reservation", reservation.Status,
			)
		}

		if !utils.Today().Equal(utils.TruncateToDay(reservation.CheckIn)) {
			return apperrors.Validation(
				apperrors.ReasonNotCheckInDate,
				"check-in is only allowed on %s",
				reservation.CheckIn.Format(utils.DateFormat),
			)
		}

		reservation.Status = models.ReservationCheckedIn
		if err := c.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}

		return c.roomRepo.SetStatus(ctx, tx, reservation.RoomID, models.RoomOccupied)
	})
	if err != nil {
		return nil, err
	}

	log.Info("guest checked in", "reservationID", reservation.ID, "roomID", reservation.RoomID)

	return reservation, nil
}

// CheckOut moves a checked_in reservation to checked_out and sends the
// room to cleaning in the same transaction.
func (c *Controller) CheckOut(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Reservation, error) {
	log := c.log.Function("CheckOut")

	if !policies.CanOperateReservations(actor) {
		return nil, apperrors.Authorization("staff role required")
	}

	var reservation *models.Reservation
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		reservation, err = c.reservationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Status.CanTransitionTo(models.ReservationCheckedOut) {
			return apperrors.Validation(
				apperrors.ReasonInvalidTransition,
				"cannot check out a %s reservation", reservation.Status,
			)
		}

		reservation.Status = models.ReservationCheckedOut
		if err := c.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}

		return c.roomRepo.SetStatus(ctx, tx, reservation.RoomID, models.RoomCleaning)
	})
	if err != nil {
		return nil, err
	}

	log.Info("guest checked out", "reservationID", reservation.ID, "roomID", reservation.RoomID)

	return reservation, nil
}

// Cancel cancels a pending or confirmed reservation and records the
// refund: the full stored total when check-in is two or more days away,
// half otherwise. The refund is computed once and never revised.
func (c *Controller) Cancel(
	ctx context.Context,
	actor *models.User,
	id uuid.UUID,
) (*models.Reservation, error) {
	log := c.log.Function("Cancel")

	var reservation *models.Reservation
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		reservation, err = c.reservationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if !policies.CanCancelReservation(actor, reservation) {
			return apperrors.Authorization("not permitted to cancel this reservation")
		}

		if !reservation.Status.CanTransitionTo(models.ReservationCancelled) {
			return apperrors.Validation(
				apperrors.ReasonInvalidTransition,
				"cannot cancel a %s reservation", reservation.Status,
			)
		}

		refund := reservation.RefundFor(utils.Today())
		reservation.RefundAmount = &refund
		reservation.Status = models.ReservationCancelled

		return c.reservationRepo.Save(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"reservation cancelled",
		"reservationID", reservation.ID,
		"refund", reservation.RefundAmount,
	)

	return reservation, nil
}
