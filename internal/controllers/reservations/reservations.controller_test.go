package reservations

import (
	"context"
	"testing"
	"time"

	"innkeep/internal/apperrors"
	"innkeep/internal/models"
	"innkeep/internal/repositories"
	"innkeep/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubTx runs the transactional function directly; the fakes below ignore
// the tx handle.
type stubTx struct{}

func (stubTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

type fakeRoomRepo struct {
	repositories.RoomRepository
	rooms map[uuid.UUID]*models.Room
}

func (f *fakeRoomRepo) LockRoomByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, apperrors.NotFound("room")
	}
	return room, nil
}

func (f *fakeRoomRepo) GetRoomByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Room, error) {
	return f.LockRoomByID(ctx, tx, id)
}

func (f *fakeRoomRepo) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	status models.RoomStatus,
) error {
	room, ok := f.rooms[roomID]
	if !ok {
		return apperrors.NotFound("room")
	}
	room.Status = status
	return nil
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

func (f *fakeReservationRepo) Create(
	ctx context.Context,
	tx *gorm.DB,
	reservation *models.Reservation,
) error {
	reservation.ID = uuid.New()
	f.reservations[reservation.ID] = reservation
	return nil
}

func (f *fakeReservationRepo) Save(
	ctx context.Context,
	tx *gorm.DB,
	reservation *models.Reservation,
) error {
	f.reservations[reservation.ID] = reservation
	return nil
}

func (f *fakeReservationRepo) HasConflict(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) (bool, error) {
	for _, existing := range f.reservations {
		if existing.RoomID != roomID {
			continue
		}
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		blocking := false
		for _, status := range models.ActiveReservationStatuses {
			if existing.Status == status {
				blocking = true
			}
		}
		if blocking && existing.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

type fixture struct {
	controller      *Controller
	roomRepo        *fakeRoomRepo
	reservationRepo *fakeReservationRepo
	room            *models.Room
	guest           *models.User
	staff           *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	roomType := &models.RoomType{
		Name:        "Standard",
		NightlyRate: decimal.NewFromInt(100),
		Capacity:    2,
	}
	roomType.ID = uuid.New()

	room := &models.Room{
		Number:     "101",
		RoomTypeID: roomType.ID,
		RoomType:   roomType,
		Status:     models.RoomAvailable,
	}
	room.ID = uuid.New()

	guest := &models.User{Role: models.RoleGuest}
	guest.ID = uuid.New()
	staff := &models.User{Role: models.RoleStaff}
	staff.ID = uuid.New()

	roomRepo := &fakeRoomRepo{rooms: map[uuid.UUID]*models.Room{room.ID: room}}
	reservationRepo := &fakeReservationRepo{
		reservations: map[uuid.UUID]*models.Reservation{},
	}

	return &fixture{
		controller: &Controller{
			roomRepo:        roomRepo,
			reservationRepo: reservationRepo,
			tx:              stubTx{},
			log:             logger.New("test"),
		},
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		room:            room,
		guest:           guest,
		staff:           staff,
	}
}

func (f *fixture) bookStay(t *testing.T, daysOut, nights int) *models.Reservation {
	t.Helper()

	checkIn := utils.Today().AddDate(0, 0, daysOut)
	reservation, err := f.controller.Book(context.Background(), f.guest, BookRequest{
		RoomID:     f.room.ID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, nights),
		GuestCount: 2,
	})
	require.NoError(t, err)
	return reservation
}

func assertReason(t *testing.T, err error, reason apperrors.Reason) {
	t.Helper()

	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, reason, ve.Reason)
}

func TestController_Book(t *testing.T) {
	t.Run("prices the stay from nights and rate", func(t *testing.T) {
		f := newFixture(t)

		reservation := f.bookStay(t, 10, 4)

		assert.Equal(t, models.ReservationPending, reservation.Status)
		assert.True(
			t,
			reservation.TotalPrice.Equal(decimal.NewFromInt(400)),
			"expected 400, got %s", reservation.TotalPrice,
		)
		assert.Equal(t, f.guest.ID, reservation.GuestID)
	})

	t.Run("rejects past check-in", func(t *testing.T) {
		f := newFixture(t)

		yesterday := utils.Today().AddDate(0, 0, -1)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    yesterday,
			CheckOut:   yesterday.AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assertReason(t, err, apperrors.ReasonPastDate)
	})

	t.Run("rejects inverted and empty ranges", func(t *testing.T) {
		f := newFixture(t)

		checkIn := utils.Today().AddDate(0, 0, 5)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn,
			GuestCount: 1,
		})
		assertReason(t, err, apperrors.ReasonInvalidRange)

		_, err = f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, -2),
			GuestCount: 1,
		})
		assertReason(t, err, apperrors.ReasonInvalidRange)
	})

	t.Run("rejects oversized parties", func(t *testing.T) {
		f := newFixture(t)

		checkIn := utils.Today().AddDate(0, 0, 5)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
			GuestCount: 3,
		})
		assertReason(t, err, apperrors.ReasonCapacityExceeded)
	})

	t.Run("rejects rooms under maintenance", func(t *testing.T) {
		f := newFixture(t)
		f.room.Status = models.RoomMaintenance

		checkIn := utils.Today().AddDate(0, 0, 5)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assertReason(t, err, apperrors.ReasonRoomUnavailable)
	})

	t.Run("rejects overlapping stays", func(t *testing.T) {
		f := newFixture(t)
		f.bookStay(t, 10, 4)

		checkIn := utils.Today().AddDate(0, 0, 12)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assertReason(t, err, apperrors.ReasonRoomConflict)
	})

	t.Run("back-to-back stays share a day without conflict", func(t *testing.T) {
		f := newFixture(t)
		f.bookStay(t, 10, 4)

		// Next stay checks in on the previous checkout day.
		checkIn := utils.Today().AddDate(0, 0, 14)
		_, err := f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("requires authentication", func(t *testing.T) {
		f := newFixture(t)

		checkIn := utils.Today().AddDate(0, 0, 5)
		_, err := f.controller.Book(context.Background(), nil, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("only the guest role can book", func(t *testing.T) {
		f := newFixture(t)

		manager := &models.User{Role: models.RoleManager}
		manager.ID = uuid.New()

		checkIn := utils.Today().AddDate(0, 0, 5)
		for _, actor := range []*models.User{f.staff, manager} {
			_, err := f.controller.Book(context.Background(), actor, BookRequest{
				RoomID:     f.room.ID,
				CheckIn:    checkIn,
				CheckOut:   checkIn.AddDate(0, 0, 2),
				GuestCount: 1,
			})
			assert.True(t, apperrors.IsAuthorization(err), "role %s", actor.Role)
		}
	})
}

func TestController_Update(t *testing.T) {
	t.Run("own dates do not conflict with themselves", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 4)

		updated, err := f.controller.Update(
			context.Background(),
			f.guest,
			reservation.ID,
			UpdateRequest{
				RoomID:     f.room.ID,
				CheckIn:    reservation.CheckIn,
				CheckOut:   reservation.CheckOut.AddDate(0, 0, 1),
				GuestCount: 2,
			},
		)
		require.NoError(t, err)
		assert.True(
			t,
			updated.TotalPrice.Equal(decimal.NewFromInt(500)),
			"expected repriced total 500, got %s", updated.TotalPrice,
		)
	})

	t.Run("cannot move onto another reservation", func(t *testing.T) {
		f := newFixture(t)
		f.bookStay(t, 10, 2)
		second := f.bookStay(t, 20, 2)

		checkIn := utils.Today().AddDate(0, 0, 11)
		_, err := f.controller.Update(
			context.Background(),
			f.guest,
			second.ID,
			UpdateRequest{
				RoomID:     f.room.ID,
				CheckIn:    checkIn,
				CheckOut:   checkIn.AddDate(0, 0, 2),
				GuestCount: 1,
			},
		)
		assertReason(t, err, apperrors.ReasonRoomConflict)
	})

	t.Run("moving rooms re-validates and reprices against the new room", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 4)

		suiteType := &models.RoomType{
			Name:        "Suite",
			NightlyRate: decimal.NewFromInt(320),
			Capacity:    4,
		}
		suiteType.ID = uuid.New()
		suite := &models.Room{
			Number:     "301",
			RoomTypeID: suiteType.ID,
			RoomType:   suiteType,
			Status:     models.RoomAvailable,
		}
		suite.ID = uuid.New()
		f.roomRepo.rooms[suite.ID] = suite

		updated, err := f.controller.Update(
			context.Background(),
			f.guest,
			reservation.ID,
			UpdateRequest{
				RoomID:     suite.ID,
				CheckIn:    reservation.CheckIn,
				CheckOut:   reservation.CheckOut,
				GuestCount: 4,
			},
		)
		require.NoError(t, err)
		assert.Equal(t, suite.ID, updated.RoomID)
		assert.True(
			t,
			updated.TotalPrice.Equal(decimal.NewFromInt(1280)),
			"expected repriced total 1280, got %s", updated.TotalPrice,
		)

		// The old room is free for the vacated dates again.
		_, err = f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    reservation.CheckIn,
			CheckOut:   reservation.CheckOut,
			GuestCount: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("cannot move onto an occupied room", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)

		secondType := &models.RoomType{
			Name:        "Standard",
			NightlyRate: decimal.NewFromInt(100),
			Capacity:    2,
		}
		secondType.ID = uuid.New()
		second := &models.Room{
			Number:     "102",
			RoomTypeID: secondType.ID,
			RoomType:   secondType,
			Status:     models.RoomAvailable,
		}
		second.ID = uuid.New()
		f.roomRepo.rooms[second.ID] = second

		blocker := &models.Reservation{
			RoomID:     second.ID,
			GuestID:    uuid.New(),
			CheckIn:    reservation.CheckIn,
			CheckOut:   reservation.CheckOut,
			GuestCount: 1,
			Status:     models.ReservationConfirmed,
		}
		blocker.ID = uuid.New()
		f.reservationRepo.reservations[blocker.ID] = blocker

		_, err := f.controller.Update(
			context.Background(),
			f.guest,
			reservation.ID,
			UpdateRequest{
				RoomID:     second.ID,
				CheckIn:    reservation.CheckIn,
				CheckOut:   reservation.CheckOut,
				GuestCount: 1,
			},
		)
		assertReason(t, err, apperrors.ReasonRoomConflict)
	})

	t.Run("other guests cannot modify", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)

		stranger := &models.User{Role: models.RoleGuest}
		stranger.ID = uuid.New()

		_, err := f.controller.Update(
			context.Background(),
			stranger,
			reservation.ID,
			UpdateRequest{
				RoomID:     f.room.ID,
				CheckIn:    reservation.CheckIn,
				CheckOut:   reservation.CheckOut,
				GuestCount: 1,
			},
		)
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("checked-in stays can still be changed", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)
		reservation.Status = models.ReservationCheckedIn

		updated, err := f.controller.Update(
			context.Background(),
			f.guest,
			reservation.ID,
			UpdateRequest{
				RoomID:     f.room.ID,
				CheckIn:    reservation.CheckIn,
				CheckOut:   reservation.CheckOut.AddDate(0, 0, 1),
				GuestCount: 1,
			},
		)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationCheckedIn, updated.Status)
	})

	t.Run("terminal stays are frozen", func(t *testing.T) {
		for _, status := range []models.ReservationStatus{
			models.ReservationCheckedOut,
			models.ReservationCancelled,
		} {
			f := newFixture(t)
			reservation := f.bookStay(t, 10, 2)
			reservation.Status = status

			_, err := f.controller.Update(
				context.Background(),
				f.guest,
				reservation.ID,
				UpdateRequest{
					RoomID:     f.room.ID,
					CheckIn:    reservation.CheckIn,
					CheckOut:   reservation.CheckOut,
					GuestCount: 1,
				},
			)
			assertReason(t, err, apperrors.ReasonNotActive)
		}
	})
}

func TestController_Lifecycle(t *testing.T) {
	t.Run("confirm then check in on the check-in day", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 0, 2)

		confirmed, err := f.controller.Confirm(context.Background(), f.staff, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationConfirmed, confirmed.Status)

		checkedIn, err := f.controller.CheckIn(context.Background(), f.staff, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationCheckedIn, checkedIn.Status)
		assert.Equal(t, models.RoomOccupied, f.room.Status)
	})

	t.Run("check-in requires the check-in date", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 3, 2)
		reservation.Status = models.ReservationConfirmed

		_, err := f.controller.CheckIn(context.Background(), f.staff, reservation.ID)
		assertReason(t, err, apperrors.ReasonNotCheckInDate)
	})

	t.Run("double check-in fails", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 0, 2)
		reservation.Status = models.ReservationConfirmed

		_, err := f.controller.CheckIn(context.Background(), f.staff, reservation.ID)
		require.NoError(t, err)

		_, err = f.controller.CheckIn(context.Background(), f.staff, reservation.ID)
		assertReason(t, err, apperrors.ReasonInvalidTransition)
	})

	t.Run("guests cannot run the desk", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 0, 2)

		_, err := f.controller.Confirm(context.Background(), f.guest, reservation.ID)
		assert.True(t, apperrors.IsAuthorization(err))

		_, err = f.controller.CheckIn(context.Background(), f.guest, reservation.ID)
		assert.True(t, apperrors.IsAuthorization(err))

		_, err = f.controller.CheckOut(context.Background(), f.guest, reservation.ID)
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("check-out sends the room to cleaning", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 0, 2)
		reservation.Status = models.ReservationCheckedIn
		f.room.Status = models.RoomOccupied

		checkedOut, err := f.controller.CheckOut(context.Background(), f.staff, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationCheckedOut, checkedOut.Status)
		assert.Equal(t, models.RoomCleaning, f.room.Status)
	})

	t.Run("cannot check out without checking in", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 0, 2)

		_, err := f.controller.CheckOut(context.Background(), f.staff, reservation.ID)
		assertReason(t, err, apperrors.ReasonInvalidTransition)
	})
}

func TestController_Cancel(t *testing.T) {
	t.Run("late cancellation refunds half", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 1, 4)

		cancelled, err := f.controller.Cancel(context.Background(), f.guest, reservation.ID)
		require.NoError(t, err)

		assert.Equal(t, models.ReservationCancelled, cancelled.Status)
		require.NotNil(t, cancelled.RefundAmount)
		assert.True(
			t,
			cancelled.RefundAmount.Equal(decimal.NewFromInt(200)),
			"expected refund 200, got %s", cancelled.RefundAmount,
		)
	})

	t.Run("early cancellation refunds everything", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 4)

		cancelled, err := f.controller.Cancel(context.Background(), f.guest, reservation.ID)
		require.NoError(t, err)

		require.NotNil(t, cancelled.RefundAmount)
		assert.True(
			t,
			cancelled.RefundAmount.Equal(decimal.NewFromInt(400)),
			"expected refund 400, got %s", cancelled.RefundAmount,
		)
	})

	t.Run("strangers cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)

		stranger := &models.User{Role: models.RoleGuest}
		stranger.ID = uuid.New()

		_, err := f.controller.Cancel(context.Background(), stranger, reservation.ID)
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("staff can cancel on behalf of a guest", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)

		cancelled, err := f.controller.Cancel(context.Background(), f.staff, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationCancelled, cancelled.Status)
	})

	t.Run("checked-in stays cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		reservation := f.bookStay(t, 10, 2)
		reservation.Status = models.ReservationCheckedIn

		_, err := f.controller.Cancel(context.Background(), f.guest, reservation.ID)
		assertReason(t, err, apperrors.ReasonInvalidTransition)
	})

	t.Run("cancelled reservations free the room", func(t *testing.T) {
		f := newFixture(t)
		first := f.bookStay(t, 10, 4)

		_, err := f.controller.Cancel(context.Background(), f.guest, first.ID)
		require.NoError(t, err)

		// The same dates can be booked again.
		_, err = f.controller.Book(context.Background(), f.guest, BookRequest{
			RoomID:     f.room.ID,
			CheckIn:    first.CheckIn,
			CheckOut:   first.CheckOut,
			GuestCount: 1,
		})
		assert.NoError(t, err)
	})
}
