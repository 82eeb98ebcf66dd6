package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a booking. CheckedOut and
// Cancelled are terminal.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// ActiveReservationStatuses are the states that block a room for their date
// range. The overlap check and the availability index both filter on this
// exact set.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationCheckedIn,
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled},
	ReservationCheckedIn: {ReservationCheckedOut},
}

// CanTransitionTo reports whether the transition table permits moving from
// s to next. Terminal states permit nothing.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}

type Reservation struct {
	BaseUUIDModel
	GuestID    uuid.UUID         `gorm:"type:uuid;index"                                    json:"guestId"`
	Guest      *User             `gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT"    json:"guest,omitempty"`
	RoomID     uuid.UUID         `gorm:"type:uuid;index"                                    json:"roomId"`
	Room       *Room             `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"     json:"room,omitempty"`
	CheckIn    time.Time         `gorm:"type:date"                                          json:"checkIn"`
	CheckOut   time.Time         `gorm:"type:date"                                          json:"checkOut"`
	GuestCount int               `gorm:"type:int"                                           json:"guestCount"`
	TotalPrice decimal.Decimal   `gorm:"type:decimal(10,2)"                                 json:"totalPrice"`
	Status     ReservationStatus `gorm:"type:text;default:pending;index"                    json:"status"`
	// RefundAmount is set exactly once, at cancellation, and never
	// recomputed from current rates.
	RefundAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refundAmount,omitempty"`
}

// Nights returns the billable night count for [checkIn, checkOut), floored
// to 1. Range ordering is validated before pricing, so the floor is a
// defensive guard rather than a reachable branch.
func Nights(checkIn, checkOut time.Time) int {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}

// ComputeTotal derives the stay price from the nightly rate at booking
// time. The result is stored; later rate changes do not touch it.
func (r *Reservation) ComputeTotal(nightlyRate decimal.Decimal) decimal.Decimal {
	return nightlyRate.Mul(decimal.NewFromInt(int64(Nights(r.CheckIn, r.CheckOut))))
}

// RefundFor computes the cancellation refund as of today: 100% of the
// stored total when check-in is two or more days away, 50% otherwise.
func (r *Reservation) RefundFor(today time.Time) decimal.Decimal {
	daysUntilCheckIn := int(r.CheckIn.Sub(today).Hours() / 24)
	if daysUntilCheckIn < 2 {
		return r.TotalPrice.Mul(decimal.NewFromFloat(0.5))
	}
	return r.TotalPrice
}

// IntervalsOverlap is the half-open interval test: [aStart, aEnd) and
// [bStart, bEnd) conflict iff aStart < bEnd && aEnd > bStart. A checkout
// and a check-in on the same day do not conflict. The SQL condition in the
// reservation repository mirrors this predicate and must never diverge.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether the reservation's stay intersects [start, end).
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(r.CheckIn, r.CheckOut, start, end)
}
