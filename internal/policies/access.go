// Package policies centralizes the role-based visibility and mutation
// rules. Every controller consults these functions before touching a
// record instead of inlining role conditionals per endpoint.
package policies

import (
	"innkeep/internal/models"

	"github.com/google/uuid"
)

// CanViewReservation: guests see only their own reservations; staff and
// managers see all.
func CanViewReservation(actor *models.User, reservation *models.Reservation) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff() {
		return true
	}
	return reservation.GuestID == actor.ID
}

// CanCancelReservation: the owning guest or any staff/manager.
func CanCancelReservation(actor *models.User, reservation *models.Reservation) bool {
	return CanViewReservation(actor, reservation)
}

// CanViewServiceRequest follows the owning reservation's visibility.
func CanViewServiceRequest(actor *models.User, request *models.ServiceRequest) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff() {
		return true
	}
	return request.Reservation != nil && request.Reservation.GuestID == actor.ID
}

// CanViewReview: guests see their own reviews, staff see all.
func CanViewReview(actor *models.User, review *models.Review) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff() {
		return true
	}
	return review.GuestID == actor.ID
}

// CanManageCatalog gates room, room-type, and service catalog mutation.
func CanManageCatalog(actor *models.User) bool {
	return actor != nil && actor.IsStaff()
}

// CanOperateReservations gates confirm, check-in, and check-out.
func CanOperateReservations(actor *models.User) bool {
	return actor != nil && actor.IsStaff()
}

// ReservationScope returns the guest id listings must be filtered by: nil
// means unrestricted (staff/manager), otherwise only rows owned by the
// returned id are visible. An anonymous actor scopes to the nil UUID,
// which matches no rows.
func ReservationScope(actor *models.User) *uuid.UUID {
	if actor == nil {
		id := uuid.Nil
		return &id
	}
	if actor.IsStaff() {
		return nil
	}
	id := actor.ID
	return &id
}
