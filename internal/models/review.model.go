package models

import (
	"github.com/google/uuid"
)

// Review is a one-per-reservation guest rating, permitted only after
// checkout. The unique index on ReservationID backs the once-only rule.
type Review struct {
	BaseUUIDModel
	ReservationID uuid.UUID    `gorm:"type:uuid;uniqueIndex"                                json:"reservationId"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"reservation,omitempty"`
	GuestID       uuid.UUID    `gorm:"type:uuid;index"                                      json:"guestId"`
	Guest         *User        `gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT"      json:"guest,omitempty"`
	Rating        int          `gorm:"type:int"                                             json:"rating"`
	Comment       string       `gorm:"type:text"                                            json:"comment"`
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
