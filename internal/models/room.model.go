package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RoomStatus is the physical state of a room. It is mutated only by the
// reservation engine (check-in/check-out) or by staff, never by guests.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}

// BookableRoomStatuses are the room states the availability index treats as
// free: a room still being cleaned can take a future booking.
var BookableRoomStatuses = []RoomStatus{RoomAvailable, RoomCleaning}

// RoomType groups rooms sharing a nightly rate and capacity. Rate or
// capacity changes never rewrite the stored totals of existing reservations.
type RoomType struct {
	BaseUUIDModel
	Name        string          `gorm:"type:text;uniqueIndex"  json:"name"`
	Description string          `gorm:"type:text"              json:"description"`
	NightlyRate decimal.Decimal `gorm:"type:decimal(10,2)"     json:"nightlyRate"`
	Capacity    int             `gorm:"type:int"               json:"capacity"`
	Amenities   datatypes.JSON  `gorm:"type:jsonb"             json:"amenities,omitempty"`
}

type Room struct {
	BaseUUIDModel
	Number     string     `gorm:"type:text;uniqueIndex"                          json:"number"`
	Floor      int        `gorm:"type:int;default:1"                             json:"floor"`
	RoomTypeID uuid.UUID  `gorm:"type:uuid;index"                                json:"roomTypeId"`
	RoomType   *RoomType  `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:RESTRICT" json:"roomType,omitempty"`
	Status     RoomStatus `gorm:"type:text;default:available;index"              json:"status"`
}
