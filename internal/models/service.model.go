package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry for an add-on (breakfast, laundry, spa).
type Service struct {
	BaseUUIDModel
	Name        string          `gorm:"type:text;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text"             json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(8,2)"     json:"price"`
}

type ServiceRequestStatus string

const (
	ServiceRequestRequested  ServiceRequestStatus = "requested"
	ServiceRequestInProgress ServiceRequestStatus = "in_progress"
	ServiceRequestCompleted  ServiceRequestStatus = "completed"
	ServiceRequestCancelled  ServiceRequestStatus = "cancelled"
)

func (s ServiceRequestStatus) IsValid() bool {
	switch s {
	case ServiceRequestRequested, ServiceRequestInProgress,
		ServiceRequestCompleted, ServiceRequestCancelled:
		return true
	}
	return false
}

func (s ServiceRequestStatus) IsTerminal() bool {
	return s == ServiceRequestCompleted || s == ServiceRequestCancelled
}

// CanTransitionTo enforces Requested → InProgress → Completed, with
// cancellation allowed from any non-terminal state.
func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case ServiceRequestInProgress:
		return s == ServiceRequestRequested
	case ServiceRequestCompleted:
		return s == ServiceRequestInProgress
	case ServiceRequestCancelled:
		return true
	}
	return false
}

// ServiceRequest attaches a quantity of a catalog service to a reservation.
// TotalPrice freezes service.Price × Quantity at creation; later catalog
// price changes do not reprice existing requests.
type ServiceRequest struct {
	BaseUUIDModel
	ReservationID uuid.UUID            `gorm:"type:uuid;index"                                        json:"reservationId"`
	Reservation   *Reservation         `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"   json:"reservation,omitempty"`
	ServiceID     uuid.UUID            `gorm:"type:uuid;index"                                        json:"serviceId"`
	Service       *Service             `gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT"      json:"service,omitempty"`
	Quantity      int                  `gorm:"type:int;default:1"                                     json:"quantity"`
	Status        ServiceRequestStatus `gorm:"type:text;default:requested;index"                      json:"status"`
	TotalPrice    decimal.Decimal      `gorm:"type:decimal(10,2)"                                     json:"totalPrice"`
}

// ComputeTotal derives the frozen request price at creation time.
func (sr *ServiceRequest) ComputeTotal(servicePrice decimal.Decimal) decimal.Decimal {
	return servicePrice.Mul(decimal.NewFromInt(int64(sr.Quantity)))
}
