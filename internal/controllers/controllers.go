package controllers

import (
	"innkeep/internal/controllers/reservations"
	"innkeep/internal/controllers/reviews"
	"innkeep/internal/controllers/rooms"
	"innkeep/internal/controllers/servicerequests"
	"innkeep/internal/database"
	"innkeep/internal/repositories"
	"innkeep/internal/services"
)

type Controllers struct {
	Rooms           *rooms.Controller
	Reservations    *reservations.Controller
	ServiceRequests *servicerequests.Controller
	Reviews         *reviews.Controller
}

func New(
	db database.DB,
	repos repositories.Repository,
	service services.Service,
) Controllers {
	return Controllers{
		Rooms:           rooms.New(db, repos, service),
		Reservations:    reservations.New(db, repos, service),
		ServiceRequests: servicerequests.New(db, repos, service),
		Reviews:         reviews.New(db, repos, service),
	}
}
