package repositories

import (
	"innkeep/internal/database"
)

type Repository struct {
	User           UserRepository
	Room           RoomRepository
	Reservation    ReservationRepository
	ServiceRequest ServiceRequestRepository
	Review         ReviewRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:           NewUserRepository(),
		Room:           NewRoomRepository(db.Cache.Catalog), // catalog reads are cache-aside
		Reservation:    NewReservationRepository(),
		ServiceRequest: NewServiceRequestRepository(),
		Review:         NewReviewRepository(),
	}
}
