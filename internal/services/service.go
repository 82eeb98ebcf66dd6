package services

import (
	"innkeep/internal/database"
	"innkeep/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Service struct {
	Transaction  *TransactionService
	Availability *AvailabilityService
}

func New(db database.DB, repos repositories.Repository) (Service, error) {
	log := logger.New("services").Function("New")

	transactionService := NewTransactionService(db)
	availabilityService := NewAvailabilityService(repos)

	log.Info("Services initialized")

	return Service{
		Transaction:  transactionService,
		Availability: availabilityService,
	}, nil
}
