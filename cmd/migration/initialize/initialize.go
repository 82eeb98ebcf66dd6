package initialize

import (
	"innkeep/config"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InitializeTables creates the reference data every deployment needs:
// the room type catalog and the base add-on services. Existing rows are
// left untouched so re-running is safe.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeRoomTypes(db, log); err != nil {
		return log.Err("failed to initialize room types", err)
	}

	if err := initializeServices(db, log); err != nil {
		return log.Err("failed to initialize services", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeRoomTypes(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing room type reference data")

	roomTypes := []RoomType{
		{
			Name:        "Standard",
			Description: "Queen bed, city view",
			NightlyRate: decimal.NewFromInt(100),
			Capacity:    2,
			Amenities:   []byte(`["wifi", "tv"]`),
		},
		{
			Name:        "Deluxe",
			Description: "King bed, balcony",
			NightlyRate: decimal.NewFromInt(180),
			Capacity:    3,
			Amenities:   []byte(`["wifi", "tv", "minibar"]`),
		},
		{
			Name:        "Suite",
			Description: "Separate living room, two queen beds",
			NightlyRate: decimal.NewFromInt(320),
			Capacity:    4,
			Amenities:   []byte(`["wifi", "tv", "minibar", "bathtub"]`),
		},
	}

	for _, roomType := range roomTypes {
		var existing RoomType
		if err := db.First(&existing, "name = ?", roomType.Name).Error; err == nil {
			log.Debug("Room type already exists", "name", roomType.Name)
			continue
		}
		log.Info("Initializing room type", "name", roomType.Name)
		if err := db.Create(&roomType).Error; err != nil {
			return log.Err("failed to create room type", err, "name", roomType.Name)
		}
	}

	log.Info("Room type reference data initialized", "count", len(roomTypes))
	return nil
}

func initializeServices(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing service reference data")

	services := []Service{
		{
			Name:        "Breakfast",
			Description: "Continental breakfast delivered to the room",
			Price:       decimal.NewFromInt(15),
		},
		{
			Name:        "Laundry",
			Description: "Same-day laundry, per bag",
			Price:       decimal.NewFromInt(25),
		},
		{
			Name:        "Airport Shuttle",
			Description: "One-way airport transfer",
			Price:       decimal.NewFromInt(40),
		},
	}

	for _, service := range services {
		var existing Service
		if err := db.First(&existing, "name = ?", service.Name).Error; err == nil {
			log.Debug("Service already exists", "name", service.Name)
			continue
		}
		log.Info("Initializing service", "name", service.Name)
		if err := db.Create(&service).Error; err != nil {
			return log.Err("failed to create service", err, "name", service.Name)
		}
	}

	log.Info("Service reference data initialized", "count", len(services))
	return nil
}
