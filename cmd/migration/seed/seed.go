package seed

import (
	"fmt"

	"innkeep/config"
	. "innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed loads development data: users for each role and a small block of
// rooms per room type. It assumes InitializeTables already ran.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if err := seedUsers(db, log); err != nil {
		return err
	}

	return seedRooms(db, log)
}

func seedUsers(db *gorm.DB, log logger.Logger) error {
	users := []User{
		{
			FirstName: "Mara",
			LastName:  "Holt",
			Email:     stringPtr("manager@example.com"),
			Role:      RoleManager,
			IsActive:  true,
		},
		{
			FirstName: "Sam",
			LastName:  "Reyes",
			Email:     stringPtr("staff@example.com"),
			Role:      RoleStaff,
			IsActive:  true,
		},
		{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     stringPtr("ada.lovelace@example.com"),
			Role:      RoleGuest,
			IsActive:  true,
		},
		{
			FirstName: "Test",
			LastName:  "Guest",
			Email:     stringPtr("guest@example.com"),
			Role:      RoleGuest,
			IsActive:  true,
		},
	}

	for _, user := range users {
		var existing User
		if err := db.First(&existing, "email = ?", user.Email).Error; err == nil {
			log.Info("User already exists", "email", user.Email)
			continue
		}
		log.Info("Seeding user", "email", user.Email, "role", user.Role)
		if err := db.Create(&user).Error; err != nil {
			return log.Err("failed to create user", err, "email", user.Email)
		}
	}

	return nil
}

func seedRooms(db *gorm.DB, log logger.Logger) error {
	var roomTypes []RoomType
	if err := db.Order("name ASC").Find(&roomTypes).Error; err != nil {
		return log.Err("failed to load room types for seeding", err)
	}

	for floor, roomType := range roomTypes {
		for i := 1; i <= 4; i++ {
			number := fmt.Sprintf("%d%02d", floor+1, i)

			var existing Room
			if err := db.First(&existing, "number = ?", number).Error; err == nil {
				continue
			}

			room := Room{
				Number:     number,
				Floor:      floor + 1,
				RoomTypeID: roomType.ID,
				Status:     RoomAvailable,
			}
			log.Info("Seeding room", "number", number, "roomType", roomType.Name)
			if err := db.Create(&room).Error; err != nil {
				return log.Err("failed to create room", err, "number", number)
			}
		}
	}

	return nil
}
