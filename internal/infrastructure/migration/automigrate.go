package migration

import (
	"innkeep/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the tables owned by the allocation engine. The
// bookings and rooms tables belong to the reservation system and are only
// created here for development and test databases.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.RoomAllocationModel{},
		&models.RoomBlockModel{},
		&models.AllocationHistoryModel{},
		&models.AllocationAlertModel{},
		&models.GuestPreferenceModel{},
		&models.AllocationRuleModel{},
		&models.BookingModel{},
		&models.RoomModel{},
	}
}
