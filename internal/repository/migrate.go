package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table from the GORM models. Production
// uses the SQL files under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookingModel{},
		&BoatModel{},
		&BatteryModel{},
		&PriceModel{},
		&UserModel{},
		&TimeSlotModel{},
	)
}
