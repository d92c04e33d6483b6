package models

import (
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every table this backend owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Branch{},
		&BranchApplication{},
		&BranchOnboarding{},
		&OnboardingTask{},
		&Contract{},
		&Rental{},
		&Royalty{},
		&RoyaltyPayment{},
		&Supplier{},
		&SupplierContract{},
		&TrainingContent{},
		&Activity{},
		&ActivityOutboxRecord{},
	)
}
