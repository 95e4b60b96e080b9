package migrations

import (
	"log"

	"delivery_manager/internal/models"
	"delivery_manager/internal/repository"
	"delivery_manager/internal/services"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations and creates default data
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Agency{},
		&models.WhatsAppGroup{},
		&models.User{},
		&models.Delivery{},
		&models.DeliveryEvent{},
		&models.QuartierTariff{},
	)
	if err != nil {
		return err
	}

	// Create default data
	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData creates the default agency, admin account and
// quartier tariff table.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)
	tariffRepo := repository.NewTariffRepository(db)

	// Check if super admin already exists
	existingUser, err := userService.GetUserByUsername("admin")
	if err == nil && existingUser != nil {
		log.Println("Super admin user already exists")
		return nil
	}

	// Default agency
	agency := &models.Agency{
		Name:     "Agence Principale",
		Phone:    "237650000000",
		City:     "Douala",
		IsActive: true,
	}
	if err := db.Create(agency).Error; err != nil {
		log.Printf("Warning: Failed to create default agency: %v", err)
	}

	// Create super admin user
	log.Println("Creating super admin user...")
	superAdmin := &models.User{
		Username:       "admin",
		Email:          "admin@delivery-manager.local",
		PhoneNumber:    "237650000000",
		Role:           string(models.SuperAdmin),
		WhatsAppNumber: "237650000000",
		IsActive:       true,
	}
	if err := userService.CreateUser(superAdmin, "admin123"); err != nil {
		log.Printf("Warning: Failed to create super admin user: %v", err)
	} else {
		log.Println("Super admin user created successfully")
	}

	// Default quartier tariffs for the main agency
	log.Println("Creating default quartier tariffs...")
	defaultTariffs := map[string]float64{
		"Akwa":      1000,
		"Bonapriso": 1000,
		"Déido":     1500,
		"Ndokoti":   1500,
		"Bonabéri":  2000,
	}
	for quartier, amount := range defaultTariffs {
		tariff := &models.QuartierTariff{
			AgencyID: agency.ID,
			Quartier: quartier,
			Amount:   amount,
			IsActive: true,
		}
		if err := tariffRepo.Create(tariff); err != nil {
			log.Printf("Warning: Failed to create tariff for %s: %v", quartier, err)
		}
	}

	log.Println("Default data created successfully!")
	return nil
}
