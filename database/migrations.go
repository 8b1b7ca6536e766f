package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"inkwell/models"
)

func RunMigrations(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		&models.BlogPost{},
	)

	if err != nil {
		log.Error().Err(err).Msg("Error running migrations")
		return err
	}

	log.Info().Msg("Migrations completed successfully")
	return nil
}
