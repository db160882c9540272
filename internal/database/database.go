package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/meeting-scheduler-api/internal/config"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", cfg.DBDriver)
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// AllModels lists every table managed by the service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Employee{},
		&models.Product{},
		&models.Sprint{},
		&models.SprintMember{},
		&models.BacklogItem{},
		&models.UserStory{},
		&models.Meeting{},
		&models.MeetingMember{},
		&models.BrainstormItem{},
		&models.Group{},
		&models.GroupMember{},
		&models.TrackerIssue{},
		&models.ExternalIssueLink{},
		&models.TimeEntryActivity{},
		&models.TimeEntry{},
	}
}

func Migrate() error {
	log.Println("Running database migrations...")
	if err := DB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(DB); err != nil {
		return err
	}
	log.Println("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
