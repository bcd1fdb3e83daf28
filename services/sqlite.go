package services

import (
	"errors"
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

// Id returns Service ID
func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "academy.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.User{},
		&model.LessonCompletion{},
		&model.AchievementGrant{},
		&model.QuizAttempt{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
}

// HandleError maps driver failures onto AppError so handlers never switch on
// error strings themselves.
func (ds *SqliteService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var appErr *shared.AppError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = shared.NewNotFoundError(err, "Record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		appErr = shared.NewConflictError(err, "Record already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		appErr = shared.NewBadRequestError(err, "Related record missing")
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			appErr = shared.NewConflictError(err, "Record already exists")
		} else {
			appErr = shared.NewInternalError(err, "Database error")
		}
	}
	statusCode = appErr.StatusCode

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return appErr
}

// IsDuplicateKey reports whether err is the unique-index violation raised
// when a row with the same key already exists.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
