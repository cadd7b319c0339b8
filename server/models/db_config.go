package models

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/Daskott/rxlink/server/logger"
	"github.com/Daskott/rxlink/shared"
	"github.com/Daskott/rxlink/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DB_NAME         = "rxlink.db"
	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "postgres"
)

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate opens the configured database & auto-migrates the schema
func AutoMigrate(config shared.ServerConfig, dbRootDir string) error {
	err := openDB(config, dbRootDir)
	if err != nil {
		return err
	}

	return migrate()
}

// SqliteFilePath returns the path of the sqlite database file kept under dbRootDir
func SqliteFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func migrate() error {
	return db.AutoMigrate(
		&ClinicStaff{}, &Patient{}, &Prescription{},
		&Medication{}, &MedicationReminder{},
	)
}

func openDB(config shared.ServerConfig, dbRootDir string) error {
	var dialector gorm.Dialector

	switch config.Database.Driver {
	case POSTGRES_DRIVER:
		if config.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required when database.driver is postgres")
		}
		dialector = postgres.Open(config.Postgres.DSN)
	case SQLITE_DRIVER, "":
		dsn, err := sqliteDSN(config.Sqlite.PassPhrase, dbRootDir)
		if err != nil {
			return fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		dialector = sqliteEncrypt.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %v", config.Database.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	if dialector.Name() != POSTGRES_DRIVER {
		// sqlite only enforces foreign keys per connection, so keep a single one
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)

		err = gormDB.Exec("PRAGMA foreign_keys = ON").Error
		if err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
	}

	db = gormDB
	return nil
}

func sqliteDSN(passPhrase string, dbRootDir string) (string, error) {
	dbFilePath, err := SqliteFilePath(dbRootDir)
	if err != nil {
		return "", err
	}

	dsn := fmt.Sprintf("file:%v?_journal_mode=WAL", dbFilePath)
	if passPhrase != "" {
		dsn = fmt.Sprintf(
			"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
			dbFilePath,
			passPhrase,
		)
	}

	return dsn, nil
}
