package models

import (
	"os"

	"github.com/Daskott/rxlink/shared"
)

// InitializeTestDb points the package at a fresh sqlite database in a temp directory
func InitializeTestDb() {
	dbRootDir, err := os.MkdirTemp("", "rxlink-test")
	if err != nil {
		logg.Panic(err)
	}

	config := shared.ServerConfig{
		Sqlite: shared.SqliteConfig{PassPhrase: "passphrase"},
	}

	err = AutoMigrate(config, dbRootDir)
	if err != nil {
		logg.Panic(err)
	}
}
