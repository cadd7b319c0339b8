package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Daskott/rxlink/server"
	"github.com/Daskott/rxlink/server/gstorage"
	"github.com/Daskott/rxlink/server/models"
	"github.com/Daskott/rxlink/shared"
	"github.com/Daskott/rxlink/utils"
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the sqlite database to google cloud storage",
	Long: `Copies the rxlink sqlite database file to the bucket & prefix set under
'google.storage' in the server config. Only applies to the sqlite driver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConf, dbFilePath, err := sqliteBackupTarget()
		if err != nil {
			return err
		}

		if !utils.FileExist(dbFilePath) {
			return formattedError("no database found at %s", dbFilePath)
		}

		storage, err := gstorage.NewGStorage(serverConf.Google.ApplicationCredentials)
		if err != nil {
			return err
		}
		defer storage.Close()

		objectName, err := storage.UploadFile(serverConf.Google.Storage.Bucket, serverConf.Google.Storage.Prefix, dbFilePath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to gs://%s/%s\n", dbFilePath, serverConf.Google.Storage.Bucket, objectName)
		return nil
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Download the sqlite database backup from google cloud storage",
	Long: `Replaces the local rxlink sqlite database with the copy stored under
'google.storage' in the server config. Stop the server before restoring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConf, dbFilePath, err := sqliteBackupTarget()
		if err != nil {
			return err
		}

		if utils.FileExist(dbFilePath) && !forceRestore {
			return formattedError("a database already exists at %s, use --force to replace it", dbFilePath)
		}

		storage, err := gstorage.NewGStorage(serverConf.Google.ApplicationCredentials)
		if err != nil {
			return err
		}
		defer storage.Close()

		objectName := gstorage.ObjectName(serverConf.Google.Storage.Prefix, filepath.Base(dbFilePath))

		err = storage.DownloadFile(serverConf.Google.Storage.Bucket, objectName, dbFilePath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored gs://%s/%s to %s\n", serverConf.Google.Storage.Bucket, objectName, dbFilePath)
		return nil
	},
}

var forceRestore bool

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	backupCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
	restoreCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
	restoreCmd.Flags().BoolVar(&forceRestore, "force", false, "replace an existing database")
}

// sqliteBackupTarget loads the server config & resolves the sqlite file that
// backup & restore operate on
func sqliteBackupTarget() (*shared.ServerConfig, string, error) {
	if !isDevEnv && serverConfigFile == "" {
		return nil, "", formattedError("a server config file is required, set it with --sconfig")
	}

	serverConf, err := server.LoadConfig(serverConfig())
	if err != nil {
		return nil, "", err
	}

	if serverConf.Database.Driver == models.POSTGRES_DRIVER {
		return nil, "", formattedError("backups only support the sqlite driver")
	}

	if serverConf.Google.Storage.Bucket == "" {
		return nil, "", formattedError("must set 'google.storage.bucket' in %s", serverConfigFile)
	}

	dbRootDir := serverConf.Sqlite.Dir
	if dbRootDir == "" {
		dbRootDir = server.ConfigDirectory(isDevEnv)
	}

	dbFilePath, err := models.SqliteFilePath(dbRootDir)
	if err != nil {
		return nil, "", err
	}

	return serverConf, dbFilePath, nil
}
