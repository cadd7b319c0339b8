package cmd

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/Daskott/rxlink/dev/config"
	"github.com/Daskott/rxlink/server"
	"github.com/Daskott/rxlink/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a rxlink server",
	Long:  `The rxlink server handles staff sign in, patients, prescriptions & the public prescription links`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isDevEnv && serverConfigFile == "" {
			return formattedError("a server config file is required, set it with --sconfig")
		}

		server.Start(serverConfig(), isDevEnv)
		return nil
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.PersistentFlags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

func serverConfig() *viper.Viper {
	config := viper.New()

	if isDevEnv {
		serverConfigFile = devConfigFilePath()
	}

	config.SetConfigFile(serverConfigFile)
	config.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		log.Panic(fmt.Sprintf("error reading server config file: %v", err))
	}

	return config
}

// devConfigFilePath returns dev/config/server.yml, creating it from the
// built-in dev config the first time
func devConfigFilePath() string {
	configDir, err := os.Getwd()
	if err != nil {
		log.Panic(err)
	}

	devConfigDir := filepath.Join(configDir, "dev", "config")
	devConfigFile := filepath.Join(devConfigDir, "server.yml")

	if !utils.FileExist(devConfigFile) {
		if err := utils.CreateDirIfNotExist(devConfigDir); err != nil {
			log.Panic(err)
		}

		if err := ioutil.WriteFile(devConfigFile, []byte(config.SERVER_YML), 0600); err != nil {
			log.Panic(err)
		}
	}

	return devConfigFile
}
