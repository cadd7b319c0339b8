package server

import (
	"fmt"
	"strings"

	"github.com/Daskott/rxlink/shared"
	"github.com/spf13/viper"
)

// LoadConfig decodes & validates the server section of a viper config
func LoadConfig(config *viper.Viper) (*shared.ServerConfig, error) {
	serverConfig := shared.ServerConfig{}

	err := config.Unmarshal(&serverConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	err = validate.Struct(serverConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid server config: %v", strings.ReplaceAll(err.Error(), "\n", "; "))
	}

	return &serverConfig, nil
}
