package utils

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// LoadConfig reads the config file into viper. An explicit path must exist;
// otherwise .schemashot.{yaml,yml,json} in the working directory is used when
// present.
func LoadConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(".schemashot")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			slog.Debug("no config file found, continuing")
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	slog.Debug("config loaded", "file", viper.ConfigFileUsed())
	return nil
}
