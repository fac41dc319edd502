// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port           int `mapstructure:"port"`
	RollupInterval int `mapstructure:"rollup_interval"` // minutes between view-rollup runs
	Database       struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Uploads struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"uploads"`
	Search struct {
		SeedPath string `mapstructure:"seed_path"` // optional JSON seed catalog for the fallback source
	} `mapstructure:"search"`
	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "MANNA_" prefix.
	// e.g., MANNA_DATABASE_PATH will override the `database.path` key.
	viper.SetEnvPrefix("MANNA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("rollup_interval", 30)
	viper.SetDefault("database.path", "./manna.db")
	viper.SetDefault("uploads.path", "./uploads")
	viper.SetDefault("search.seed_path", "")
	viper.SetDefault("auth.jwt_secret", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
