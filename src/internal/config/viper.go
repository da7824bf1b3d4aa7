package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory and lets environment
// variables override any key (dots become underscores).
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	// a missing file is fine, defaults and env cover local runs
	_ = config.ReadInConfig()

	return config
}
