package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"

	"blob-gateway/core/logger"
	"blob-gateway/core/server"
	"blob-gateway/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional config file (gateway.yaml, gateway.json, ...)
// looked up in the directory given to LoadConfig.
const FileName = "gateway"

// Config is the full gateway configuration.
type Config struct {
	Server  server.Config  `mapstructure:"server"`
	Storage storage.Config `mapstructure:"storage"`
	Log     logger.Config  `mapstructure:"log"`
}

// LoadConfig resolves configuration from, lowest precedence first: struct
// defaults, the optional gateway config file in dir, dir/.env and the process
// environment. Keys map to env vars by upper-casing and replacing dots,
// so storage.driver is STORAGE_DRIVER.
func LoadConfig(dir string) (*Config, error) {
	// .env only fills variables the process does not already set; a
	// missing file is fine.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	registerKeys(v, reflect.TypeOf(Config{}), "")

	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registerKeys sets the `default` tag of every mapstructure leaf as its
// viper default. Registering even empty defaults is what lets AutomaticEnv
// see the key during Unmarshal.
func registerKeys(v *viper.Viper, t reflect.Type, prefix string) {
	for _, f := range reflect.VisibleFields(t) {
		name, ok := f.Tag.Lookup("mapstructure")
		if !ok || name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			registerKeys(v, f.Type, name)
			continue
		}
		v.SetDefault(name, f.Tag.Get("default"))
	}
}
