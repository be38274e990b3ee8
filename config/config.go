// Package config loads settings from an optional config file and CAMPUS_*
// environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  Server  `mapstructure:"server"`
	Storage Storage `mapstructure:"storage"`
	Log     Log     `mapstructure:"log"`
	Listing Listing `mapstructure:"listing"`
}

// Server holds HTTP settings. AdminEmails may download and restore backups;
// an empty list closes both routes.
type Server struct {
	Addr          string   `mapstructure:"addr"`
	AllowOrigins  []string `mapstructure:"allow_origins"`
	SessionName   string   `mapstructure:"session_name"`
	SessionSecret string   `mapstructure:"session_secret"`
	AdminEmails   []string `mapstructure:"admin_emails"`
}

type Storage struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	Seed          bool   `mapstructure:"seed"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Listing struct {
	// HideInaccessible drops resources the viewer cannot open from listings
	// and search results.
	HideInaccessible bool `mapstructure:"hide_inaccessible"`
}

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.session_name", "campusshare_session")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.admin_emails", []string{})
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "data/campus.db")
	v.SetDefault("storage.mongo_uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("storage.mongo_database", "campusshare")
	v.SetDefault("storage.seed", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("listing.hide_inaccessible", false)
}

// Load reads config.{json,yaml,toml} from dir when present; environment
// variables such as CAMPUS_STORAGE_DRIVER override file values.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.Server.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		c.Server.SessionSecret = secret
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" {
			return errors.New("storage.mongo_uri and storage.mongo_database are required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
