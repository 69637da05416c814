package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Grouping GroupingConfig `mapstructure:"grouping"`
	API      APIConfig      `mapstructure:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig describes the retro server this client connects to
type ServerConfig struct {
	URL              string        `mapstructure:"url" validate:"required,url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" validate:"gt=0"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	SendBuffer       int           `mapstructure:"send_buffer" validate:"gt=0"`
}

type SessionConfig struct {
	ID   string `mapstructure:"id" validate:"required,uuid"`
	Name string `mapstructure:"name" validate:"max=200"`
}

// GroupingConfig controls drag broadcasting and card measurement
type GroupingConfig struct {
	MoveThrottle  time.Duration `mapstructure:"move_throttle" validate:"gt=0"`
	WorkspaceLeft int           `mapstructure:"workspace_left"`
	WorkspaceTop  int           `mapstructure:"workspace_top"`
	CardCharWidth float64       `mapstructure:"card_char_width" validate:"gt=0"`
	CardHeight    float64       `mapstructure:"card_height" validate:"gt=0"`
	CardPadding   float64       `mapstructure:"card_padding" validate:"gte=0"`
}

// APIConfig is the local control API
type APIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values against their struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.url", "ws://localhost:8000")
	v.SetDefault("server.handshake_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.send_buffer", 256)

	// Grouping
	v.SetDefault("grouping.move_throttle", "250ms")
	v.SetDefault("grouping.workspace_left", 0)
	v.SetDefault("grouping.workspace_top", 0)
	v.SetDefault("grouping.card_char_width", 8)
	v.SetDefault("grouping.card_height", 24)
	v.SetDefault("grouping.card_padding", 4)

	// API
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8090)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.shutdown_timeout", "10s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.url", "RETRO_SERVER_URL")
	v.BindEnv("session.id", "RETRO_SESSION_ID")
	v.BindEnv("session.name", "RETRO_NAME")
	v.BindEnv("logging.level", "LOG_LEVEL")
}
