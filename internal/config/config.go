// Package config provides configuration loading for go-botblocks commands.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then environment variables. Command-line flags are applied last
// by the caller.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported robot platforms.
const (
	PlatformRRB3   = "rrb3"
	PlatformGoPiGo = "gopigo3"
)

// Default configuration.
const (
	DefaultRobotHost    = "localhost"
	DefaultRobotPort    = "8080"
	DefaultPlatform     = PlatformGoPiGo
	DefaultListen       = ":8090"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMQTTTopic    = "botblocks"
	DefaultLogLevel     = "info"
)

// ErrUnknownPlatform is returned by Validate for an unsupported platform.
var ErrUnknownPlatform = errors.New("config: unknown platform")

// Config holds everything a command needs to reach the robot server.
type Config struct {
	Platform     string        `yaml:"platform"`
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	Timeout      time.Duration `yaml:"timeout"`
	Listen       string        `yaml:"listen"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MQTTBroker   string        `yaml:"mqtt_broker"`
	MQTTTopic    string        `yaml:"mqtt_topic"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Platform:     DefaultPlatform,
		Host:         DefaultRobotHost,
		Port:         DefaultRobotPort,
		Timeout:      DefaultTimeout,
		Listen:       DefaultListen,
		PollInterval: DefaultPollInterval,
		MQTTTopic:    DefaultMQTTTopic,
		LogLevel:     DefaultLogLevel,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), a .env file in the working directory if one exists, and
// the process environment. The result is not validated; callers apply
// their own overrides first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Platform, "ROBOT_PLATFORM")
	setString(&c.Host, "ROBOT_HOST")
	setString(&c.Port, "ROBOT_PORT")
	setString(&c.Listen, "BOTBLOCKS_LISTEN")
	setString(&c.MQTTBroker, "MQTT_BROKER")
	setString(&c.MQTTTopic, "MQTT_TOPIC")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("ROBOT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ROBOT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the fields a robot client cannot work without.
func (c Config) Validate() error {
	switch c.Platform {
	case PlatformRRB3, PlatformGoPiGo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, c.Platform)
	}
	if c.Host == "" {
		return errors.New("config: robot host is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("config: invalid robot port %q", c.Port)
	}
	if c.PollInterval <= 0 {
		return errors.New("config: poll interval must be positive")
	}
	return nil
}

// HostPort returns host:port of the robot server.
func (c Config) HostPort() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// BaseURL returns the robot HTTP API URL.
func (c Config) BaseURL() string {
	return "http://" + c.HostPort()
}
