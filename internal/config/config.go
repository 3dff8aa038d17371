// Package config loads the line follower settings from defaults, an
// optional config file and LINEBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/teslashibe/go-linefollower/pkg/camera"
	"github.com/teslashibe/go-linefollower/pkg/drive"
	"github.com/teslashibe/go-linefollower/pkg/follower"
	"github.com/teslashibe/go-linefollower/pkg/motor"
	"github.com/teslashibe/go-linefollower/pkg/vision"
)

// EnvPrefix is prepended to environment overrides, e.g.
// LINEBOT_DRIVE_MAX_SPEED=150.
const EnvPrefix = "LINEBOT"

// Motor driver kinds.
const (
	DriverSerial = "serial"
	DriverDryRun = "dryrun"
)

// MotorConfig selects and configures the motor driver.
type MotorConfig struct {
	Driver string `json:"driver" mapstructure:"driver"`
	Port   string `json:"port" mapstructure:"port"` // Serial device path

	motor.PortOptions `mapstructure:",squash"`
}

// DashboardConfig configures the web dashboard.
type DashboardConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Port    string `json:"port" mapstructure:"port"`
}

// Config is the complete robot configuration.
type Config struct {
	LogLevel  string          `json:"log_level" mapstructure:"log_level"`
	Camera    camera.Config   `json:"camera" mapstructure:"camera"`
	Vision    vision.Config   `json:"vision" mapstructure:"vision"`
	Drive     drive.Config    `json:"drive" mapstructure:"drive"`
	Follower  follower.Config `json:"follower" mapstructure:"follower"`
	Motor     MotorConfig     `json:"motor" mapstructure:"motor"`
	Dashboard DashboardConfig `json:"dashboard" mapstructure:"dashboard"`
}

// ConfigError reports an invalid section of the configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Default returns the reference configuration. Motors run dry until a
// serial port is configured.
func Default() Config {
	return Config{
		LogLevel: "info",
		Camera:   camera.DefaultConfig(),
		Vision:   vision.DefaultConfig(),
		Drive:    drive.DefaultConfig(),
		Follower: follower.DefaultConfig(),
		Motor: MotorConfig{
			Driver: DriverDryRun,
			Port:   "/dev/ttyUSB0",
			PortOptions: motor.PortOptions{
				BaudRate: motor.DefaultBaudRate,
				DataBits: 8,
				StopBits: 1,
				Parity:   "N",
			},
		},
		Dashboard: DashboardConfig{
			Enabled: true,
			Port:    "8080",
		},
	}
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and environment overrides, then validates it.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and returns the first *ConfigError found.
func (c Config) Validate() error {
	sections := []struct {
		field string
		errs  []string
	}{
		{"camera", c.Camera.Validate()},
		{"vision", c.Vision.Validate()},
		{"drive", c.Drive.Validate()},
		{"follower", c.Follower.Validate()},
	}
	for _, s := range sections {
		if len(s.errs) > 0 {
			return &ConfigError{Field: s.field, Message: strings.Join(s.errs, "; ")}
		}
	}

	switch c.Motor.Driver {
	case DriverDryRun:
	case DriverSerial:
		if c.Motor.Port == "" {
			return &ConfigError{Field: "motor.port", Message: "required for the serial driver"}
		}
		if _, err := c.Motor.PortOptions.Normalize(); err != nil {
			return &ConfigError{Field: "motor", Message: err.Error()}
		}
	default:
		return &ConfigError{
			Field:   "motor.driver",
			Message: fmt.Sprintf("must be %q or %q, got %q", DriverSerial, DriverDryRun, c.Motor.Driver),
		}
	}

	if c.Dashboard.Enabled && c.Dashboard.Port == "" {
		return &ConfigError{Field: "dashboard.port", Message: "required when the dashboard is enabled"}
	}
	return nil
}

// IsConfigError reports whether err is a validation error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("camera.device", d.Camera.Device)
	v.SetDefault("camera.width", d.Camera.Width)
	v.SetDefault("camera.height", d.Camera.Height)
	v.SetDefault("camera.framerate", d.Camera.Framerate)
	v.SetDefault("camera.quality", d.Camera.Quality)
	v.SetDefault("camera.flip_vertical", d.Camera.FlipVertical)
	v.SetDefault("camera.flip_horizontal", d.Camera.FlipHorizontal)

	v.SetDefault("vision.threshold", d.Vision.Threshold)
	v.SetDefault("vision.invert", d.Vision.Invert)
	v.SetDefault("vision.blur_kernel", d.Vision.BlurKernel)
	v.SetDefault("vision.min_support", d.Vision.MinSupport)
	v.SetDefault("vision.waypoint_count", d.Vision.WaypointCount)
	v.SetDefault("vision.waypoint_step", d.Vision.WaypointStep)
	v.SetDefault("vision.bottom_margin", d.Vision.BottomMargin)
	v.SetDefault("vision.max_condition", d.Vision.MaxCondition)

	v.SetDefault("drive.max_speed", d.Drive.MaxSpeed)
	v.SetDefault("drive.min_speed", d.Drive.MinSpeed)
	v.SetDefault("drive.sharp_curve", d.Drive.SharpCurve)
	v.SetDefault("drive.kp", d.Drive.Kp)
	v.SetDefault("drive.power_limit", d.Drive.PowerLimit)

	v.SetDefault("follower.lookahead_index", d.Follower.LookaheadIndex)
	v.SetDefault("follower.on_line_lost", d.Follower.OnLineLost)
	v.SetDefault("follower.stream_every", d.Follower.StreamEvery)
	v.SetDefault("follower.overlay", d.Follower.Overlay)

	v.SetDefault("motor.driver", d.Motor.Driver)
	v.SetDefault("motor.port", d.Motor.Port)
	v.SetDefault("motor.baud_rate", d.Motor.BaudRate)
	v.SetDefault("motor.data_bits", d.Motor.DataBits)
	v.SetDefault("motor.stop_bits", d.Motor.StopBits)
	v.SetDefault("motor.parity", d.Motor.Parity)

	v.SetDefault("dashboard.enabled", d.Dashboard.Enabled)
	v.SetDefault("dashboard.port", d.Dashboard.Port)
}
