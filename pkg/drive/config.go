// Package drive turns a lookahead error and path curvature into
// differential-drive motor powers.
package drive

// Config holds the controller constants.
type Config struct {
	// Speed
	MaxSpeed int `json:"max_speed" mapstructure:"max_speed"` // Base power on a straight line
	MinSpeed int `json:"min_speed" mapstructure:"min_speed"` // Base power at or beyond SharpCurve

	// SharpCurve is the curvature at which the base power bottoms out.
	// Its scale is tied to pixel units of a 640x480 frame.
	SharpCurve float64 `json:"sharp_curve" mapstructure:"sharp_curve"`

	// Steering
	Kp float64 `json:"kp" mapstructure:"kp"` // Proportional gain on the pixel error

	// PowerLimit clamps each wheel to [-PowerLimit, PowerLimit].
	PowerLimit int `json:"power_limit" mapstructure:"power_limit"`
}

// DefaultConfig returns the reference controller constants.
func DefaultConfig() Config {
	return Config{
		MaxSpeed:   200,
		MinSpeed:   60,
		SharpCurve: 0.005,

		// Large enough that the correction can exceed the reduced base speed
		// on sharp turns and reverse the inner wheel.
		Kp: 0.8,

		PowerLimit: 250,
	}
}

// CautiousConfig returns a slower profile for narrow tracks.
func CautiousConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxSpeed = 140
	cfg.MinSpeed = 50
	return cfg
}

// Cautious returns c with the CautiousConfig speeds. Steering, curve and
// power settings are kept.
func (c Config) Cautious() Config {
	slow := CautiousConfig()
	c.MaxSpeed = slow.MaxSpeed
	c.MinSpeed = slow.MinSpeed
	return c
}

// Validate checks if the config values are usable.
// Returns a list of validation errors, or nil if valid.
func (c Config) Validate() []string {
	var errors []string

	if c.PowerLimit <= 0 {
		errors = append(errors, "power_limit must be positive")
	}
	if c.MaxSpeed < 0 || c.MaxSpeed > c.PowerLimit {
		errors = append(errors, "max_speed must be between 0 and power_limit")
	}
	if c.MinSpeed < 0 || c.MinSpeed > c.MaxSpeed {
		errors = append(errors, "min_speed must be between 0 and max_speed")
	}
	if c.SharpCurve <= 0 {
		errors = append(errors, "sharp_curve must be positive")
	}
	if c.Kp < 0 {
		errors = append(errors, "kp must not be negative")
	}

	return errors
}
