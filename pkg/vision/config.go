// Package vision extracts a drivable path from a camera frame.
//
// A frame is reduced to a binary mask of line-colored pixels, a quadratic
// x = a·y² + b·y + c is fit through them and a short sequence of waypoints
// is sampled from the curve, nearest to the robot first.
package vision

// Config holds the extraction constants.
// They are fixed for a run and tuned for 640x480 frames.
type Config struct {
	// Binarization
	Threshold  float32 `json:"threshold" mapstructure:"threshold"`     // Intensity threshold (0-255)
	Invert     bool    `json:"invert" mapstructure:"invert"`           // true: pixels <= Threshold are line (dark line on light floor)
	BlurKernel int     `json:"blur_kernel" mapstructure:"blur_kernel"` // Gaussian kernel size, odd; 0 or 1 disables smoothing

	// Support
	MinSupport int `json:"min_support" mapstructure:"min_support"` // A curve is fit only when more line pixels than this are found

	// Waypoints
	WaypointCount int `json:"waypoint_count" mapstructure:"waypoint_count"` // Maximum number of waypoints
	WaypointStep  int `json:"waypoint_step" mapstructure:"waypoint_step"`   // Vertical spacing in pixels
	BottomMargin  int `json:"bottom_margin" mapstructure:"bottom_margin"`   // Distance of the first waypoint from the bottom edge

	// MaxCondition rejects fits whose normal matrix is this badly conditioned.
	MaxCondition float64 `json:"max_condition" mapstructure:"max_condition"`
}

// DefaultConfig returns the reference extraction constants.
func DefaultConfig() Config {
	return Config{
		Threshold:  60,
		Invert:     true,
		BlurKernel: 5,

		MinSupport: 500,

		WaypointCount: 6,
		WaypointStep:  50,
		BottomMargin:  20,

		MaxCondition: 1e12,
	}
}

// Validate checks if the config values are usable.
// Returns a list of validation errors, or nil if valid.
func (c Config) Validate() []string {
	var errors []string

	if c.Threshold < 0 || c.Threshold > 255 {
		errors = append(errors, "threshold must be between 0 and 255")
	}
	if c.BlurKernel < 0 || (c.BlurKernel > 1 && c.BlurKernel%2 == 0) {
		errors = append(errors, "blur_kernel must be 0, 1 or an odd positive size")
	}
	if c.MinSupport < 3 {
		errors = append(errors, "min_support must be at least 3")
	}
	if c.WaypointCount < 1 {
		errors = append(errors, "waypoint_count must be positive")
	}
	if c.WaypointStep < 1 {
		errors = append(errors, "waypoint_step must be positive")
	}
	if c.BottomMargin < 0 {
		errors = append(errors, "bottom_margin must not be negative")
	}
	if c.MaxCondition <= 1 {
		errors = append(errors, "max_condition must be greater than 1")
	}

	return errors
}
