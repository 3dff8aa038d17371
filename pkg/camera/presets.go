package camera

// Preset names for common configurations
const (
	PresetDefault = "default"
	PresetLowRes  = "lowres"
	PresetFast    = "fast"
	PresetLowFPS  = "lowfps"
	PresetFlipped = "flipped"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetLowRes:  LowResConfig(),
		PresetFast:    FastConfig(),
		PresetLowFPS:  LowFPSConfig(),
		PresetFlipped: FlippedConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetLowRes,
		PresetFast,
		PresetLowFPS,
		PresetFlipped,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}

// LowResConfig returns 320x240 for slow boards.
// Curvature values scale with resolution, so the drive SharpCurve constant
// needs retuning with this preset.
func LowResConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 320
	cfg.Height = 240
	return cfg
}

// FastConfig returns 640x480 at 60 FPS for cameras that support it.
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.Framerate = 60
	return cfg
}

// LowFPSConfig returns 640x480 at 15 FPS with lighter streaming.
func LowFPSConfig() Config {
	cfg := DefaultConfig()
	cfg.Framerate = 15
	cfg.Quality = 50
	return cfg
}

// FlippedConfig returns the default for a camera mounted upside down.
func FlippedConfig() Config {
	cfg := DefaultConfig()
	cfg.FlipVertical = true
	cfg.FlipHorizontal = true
	return cfg
}
