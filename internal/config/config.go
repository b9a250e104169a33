// Package config handles renderer configuration loading and management.
package config

// Config holds all demo and renderer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RendererConfig holds renderer behavior settings.
type RendererConfig struct {
	// DebugChecks polls for GPU errors at end of frame and logs them.
	DebugChecks bool `yaml:"debug_checks"`
	// KeepData controls whether newly created demo resources keep
	// their host-side buffers after upload.
	KeepData bool `yaml:"keep_data"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Renderer: RendererConfig{
			DebugChecks: false,
			KeepData:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
