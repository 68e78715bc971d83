package config

import "path/filepath"

// Config is the main vcard-manager configuration.
type Config struct {
	// CardsDir is the managed card directory, scanned non-recursively.
	CardsDir string `json:"cards_dir" mapstructure:"cards_dir"`

	// Extension is the recognized card file extension, including the
	// leading dot.
	Extension string `json:"extension" mapstructure:"extension"`

	// LibraryPath locates the native parsing library.
	LibraryPath string `json:"library_path" mapstructure:"library_path"`

	// RefreshSchedule is the cron spec driving periodic full
	// reconciliation passes.
	RefreshSchedule string `json:"refresh_schedule" mapstructure:"refresh_schedule"`

	// StabilityThresholdMs is how long a watched file must be quiet
	// before it is refreshed.
	StabilityThresholdMs int `json:"stability_threshold_ms" mapstructure:"stability_threshold_ms"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// MetricsConfig holds the optional metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Listen  string `json:"listen" mapstructure:"listen"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		CardsDir:             "cards",
		Extension:            ".vcf",
		LibraryPath:          "libvcparser.so",
		RefreshSchedule:      "@every 30s",
		StabilityThresholdMs: 100,
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9464",
		},
	}
}

// LogFile returns the configured log file, defaulting to a file next
// to the cards directory so a bare config still logs somewhere.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(filepath.Dir(c.CardsDir), "vcardmgr.log")
}
