package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the configuration document's shape. Value
// semantics (schedule syntax, extension form) are checked separately.
const configSchema = `{
  "type": "object",
  "properties": {
    "cards_dir": {"type": "string", "minLength": 1},
    "extension": {"type": "string", "minLength": 2},
    "library_path": {"type": "string", "minLength": 1},
    "refresh_schedule": {"type": "string", "minLength": 1},
    "stability_threshold_ms": {"type": "integer", "minimum": 0},
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "file": {"type": "string"},
        "console": {"type": "boolean"},
        "pretty": {"type": "boolean"}
      }
    },
    "metrics": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "listen": {"type": "string"}
      }
    }
  },
  "required": ["cards_dir", "extension", "library_path", "refresh_schedule"]
}`

// Validate checks a configuration against the schema and the semantic
// rules the schema cannot express.
func Validate(cfg *Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	if !strings.HasPrefix(cfg.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", cfg.Extension)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSchedule, err)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics listen address is required when metrics are enabled")
	}
	return nil
}
