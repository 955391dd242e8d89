package log

import "fmt"

// Config captures the externally-tunable logger settings.
type Config struct {
	// Level is one of debug|info|warn|error.
	Level string
	// Format is one of text|json.
	Format string
}

// ApplyConfig builds a Logger from a Config.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	var formatter Formatter = &TextFormatter{}
	if cfg != nil {
		switch cfg.Format {
		case "", "text":
		case "json":
			formatter = &JSONFormatter{}
		default:
			return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
		}
	}
	return NewLogger(WithLevel(level), WithFormatter(formatter)), nil
}
