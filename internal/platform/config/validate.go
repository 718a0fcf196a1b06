package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Probe.validate(),
		c.Notifier.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	var errs []error

	switch s.Kind {
	case StoreKindSQLite:
		if s.DSN == "" {
			errs = append(errs, errors.New("store.dsn must not be empty for the sqlite store"))
		}
	case StoreKindSurreal:
		if s.URL == "" {
			errs = append(errs, errors.New("store.url must not be empty for the surreal store"))
		}
		if s.Namespace == "" {
			errs = append(errs, errors.New("store.namespace must not be empty for the surreal store"))
		}
		if s.Database == "" {
			errs = append(errs, errors.New("store.database must not be empty for the surreal store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind must be one of: %s, %s; got %q",
			StoreKindSQLite, StoreKindSurreal, s.Kind))
	}

	if s.QueryTimeout <= 0 {
		errs = append(errs, errors.New("store.query_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (p *ProbeConfig) validate() error {
	var errs []error

	if p.Interval <= 0 {
		errs = append(errs, errors.New("probe.interval must be positive"))
	}
	if p.Timeout <= 0 {
		errs = append(errs, errors.New("probe.timeout must be positive"))
	}
	if p.Timeout > 0 && p.Interval > 0 && p.Timeout >= p.Interval {
		errs = append(errs, fmt.Errorf("probe.timeout (%v) must be strictly shorter than probe.interval (%v)",
			p.Timeout, p.Interval))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	// The notifier is optional; an empty base_url disables it and skips the
	// remaining checks.
	if cl.BaseURL == "" {
		return nil
	}

	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("notifier.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("notifier.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("notifier.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("notifier.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
