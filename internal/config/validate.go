package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Events.validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if err := c.Upload.validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if c.UI.NotificationTTL <= 0 {
		return fmt.Errorf("ui: notification_ttl must be > 0 (got %s)", c.UI.NotificationTTL)
	}
	if err := c.State.validate(); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", a.BaseURL)
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", a.Timeout)
	}
	if a.UploadTimeout <= 0 {
		return fmt.Errorf("upload_timeout must be > 0 (got %s)", a.UploadTimeout)
	}
	if a.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts must be >= 0 (got %d)", a.RetryAttempts)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	if e.ReconnectAttempts < 0 {
		return fmt.Errorf("reconnect_attempts must be >= 0 (got %d)", e.ReconnectAttempts)
	}
	if err := positive("reconnect_delay", e.ReconnectDelay); err != nil {
		return err
	}
	if err := positive("ping_interval", e.PingInterval); err != nil {
		return err
	}
	return positive("write_timeout", e.WriteTimeout)
}

func (u *UploadConfig) validate() error {
	if err := positive("split_poll_interval", u.SplitPollInterval); err != nil {
		return err
	}
	if err := positive("translate_poll_interval", u.TranslatePollInterval); err != nil {
		return err
	}
	if u.SplitStablePolls <= 0 || u.SplitMaxPolls <= 0 {
		return fmt.Errorf("split_stable_polls and split_max_polls must be > 0")
	}
	if u.SplitStablePolls > u.SplitMaxPolls {
		return fmt.Errorf("split_stable_polls (%d) must not exceed split_max_polls (%d)", u.SplitStablePolls, u.SplitMaxPolls)
	}
	if u.TranslateMaxAttempts <= 0 || u.TranslateMaxFailures <= 0 {
		return fmt.Errorf("translate_max_attempts and translate_max_failures must be > 0")
	}

	exts, err := ParseExtensions(u.AllowedExtensionsRaw)
	if err != nil {
		return fmt.Errorf("allowed_extensions: %w", err)
	}
	u.AllowedExtensions = exts
	return nil
}

func (s *StateConfig) validate() error {
	switch s.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("driver must be sqlite or postgres (got %q)", s.Driver)
	}
	if strings.TrimSpace(s.DSN) == "" {
		return fmt.Errorf("dsn is required")
	}
	return nil
}

func positive(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be > 0 (got %s)", name, d)
	}
	return nil
}

// ParseExtensions parses a comma-separated extension list (e.g. ".pdf,.png")
// into lower-cased entries with a leading dot.
func ParseExtensions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("at least one extension required")
	}

	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		if strings.ContainsAny(p[1:], "./\\ ") {
			return nil, fmt.Errorf("invalid extension %q", p)
		}
		exts = append(exts, p)
	}

	return exts, nil
}
