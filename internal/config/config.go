package config

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Events EventsConfig `yaml:"events"`
	Upload UploadConfig `yaml:"upload"`
	UI     UIConfig     `yaml:"ui"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig holds settings of the REST backend.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"       env:"API_BASE_URL"       env-default:"http://localhost:5000"`
	Timeout       time.Duration `yaml:"timeout"        env:"API_TIMEOUT"        env-default:"30s"`
	UploadTimeout time.Duration `yaml:"upload_timeout" env:"API_UPLOAD_TIMEOUT" env-default:"5m"`
	RetryAttempts int           `yaml:"retry_attempts" env:"API_RETRY_ATTEMPTS" env-default:"2"`
	RetryDelay    time.Duration `yaml:"retry_delay"    env:"API_RETRY_DELAY"    env-default:"500ms"`
}

// EventsConfig holds push-channel settings.
type EventsConfig struct {
	// URL defaults to the API origin with the ws(s) scheme and /ws path.
	URL               string        `yaml:"url"                env:"EVENTS_URL"`
	ReconnectAttempts int           `yaml:"reconnect_attempts" env:"EVENTS_RECONNECT_ATTEMPTS" env-default:"5"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"    env:"EVENTS_RECONNECT_DELAY"    env-default:"1s"`
	PingInterval      time.Duration `yaml:"ping_interval"      env:"EVENTS_PING_INTERVAL"      env-default:"25s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"      env:"EVENTS_WRITE_TIMEOUT"      env-default:"10s"`
}

// UploadConfig holds upload orchestration and polling settings.
type UploadConfig struct {
	SplitPollInterval     time.Duration `yaml:"split_poll_interval"     env:"UPLOAD_SPLIT_POLL_INTERVAL"     env-default:"1s"`
	SplitStablePolls      int           `yaml:"split_stable_polls"      env:"UPLOAD_SPLIT_STABLE_POLLS"      env-default:"3"`
	SplitMaxPolls         int           `yaml:"split_max_polls"         env:"UPLOAD_SPLIT_MAX_POLLS"         env-default:"120"`
	TranslatePollInterval time.Duration `yaml:"translate_poll_interval" env:"UPLOAD_TRANSLATE_POLL_INTERVAL" env-default:"15s"`
	TranslateMaxAttempts  int           `yaml:"translate_max_attempts"  env:"UPLOAD_TRANSLATE_MAX_ATTEMPTS"  env-default:"8"`
	TranslateMaxFailures  int           `yaml:"translate_max_failures"  env:"UPLOAD_TRANSLATE_MAX_FAILURES"  env-default:"5"`
	AllowedExtensionsRaw  string        `yaml:"allowed_extensions"      env:"UPLOAD_ALLOWED_EXTENSIONS"      env-default:".pdf,.png,.jpg,.jpeg,.webp,.bmp,.gif,.tif,.tiff,.doc,.docx"`

	// AllowedExtensions is parsed from AllowedExtensionsRaw during validation.
	AllowedExtensions []string `yaml:"-" env:"-"`
}

// UIConfig holds settings of the headless presentation state.
type UIConfig struct {
	NotificationTTL time.Duration `yaml:"notification_ttl" env:"UI_NOTIFICATION_TTL" env-default:"4s"`
}

// StateConfig holds the persisted local state backend.
type StateConfig struct {
	Driver string `yaml:"driver" env:"STATE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn"    env:"STATE_DSN"    env-default:"./desk-state.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	// File enables rotated file output instead of stderr.
	File string `yaml:"file" env:"LOG_FILE"`
}

// EventsURL returns the push-channel endpoint, deriving it from the API
// origin when not configured explicitly.
func (c Config) EventsURL() string {
	if c.Events.URL != "" {
		return c.Events.URL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String()
}

// IsAllowedExtension checks a file name against the upload allow-list.
func (c UploadConfig) IsAllowedExtension(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}
	return slices.Contains(c.AllowedExtensions, strings.ToLower(name[i:]))
}
