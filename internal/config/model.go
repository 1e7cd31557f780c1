// internal/config/model.go
//
// Typed configuration model for Loanform.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/loanform.yaml`                       – primary static file,
//   • `LOANFORM_`-prefixed environment overrides – highest precedence.
//
// Any string value beginning with `vault:` is resolved through Vault
// before unmarshalling, so the model only ever holds plain strings.
//
// Defaults() seeds every field; YAML and env only override what they set.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`.  Koanf ignores `yaml` tags.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gt=0"`

	// RateLimit is the number of submissions one client IP may make per
	// RateWindow.  Zero disables the limiter.
	RateLimit  int           `koanf:"rate_limit"  validate:"gte=0"`
	RateWindow time.Duration `koanf:"rate_window" validate:"gt=0"`

	// CSRFSecret is a base64url key.  Empty means a per-process random key.
	CSRFSecret string `koanf:"csrf_secret"`
}

//
// Summary section
//

// Summary points at the remote schedule service.
type Summary struct {
	Endpoint string        `koanf:"endpoint" validate:"required,url"`
	Token    string        `koanf:"token"`
	Timeout  time.Duration `koanf:"timeout"  validate:"gt=0"`
}

//
// Cache section
//

// Cache sizes the schedule cache and the session table.  An empty
// RedisAddr keeps schedules in process memory.
type Cache struct {
	RedisAddr     string        `koanf:"redis_addr"     validate:"omitempty,hostname_port"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"       validate:"gte=0"`
	TTL           time.Duration `koanf:"ttl"            validate:"gte=0"`
	Entries       int           `koanf:"entries"        validate:"gte=1"`
	Sessions      int           `koanf:"sessions"       validate:"gte=1"`
}

//
// Database section
//

// Database holds the optional submission-log DSN.  Empty disables the log.
type Database struct {
	DSN string `koanf:"dsn"`
}

//
// Geo section
//

// Geo points at an optional MaxMind GeoLite2 database used to tag audit
// rows with a country.  Empty disables the lookup.
type Geo struct {
	DBPath string `koanf:"db_path" validate:"omitempty,file"`
}

//
// Form section
//

// Form optionally overrides the embedded form definition.  The file must
// declare the same five inputs; only labels and hints may change.
type Form struct {
	Definition string `koanf:"definition" validate:"omitempty,file"`
}

//
// Toast section
//

// Toast controls how notifications are presented.
type Toast struct {
	Duration time.Duration `koanf:"duration" validate:"gt=0"`
	Position string        `koanf:"position" validate:"oneof=bottom-right bottom-left top-right top-left"`
}

//
// Log section
//

// Log selects level and file directory.  Empty Dir resolves to
// <root>/logs.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LOANFORM_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Summary  Summary  `koanf:"summary"`
	Cache    Cache    `koanf:"cache"`
	Database Database `koanf:"database"`
	Geo      Geo      `koanf:"geo"`
	Form     Form     `koanf:"form"`
	Toast    Toast    `koanf:"toast"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// Defaults returns the baseline every layer overrides.
func Defaults() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:   "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second, // summary timeout plus rendering
			IdleTimeout:  60 * time.Second,
			RateLimit:    30,
			RateWindow:   time.Minute,
		},
		Summary: Summary{
			Timeout: 30 * time.Second,
		},
		Cache: Cache{
			TTL:      10 * time.Minute,
			Entries:  1024,
			Sessions: 4096,
		},
		Toast: Toast{
			Duration: 4 * time.Second,
			Position: "bottom-right",
		},
		Log: Log{
			Level: "info",
		},
	}
}
