package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once at process start and passed to constructors; nothing reads the
// environment after New returns.
type Config struct {
	App      App
	HTTP     HTTP
	Database Database
	JWT      JWT
	Security Security
	Log      Log
	Seed     Seed
}

type App struct {
	Name      string `env:"APP_NAME" envDefault:"Inventory Management API"`
	Version   string `env:"APP_VERSION" envDefault:"1.0.0"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/v1"`
}

type HTTP struct {
	Port string `env:"PORT" envDefault:"3000"`
}

type Database struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`

	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	LogLevel        string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* fields.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type JWT struct {
	SecretKey         string `env:"SECRET_KEY,required,notEmpty"`
	Algorithm         string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpiry int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	Issuer            string `env:"JWT_ISSUER" envDefault:"go-inventory-audit"`
}

func (j JWT) TTL() time.Duration {
	return time.Duration(j.AccessTokenExpiry) * time.Minute
}

type Security struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"false"`
}

// Seed describes an optional first user created at start-up.
type Seed struct {
	AdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

func (s Seed) Enabled() bool {
	return s.AdminEmail != "" && s.AdminPassword != ""
}

// LogFormat represents the logging format (JSON or Text).
type LogFormat uint8

const (
	LogFormatJSON LogFormat = iota
	LogFormatText
)

func (f LogFormat) String() string {
	return []string{"JSON", "TEXT"}[f]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *LogFormat) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "JSON":
		*f = LogFormatJSON
	case "TEXT":
		*f = LogFormatText
	default:
		return fmt.Errorf("unknown log format: %s", text)
	}
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// New loads .env when present and parses the environment into a Config.
// A missing .env file is reported through the returned bool, not as an error.
func New() (Config, bool, error) {
	loaded := godotenv.Load() == nil

	cfg, err := Parse()
	return cfg, loaded, err
}

// Load is like New for commands that only need some sections, e.g.
// struct{ Log config.Log; Database config.Database }.
func Load[T any]() (T, bool, error) {
	loaded := godotenv.Load() == nil

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, loaded, fmt.Errorf("parse env: %w", err)
	}
	return cfg, loaded, nil
}

// Parse reads the process environment into a Config without touching .env.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWT.AccessTokenExpiry <= 0 {
		return cfg, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", cfg.JWT.AccessTokenExpiry)
	}
	return cfg, nil
}
