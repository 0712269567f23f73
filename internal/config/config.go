package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Analytics AnalyticsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	MaxUploadMB           int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SQLiteConfig configures the local load-history store used without Postgres.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection values. An empty Addr disables caching.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
}

// CacheConfig bounds the in-process cache used when Redis is disabled.
type CacheConfig struct {
	MemoryMaxEntries int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. Password hashes are bcrypt.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	AdminUsername         string
	AdminPasswordHash     string
	ViewerUsername        string
	ViewerPasswordHash    string
}

// AnalyticsConfig tunes how exports are interpreted.
type AnalyticsConfig struct {
	TaxonomyPath string
	Timezone     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			MaxUploadMB:           getEnvAsInt("APP_MAX_UPLOAD_MB", 25),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "dashboard.db"),
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			CacheTTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 900),
		},
		Cache: CacheConfig{
			MemoryMaxEntries: getEnvAsInt("CACHE_MEMORY_MAX_ENTRIES", 256),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			AdminUsername:         getEnv("AUTH_ADMIN_USERNAME", "admin"),
			AdminPasswordHash:     os.Getenv("AUTH_ADMIN_PASSWORD_HASH"),
			ViewerUsername:        getEnv("AUTH_VIEWER_USERNAME", "viewer"),
			ViewerPasswordHash:    os.Getenv("AUTH_VIEWER_PASSWORD_HASH"),
		},
		Analytics: AnalyticsConfig{
			TaxonomyPath: os.Getenv("ANALYTICS_TAXONOMY_PATH"),
			Timezone:     os.Getenv("ANALYTICS_TIMEZONE"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (a AppConfig) MaxUploadBytes() int {
	if a.MaxUploadMB <= 0 {
		return 25 << 20
	}
	return a.MaxUploadMB << 20
}

// CacheTTL returns how long computed dashboards stay cached.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// Location resolves the configured timezone, defaulting to local time.
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(a.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_TIMEZONE: %w", err)
	}
	return loc, nil
}

// LoadTaxonomy reads the taxonomy YAML file when configured. Missing sections
// keep the built-in vocabularies.
func (a AnalyticsConfig) LoadTaxonomy() (domain.Taxonomy, error) {
	tax := domain.DefaultTaxonomy()
	if a.TaxonomyPath == "" {
		return tax, nil
	}
	data, err := os.ReadFile(a.TaxonomyPath)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes a taxonomy document over the defaults.
func ParseTaxonomy(data []byte) (domain.Taxonomy, error) {
	var file domain.Taxonomy
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("parse taxonomy file: %w", err)
	}
	tax := domain.DefaultTaxonomy()
	if len(file.ClosedStatuses) > 0 {
		tax.ClosedStatuses = file.ClosedStatuses
	}
	if len(file.CanceledStatuses) > 0 {
		tax.CanceledStatuses = file.CanceledStatuses
	}
	if len(file.TeamSizes) > 0 {
		for _, r := range file.TeamSizes {
			if _, _, ok := domain.ParseYearMonth(r.From); !ok {
				return domain.Taxonomy{}, fmt.Errorf("team size range: invalid from %q", r.From)
			}
			if r.To != "" {
				if _, _, ok := domain.ParseYearMonth(r.To); !ok {
					return domain.Taxonomy{}, fmt.Errorf("team size range: invalid to %q", r.To)
				}
			}
		}
		tax.TeamSizes = file.TeamSizes
	}
	return tax, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
