package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Booking      BookingConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Notify       NotifyConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Booking.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RHA_APP_ENV" required:"true"`
	Port         string `envconfig:"RHA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RHA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RHA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"RHA_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type ServiceConfig struct {
	Kind string `envconfig:"RHA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RHA_DB_DSN"`
	Driver string `envconfig:"RHA_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"RHA_SQLITE_PATH" default:"rha.db"`

	LegacyHost     string `envconfig:"RHA_DB_HOST"`
	LegacyPort     int    `envconfig:"RHA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RHA_DB_USER"`
	LegacyPassword string `envconfig:"RHA_DB_PASSWORD"`
	LegacyName     string `envconfig:"RHA_DB_NAME"`
	LegacySSLMode  string `envconfig:"RHA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RHA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RHA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RHA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RHA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RHA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RHA_REDIS_ADDR"`
	Password     string        `envconfig:"RHA_REDIS_PASSWORD"`
	DB           int           `envconfig:"RHA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RHA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RHA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RHA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RHA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RHA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RHA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RHA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RHA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RHA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RHA_AUTO_MIGRATE" default:"false"`
}

// BookingConfig tunes the admission policy.
type BookingConfig struct {
	InitialStatus   string `envconfig:"RHA_BOOKING_INITIAL_STATUS" default:"pending"`
	MaxNights       int    `envconfig:"RHA_BOOKING_MAX_NIGHTS" default:"0"`
	HostNotifyEmail string `envconfig:"RHA_HOST_NOTIFY_EMAIL"`

	RateLimitWindow    time.Duration `envconfig:"RHA_BOOKING_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitIPLimit   int           `envconfig:"RHA_BOOKING_RATE_LIMIT_IP" default:"30"`
	RateLimitUserLimit int           `envconfig:"RHA_BOOKING_RATE_LIMIT_USER" default:"10"`
}

func (b BookingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(b.InitialStatus)) {
	case "pending", "confirmed":
	default:
		return fmt.Errorf("%s must be pending or confirmed, got %q", EnvBookingInitialStatus, b.InitialStatus)
	}
	if b.MaxNights < 0 {
		return fmt.Errorf("%s must not be negative", EnvBookingMaxNights)
	}
	return nil
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"RHA_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"RHA_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"RHA_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	BookingTopic             string `envconfig:"RHA_PUBSUB_BOOKING_TOPIC" default:"rha-booking-events"`
	NotificationSubscription string `envconfig:"RHA_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"rha-booking-notifications"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"RHA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"RHA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"RHA_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"RHA_OUTBOX_RETENTION_DAYS" default:"30"`
}

// NotifyConfig holds delivery credentials for the notifier.
type NotifyConfig struct {
	GmailClientID     string        `envconfig:"RHA_GMAIL_CLIENT_ID"`
	GmailClientSecret string        `envconfig:"RHA_GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string        `envconfig:"RHA_GMAIL_REFRESH_TOKEN"`
	GmailSenderEmail  string        `envconfig:"RHA_GMAIL_SENDER_EMAIL"`
	WebhookURL        string        `envconfig:"RHA_NOTIFY_WEBHOOK_URL"`
	Timeout           time.Duration `envconfig:"RHA_NOTIFY_TIMEOUT" default:"10s"`
	BreakerMaxFails   uint32        `envconfig:"RHA_NOTIFY_BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenFor    time.Duration `envconfig:"RHA_NOTIFY_BREAKER_OPEN_FOR" default:"30s"`
}

// GmailEnabled reports whether every Gmail OAuth credential is present.
func (n NotifyConfig) GmailEnabled() bool {
	return n.GmailClientID != "" && n.GmailClientSecret != "" && n.GmailRefreshToken != "" && n.GmailSenderEmail != ""
}

type CronConfig struct {
	OutboxRetentionSpec string        `envconfig:"RHA_CRON_OUTBOX_RETENTION_SPEC" default:"@hourly"`
	LockTTL             time.Duration `envconfig:"RHA_CRON_LOCK_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
