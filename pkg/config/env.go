package config

// EnvPrefix scopes envconfig lookups for nested structs.
const EnvPrefix = "RHA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "RHA_APP_ENV"
	EnvPort     = "RHA_APP_PORT"
	EnvLogLevel = "RHA_LOG_LEVEL"

	EnvDBDSN  = "RHA_DB_DSN"
	EnvDBHost = "RHA_DB_HOST"
	EnvDBUser = "RHA_DB_USER"
	EnvDBName = "RHA_DB_NAME"

	EnvRedisURL = "RHA_REDIS_URL"

	EnvJWTSecret  = "RHA_JWT_SECRET"
	EnvJWTIssuer  = "RHA_JWT_ISSUER"
	EnvJWTExpMins = "RHA_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "RHA_USE_SQLITE"
	EnvAutoMigrate = "RHA_AUTO_MIGRATE"

	EnvBookingInitialStatus = "RHA_BOOKING_INITIAL_STATUS"
	EnvBookingMaxNights     = "RHA_BOOKING_MAX_NIGHTS"
	EnvHostNotifyEmail      = "RHA_HOST_NOTIFY_EMAIL"

	EnvGCPProjectID = "RHA_GCP_PROJECT_ID"

	EnvPubSubBookingTopic      = "RHA_PUBSUB_BOOKING_TOPIC"
	EnvPubSubNotificationSub   = "RHA_PUBSUB_NOTIFICATION_SUBSCRIPTION"
	EnvGmailClientID           = "RHA_GMAIL_CLIENT_ID"
	EnvGmailClientSecret       = "RHA_GMAIL_CLIENT_SECRET"
	EnvGmailRefreshToken       = "RHA_GMAIL_REFRESH_TOKEN"
	EnvGmailSenderEmail        = "RHA_GMAIL_SENDER_EMAIL"
	EnvNotifyWebhookURL        = "RHA_NOTIFY_WEBHOOK_URL"
	EnvCronOutboxRetentionSpec = "RHA_CRON_OUTBOX_RETENTION_SPEC"
	EnvOutboxRetentionDays     = "RHA_OUTBOX_RETENTION_DAYS"
	EnvEventingIdempotencyTTL  = "RHA_EVENTING_IDEMPOTENCY_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
