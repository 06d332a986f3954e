package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"reagent-api"`
	Port                          int      `env:"PORT" env-default:"3000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"reagent"`
	DatabaseSSLMode             string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`

	// Elevated credentials for writes that bypass the restricted role
	DatabaseElevatedUserName string `env:"DB_ELEVATED_USER_NAME" env-default:""`
	DatabaseElevatedPassword string `env:"DB_ELEVATED_PASSWORD" env-default:""`

	// Per-call store timeout
	StoreTimeoutSeconds int `env:"STORE_TIMEOUT_SECONDS" env-default:"5"`

	// Redis (webhook dedup)
	RedisHost       string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort       int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB         int    `env:"REDIS_DB" env-default:"0"`
	DedupTTLSeconds int    `env:"DEDUP_TTL_SECONDS" env-default:"86400"`
	DedupEnabled    bool   `env:"DEDUP_ENABLED" env-default:"true"`

	// WhatsApp provider
	WhatsAppBaseURL        string `env:"WHATSAPP_BASE_URL" env-default:""`
	WhatsAppAuthToken      string `env:"WHATSAPP_AUTH_TOKEN" env-default:""`
	WhatsAppFromNumber     string `env:"WHATSAPP_FROM_NUMBER" env-default:""`
	WhatsAppTimeoutSeconds int    `env:"WHATSAPP_TIMEOUT_SECONDS" env-default:"15"`
	WebhookSecret          string `env:"WEBHOOK_SECRET" env-default:""`

	// Chat behavior
	SearchResultLimit  int `env:"SEARCH_RESULT_LIMIT" env-default:"5"`
	UpcomingWindowDays int `env:"UPCOMING_WINDOW_DAYS" env-default:"7"`
	PastWindowDays     int `env:"PAST_WINDOW_DAYS" env-default:"30"`
}
