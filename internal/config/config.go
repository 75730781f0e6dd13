package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Log          LogConfig          `yaml:"log"`
	LLM          LLMConfig          `yaml:"llm"`
	Billing      BillingConfig      `yaml:"billing"`
	Notification NotificationConfig `yaml:"notification"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Delivery     DeliveryConfig     `yaml:"delivery"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"               env:"SERVER_HOST"               env-default:"0.0.0.0"`
	Port            int           `yaml:"port"               env:"SERVER_PORT"               env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"       env:"SERVER_READ_TIMEOUT"       env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"      env:"SERVER_WRITE_TIMEOUT"      env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"       env:"SERVER_IDLE_TIMEOUT"       env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"   env:"SERVER_SHUTDOWN_TIMEOUT"   env-default:"10s"`
	AIRatePerMinute int           `yaml:"ai_rate_per_minute" env:"SERVER_AI_RATE_PER_MINUTE" env-default:"30"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"wellnote-backend"`
}

// AuthConfig holds access-token verification settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"wellnote"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	CronSecret     string        `yaml:"cron_secret"      env:"AUTH_CRON_SECRET"      env-required:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig selects and configures the language-model provider.
type LLMConfig struct {
	Provider        string        `yaml:"provider"          env:"LLM_PROVIDER"          env-default:"anthropic"`
	APIKey          string        `yaml:"api_key"           env:"LLM_API_KEY"`
	BaseURL         string        `yaml:"base_url"          env:"LLM_BASE_URL"`
	Model           string        `yaml:"model"             env:"LLM_MODEL"             env-default:"claude-sonnet-4-5"`
	MaxOutputTokens int64         `yaml:"max_output_tokens" env:"LLM_MAX_OUTPUT_TOKENS" env-default:"1024"`
	Temperature     float64       `yaml:"temperature"       env:"LLM_TEMPERATURE"       env-default:"0.7"`
	Timeout         time.Duration `yaml:"timeout"           env:"LLM_TIMEOUT"           env-default:"45s"`
}

// BillingConfig holds token metering parameters.
type BillingConfig struct {
	Multiplier          string `yaml:"multiplier"            env:"BILLING_MULTIPLIER"            env-default:"2"`
	LowBalanceThreshold int64  `yaml:"low_balance_threshold" env:"BILLING_LOW_BALANCE_THRESHOLD" env-default:"500"`
	EstimatesRaw        string `yaml:"estimates"             env:"BILLING_ESTIMATES"             env-default:"JOURNAL_INSIGHT=300,PERSONALIZED_MESSAGE=200,HEALTH_REPORT=800,CHAT_REPLY=250,DATA_ANALYSIS=600"`
	DefaultEstimate     int64  `yaml:"default_estimate"      env:"BILLING_DEFAULT_ESTIMATE"      env-default:"300"`
	Locale              string `yaml:"locale"                env:"BILLING_LOCALE"                env-default:"en"`

	// Estimates is parsed from EstimatesRaw during validation.
	Estimates map[string]int64 `yaml:"-" env:"-"`
}

// NotificationConfig holds decision-engine parameters.
type NotificationConfig struct {
	MinResendInterval time.Duration `yaml:"min_resend_interval" env:"NOTIFY_MIN_RESEND_INTERVAL" env-default:"23h"`
	WeeklyWeekdayRaw  string        `yaml:"weekly_weekday"      env:"NOTIFY_WEEKLY_WEEKDAY"      env-default:"monday"`
	StaleAfterDays    int           `yaml:"stale_after_days"    env:"NOTIFY_STALE_AFTER_DAYS"    env-default:"3"`
	HistoryWindow     int           `yaml:"history_window"      env:"NOTIFY_HISTORY_WINDOW"      env-default:"14"`
	AppBaseURL        string        `yaml:"app_base_url"        env:"NOTIFY_APP_BASE_URL"        env-default:"https://app.wellnote.example"`

	// WeeklyWeekday is parsed from WeeklyWeekdayRaw during validation.
	WeeklyWeekday time.Weekday `yaml:"-" env:"-"`
}

// SchedulerConfig controls the tick handler.
type SchedulerConfig struct {
	Concurrency int           `yaml:"concurrency" env:"SCHEDULER_CONCURRENCY" env-default:"8"`
	TickBudget  time.Duration `yaml:"tick_budget" env:"SCHEDULER_TICK_BUDGET" env-default:"50m"`
}

// DeliveryConfig selects the message-delivery provider.
type DeliveryConfig struct {
	Mode       string        `yaml:"mode"        env:"DELIVERY_MODE"        env-default:"log"`
	WebhookURL string        `yaml:"webhook_url" env:"DELIVERY_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"DELIVERY_TIMEOUT"     env-default:"10s"`
}
