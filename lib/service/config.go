package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	LogLevel                string  `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenExpiry    int     `envconfig:"JWT_ACCESS_EXPIRY" default:"43200"` // in seconds, default 12 hours
	SessionCookieName       string  `envconfig:"SESSION_COOKIE_NAME" default:"surau_session"`
	SecureCookie            bool    `envconfig:"SECURE_COOKIE" default:"true"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"20"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"5"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	MaxUploadSize           string  `envconfig:"MAX_UPLOAD_SIZE" default:"10M"`
	UploadDir               string  `envconfig:"UPLOAD_DIR" default:"uploads"`
	GCSBucket               string  `envconfig:"GCS_BUCKET"`
	RabbitMQUri             string  `envconfig:"RABBITMQ_URI"`
	RabbitMQEventExchange   string  `envconfig:"RABBITMQ_EVENT_EXCHANGE" default:"surau_events"`
	RabbitMQNotesQueueName  string  `envconfig:"RABBITMQ_NOTES_QUEUE_NAME" default:"surau_nota_regenerator"`
	Branding                BrandingConfig
}

type BrandingConfig struct {
	Title   string `envconfig:"BRANDING_TITLE" default:"Surau"`
	Address string `envconfig:"BRANDING_ADDRESS"`
}
