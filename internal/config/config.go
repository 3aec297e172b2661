package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds process-level settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
}

// ClickHouse holds event store connection settings.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
	QueryTimeoutSec int    `envconfig:"CLICKHOUSE_QUERY_TIMEOUT_SEC" default:"10"`
}

// Redis holds settings for the sequence, site directory, and auth backends.
type Redis struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     string `envconfig:"REDIS_PORT" required:"true"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SQS holds batch-intake queue settings.
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL"`
	Region   string `envconfig:"SQS_REGION"`
}

// Consumer holds batch-intake worker settings.
type Consumer struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"2000"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"10"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

// Limits bounds client-supplied field sizes at intake.
type Limits struct {
	MaxSiteIDLen    int `envconfig:"LIMIT_SITE_ID_LEN" default:"64"`
	MaxEventTypeLen int `envconfig:"LIMIT_EVENT_TYPE_LEN" default:"64"`
	MaxURLLen       int `envconfig:"LIMIT_URL_LEN" default:"2048"`
	MaxTitleLen     int `envconfig:"LIMIT_TITLE_LEN" default:"512"`
	MaxUserAgentLen int `envconfig:"LIMIT_USER_AGENT_LEN" default:"1024"`
	MaxMetaLen      int `envconfig:"LIMIT_META_LEN" default:"128"`
}

type Config struct {
	Service    Service
	ClickHouse ClickHouse
	Redis      Redis
	SQS        SQS
	Consumer   Consumer
	Limits     Limits
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
