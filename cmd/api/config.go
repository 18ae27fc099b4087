package main

import (
	"log/slog"
	"time"

	"github.com/rvidyarthi/crickpool/internal/config"
)

type apiConfig struct {
	Port              string        `env:"HTTP_PORT"            envDefault:"8080"`
	MetricsPort       string        `env:"METRICS_PORT"         envDefault:"9091"`
	LogLevel          slog.Level    `env:"APP_LOG_LEVEL"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"15s"`
	AdminToken        string        `env:"ADMIN_TOKEN,required"`
	MinStake          int64         `env:"MIN_STAKE"            envDefault:"100"`
	VoidRestoresPool  bool          `env:"VOID_RESTORES_POOL"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	KafkaBrokers      string        `env:"KAFKA_BROKERS"`
	ScoreFeedURL      string        `env:"SCORE_FEED_URL"`
	ScorePollInterval time.Duration `env:"SCORE_POLL_INTERVAL" envDefault:"1m"`
	Postgres          config.PostgresConfig
}
