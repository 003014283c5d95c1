package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"kasir"`
	ServerPort  string `envconfig:"SERVER_PORT"  default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER"    default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"kasir.db"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTTL time.Duration `envconfig:"ACCESS_TTL" default:"12h"`

	KafkaAddress string `envconfig:"KAFKA_ADDRESS"`

	ESURL      string `envconfig:"ES_URL"`
	ESUser     string `envconfig:"ES_USER"`
	ESPassword string `envconfig:"ES_PASSWORD"`
	ESIndex    string `envconfig:"ES_INDEX" default:"products"`

	LowStockThreshold int  `envconfig:"LOW_STOCK_THRESHOLD" default:"10"`
	CheckoutAtomic    bool `envconfig:"CHECKOUT_ATOMIC"     default:"true"`
	OTelStdout        bool `envconfig:"OTEL_STDOUT"         default:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required env DATABASE_URL")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must be >= 0")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TTL must be positive")
	}
	return nil
}

func (c Config) KafkaBrokers() []string {
	return CSV(c.KafkaAddress)
}

func (c Config) Addr() string {
	return ":" + c.ServerPort
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
