package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	ProviderAmadeus = "amadeus"
	ProviderMock    = "mock"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB,default=0"`
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL,default=10m"`

	FlightProvider   string        `env:"FLIGHT_PROVIDER,default=amadeus"`
	AmadeusAPIKey    string        `env:"AMADEUS_API_KEY"`
	AmadeusAPISecret string        `env:"AMADEUS_API_SECRET"`
	AmadeusBaseURL   string        `env:"AMADEUS_BASE_URL,default=https://test.api.amadeus.com"`
	AmadeusTimeout   time.Duration `env:"AMADEUS_TIMEOUT,default=15s"`
	AmadeusRateLimit float64       `env:"AMADEUS_RATE_LIMIT,default=5"`
	AmadeusCurrency  string        `env:"AMADEUS_CURRENCY,default=BRL"`
	AmadeusMaxOffers int           `env:"AMADEUS_MAX_OFFERS,default=10"`
	AmadeusAdults    int           `env:"AMADEUS_ADULTS,default=1"`

	LLMBaseURL string        `env:"LLM_BASE_URL,default=https://api.openai.com/v1"`
	LLMAPIKey  string        `env:"LLM_API_KEY"`
	LLMModel   string        `env:"LLM_MODEL,default=gpt-4o-mini"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT,default=20s"`

	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	EvaluationInterval time.Duration `env:"EVALUATION_INTERVAL,default=1h"`
	LogLevel           string        `env:"LOG_LEVEL,default=info"`
	LogFormat          string        `env:"LOG_FORMAT,default=json"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.FlightProvider = strings.ToLower(strings.TrimSpace(c.FlightProvider))
	switch c.FlightProvider {
	case ProviderMock:
	case ProviderAmadeus:
		if c.AmadeusAPIKey == "" || c.AmadeusAPISecret == "" {
			return fmt.Errorf("%w: AMADEUS_API_KEY and AMADEUS_API_SECRET are required for the amadeus provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown FLIGHT_PROVIDER %q", ErrInvalidConfig, c.FlightProvider)
	}
	if c.EvaluationInterval <= 0 {
		return fmt.Errorf("%w: EVALUATION_INTERVAL must be positive", ErrInvalidConfig)
	}
	if c.AmadeusMaxOffers <= 0 || c.AmadeusAdults <= 0 {
		return fmt.Errorf("%w: AMADEUS_MAX_OFFERS and AMADEUS_ADULTS must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.SearchCacheTTL > 0
}
