package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel      LogLeveler    `mapstructure:"LOG_LEVEL"`
	HTTP          HTTP          `mapstructure:",squash"`
	Redis         Redis         `mapstructure:",squash"`
	Travelpayouts Travelpayouts `mapstructure:",squash"`
	Currency      Currency      `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

type Redis struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// Travelpayouts holds provider credentials, endpoints and the polling
// schedule for the two-phase search protocol.
type Travelpayouts struct {
	Token               string        `mapstructure:"TRAVELPAYOUTS_TOKEN"`
	Marker              string        `mapstructure:"TRAVELPAYOUTS_MARKER"`
	Host                string        `mapstructure:"TRAVELPAYOUTS_HOST"`
	SearchAPIURL        string        `mapstructure:"TRAVELPAYOUTS_SEARCH_API_URL"`
	ResultsAPIURL       string        `mapstructure:"TRAVELPAYOUTS_RESULTS_API_URL"`
	ClicksAPIURL        string        `mapstructure:"TRAVELPAYOUTS_CLICKS_API_URL"`
	IPLookupURL         string        `mapstructure:"IP_LOOKUP_URL"`
	Timeout             time.Duration `mapstructure:"TRAVELPAYOUTS_TIMEOUT"`
	RateLimitRPS        int           `mapstructure:"TRAVELPAYOUTS_RATE_LIMIT"`
	PollMaxAttempts     int           `mapstructure:"TRAVELPAYOUTS_POLL_MAX_ATTEMPTS"`
	PollInterval        time.Duration `mapstructure:"TRAVELPAYOUTS_POLL_INTERVAL"`
	StreamWarmup        time.Duration `mapstructure:"TRAVELPAYOUTS_STREAM_WARMUP"`
	StreamStopThreshold int           `mapstructure:"TRAVELPAYOUTS_STREAM_STOP_THRESHOLD"`
}

type Currency struct {
	RatesAPIURL string        `mapstructure:"EXCHANGE_RATES_API_URL"`
	RatesTTL    time.Duration `mapstructure:"EXCHANGE_RATES_TTL"`
	Base        string        `mapstructure:"BASE_CURRENCY"`
}

// Validate checks the settings that have no usable default. A missing
// provider token or marker is a hard configuration error, not retried.
func (c Config) Validate() error {
	if c.Travelpayouts.Token == "" {
		return exception.ApplicationError{
			StatusCode: http.StatusInternalServerError,
			Message:    "TRAVELPAYOUTS_TOKEN is not configured",
		}
	}

	if c.Travelpayouts.Marker == "" {
		return exception.ApplicationError{
			StatusCode: http.StatusInternalServerError,
			Message:    "TRAVELPAYOUTS_MARKER is not configured",
		}
	}

	return nil
}
