package config

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// MustInitConfig initializes configuration from .env file or environment variables.
// If configFile exists, it loads from the file. Otherwise, it automatically binds
// environment variables based on the Config struct's mapstructure tags.
func MustInitConfig(configFile string) Config {
	var (
		vpr = viper.New()
		cfg Config
	)

	vpr.SetDefault("LOG_LEVEL", "info")
	vpr.SetDefault("HTTP_PORT", 8080)
	vpr.SetDefault("HTTP_TIMEOUT", "60s")
	vpr.SetDefault("REDIS_ADDR", "localhost:6379")
	vpr.SetDefault("TRAVELPAYOUTS_HOST", "localhost")
	vpr.SetDefault("TRAVELPAYOUTS_SEARCH_API_URL", "https://api.travelpayouts.com/v1/flight_search")
	vpr.SetDefault("TRAVELPAYOUTS_RESULTS_API_URL", "https://api.travelpayouts.com/v1/flight_search_results")
	vpr.SetDefault("TRAVELPAYOUTS_CLICKS_API_URL", "https://api.travelpayouts.com/v1/flight_searches")
	vpr.SetDefault("IP_LOOKUP_URL", "https://api.ipify.org?format=json")
	vpr.SetDefault("TRAVELPAYOUTS_TIMEOUT", "30s")
	vpr.SetDefault("TRAVELPAYOUTS_RATE_LIMIT", 10)
	vpr.SetDefault("TRAVELPAYOUTS_POLL_MAX_ATTEMPTS", 10)
	vpr.SetDefault("TRAVELPAYOUTS_POLL_INTERVAL", "1s")
	vpr.SetDefault("TRAVELPAYOUTS_STREAM_WARMUP", "3s")
	vpr.SetDefault("TRAVELPAYOUTS_STREAM_STOP_THRESHOLD", 30)
	vpr.SetDefault("EXCHANGE_RATES_API_URL", "https://api.exchangerate-api.com/v4/latest")
	vpr.SetDefault("EXCHANGE_RATES_TTL", "1h")
	vpr.SetDefault("BASE_CURRENCY", "INR")

	vpr.AutomaticEnv()

	vpr.SetConfigFile(configFile)
	vpr.SetConfigType("env")

	if err := vpr.ReadInConfig(); err != nil {
		slog.Warn("config file not found or cannot be read, using environment variables",
			slog.String("file", configFile),
			slog.String("error", err.Error()))
	} else {
		slog.Info("config file loaded successfully", slog.String("file", configFile))
	}

	bindEnvFromStruct(vpr, reflect.TypeOf(Config{}))

	if err := vpr.Unmarshal(&cfg); err != nil {
		slog.Error("cannot unmarshal config", slog.String("error", err.Error()))
		panic(err)
	}

	return cfg
}

// bindEnvFromStruct binds environment variables for every mapstructure
// tag found in the struct, recursing through squashed sub-structs.
func bindEnvFromStruct(vpr *viper.Viper, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if strings.Contains(tag, "squash") && field.Type.Kind() == reflect.Struct {
			bindEnvFromStruct(vpr, field.Type)

			continue
		}

		if name != "" {
			_ = vpr.BindEnv(name)
		}
	}
}
