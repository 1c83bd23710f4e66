package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                  string        `mapstructure:"ENV"`
	Port                 string        `mapstructure:"PORT"`
	UpstreamURL          string        `mapstructure:"UPSTREAM_URL"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	AdminKey             string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed          string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout       time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	BookingsPageSize     int           `mapstructure:"BOOKINGS_PAGE_SIZE"`
	CustomersPageSize    int           `mapstructure:"CUSTOMERS_PAGE_SIZE"`
	ActivityPollInterval time.Duration `mapstructure:"ACTIVITY_POLL_INTERVAL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("BOOKINGS_PAGE_SIZE", 20)
	v.SetDefault("CUSTOMERS_PAGE_SIZE", 50)
	v.SetDefault("ACTIVITY_POLL_INTERVAL", "30s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
