package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	JWTSecret          string `env:"JWT_SECRET" env-required:"true"`
	JWTIssuer          string `env:"JWT_ISSUER" env-default:"estateauth"`
	AccessTokenMinutes int    `env:"JWT_EXPIRE_MINUTES" env-default:"15"`
	RefreshTokenDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" env-default:"30"`

	GoogleUserinfoURL string `env:"GOOGLE_USERINFO_URL" env-default:"https://openidconnect.googleapis.com/v1/userinfo"`
	GoogleClientID    string `env:"GOOGLE_CLIENT_ID"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM"`

	SMSAPIKey  string `env:"SMS_API_KEY"`
	SMSBaseURL string `env:"SMS_BASE_URL"`
	SMSSender  string `env:"SMS_SENDER"`

	CookieDomain string `env:"COOKIE_DOMAIN"`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"true"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
