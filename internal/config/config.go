package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Keys      KeysConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Uploads   UploadsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI    string
	DBName string
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// KeysConfig holds the public keys handed to the browser for the payment
// and maps SDKs.
type KeysConfig struct {
	PayPalClientID string
	GoogleAPIKey   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type UploadsConfig struct {
	Dir string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Mongo: MongoConfig{
			URI:    v.GetString("MONGODB_URI"),
			DBName: v.GetString("DB_NAME"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			TokenTTL: positiveDuration(v.GetInt("JWT_TTL_DAYS"), 30, 24*time.Hour),
		},
		Keys: KeysConfig{
			PayPalClientID: v.GetString("PAYPAL_CLIENT_ID"),
			GoogleAPIKey:   v.GetString("GOOGLE_API_KEY"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   positiveDuration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS"), 60, time.Second),
		},
		Uploads: UploadsConfig{
			Dir: v.GetString("UPLOAD_DIR"),
		},
	}
}

// IsProduction reports whether the server runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
