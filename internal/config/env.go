package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "amazona")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_DAYS", 30)
	v.SetDefault("PAYPAL_CLIENT_ID", "sb")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("UPLOAD_DIR", "./public")
}

func positiveDuration(value, defaultValue int, unit time.Duration) time.Duration {
	if value > 0 {
		return time.Duration(value) * unit
	}
	return time.Duration(defaultValue) * unit
}
