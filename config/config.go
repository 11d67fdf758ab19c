package config

import (
	"cafe_pos_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() *structs.Config {
	timezone := getEnvAsString("CAFE_TIMEZONE", "Local")

	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "HomeInnCafe_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8082"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "cafe_pos_db"),
			SSLMode:      getEnvAsString("DB_SSLMODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
			SeedSample:   getEnvAsBool("DB_SEED_SAMPLE", false),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
			QueryTimeout: getEnvAsTimeDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			MenuTTL:         getEnvAsTimeDuration("CACHE_MENU_TTL", 10*time.Minute),
			StatisticsTTL:   getEnvAsTimeDuration("CACHE_STATISTICS_TTL", 30*time.Second),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:          getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralLimit:     getEnvAsInt("RATE_LIMIT_GENERAL", 300),
			GeneralWindow:    getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			ManagementLimit:  getEnvAsInt("RATE_LIMIT_MANAGEMENT", 60),
			ManagementWindow: getEnvAsTimeDuration("RATE_LIMIT_MANAGEMENT_WINDOW", time.Minute),
		},
		Cafe: &structs.CafeConfig{
			Name:     getEnvAsString("CAFE_NAME", "هوم إن كافيه"),
			NameEn:   getEnvAsString("CAFE_NAME_EN", "Home Inn Cafe"),
			Currency: getEnvAsString("CAFE_CURRENCY", "IQD"),
			Timezone: timezone,
			Location: getLocation(timezone),
		},
		Checkout: &structs.CheckoutConfig{
			RetryBaseDelay: getEnvAsTimeDuration("CHECKOUT_RETRY_BASE_DELAY", 5*time.Millisecond),
			RetryMaxDelay:  getEnvAsTimeDuration("CHECKOUT_RETRY_MAX_DELAY", 100*time.Millisecond),
		},
		Messaging: &structs.MessagingConfig{
			RabbitMQURL: getEnvAsString("RABBITMQ_URL", ""),
			Exchange:    getEnvAsString("RABBITMQ_EXCHANGE", "cafe_orders"),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}

// getLocation falls back to the host zone when the name is unknown.
func getLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
