package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Cafe      *CafeConfig
	Checkout  *CheckoutConfig
	Messaging *MessagingConfig
}

type ServerConfig struct {
	AppName        string        // Home Inn Cafe POS
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64         // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	SlowQuery    time.Duration
	SeedSample   bool
	AutoMigrate  bool
	QueryTimeout time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	MenuTTL         time.Duration
	StatisticsTTL   time.Duration
}

type RateLimitConfig struct {
	Enabled          bool
	GeneralLimit     int
	GeneralWindow    time.Duration
	ManagementLimit  int
	ManagementWindow time.Duration
}

// CafeConfig holds what ends up on receipts and which calendar day an order belongs to.
type CafeConfig struct {
	Name     string
	NameEn   string
	Currency string
	Timezone string
	Location *time.Location
}

type CheckoutConfig struct {
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

type MessagingConfig struct {
	RabbitMQURL string // empty disables event publishing
	Exchange    string
}
