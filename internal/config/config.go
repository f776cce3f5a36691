package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env      string
	Log      LogConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Features FeatureFlags
}

type LogConfig struct {
	Level     string
	AddSource bool
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	PaymentsTopic string
	ConsumerGroup string
}

type AuthConfig struct {
	JWTSecret string
}

// CheckoutConfig fixes the monetary constants captured into each order.
// The commission rate and delivery fee are snapshotted onto the order row
// at creation time, so changing them never reprices existing orders.
type CheckoutConfig struct {
	CommissionRate decimal.Decimal
	DeliveryFee    int64
	OrderPrefix    string
	NumberRetries  int
}

type FeatureFlags struct {
	EnableOrderCaching bool
	EnableOrderEvents  bool
}

func Load() *Config {
	// Best effort; production supplies real env vars.
	_ = godotenv.Load()

	return &Config{
		Env: getEnvString("APP_ENV", "dev"),
		Log: LogConfig{
			Level:     getEnvString("LOG_LEVEL", "info"),
			AddSource: getEnvBool("LOG_ADD_SOURCE", false),
		},
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "bello"),
			Password:     getEnvString("DB_PASSWORD", "bello"),
			Name:         getEnvString("DB_NAME", "bello"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic:   getEnvString("KAFKA_ORDERS_TOPIC", "bello.orders"),
			PaymentsTopic: getEnvString("KAFKA_PAYMENTS_TOPIC", "bello.payments"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "bello-orders"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvString("AUTH_JWT_SECRET", ""),
		},
		Checkout: CheckoutConfig{
			CommissionRate: getEnvDecimal("CHECKOUT_COMMISSION_RATE", "0.15"),
			DeliveryFee:    int64(getEnvInt("CHECKOUT_DELIVERY_FEE", 5000)),
			OrderPrefix:    getEnvString("CHECKOUT_ORDER_PREFIX", "BLO"),
			NumberRetries:  getEnvInt("CHECKOUT_NUMBER_RETRIES", 3),
		},
		Features: FeatureFlags{
			EnableOrderCaching: getEnvBool("FEATURE_ORDER_CACHING", true),
			EnableOrderEvents:  getEnvBool("FEATURE_ORDER_EVENTS", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnvString(key, defaultValue)
	if d, err := decimal.NewFromString(raw); err == nil {
		return d
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}
