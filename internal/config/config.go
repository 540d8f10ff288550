package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Bucket BucketConfig
	Period PeriodConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend  string // memory, redis or postgres
	Redis    RedisConfig
	Postgres PostgresConfig
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// BucketConfig points at the S3-compatible bucket holding historical
// supplier exports for batch ingestion.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// PeriodConfig holds the default calculation parameters applied when a
// caller supplies none.
type PeriodConfig struct {
	StockPeriodDays       int
	DaysToNextDelivery    int
	SafetyStockPercentage float64
	CriticalItemBuffer    float64
	OrderCycle            int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

		viper.SetDefault("STORE_BACKEND", "memory")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)

		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "foodcost")
		viper.SetDefault("DB_SSLMODE", "disable")

		viper.SetDefault("BUCKET_ENDPOINT", "")
		viper.SetDefault("BUCKET_ACCESS_KEY", "")
		viper.SetDefault("BUCKET_SECRET_KEY", "")
		viper.SetDefault("BUCKET_NAME", "")
		viper.SetDefault("BUCKET_PREFIX", "exports/")
		viper.SetDefault("BUCKET_USE_SSL", true)

		viper.SetDefault("PERIOD_STOCK_DAYS", 14)
		viper.SetDefault("PERIOD_DELIVERY_DAYS", 3)
		viper.SetDefault("PERIOD_SAFETY_STOCK_PCT", 20.0)
		viper.SetDefault("PERIOD_CRITICAL_BUFFER_PCT", 30.0)
		viper.SetDefault("PERIOD_ORDER_CYCLE", 7)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Store: StoreConfig{
				Backend: viper.GetString("STORE_BACKEND"),
				Redis: RedisConfig{
					URL:      viper.GetString("REDIS_URL"),
					Host:     viper.GetString("REDIS_HOST"),
					Port:     viper.GetString("REDIS_PORT"),
					Password: viper.GetString("REDIS_PASSWORD"),
					DB:       viper.GetInt("REDIS_DB"),
				},
				Postgres: PostgresConfig{
					Host:     viper.GetString("DB_HOST"),
					Port:     viper.GetString("DB_PORT"),
					User:     viper.GetString("DB_USER"),
					Password: viper.GetString("DB_PASSWORD"),
					DBName:   viper.GetString("DB_NAME"),
					SSLMode:  viper.GetString("DB_SSLMODE"),
				},
			},
			Bucket: BucketConfig{
				Endpoint:  viper.GetString("BUCKET_ENDPOINT"),
				AccessKey: viper.GetString("BUCKET_ACCESS_KEY"),
				SecretKey: viper.GetString("BUCKET_SECRET_KEY"),
				Bucket:    viper.GetString("BUCKET_NAME"),
				Prefix:    viper.GetString("BUCKET_PREFIX"),
				UseSSL:    viper.GetBool("BUCKET_USE_SSL"),
			},
			Period: PeriodConfig{
				StockPeriodDays:       viper.GetInt("PERIOD_STOCK_DAYS"),
				DaysToNextDelivery:    viper.GetInt("PERIOD_DELIVERY_DAYS"),
				SafetyStockPercentage: viper.GetFloat64("PERIOD_SAFETY_STOCK_PCT"),
				CriticalItemBuffer:    viper.GetFloat64("PERIOD_CRITICAL_BUFFER_PCT"),
				OrderCycle:            viper.GetInt("PERIOD_ORDER_CYCLE"),
			},
		}
	})

	return instance
}
