// internal/config/config.go
package config

import (
	"os"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Ingest   IngestConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Drive    DriveConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// IngestConfig points the pipelines at their input directories and output artifacts.
type IngestConfig struct {
	CustomerDir    string
	SupplierDir    string
	CustomerOutput string
	SupplierOutput string
	Workers        int
}

// StorageConfig selects where generated datasets are persisted.
// Backend is one of "file", "s3" or "postgres".
type StorageConfig struct {
	Backend   string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	QueryTTLSeconds int
}

type DriveConfig struct {
	CredentialsFile string
	CustomerFolder  string
	SupplierFolder  string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

// Load returns the process-wide configuration, reading it on first use.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()
		instance = New()
	})

	return instance
}

// New builds a fresh Config from defaults and the environment.
func New() *Config {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 120)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "growth")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("INGEST_CUSTOMER_DIR", "data/dvur")
	v.SetDefault("INGEST_SUPPLIER_DIR", "data/dodavatele")
	v.SetDefault("INGEST_CUSTOMER_OUTPUT", "public/data/processed.json")
	v.SetDefault("INGEST_SUPPLIER_OUTPUT", "public/data/suppliers.json")
	v.SetDefault("INGEST_WORKERS", runtime.NumCPU())

	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_PREFIX", "datasets")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_QUERY_TTL_SECONDS", 300)

	v.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	v.SetDefault("DRIVE_CUSTOMER_FOLDER", "")
	v.SetDefault("DRIVE_SUPPLIER_FOLDER", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Ingest: IngestConfig{
			CustomerDir:    v.GetString("INGEST_CUSTOMER_DIR"),
			SupplierDir:    v.GetString("INGEST_SUPPLIER_DIR"),
			CustomerOutput: v.GetString("INGEST_CUSTOMER_OUTPUT"),
			SupplierOutput: v.GetString("INGEST_SUPPLIER_OUTPUT"),
			Workers:        v.GetInt("INGEST_WORKERS"),
		},
		Storage: StorageConfig{
			Backend:   v.GetString("STORAGE_BACKEND"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
			Prefix:    v.GetString("S3_PREFIX"),
		},
		Cache: CacheConfig{
			Enabled:         v.GetBool("CACHE_ENABLED"),
			RedisURL:        v.GetString("REDIS_URL"),
			RedisHost:       v.GetString("REDIS_HOST"),
			RedisPort:       v.GetString("REDIS_PORT"),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("REDIS_DB"),
			QueryTTLSeconds: v.GetInt("CACHE_QUERY_TTL_SECONDS"),
		},
		Drive: DriveConfig{
			CredentialsFile: v.GetString("DRIVE_CREDENTIALS_FILE"),
			CustomerFolder:  v.GetString("DRIVE_CUSTOMER_FOLDER"),
			SupplierFolder:  v.GetString("DRIVE_SUPPLIER_FOLDER"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Log.Error().Err(err).Str("dir", dir).Msg("failed to create directory")
			return err
		}
	}
	return nil
}
