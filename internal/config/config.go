package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB      *Postgres `yaml:"database"`
	RMQ     *RabbitMQ `yaml:"rabbitmq"`
	Redis   *Redis    `yaml:"redis"`
	MinIO   *MinIO    `yaml:"minio"`
	Payment *Payment  `yaml:"payment"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type Redis struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MinIO struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Payment holds the bank transfer details appended to every order summary.
type Payment struct {
	Bank    string `yaml:"bank"`
	Account string `yaml:"account"`
	Name    string `yaml:"name"`
}

// LoadConfig reads the yaml config at configPath. A missing file is not an
// error: the configuration falls back to environment variables so the
// services can run from a bare container.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(), nil
		}
		return nil, err
	}
	cfg := FromEnv()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		DB: &Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "sochow"),
			Password: getEnv("POSTGRES_PASSWORD", "sochow"),
			Database: getEnv("POSTGRES_DBNAME", "sochow_db"),
		},
		RMQ: &RabbitMQ{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", "/"),
		},
		Redis: &Redis{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: &MinIO{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "sochow-uploads"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Payment: &Payment{
			Bank:    getEnv("PAYMENT_BANK", "First Bank"),
			Account: getEnv("PAYMENT_ACCOUNT", "1234567890"),
			Name:    getEnv("PAYMENT_NAME", "SOCHOW"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
