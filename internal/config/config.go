package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql or postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"` // postgres only
	} `yaml:"database"`

	// Admin credentials guard the audit and statistics endpoints. The
	// file values are development placeholders; any non-local deployment
	// must override them via ADMIN_USERNAME / ADMIN_PASSWORD.
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	AI struct {
		APIKey         string `yaml:"apiKey"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	History struct {
		AllowClear bool `yaml:"allowClear"`
	} `yaml:"history"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load reads the yaml file, applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets secrets and deploy-specific values come from the
// environment instead of the file.
func (c *Config) applyEnv() {
	setString(&c.Admin.Username, "ADMIN_USERNAME")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.AI.APIKey, "OPENAI_API_KEY")
	setString(&c.AI.Model, "OPENAI_MODEL")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 15
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
}

// MySQLDSN builds the MySQL connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
