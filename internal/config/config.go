package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration loaded from config/config.yaml.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	UploadResult string `mapstructure:"upload_result"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// BusinessConfig carries the ingestion-pipeline knobs.
//
// AdminEmails replaces the operator address the legacy system hard-coded:
// a reconciled row whose email appears here is created with the admin role,
// everything else gets DefaultRole.
type BusinessConfig struct {
	AdminEmails         []string `mapstructure:"admin_emails"`
	DefaultRole         string   `mapstructure:"default_role"`
	OverdueStatusColumn string   `mapstructure:"overdue_status_column"`
	MaxUploadBytes      int64    `mapstructure:"max_upload_bytes"`
	LockTTLSeconds      int      `mapstructure:"lock_ttl_seconds"`
	MaxRetryCount       int      `mapstructure:"max_retry_count"`
}

// IsAdminEmail reports whether the email is in the configured operator list.
func (b *BusinessConfig) IsAdminEmail(email string) bool {
	for _, e := range b.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

var GlobalConfig *Config

// LoadConfig reads and parses the yaml configuration file.
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	config.applyDefaults()

	GlobalConfig = config
	return config
}

func (c *Config) applyDefaults() {
	if c.Business.DefaultRole == "" {
		c.Business.DefaultRole = "customer"
	}
	if c.Business.OverdueStatusColumn == "" {
		c.Business.OverdueStatusColumn = "L"
	}
	if c.Business.MaxUploadBytes == 0 {
		c.Business.MaxUploadBytes = 10 << 20
	}
	if c.Business.LockTTLSeconds == 0 {
		c.Business.LockTTLSeconds = 30
	}
	if c.Business.MaxRetryCount == 0 {
		c.Business.MaxRetryCount = 3
	}
}
