package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string

	ApiServer ServerConfigs
	Database  DatabaseConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	PubSub    PubSubConfigs
	Feed      FeedConfigs
	Storage   S3Configs
	File      FileConfigs
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

// PubSubConfigs selects the change-stream transport. Driver is either
// "redis" or "kafka".
type PubSubConfigs struct {
	Driver string
	Topic  string
}

// FeedConfigs tunes the friend aggregation pipeline.
type FeedConfigs struct {
	// FanOutLimit bounds the number of concurrent per-friend loads. Zero or
	// negative means unbounded.
	FanOutLimit int

	// GatewayTimeout applies to each per-friend load. Zero means no timeout.
	GatewayTimeout time.Duration
}

type S3Configs struct {
	Endpoint       string
	PublicEndpoint string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize int64
}

// Load reads the toml configuration at path. Database and storage secrets
// may be overridden with environment variables so they stay out of the file.
func Load(path string) (Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}

	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}

	return cfg, nil
}
