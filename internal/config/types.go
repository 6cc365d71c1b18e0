package config

import (
	"github.com/orbitads/orbit/backend/internal/logger"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Ffmpeg   FfmpegConfig   `mapstructure:"ffmpeg"`
	Media    MediaConfig    `mapstructure:"media"`
	Events   EventsConfig   `mapstructure:"events"`
	Logging  logger.Config  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server settings
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig represents PostgreSQL settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Dbname   string `mapstructure:"dbname"`
	Sslmode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
	Pool     struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
	AutoMigrate bool `mapstructure:"autoMigrate"`
}

// RedisConfig represents Redis settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig represents object storage and temp workspace settings
type StorageConfig struct {
	TempDir string   `mapstructure:"tempDir"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config represents S3-compatible storage settings
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Namespace       string `mapstructure:"namespace"`
}

// FfmpegConfig represents transcoder tool settings
type FfmpegConfig struct {
	Path      string `mapstructure:"path"`
	ProbePath string `mapstructure:"probePath"`
	Preset    string `mapstructure:"preset"`
	CRF       int    `mapstructure:"crf"`
}

// MediaConfig represents upload validation and pipeline settings
type MediaConfig struct {
	MaxFileSize             int64    `mapstructure:"maxFileSize"`
	AllowedMimeTypes        []string `mapstructure:"allowedMimeTypes"`
	MaxConcurrentTranscodes int      `mapstructure:"maxConcurrentTranscodes"`
	SignedURLTTLSeconds     int      `mapstructure:"signedUrlTtlSeconds"`
}

// EventsConfig represents the Pulsar event producer settings
type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Topic   string `mapstructure:"topic"`
}
