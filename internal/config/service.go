package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigService implements the Service interface
type ConfigService struct {
	logger Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path
func (s *ConfigService) Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	// Use test configuration file if ENV is set to test
	if os.Getenv("ENV") == "test" {
		viper.SetConfigName("config_test")
	} else {
		viper.SetConfigName("config")
	}
	viper.SetConfigType("yaml")

	s.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := s.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	if err := s.resolveTempDir(&config, path); err != nil {
		return nil, fmt.Errorf("failed to resolve temp directory: %v", err)
	}

	s.logger.LogInfo("Configuration loaded successfully", nil)
	return &config, nil
}

// setDefaults sets default values for configuration
func (s *ConfigService) setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.env", "development")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("database.pool.maxOpen", 100)
	viper.SetDefault("database.pool.maxIdle", 10)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("storage.tempDir", "temp")
	viper.SetDefault("storage.s3.namespace", "creative")
	viper.SetDefault("ffmpeg.path", "ffmpeg")
	viper.SetDefault("ffmpeg.probePath", "ffprobe")
	viper.SetDefault("ffmpeg.preset", "veryfast")
	viper.SetDefault("ffmpeg.crf", 28)
	viper.SetDefault("media.maxFileSize", int64(2)*1024*1024*1024) // 2GiB
	viper.SetDefault("media.allowedMimeTypes", []string{
		"video/mp4", "video/quicktime", "video/x-msvideo", "video/webm", "video/mpeg",
		"audio/mpeg", "audio/mp4", "audio/wav", "audio/x-wav", "audio/ogg", "audio/aac",
	})
	viper.SetDefault("media.maxConcurrentTranscodes", 2)
	viper.SetDefault("media.signedUrlTtlSeconds", 3600)
	viper.SetDefault("events.enabled", false)
	viper.SetDefault("events.topic", "persistent://public/default/media-assets")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// validate performs validation on the configuration
func (s *ConfigService) validate(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("invalid server port")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if config.Database.Dbname == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Storage.S3.Endpoint == "" {
		return fmt.Errorf("s3 endpoint is required")
	}

	if config.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3 bucket is required")
	}

	if config.Media.MaxFileSize <= 0 {
		return fmt.Errorf("media max file size must be positive")
	}

	if len(config.Media.AllowedMimeTypes) == 0 {
		return fmt.Errorf("media allowed mime types must not be empty")
	}

	return nil
}

// resolveTempDir converts a relative temp dir to an absolute path
func (s *ConfigService) resolveTempDir(config *Config, basePath string) error {
	tempDir := config.Storage.TempDir
	if !filepath.IsAbs(tempDir) {
		absPath, err := filepath.Abs(filepath.Join(basePath, tempDir))
		if err != nil {
			return fmt.Errorf("failed to resolve temp directory path: %v", err)
		}
		config.Storage.TempDir = absPath
	}
	return nil
}
